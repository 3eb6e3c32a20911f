package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"uk.co.dudmesh.napbook/internal/model"
	"uk.co.dudmesh.napbook/internal/token"
)

type Records interface {
	Get(ctx context.Context, key model.RecordKey) (*model.Record, error)
	Merge(ctx context.Context, key model.RecordKey, props model.Properties, ifMatch string) (*model.Record, error)
}

type Verifier interface {
	Verify(tokenString string) (*token.Claims, error)
}

type AuthService interface {
	Create(ctx context.Context, params *model.CreateUserParams) error
	Token(ctx context.Context, userID model.UserID, password string, scope token.Scope) (string, error)
	UpdateData(ctx context.Context, userID model.UserID, password string) (*model.Credentials, error)
}

func RegisterEntityRoutes(e *echo.Echo, records Records, verifier Verifier, auth AuthService) {
	e.GET("/ReadEntityAdmin/:table/:partition/:row", ReadEntityAdmin(records))
	e.PUT("/UpdateEntityAdmin/:table/:partition/:row", UpdateEntityAdmin(records))
	e.GET("/ReadEntityAuth/:table/:token/:partition/:row", ReadEntityAuth(records, verifier))
	e.PUT("/UpdateEntityAuth/:table/:token/:partition/:row", UpdateEntityAuth(records, verifier))
	e.POST("/GetReadToken/:userID", GetToken(auth, token.ScopeRead))
	e.POST("/GetUpdateToken/:userID", GetToken(auth, token.ScopeUpdate))
	e.POST("/GetUpdateData/:userID", GetUpdateData(auth))
	e.POST("/local/user", CreateUser(auth))

	malformed(e, http.MethodGet, "ReadEntityAdmin")
	malformed(e, http.MethodPut, "UpdateEntityAdmin")
	malformed(e, http.MethodGet, "ReadEntityAuth")
	malformed(e, http.MethodPut, "UpdateEntityAuth")
	malformed(e, http.MethodPost, "GetReadToken")
	malformed(e, http.MethodPost, "GetUpdateToken")
	malformed(e, http.MethodPost, "GetUpdateData")
}

// entityError differs from httpError in reporting a failed If-Match as 412.
func entityError(err error) error {
	if errors.Is(err, model.ErrorConflict) && !errors.Is(err, model.ErrorUserExists) {
		return echo.NewHTTPError(http.StatusPreconditionFailed).SetInternal(err)
	}
	return httpError(err)
}

func ReadEntityAdmin(records Records) echo.HandlerFunc {
	return func(c echo.Context) error {
		params, err := pathParams(c, "table", "partition", "row")
		if err != nil {
			return entityError(err)
		}
		key := model.RecordKey{Table: params[0], Partition: params[1], Row: params[2]}
		return readRecord(c, records, key)
	}
}

func UpdateEntityAdmin(records Records) echo.HandlerFunc {
	return func(c echo.Context) error {
		params, err := pathParams(c, "table", "partition", "row")
		if err != nil {
			return entityError(err)
		}
		key := model.RecordKey{Table: params[0], Partition: params[1], Row: params[2]}
		return mergeRecord(c, records, key)
	}
}

func ReadEntityAuth(records Records, verifier Verifier) echo.HandlerFunc {
	return func(c echo.Context) error {
		key, err := authorize(c, verifier, token.ScopeRead)
		if err != nil {
			return entityError(err)
		}
		return readRecord(c, records, key)
	}
}

func UpdateEntityAuth(records Records, verifier Verifier) echo.HandlerFunc {
	return func(c echo.Context) error {
		key, err := authorize(c, verifier, token.ScopeUpdate)
		if err != nil {
			return entityError(err)
		}
		return mergeRecord(c, records, key)
	}
}

func authorize(c echo.Context, verifier Verifier, scope token.Scope) (model.RecordKey, error) {
	params, err := pathParams(c, "table", "token", "partition", "row")
	if err != nil {
		return model.RecordKey{}, err
	}
	key := model.RecordKey{Table: params[0], Partition: params[2], Row: params[3]}

	claims, err := verifier.Verify(params[1])
	if err != nil {
		return key, err
	}
	if !claims.Allows(key, scope) {
		return key, fmt.Errorf("token of %s does not grant %s on %s/%s/%s: %w",
			claims.Subject, scope, key.Table, key.Partition, key.Row, model.ErrorForbidden)
	}
	return key, nil
}

func readRecord(c echo.Context, records Records, key model.RecordKey) error {
	record, err := records.Get(c.Request().Context(), key)
	if err != nil {
		return entityError(err)
	}
	c.Response().Header().Set(HeaderETag, record.ETag)
	return c.JSON(http.StatusOK, record.Properties)
}

func mergeRecord(c echo.Context, records Records, key model.RecordKey) error {
	var props model.Properties
	if err := bindBody(c, &props); err != nil {
		return entityError(err)
	}
	if props == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing properties")
	}

	record, err := records.Merge(c.Request().Context(), key, props, c.Request().Header.Get(HeaderIfMatch))
	if err != nil {
		return entityError(err)
	}
	c.Response().Header().Set(HeaderETag, record.ETag)
	return c.NoContent(http.StatusOK)
}

func GetToken(auth AuthService, scope token.Scope) echo.HandlerFunc {
	return func(c echo.Context) error {
		params, err := pathParams(c, "userID")
		if err != nil {
			return entityError(err)
		}
		body := &model.SignOnParams{}
		if err := bindBody(c, body); err != nil {
			return entityError(err)
		}
		signed, err := auth.Token(c.Request().Context(), model.UserID(params[0]), body.Password, scope)
		if err != nil {
			return entityError(err)
		}
		return c.JSON(http.StatusOK, signed)
	}
}

func GetUpdateData(auth AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		params, err := pathParams(c, "userID")
		if err != nil {
			return entityError(err)
		}
		body := &model.SignOnParams{}
		if err := bindBody(c, body); err != nil {
			return entityError(err)
		}
		creds, err := auth.UpdateData(c.Request().Context(), model.UserID(params[0]), body.Password)
		if err != nil {
			return entityError(err)
		}
		return c.JSON(http.StatusOK, creds)
	}
}

func CreateUser(auth AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		params := &model.CreateUserParams{}
		if err := bindBody(c, params); err != nil {
			return entityError(err)
		}
		if err := auth.Create(c.Request().Context(), params); err != nil {
			return entityError(err)
		}
		return c.NoContent(http.StatusCreated)
	}
}
