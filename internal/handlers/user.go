package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"uk.co.dudmesh.napbook/internal/model"
)

type Sessions interface {
	SignOn(ctx context.Context, userID model.UserID, password string) error
	SignOff(userID model.UserID) error
}

type SocialService interface {
	AddFriend(ctx context.Context, userID model.UserID, friend model.Friend) error
	UnFriend(ctx context.Context, userID model.UserID, friend model.Friend) error
	ReadFriendList(ctx context.Context, userID model.UserID) (string, error)
}

type StatusService interface {
	UpdateStatus(ctx context.Context, userID model.UserID, status string) error
}

func RegisterUserRoutes(e *echo.Echo, sessions Sessions, social SocialService, status StatusService) {
	e.POST("/SignOn/:userID", SignOn(sessions))
	e.POST("/SignOff/:userID", SignOff(sessions))
	e.PUT("/AddFriend/:userID/:country/:name", AddFriend(social))
	e.PUT("/UnFriend/:userID/:country/:name", UnFriend(social))
	e.PUT("/UpdateStatus/:userID/:status", UpdateStatus(status))
	e.GET("/ReadFriendList/:userID", ReadFriendList(social))

	malformed(e, http.MethodPost, "SignOn")
	malformed(e, http.MethodPost, "SignOff")
	malformed(e, http.MethodPut, "AddFriend")
	malformed(e, http.MethodPut, "UnFriend")
	malformed(e, http.MethodPut, "UpdateStatus")
	malformed(e, http.MethodGet, "ReadFriendList")
}

func SignOn(sessions Sessions) echo.HandlerFunc {
	return func(c echo.Context) error {
		params, err := pathParams(c, "userID")
		if err != nil {
			return httpError(err)
		}
		body := &model.SignOnParams{}
		if err := bindBody(c, body); err != nil {
			return httpError(err)
		}
		if body.Password == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "missing password")
		}

		if err := sessions.SignOn(c.Request().Context(), model.UserID(params[0]), body.Password); err != nil {
			return httpError(err)
		}
		return c.NoContent(http.StatusOK)
	}
}

func SignOff(sessions Sessions) echo.HandlerFunc {
	return func(c echo.Context) error {
		params, err := pathParams(c, "userID")
		if err != nil {
			return httpError(err)
		}
		if err := sessions.SignOff(model.UserID(params[0])); err != nil {
			return httpError(err)
		}
		return c.NoContent(http.StatusOK)
	}
}

func AddFriend(social SocialService) echo.HandlerFunc {
	return func(c echo.Context) error {
		params, err := pathParams(c, "userID", "country", "name")
		if err != nil {
			return httpError(err)
		}
		friend := model.Friend{Country: params[1], Name: params[2]}
		if err := social.AddFriend(c.Request().Context(), model.UserID(params[0]), friend); err != nil {
			return httpError(err)
		}
		return c.NoContent(http.StatusOK)
	}
}

func UnFriend(social SocialService) echo.HandlerFunc {
	return func(c echo.Context) error {
		params, err := pathParams(c, "userID", "country", "name")
		if err != nil {
			return httpError(err)
		}
		friend := model.Friend{Country: params[1], Name: params[2]}
		if err := social.UnFriend(c.Request().Context(), model.UserID(params[0]), friend); err != nil {
			return httpError(err)
		}
		return c.NoContent(http.StatusOK)
	}
}

func UpdateStatus(status StatusService) echo.HandlerFunc {
	return func(c echo.Context) error {
		params, err := pathParams(c, "userID", "status")
		if err != nil {
			return httpError(err)
		}
		if err := status.UpdateStatus(c.Request().Context(), model.UserID(params[0]), params[1]); err != nil {
			return httpError(err)
		}
		return c.NoContent(http.StatusOK)
	}
}

func ReadFriendList(social SocialService) echo.HandlerFunc {
	return func(c echo.Context) error {
		params, err := pathParams(c, "userID")
		if err != nil {
			return httpError(err)
		}
		friends, err := social.ReadFriendList(c.Request().Context(), model.UserID(params[0]))
		if err != nil {
			return httpError(err)
		}
		return c.JSON(http.StatusOK, map[string]string{model.PropertyFriends: friends})
	}
}
