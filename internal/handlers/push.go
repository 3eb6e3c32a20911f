package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"uk.co.dudmesh.napbook/internal/friendlist"
	"uk.co.dudmesh.napbook/internal/model"
)

type PushService interface {
	PushStatus(ctx context.Context, sender model.Friend, status string, friends []model.Friend) error
}

type pushStatusBody struct {
	Friends *string `json:"Friends"`
}

func RegisterPushRoutes(e *echo.Echo, push PushService) {
	e.POST("/PushStatus/:country/:name/:status", PushStatus(push))
	malformed(e, http.MethodPost, "PushStatus")
}

// PushStatus answers once every listed friend has been attempted.
func PushStatus(push PushService) echo.HandlerFunc {
	return func(c echo.Context) error {
		params, err := pathParams(c, "country", "name", "status")
		if err != nil {
			return httpError(err)
		}
		body := &pushStatusBody{}
		if err := bindBody(c, body); err != nil {
			return httpError(err)
		}
		if body.Friends == nil {
			return echo.NewHTTPError(http.StatusBadRequest, "missing friend list")
		}

		sender := model.Friend{Country: params[0], Name: params[1]}
		friends := friendlist.Decode(*body.Friends)
		if err := push.PushStatus(c.Request().Context(), sender, params[2], friends); err != nil {
			return httpError(err)
		}
		return c.NoContent(http.StatusOK)
	}
}
