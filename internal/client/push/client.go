// Package push is the HTTP client the user-server uses to reach the push
// server.
package push

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"uk.co.dudmesh.napbook/internal/client"
	"uk.co.dudmesh.napbook/internal/friendlist"
	"uk.co.dudmesh.napbook/internal/model"
)

type pushClient struct {
	*client.Client
}

func New(baseURL string, timeout time.Duration) *pushClient {
	return &pushClient{Client: client.New(baseURL, timeout)}
}

// PushStatus hands the fan-out to the push server and waits for it to finish.
// Anything but success or a rejected request counts as the push server being
// unavailable.
func (c *pushClient) PushStatus(ctx context.Context, sender model.Friend, status string, friends []model.Friend) error {
	body := map[string]string{model.PropertyFriends: friendlist.Encode(friends)}
	res, err := c.Do(ctx, http.MethodPost, c.Path("PushStatus", sender.Country, sender.Name, status), body, nil)
	if err != nil {
		if errors.Is(err, model.ErrorBadRequest) || errors.Is(err, model.ErrorUnavailable) {
			return err
		}
		return fmt.Errorf("%v: %w", err, model.ErrorUnavailable)
	}
	return res.Body.Close()
}
