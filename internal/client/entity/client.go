// Package entity is the HTTP client of the entity store.
package entity

import (
	"context"
	"net/http"
	"time"

	"uk.co.dudmesh.napbook/internal/client"
	"uk.co.dudmesh.napbook/internal/model"
)

type entityClient struct {
	*client.Client
}

func New(baseURL string, timeout time.Duration) *entityClient {
	return &entityClient{Client: client.New(baseURL, timeout)}
}

// ResolveCredentials exchanges a password for an update token and the
// coordinates of the user's data record.
func (c *entityClient) ResolveCredentials(ctx context.Context, userID model.UserID, password string) (*model.Credentials, error) {
	creds := &model.Credentials{}
	body := &model.SignOnParams{Password: password}
	if _, err := c.DoJSON(ctx, http.MethodPost, c.Path("GetUpdateData", string(userID)), body, nil, creds); err != nil {
		return nil, err
	}
	return creds, nil
}

func (c *entityClient) ReadEntityAuth(ctx context.Context, table string, token string, partition string, row string) (*model.Record, error) {
	return c.read(ctx, c.Path("ReadEntityAuth", table, token, partition, row), model.RecordKey{Table: table, Partition: partition, Row: row})
}

func (c *entityClient) UpdateEntityAuth(ctx context.Context, table string, token string, partition string, row string, props model.Properties, ifMatch string) error {
	return c.update(ctx, c.Path("UpdateEntityAuth", table, token, partition, row), props, ifMatch)
}

func (c *entityClient) ReadEntityAdmin(ctx context.Context, table string, partition string, row string) (*model.Record, error) {
	return c.read(ctx, c.Path("ReadEntityAdmin", table, partition, row), model.RecordKey{Table: table, Partition: partition, Row: row})
}

func (c *entityClient) UpdateEntityAdmin(ctx context.Context, table string, partition string, row string, props model.Properties, ifMatch string) error {
	return c.update(ctx, c.Path("UpdateEntityAdmin", table, partition, row), props, ifMatch)
}

// CreateUser registers a login bound to a fresh data record.
func (c *entityClient) CreateUser(ctx context.Context, params *model.CreateUserParams) error {
	res, err := c.Do(ctx, http.MethodPost, c.Path("local", "user"), params, nil)
	if err != nil {
		return err
	}
	return res.Body.Close()
}

func (c *entityClient) read(ctx context.Context, target string, key model.RecordKey) (*model.Record, error) {
	props := model.Properties{}
	res, err := c.DoJSON(ctx, http.MethodGet, target, nil, nil, &props)
	if err != nil {
		return nil, err
	}
	return &model.Record{RecordKey: key, Properties: props, ETag: res.Header.Get("ETag")}, nil
}

func (c *entityClient) update(ctx context.Context, target string, props model.Properties, ifMatch string) error {
	header := http.Header{}
	if ifMatch != "" {
		header.Set("If-Match", ifMatch)
	}
	res, err := c.Do(ctx, http.MethodPut, target, props, header)
	if err != nil {
		return err
	}
	return res.Body.Close()
}
