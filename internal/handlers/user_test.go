package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"uk.co.dudmesh.napbook/internal/model"
	"uk.co.dudmesh.napbook/internal/service/push"
	"uk.co.dudmesh.napbook/internal/service/social"
	"uk.co.dudmesh.napbook/internal/service/status"
	"uk.co.dudmesh.napbook/internal/session"
	"uk.co.dudmesh.napbook/internal/testutil"
)

const dataTable = "DataTable"

type unreachablePusher struct{}

func (unreachablePusher) PushStatus(ctx context.Context, sender model.Friend, status string, friends []model.Friend) error {
	return fmt.Errorf("dialing: %w", model.ErrorUnavailable)
}

func newUserServer(pusher status.Pusher) (*echo.Echo, *testutil.EntityStore) {
	store := testutil.NewEntityStore()
	store.AddUser(dataTable, "alice", "pw", "C1", "A", model.Properties{})
	store.AddUser(dataTable, "bob", "pw", "C2", "F2", model.Properties{})

	logger := testutil.MakeNoopLogger()
	if pusher == nil {
		pusher = push.New(store, dataTable, 2, logger)
	}
	registry := session.New(store, dataTable, logger)
	e := echo.New()
	RegisterUserRoutes(e, registry,
		social.New(registry, store, dataTable, logger),
		status.New(registry, store, pusher, dataTable, logger))
	return e, store
}

func serve(e *echo.Echo, method string, target string, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func friendsOf(t *testing.T, e *echo.Echo, userID string) string {
	rec := serve(e, http.MethodGet, "/ReadFriendList/"+userID, "")
	if !assert.Equal(t, http.StatusOK, rec.Code) {
		return ""
	}
	body := map[string]string{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["Friends"]
}

func TestSignOnOff(t *testing.T) {
	assert := assert.New(t)
	e, _ := newUserServer(nil)

	assert.Equal(http.StatusBadRequest, serve(e, http.MethodPost, "/SignOn/alice", "").Code)
	assert.Equal(http.StatusNotFound, serve(e, http.MethodPost, "/SignOn/alice", `{"Password":"nope"}`).Code)
	assert.Equal(http.StatusNotFound, serve(e, http.MethodPost, "/SignOn/carol", `{"Password":"pw"}`).Code)
	assert.Equal(http.StatusOK, serve(e, http.MethodPost, "/SignOn/alice", `{"Password":"pw"}`).Code)
	assert.Equal(http.StatusOK, serve(e, http.MethodPost, "/SignOn/alice", `{"Password":"pw"}`).Code)

	assert.Equal(http.StatusOK, serve(e, http.MethodPost, "/SignOff/alice", "").Code)
	assert.Equal(http.StatusNotFound, serve(e, http.MethodPost, "/SignOff/alice", "").Code)
	assert.Equal(http.StatusBadRequest, serve(e, http.MethodPost, "/SignOff/alice/extra", "").Code)
	assert.Equal(http.StatusMethodNotAllowed, serve(e, http.MethodGet, "/SignOff/alice", "").Code)
}

func TestFriendRoutes(t *testing.T) {
	assert := assert.New(t)
	e, store := newUserServer(nil)

	assert.Equal(http.StatusForbidden, serve(e, http.MethodPut, "/AddFriend/alice/C1/F1", "").Code)
	assert.Equal(http.StatusForbidden, serve(e, http.MethodGet, "/ReadFriendList/alice", "").Code)
	assert.Equal(0, store.WriteCount())

	assert.Equal(http.StatusOK, serve(e, http.MethodPost, "/SignOn/alice", `{"Password":"pw"}`).Code)
	assert.Equal(http.StatusOK, serve(e, http.MethodPut, "/AddFriend/alice/C1/F1", "").Code)
	assert.Equal(http.StatusOK, serve(e, http.MethodPut, "/AddFriend/alice/C2/F2", "").Code)
	assert.Equal(http.StatusOK, serve(e, http.MethodPut, "/AddFriend/alice/C2/F2", "").Code)
	assert.Equal("C1;F1|C2;F2", friendsOf(t, e, "alice"))

	assert.Equal(http.StatusBadRequest, serve(e, http.MethodPut, "/AddFriend/alice/C3", "").Code)
	assert.Equal(http.StatusBadRequest, serve(e, http.MethodPut, "/AddFriend/alice/C;3/F3", "").Code)
	assert.Equal(http.StatusMethodNotAllowed, serve(e, http.MethodGet, "/AddFriend/alice/C3/F3", "").Code)

	assert.Equal(http.StatusOK, serve(e, http.MethodPut, "/UnFriend/alice/C1/F1", "").Code)
	assert.Equal(http.StatusOK, serve(e, http.MethodPut, "/UnFriend/alice/C9/F9", "").Code)
	assert.Equal("C2;F2", friendsOf(t, e, "alice"))

	assert.Equal(http.StatusOK, serve(e, http.MethodPut, "/AddFriend/alice/New%20Zealand/F%2F3", "").Code)
	assert.Equal("C2;F2|New Zealand;F/3", friendsOf(t, e, "alice"))
}

func TestExtraPathSegments(t *testing.T) {
	assert := assert.New(t)
	e, store := newUserServer(nil)

	assert.Equal(http.StatusOK, serve(e, http.MethodPost, "/SignOn/alice", `{"Password":"pw"}`).Code)
	assert.Equal(http.StatusOK, serve(e, http.MethodPut, "/AddFriend/alice/C2/F2", "").Code)
	writes := store.WriteCount()

	for _, request := range []struct {
		method string
		target string
	}{
		{http.MethodPut, "/AddFriend/alice/C3/F3/extra"},
		{http.MethodPut, "/UnFriend/alice/C2/F2/extra"},
		{http.MethodPut, "/UpdateStatus/alice/a/b"},
		{http.MethodGet, "/ReadFriendList/alice/extra"},
		{http.MethodPost, "/SignOn/alice/extra"},
		{http.MethodPost, "/SignOff/alice/extra"},
	} {
		assert.Equal(http.StatusBadRequest, serve(e, request.method, request.target, "").Code, request.target)
	}

	assert.Equal(writes, store.WriteCount())
	assert.Equal("C2;F2", friendsOf(t, e, "alice"))
	assert.Empty(store.Props(model.RecordKey{Table: dataTable, Partition: "C1", Row: "A"})[model.PropertyStatus])
}

func TestUpdateStatusRoute(t *testing.T) {
	assert := assert.New(t)

	t.Run("delivers to friends", func(t *testing.T) {
		e, store := newUserServer(nil)
		assert.Equal(http.StatusForbidden, serve(e, http.MethodPut, "/UpdateStatus/alice/hello", "").Code)

		serve(e, http.MethodPost, "/SignOn/alice", `{"Password":"pw"}`)
		serve(e, http.MethodPut, "/AddFriend/alice/C2/F2", "")
		serve(e, http.MethodPut, "/AddFriend/alice/C3/F3", "")

		assert.Equal(http.StatusOK, serve(e, http.MethodPut, "/UpdateStatus/alice/hello", "").Code)
		assert.Equal(http.StatusOK, serve(e, http.MethodPut, "/UpdateStatus/alice/world", "").Code)
		assert.Equal("hello\nworld", store.Props(model.RecordKey{Table: dataTable, Partition: "C2", Row: "F2"})[model.PropertyUpdates])
		assert.Equal("world", store.Props(model.RecordKey{Table: dataTable, Partition: "C1", Row: "A"})[model.PropertyStatus])

		assert.Equal(http.StatusBadRequest, serve(e, http.MethodPut, "/UpdateStatus/alice", "").Code)
	})

	t.Run("push server unreachable", func(t *testing.T) {
		e, _ := newUserServer(unreachablePusher{})
		serve(e, http.MethodPost, "/SignOn/alice", `{"Password":"pw"}`)
		serve(e, http.MethodPut, "/AddFriend/alice/C2/F2", "")

		assert.Equal(http.StatusServiceUnavailable, serve(e, http.MethodPut, "/UpdateStatus/alice/hello", "").Code)
	})
}
