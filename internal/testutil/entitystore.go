package testutil

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"uk.co.dudmesh.napbook/internal/model"
)

type fakeUser struct {
	password  string
	partition string
	row       string
}

// EntityStore is an in-memory stand-in for the entity store client. Tokens
// are "token:<partition>/<row>" and only open their own record.
type EntityStore struct {
	mu      sync.Mutex
	records map[model.RecordKey]*model.Record
	users   map[model.UserID]fakeUser
	version int

	Writes      int
	WriteErrors map[model.RecordKey]error
	ReadErrors  map[model.RecordKey]error
	OnWrite     func(key model.RecordKey)
}

func NewEntityStore() *EntityStore {
	return &EntityStore{
		records:     make(map[model.RecordKey]*model.Record),
		users:       make(map[model.UserID]fakeUser),
		WriteErrors: make(map[model.RecordKey]error),
		ReadErrors:  make(map[model.RecordKey]error),
	}
}

func TokenFor(partition, row string) string {
	return "token:" + partition + "/" + row
}

func (s *EntityStore) AddUser(table string, userID model.UserID, password, partition, row string, props model.Properties) {
	s.mu.Lock()
	s.users[userID] = fakeUser{password, partition, row}
	s.mu.Unlock()
	s.Put(model.RecordKey{Table: table, Partition: partition, Row: row}, props)
}

func (s *EntityStore) Put(key model.RecordKey, props model.Properties) {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := model.Properties{}
	for k, v := range props {
		copied[k] = v
	}
	s.version++
	s.records[key] = &model.Record{RecordKey: key, Properties: copied, ETag: strconv.Itoa(s.version)}
}

// Props returns a copy of the stored properties, nil when there is no record.
func (s *EntityStore) Props(key model.RecordKey) model.Properties {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[key]
	if !ok {
		return nil
	}
	copied := model.Properties{}
	for k, v := range record.Properties {
		copied[k] = v
	}
	return copied
}

func (s *EntityStore) WriteCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Writes
}

func (s *EntityStore) ResolveCredentials(ctx context.Context, userID model.UserID, password string) (*model.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok || user.password != password {
		return nil, model.ErrorInvalidUsernameOrPassword
	}
	return &model.Credentials{Token: TokenFor(user.partition, user.row), Partition: user.partition, Row: user.row}, nil
}

func (s *EntityStore) ReadEntityAuth(ctx context.Context, table string, token string, partition string, row string) (*model.Record, error) {
	if token != TokenFor(partition, row) {
		return nil, model.ErrorForbidden
	}
	return s.ReadEntityAdmin(ctx, table, partition, row)
}

func (s *EntityStore) UpdateEntityAuth(ctx context.Context, table string, token string, partition string, row string, props model.Properties, ifMatch string) error {
	if token != TokenFor(partition, row) {
		return model.ErrorForbidden
	}
	return s.UpdateEntityAdmin(ctx, table, partition, row, props, ifMatch)
}

func (s *EntityStore) ReadEntityAdmin(ctx context.Context, table string, partition string, row string) (*model.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := model.RecordKey{Table: table, Partition: partition, Row: row}
	if err := s.ReadErrors[key]; err != nil {
		return nil, err
	}
	record, ok := s.records[key]
	if !ok {
		return nil, fmt.Errorf("reading %s/%s: %w", partition, row, model.ErrorNotFound)
	}
	copied := &model.Record{RecordKey: key, Properties: model.Properties{}, ETag: record.ETag}
	for k, v := range record.Properties {
		copied.Properties[k] = v
	}
	return copied, nil
}

func (s *EntityStore) UpdateEntityAdmin(ctx context.Context, table string, partition string, row string, props model.Properties, ifMatch string) error {
	key := model.RecordKey{Table: table, Partition: partition, Row: row}

	s.mu.Lock()
	onWrite := s.OnWrite
	s.mu.Unlock()
	if onWrite != nil {
		onWrite(key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.WriteErrors[key]; err != nil {
		return err
	}
	record, ok := s.records[key]
	if !ok {
		return fmt.Errorf("updating %s/%s: %w", partition, row, model.ErrorNotFound)
	}
	if ifMatch != "" && ifMatch != record.ETag {
		return fmt.Errorf("updating %s/%s: %w", partition, row, model.ErrorConflict)
	}
	for k, v := range props {
		record.Properties[k] = v
	}
	s.version++
	record.ETag = strconv.Itoa(s.version)
	s.Writes++
	return nil
}
