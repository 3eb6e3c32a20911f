package social

import (
	"context"
	"fmt"

	"github.com/labstack/gommon/log"
	"uk.co.dudmesh.napbook/internal/friendlist"
	"uk.co.dudmesh.napbook/internal/model"
)

type Sessions interface {
	Lookup(userID model.UserID) (model.Session, bool)
}

type EntityStore interface {
	ReadEntityAuth(ctx context.Context, table string, token string, partition string, row string) (*model.Record, error)
	UpdateEntityAuth(ctx context.Context, table string, token string, partition string, row string, props model.Properties, ifMatch string) error
}

type service struct {
	sessions Sessions
	store    EntityStore
	table    string
	logger   *log.Logger
}

func New(sessions Sessions, store EntityStore, table string, logger *log.Logger) *service {
	return &service{
		sessions: sessions,
		store:    store,
		table:    table,
		logger:   logger,
	}
}

func (s *service) AddFriend(ctx context.Context, userID model.UserID, friend model.Friend) error {
	session, ok := s.sessions.Lookup(userID)
	if !ok {
		return fmt.Errorf("adding friend for %s: %w", userID, model.ErrorForbidden)
	}
	if !friendlist.Valid(friend) {
		return fmt.Errorf("adding friend %q: %w", friend, model.ErrorBadRequest)
	}

	record, err := s.fetch(ctx, session)
	if err != nil {
		return err
	}

	friends, changed := friendlist.Append(friendlist.Decode(record.Get(model.PropertyFriends)), friend)
	if !changed {
		s.logger.Debugf("add friend %s: %s already listed", userID, friend)
		return nil
	}

	return s.save(ctx, session, record, friends)
}

// UnFriend writes the list back even when nothing matched.
func (s *service) UnFriend(ctx context.Context, userID model.UserID, friend model.Friend) error {
	session, ok := s.sessions.Lookup(userID)
	if !ok {
		return fmt.Errorf("unfriending for %s: %w", userID, model.ErrorForbidden)
	}

	record, err := s.fetch(ctx, session)
	if err != nil {
		return err
	}

	friends, removed := friendlist.Remove(friendlist.Decode(record.Get(model.PropertyFriends)), friend)
	s.logger.Debugf("unfriend %s: removed %d entries for %s", userID, removed, friend)

	return s.save(ctx, session, record, friends)
}

func (s *service) ReadFriendList(ctx context.Context, userID model.UserID) (string, error) {
	session, ok := s.sessions.Lookup(userID)
	if !ok {
		return "", fmt.Errorf("reading friends of %s: %w", userID, model.ErrorForbidden)
	}

	record, err := s.fetch(ctx, session)
	if err != nil {
		return "", err
	}
	return record.Get(model.PropertyFriends), nil
}

func (s *service) fetch(ctx context.Context, session model.Session) (*model.Record, error) {
	record, err := s.store.ReadEntityAuth(ctx, s.table, session.Token, session.Partition, session.Row)
	if err != nil {
		s.logger.Errorf("reading record of signed on user %s: %v", session.UserID, err)
		return nil, fmt.Errorf("reading record of %s: %w", session.UserID, err)
	}
	return record, nil
}

// save writes the list back only if the record is unchanged since fetch.
func (s *service) save(ctx context.Context, session model.Session, record *model.Record, friends []model.Friend) error {
	props := model.Properties{model.PropertyFriends: friendlist.Encode(friends)}
	err := s.store.UpdateEntityAuth(ctx, s.table, session.Token, session.Partition, session.Row, props, record.ETag)
	if err != nil {
		s.logger.Errorf("writing friend list of %s: %v", session.UserID, err)
		return fmt.Errorf("writing friend list of %s: %w", session.UserID, err)
	}
	return nil
}
