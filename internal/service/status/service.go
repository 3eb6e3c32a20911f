package status

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

// Pusher delivers a status to a list of friends and returns once every
// friend has been attempted.
type Pusher interface {
	PushStatus(ctx context.Context, sender model.Friend, status string, friends []model.Friend) error
}

type service struct {
	sessions Sessions
	store    EntityStore
	pusher   Pusher
	table    string
	logger   *log.Logger
}

func New(sessions Sessions, store EntityStore, pusher Pusher, table string, logger *log.Logger) *service {
	return &service{
		sessions: sessions,
		store:    store,
		pusher:   pusher,
		table:    table,
		logger:   logger,
	}
}

// UpdateStatus overwrites the user's own Status and then pushes it to every
// friend. Per-friend outcomes are not reported back.
func (s *service) UpdateStatus(ctx context.Context, userID model.UserID, status string) error {
	session, ok := s.sessions.Lookup(userID)
	if !ok {
		return fmt.Errorf("updating status of %s: %w", userID, model.ErrorForbidden)
	}

	record, err := s.store.ReadEntityAuth(ctx, s.table, session.Token, session.Partition, session.Row)
	if err != nil {
		s.logger.Errorf("reading record of signed on user %s: %v", userID, err)
		return fmt.Errorf("reading record of %s: %w", userID, err)
	}
	friends := friendlist.Decode(record.Get(model.PropertyFriends))

	props := model.Properties{model.PropertyStatus: status}
	if err := s.store.UpdateEntityAuth(ctx, s.table, session.Token, session.Partition, session.Row, props, ""); err != nil {
		s.logger.Errorf("writing status of %s: %v", userID, err)
		return fmt.Errorf("writing status of %s: %w", userID, err)
	}

	if len(friends) == 0 {
		return nil
	}

	sender := model.Friend{Country: session.Partition, Name: session.Row}
	if err := s.pusher.PushStatus(ctx, sender, status, friends); err != nil {
		s.logger.Errorf("pushing status of %s to %d friends: %v", userID, len(friends), err)
		return fmt.Errorf("pushing status of %s: %w", userID, err)
	}
	return nil
}
