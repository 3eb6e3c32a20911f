// Package session holds the process-wide table of signed-on users.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/labstack/gommon/log"
	"uk.co.dudmesh.napbook/internal/metrics"
	"uk.co.dudmesh.napbook/internal/model"
)

// Resolver is the slice of the entity store a sign-on needs.
type Resolver interface {
	ResolveCredentials(ctx context.Context, userID model.UserID, password string) (*model.Credentials, error)
	ReadEntityAuth(ctx context.Context, table string, token string, partition string, row string) (*model.Record, error)
}

// Registry maps a user to its session. Every access goes through SignOn,
// SignOff and Lookup so that check-then-insert is atomic per user.
type Registry struct {
	mu       sync.RWMutex
	sessions map[model.UserID]model.Session
	resolver Resolver
	table    string
	logger   *log.Logger
}

func New(resolver Resolver, table string, logger *log.Logger) *Registry {
	return &Registry{
		sessions: make(map[model.UserID]model.Session),
		resolver: resolver,
		table:    table,
		logger:   logger,
	}
}

// SignOn resolves the credentials and checks the bound record can be read
// before creating a session. An existing session is left as it is.
func (r *Registry) SignOn(ctx context.Context, userID model.UserID, password string) error {
	creds, err := r.resolver.ResolveCredentials(ctx, userID, password)
	if err != nil {
		r.logger.Infof("sign on %s: resolving credentials: %v", userID, err)
		return signOnError(err)
	}

	if _, err := r.resolver.ReadEntityAuth(ctx, r.table, creds.Token, creds.Partition, creds.Row); err != nil {
		r.logger.Warnf("sign on %s: reading %s/%s: %v", userID, creds.Partition, creds.Row, err)
		return signOnError(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[userID]; ok {
		r.logger.Debugf("sign on %s: already signed on", userID)
		return nil
	}
	r.sessions[userID] = model.Session{
		UserID:    userID,
		Token:     creds.Token,
		Partition: creds.Partition,
		Row:       creds.Row,
	}
	metrics.Sessions.Set(float64(len(r.sessions)))
	r.logger.Infof("sign on %s: session created", userID)
	return nil
}

func (r *Registry) SignOff(userID model.UserID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[userID]; !ok {
		return fmt.Errorf("signing off %s: %w", userID, model.ErrorNotFound)
	}
	delete(r.sessions, userID)
	metrics.Sessions.Set(float64(len(r.sessions)))
	r.logger.Infof("sign off %s", userID)
	return nil
}

func (r *Registry) Lookup(userID model.UserID) (model.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[userID]
	return session, ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}

// signOnError folds every store failure into NotFound. Unavailable passes
// through so a dead entity store is not reported as a bad password.
func signOnError(err error) error {
	if errors.Is(err, model.ErrorUnavailable) {
		return fmt.Errorf("signing on: %w", err)
	}
	return fmt.Errorf("signing on: %v: %w", err, model.ErrorNotFound)
}
