package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/labstack/gommon/log"
	"golang.org/x/crypto/bcrypt"

	"uk.co.dudmesh.napbook/internal/model"
	"uk.co.dudmesh.napbook/internal/token"
)

const DefaultCost = 10

type Records interface {
	Get(ctx context.Context, key model.RecordKey) (*model.Record, error)
	Insert(ctx context.Context, entries ...*model.Record) error
}

type Issuer interface {
	Issue(userID model.UserID, key model.RecordKey, scope token.Scope) (string, error)
}

type service struct {
	records   Records
	issuer    Issuer
	authTable string
	dataTable string
	cost      int
	logger    *log.Logger
}

func New(records Records, issuer Issuer, authTable string, dataTable string, logger *log.Logger) *service {
	return &service{
		records:   records,
		issuer:    issuer,
		authTable: authTable,
		dataTable: dataTable,
		cost:      DefaultCost,
		logger:    logger,
	}
}

// Create stores the login binding and an empty data record for a new user.
func (s *service) Create(ctx context.Context, params *model.CreateUserParams) error {
	if params.UserID == "" || params.Password == "" || params.Partition == "" || params.Row == "" {
		return fmt.Errorf("creating user: %w", model.ErrorBadRequest)
	}

	passwordBytes, err := bcrypt.GenerateFromPassword([]byte(params.Password), s.cost)
	if err != nil {
		return fmt.Errorf("generating encoded password: %w", err)
	}
	encodedPassword := base64.StdEncoding.EncodeToString(passwordBytes)

	binding := &model.Record{
		RecordKey: s.bindingKey(params.UserID),
		Properties: model.Properties{
			model.PropertyPassword:      encodedPassword,
			model.PropertyDataPartition: params.Partition,
			model.PropertyDataRow:       params.Row,
		},
	}
	data := &model.Record{
		RecordKey:  model.RecordKey{Table: s.dataTable, Partition: params.Partition, Row: params.Row},
		Properties: model.Properties{},
	}

	if err := s.records.Insert(ctx, binding, data); err != nil {
		if errors.Is(err, model.ErrorConflict) {
			return fmt.Errorf("creating %s: %v: %w", params.UserID, err, model.ErrorUserExists)
		}
		return fmt.Errorf("creating %s: %w", params.UserID, err)
	}
	s.logger.Infof("created user %s at %s/%s", params.UserID, params.Partition, params.Row)
	return nil
}

// Token checks the password and issues a token scoped to the user's data record.
func (s *service) Token(ctx context.Context, userID model.UserID, password string, scope token.Scope) (string, error) {
	creds, err := s.issue(ctx, userID, password, scope)
	if err != nil {
		return "", err
	}
	return creds.Token, nil
}

// UpdateData is Token with the update scope plus the record coordinates.
func (s *service) UpdateData(ctx context.Context, userID model.UserID, password string) (*model.Credentials, error) {
	return s.issue(ctx, userID, password, token.ScopeUpdate)
}

func (s *service) issue(ctx context.Context, userID model.UserID, password string, scope token.Scope) (*model.Credentials, error) {
	if password == "" {
		return nil, fmt.Errorf("resolving %s: missing password: %w", userID, model.ErrorBadRequest)
	}

	binding, err := s.records.Get(ctx, s.bindingKey(userID))
	if err != nil {
		if errors.Is(err, model.ErrorNotFound) {
			return nil, model.ErrorInvalidUsernameOrPassword
		}
		return nil, fmt.Errorf("fetching binding of %s: %w", userID, err)
	}

	if err := checkPassword(binding.Get(model.PropertyPassword), password); err != nil {
		s.logger.Infof("rejected password for %s", userID)
		return nil, err
	}

	key := model.RecordKey{
		Table:     s.dataTable,
		Partition: binding.Get(model.PropertyDataPartition),
		Row:       binding.Get(model.PropertyDataRow),
	}
	signed, err := s.issuer.Issue(userID, key, scope)
	if err != nil {
		return nil, fmt.Errorf("issuing token for %s: %w", userID, err)
	}
	return &model.Credentials{Token: signed, Partition: key.Partition, Row: key.Row}, nil
}

func (s *service) bindingKey(userID model.UserID) model.RecordKey {
	return model.RecordKey{Table: s.authTable, Partition: model.AuthPartition, Row: string(userID)}
}

func checkPassword(encoded string, password string) error {
	hash, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return fmt.Errorf("decoding stored password: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return model.ErrorInvalidUsernameOrPassword
	}
	return nil
}
