// Package token issues and verifies the scoped access tokens the entity
// store hands out on a successful login.
package token

import (
	"crypto/ecdsa"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"uk.co.dudmesh.napbook/internal/model"
)

type Scope string

const (
	ScopeRead   Scope = "read"
	ScopeUpdate Scope = "update"
)

// Claims bind a token to exactly one record.
type Claims struct {
	jwt.StandardClaims
	Table     string `json:"tbl"`
	Partition string `json:"prt"`
	Row       string `json:"row"`
	Scope     Scope  `json:"scp"`
}

// Allows reports whether the token opens the record for the given scope. An
// update token can also read.
func (c *Claims) Allows(key model.RecordKey, scope Scope) bool {
	if c.Table != key.Table || c.Partition != key.Partition || c.Row != key.Row {
		return false
	}
	return c.Scope == scope || c.Scope == ScopeUpdate
}

type issuer struct {
	key *ecdsa.PrivateKey
	ttl time.Duration
}

func NewIssuer(key *ecdsa.PrivateKey, ttl time.Duration) *issuer {
	return &issuer{key: key, ttl: ttl}
}

func (i *issuer) Issue(userID model.UserID, key model.RecordKey, scope Scope) (string, error) {
	now := time.Now().UTC()
	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Id:        model.CreateID(),
			Subject:   string(userID),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(i.ttl).Unix(),
		},
		Table:     key.Table,
		Partition: key.Partition,
		Row:       key.Row,
		Scope:     scope,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodES256, claims).SignedString(i.key)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify fails with ErrorForbidden for anything but a valid token signed by
// this issuer.
func (i *issuer) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodECDSA); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return &i.key.PublicKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("verifying token: %v: %w", err, model.ErrorForbidden)
	}
	return claims, nil
}
