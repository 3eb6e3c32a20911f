package token

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"errors"
	"fmt"
	"os"

	"github.com/rakutentech/jwk-go/jwk"
)

func EncodePrivateKey(privateKey *ecdsa.PrivateKey, keyID string) (string, error) {
	ks := jwk.NewSpec(privateKey)
	rawJWK, err := ks.ToJWK()
	if err != nil {
		return "", fmt.Errorf("creating JWK: %w", err)
	}

	rawJWK.Use = "sig"
	rawJWK.Alg = "ES256"
	rawJWK.Kid = keyID

	keyData, err := rawJWK.MarshalJSON()
	if err != nil {
		return "", fmt.Errorf("marshalling JWK: %w", err)
	}
	return string(keyData), nil
}

func DecodePrivateKey(keyData string) (*ecdsa.PrivateKey, error) {
	keySpec, err := jwk.Parse(keyData)
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}

	privateKey, ok := keySpec.Key.(*ecdsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("expected an EC private key, got %T", keySpec.Key)
	}
	return privateKey, nil
}

// LoadOrCreateKey reads the signing key stored at path, generating and
// saving a new P-256 key the first time.
func LoadOrCreateKey(path string, keyID string) (*ecdsa.PrivateKey, error) {
	keyData, err := os.ReadFile(path)
	if err == nil {
		return DecodePrivateKey(string(keyData))
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading signing key: %w", err)
	}

	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generating signing key: %w", err)
	}
	encoded, err := EncodePrivateKey(privateKey, keyID)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, []byte(encoded), 0600); err != nil {
		return nil, fmt.Errorf("saving signing key: %w", err)
	}
	return privateKey, nil
}
