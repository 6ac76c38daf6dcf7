package cognito

import (
	"context"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-jose/go-jose/v4"
)

// KeySet is an issuer's set of public signing keys, addressed by key id.
// It is read-only once built and safe to share between goroutines.
type KeySet struct {
	keys jose.JSONWebKeySet
}

// KeySetStore memoizes key sets by JWKS URL for the lifetime of the process.
type KeySetStore interface {
	Get(ctx context.Context, jwksURL string) (*KeySet, bool)
	Set(ctx context.Context, jwksURL string, set *KeySet)
}

func NewKeySet(keys ...jose.JSONWebKey) *KeySet {
	return &KeySet{keys: jose.JSONWebKeySet{Keys: keys}}
}

// ParseKeySet decodes a JWKS document.
func ParseKeySet(data []byte) (*KeySet, error) {
	var jwks jose.JSONWebKeySet
	if err := json.Unmarshal(data, &jwks); err != nil {
		return nil, fmt.Errorf("failed to decode key set: %w", err)
	}
	if len(jwks.Keys) == 0 {
		return nil, errors.New("key set contains no keys")
	}
	return &KeySet{keys: jwks}, nil
}

// Key returns the key registered under kid.
func (s *KeySet) Key(kid string) (*jose.JSONWebKey, bool) {
	if s == nil || kid == "" {
		return nil, false
	}
	matches := s.keys.Key(kid)
	if len(matches) == 0 {
		return nil, false
	}
	return &matches[0], true
}

func (s *KeySet) KeyIDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.keys.Keys))
	for _, k := range s.keys.Keys {
		ids = append(ids, k.KeyID)
	}
	return ids
}


// verificationKey returns the public half of key when the token's alg is one
// the key may be used with. The key's declared alg wins; without one the alg
// family is implied by the key type.
func verificationKey(key *jose.JSONWebKey, alg string) (any, error) {
	if key.Use != "" && key.Use != "sig" {
		return nil, authFailure(fmt.Sprintf("key %q is not a signing key", key.KeyID), nil)
	}

	public := key.Public()
	if public.Key == nil {
		return nil, authFailure(fmt.Sprintf("key %q has no public component", key.KeyID), nil)
	}

	allowed := allowedAlgorithms(key)
	for _, a := range allowed {
		if a == alg {
			return public.Key, nil
		}
	}
	return nil, authFailure(
		fmt.Sprintf("token algorithm %q does not match key %q (allowed %v)", alg, key.KeyID, allowed),
		nil,
	)
}

func allowedAlgorithms(key *jose.JSONWebKey) []string {
	if key.Algorithm != "" {
		return []string{key.Algorithm}
	}

	switch k := key.Public().Key.(type) {
	case *rsa.PublicKey:
		return []string{
			string(jose.RS256), string(jose.RS384), string(jose.RS512),
			string(jose.PS256), string(jose.PS384), string(jose.PS512),
		}
	case *ecdsa.PublicKey:
		switch k.Curve {
		case elliptic.P256():
			return []string{string(jose.ES256)}
		case elliptic.P384():
			return []string{string(jose.ES384)}
		case elliptic.P521():
			return []string{string(jose.ES512)}
		}
	case ed25519.PublicKey:
		return []string{string(jose.EdDSA)}
	}
	return nil
}
