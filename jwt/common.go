package jwt

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-jose/go-jose/v4"
)

type KeyPair struct {
	Public  jose.JSONWebKey
	Private jose.JSONWebKey
}

func keyBasePath() string {
	p := strings.TrimSpace(os.Getenv("JWT_KEYS_PATH"))

	if len(p) < 1 {
		p = "keys"
	}

	return p
}

// LoadKeyPair reads <name>-public.json and <name>-private.json JWKs.
func LoadKeyPair(basePath string, name string) (*KeyPair, error) {
	pair := &KeyPair{}

	keys := []struct {
		kind string
		jwk  *jose.JSONWebKey
	}{
		{"public", &pair.Public},
		{"private", &pair.Private},
	}

	for _, k := range keys {
		buffer, err := os.ReadFile(filepath.Clean(filepath.Join(basePath, fmt.Sprintf("%s-%s.json", name, k.kind))))
		if err != nil {
			return nil, fmt.Errorf("Could not read %s %s key: %w", name, k.kind, err)
		}

		if err := json.Unmarshal(buffer, k.jwk); err != nil {
			return nil, fmt.Errorf("Could not decode %s %s key: %w", name, k.kind, err)
		}
	}

	return pair, nil
}

func mustLoadKeyPair(name string) *KeyPair {
	pair, err := LoadKeyPair(keyBasePath(), name)
	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}

	return pair
}

// Seal signs the claims payload and encrypts the resulting JWT.
func Seal(payload []byte) (string, error) {
	jws, err := Signer().Sign(payload)
	if err != nil {
		return "", fmt.Errorf("Error generating JWT: %w", err)
	}

	jwtStr, err := jws.CompactSerialize()
	if err != nil {
		return "", fmt.Errorf("Error serializing JWT: %w", err)
	}

	jwe, err := Encrypter().Encrypt([]byte(jwtStr))
	if err != nil {
		return "", fmt.Errorf("Error generating JWE: %w", err)
	}

	return jwe.CompactSerialize()
}

// Open decrypts a token produced by Seal and returns the verified payload.
func Open(token string) ([]byte, error) {
	decrypted, err := Decrypt(token)
	if err != nil {
		return nil, err
	}

	return Verify(string(decrypted))
}
