package jwt

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/go-jose/go-jose/v4"
)

var (
	signKeyPair  *KeyPair
	signer       jose.Signer
	onceSignKeys sync.Once
	onceSigner   sync.Once
)

func SigningKeys() *KeyPair {
	onceSignKeys.Do(func() {
		signKeyPair = mustLoadKeyPair("signing")
	})

	return signKeyPair
}

func Signer() jose.Signer {
	onceSigner.Do(func() {
		sig, err := jose.NewSigner(
			jose.SigningKey{Algorithm: jose.EdDSA, Key: &SigningKeys().Private},
			(&jose.SignerOptions{}).WithType("JWT"),
		)
		if err != nil {
			slog.Error(fmt.Sprintf("Could not create signer: %v", err))
			os.Exit(1)
		}

		signer = sig
	})

	return signer
}

func Verify(token string) ([]byte, error) {
	parsed, err := jose.ParseSigned(token, []jose.SignatureAlgorithm{jose.EdDSA})
	if err != nil {
		return nil, fmt.Errorf("Error parsing JWT: %w", err)
	}

	payload, err := parsed.Verify(SigningKeys().Public)
	if err != nil {
		return nil, fmt.Errorf("Error verifying JWT: %w", err)
	}

	return payload, nil
}
