package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/mail"
	"os"
	"strings"
	"time"

	"alfredoramos.mx/site-builder/jwt"
	jose_jwt "github.com/go-jose/go-jose/v4/jwt"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  string = "access"
	TokenTypeRefresh string = "refresh"
)

type UserClaimData struct {
	ID        uuid.UUID `json:"id"`
	FirstName *string   `json:"first_name,omitempty"`
	LastName  *string   `json:"last_name,omitempty"`
	Email     string    `json:"email"`
	Roles     []string  `json:"roles"`
}

type CustomJwtClaims struct {
	jose_jwt.Claims
	Type string        `json:"token_type"`
	User UserClaimData `json:"user,omitempty"`
}

// Validate checks the claims of a token of the given type at instant now.
// Revocation and user existence are checked by the middlewares.
func (c CustomJwtClaims) Validate(tokenType string, now time.Time) error {
	if c.Type != tokenType {
		return fmt.Errorf("Expected a %s token.", tokenType)
	}

	if len(c.ID) < 1 {
		return errors.New("The token ID is invalid.")
	}

	if !IsValidIssuer(c.Issuer) {
		return errors.New("The issuer is invalid.")
	}

	sub, err := uuid.Parse(c.Subject)
	if err != nil || !IsValidUuid(sub) || sub != c.User.ID {
		return errors.New("The subject is invalid.")
	}

	if !IsValidEmail(c.User.Email) {
		return errors.New("The user email is invalid.")
	}

	if c.IssuedAt == nil || now.Before(c.IssuedAt.Time()) || c.NotBefore == nil || now.Before(c.NotBefore.Time()) {
		return fmt.Errorf("The %s token is not valid yet.", tokenType)
	}

	if c.Expiry == nil || now.After(c.Expiry.Time()) {
		return fmt.Errorf("The %s token is no longer valid.", tokenType)
	}

	return nil
}

func AccessTokenContextKey() string {
	return envOrDefault("JWT_CONTEXT_KEY", "access_token")
}

// RefreshTokenContextKey is also the name of the refresh token cookie.
func RefreshTokenContextKey() string {
	return envOrDefault("JWT_REFRESH_CONTEXT_KEY", "refresh_token")
}

func ClaimsContextKey() string {
	return AccessTokenContextKey() + "_claims"
}

func ParseJWEClaims(token string) (*CustomJwtClaims, error) {
	payload, err := jwt.Open(token)
	if err != nil {
		return &CustomJwtClaims{}, err
	}

	claims := &CustomJwtClaims{}
	if err := json.Unmarshal(payload, claims); err != nil {
		return &CustomJwtClaims{}, err
	}

	return claims, nil
}

func IsValidEmail(e string) bool {
	if len(e) < 1 {
		return false
	}

	if _, err := mail.ParseAddress(e); err != nil {
		slog.Error(fmt.Sprintf("Could not parse email: %v", err))
		return false
	}

	return true
}

func IsRealEmail(e string) bool {
	if !IsValidEmail(e) {
		return false
	}

	domain := e[strings.LastIndex(e, "@")+1:]

	if apex, err := GetApexDomain(domain); err == nil {
		domain = apex
	}

	mx, err := net.LookupMX(domain)
	if err != nil {
		slog.Error(fmt.Sprintf("Could not read domain MX records: %v", err))
		return false
	}

	return len(mx) > 0
}

func GetJwtIssuer() (string, error) {
	d := os.Getenv("APP_DOMAIN")

	if IsDebug() {
		return GetDomainHostname(d)
	}

	return GetApexDomain(d)
}

func IsValidIssuer(iss string) bool {
	iss = strings.TrimSpace(iss)

	if len(iss) < 1 {
		slog.Warn("Empty issuer given.")
		return false
	}

	d, err := GetJwtIssuer()
	if err != nil || len(d) < 1 {
		return false
	}

	return d == iss
}
