package helpers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"alfredoramos.mx/site-builder/app"
	"alfredoramos.mx/site-builder/jwt"
	"alfredoramos.mx/site-builder/models"
	"alfredoramos.mx/site-builder/utils"
	"github.com/getsentry/sentry-go"
	jose_jwt "github.com/go-jose/go-jose/v4/jwt"
	"github.com/google/uuid"
	"github.com/redis/rueidis"
)

func NewAccessToken(u *models.User) (string, error) {
	return newToken(u, utils.TokenTypeAccess, utils.AccessTokenExpiration())
}

func NewRefreshToken(u *models.User) (string, error) {
	return newToken(u, utils.TokenTypeRefresh, utils.RefreshTokenExpiration())
}

func newToken(u *models.User, tokenType string, expiration time.Duration) (string, error) {
	roles, err := GetUserRoles(u.ID)
	if err != nil {
		sentry.CaptureException(err)
		return "", fmt.Errorf("User roles error: %w", err)
	}

	issuer, err := utils.GetJwtIssuer()
	if err != nil {
		sentry.CaptureException(err)
		return "", fmt.Errorf("Invalid %s token issuer '%s': %w", tokenType, issuer, err)
	}

	now := time.Now().In(utils.DefaultLocation())

	claims := &utils.CustomJwtClaims{
		Claims: jose_jwt.Claims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   u.ID.String(),
			IssuedAt:  jose_jwt.NewNumericDate(now),
			NotBefore: jose_jwt.NewNumericDate(now),
			Expiry:    jose_jwt.NewNumericDate(now.Add(expiration)),
		},
		Type: tokenType,
		User: utils.UserClaimData{
			ID:    u.ID,
			Email: u.Email,
			Roles: roles.Names(),
		},
	}

	if tokenType == utils.TokenTypeAccess {
		claims.User.FirstName = u.FirstName
		claims.User.LastName = u.LastName
	}

	payload, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("Could not encode %s token claims: %w", tokenType, err)
	}

	token, err := jwt.Seal(payload)
	if err != nil {
		sentry.CaptureException(err)
		return "", fmt.Errorf("Error generating %s token: %w", tokenType, err)
	}

	return token, nil
}

func revokedTokensKey(tokenType string) string {
	return fmt.Sprintf("%s-tokens:revoked", tokenType)
}

func RevokeToken(ctx context.Context, tokenType string, id string) error {
	if len(id) < 1 {
		return errors.New("Invalid token ID.")
	}

	if err := app.Cache().Do(ctx, app.Cache().B().Sadd().Key(revokedTokensKey(tokenType)).Member(id).Build()).Error(); err != nil {
		return fmt.Errorf("Could not revoke %s token: %w", tokenType, err)
	}

	return nil
}

func IsTokenRevoked(ctx context.Context, tokenType string, id string) (bool, error) {
	revoked, err := app.Cache().DoCache(ctx, app.Cache().B().Sismember().Key(revokedTokensKey(tokenType)).Member(id).Cache(), 5*time.Minute).AsBool()
	if err != nil && !errors.Is(err, rueidis.Nil) {
		return false, fmt.Errorf("Could not check %s token revocation '%s': %w", tokenType, id, err)
	}

	return revoked, nil
}
