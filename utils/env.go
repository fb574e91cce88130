package utils

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/getsentry/sentry-go"
)

const (
	DriverPostgres string = "postgres"
	DriverSQLite   string = "sqlite"
)

// Bounds for numeric settings, as {min, default, max}.
var (
	accessTokenHours  = [3]int64{1, 1, 2}
	refreshTokenHours = [3]int64{1, 6, 24}
	publicCacheTTL    = [3]int64{1, 10, 1440}
	queueConcurrency  = [3]int64{1, 10, 100}
)

// envInt reads k as an integer, falling back to the default on garbage
// and clamping it to the given bounds.
func envInt(k string, bounds [3]int64) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(os.Getenv(k)), 10, 64)
	if err != nil {
		n = bounds[1]
	}

	return min(max(n, bounds[0]), bounds[2])
}

func envOrDefault(k string, d string) string {
	v := strings.TrimSpace(os.Getenv(k))

	if len(v) < 1 {
		return d
	}

	return v
}

func IsDebug() bool {
	isDebug, err := strconv.ParseBool(os.Getenv("APP_DEBUG"))
	if err != nil {
		isDebug = false
	}

	return isDebug
}

func SupportEmail() string {
	e := os.Getenv("SUPPORT_EMAIL")

	if len(e) < 1 {
		slog.Error("Support email is empty.")
		return ""
	}

	if !IsValidEmail(e) {
		slog.Error("Support email is invalid.")
		return ""
	}

	return e
}

func AccessTokenExpiration() time.Duration {
	return time.Duration(envInt("JWT_ACCESS_EXPIRATION", accessTokenHours)) * time.Hour
}

func RefreshTokenExpiration() time.Duration {
	return time.Duration(envInt("JWT_REFRESH_EXPIRATION", refreshTokenHours)) * time.Hour
}

func DefaultTimeZone() string {
	return envOrDefault("TZ", "America/Mexico_City")
}

func DefaultLocation() *time.Location {
	loc, err := time.LoadLocation(DefaultTimeZone())
	if err != nil {
		sentry.CaptureException(err)
		return time.Now().Location()
	}

	return loc
}

func EmailLang() string {
	l := os.Getenv("EMAIL_LANG")

	if len(l) < 1 {
		slog.Warn("Empty email language. Falling back to 'en'.")
		l = "en"
	}

	return l
}

func DBDriver() string {
	if strings.EqualFold(strings.TrimSpace(os.Getenv("DB_DRIVER")), DriverSQLite) {
		return DriverSQLite
	}

	return DriverPostgres
}

func RedisAddress() string {
	port, err := strconv.Atoi(os.Getenv("REDIS_PORT"))
	if err != nil {
		port = 6379
	}

	return fmt.Sprintf("%s:%d", envOrDefault("REDIS_HOST", "localhost"), port)
}

// RedisDB is the cache database. Queues use the next one.
func RedisDB() int {
	return int(envInt("REDIS_DB", [3]int64{0, 0, 14}))
}

// PublicCacheTTL is read from PUBLIC_CACHE_TTL in minutes.
func PublicCacheTTL() time.Duration {
	return time.Duration(envInt("PUBLIC_CACHE_TTL", publicCacheTTL)) * time.Minute
}

// QueueConcurrency is the number of background tasks processed at once.
func QueueConcurrency() int {
	return int(envInt("QUEUE_CONCURRENCY", queueConcurrency))
}

func CanRegisterUsers() bool {
	allowed, err := strconv.ParseBool(os.Getenv("APP_ALLOW_REGISTRATION"))
	if err != nil {
		return true
	}

	return allowed
}

func PublicSiteURL(slug string) string {
	return fmt.Sprintf("%s/sites/%s", strings.TrimRight(os.Getenv("APP_DOMAIN"), "/"), slug)
}
