package utils

import (
	"testing"
	"time"
)

func TestEnvClamps(t *testing.T) {
	cases := []struct {
		value string
		want  time.Duration
	}{
		{"", 10 * time.Minute},
		{"soon", 10 * time.Minute},
		{"0", time.Minute},
		{"30", 30 * time.Minute},
		{"100000", 1440 * time.Minute},
	}

	for _, tc := range cases {
		t.Setenv("PUBLIC_CACHE_TTL", tc.value)

		if got := PublicCacheTTL(); got != tc.want {
			t.Errorf("PublicCacheTTL(%q) = %v, want %v", tc.value, got, tc.want)
		}
	}

	t.Setenv("JWT_REFRESH_EXPIRATION", "48")

	if got := RefreshTokenExpiration(); got != 24*time.Hour {
		t.Errorf("RefreshTokenExpiration = %v", got)
	}
}

func TestDBDriver(t *testing.T) {
	for in, want := range map[string]string{"": DriverPostgres, "SQLite": DriverSQLite, "mysql": DriverPostgres} {
		t.Setenv("DB_DRIVER", in)

		if got := DBDriver(); got != want {
			t.Errorf("DBDriver(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPublicSiteURL(t *testing.T) {
	t.Setenv("APP_DOMAIN", "https://builder.example.com/")

	if got := PublicSiteURL("bakery"); got != "https://builder.example.com/sites/bakery" {
		t.Errorf("PublicSiteURL = %q", got)
	}
}
