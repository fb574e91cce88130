package app

import (
	"testing"

	"alfredoramos.mx/site-builder/models"
)

func TestEnforcer(t *testing.T) {
	e, err := NewEnforcer("../casbin")
	if err != nil {
		t.Fatalf("new enforcer: %v", err)
	}

	cases := []struct {
		role   string
		path   string
		method string
		want   bool
	}{
		{models.RoleUser, "/api/v1/websites/1b4e28ba-2fa1-41d2-883f-0016d3cca427/structure", "PUT", true},
		{models.RoleUser, "/api/v1/websites/1b4e28ba-2fa1-41d2-883f-0016d3cca427/structure", "DELETE", false},
		{models.RoleUser, "/api/v1/websites/1b4e28ba-2fa1-41d2-883f-0016d3cca427/versions/3/restore", "POST", true},
		{models.RoleUser, "/api/v1/system/cache/purge", "POST", false},
		{models.RoleUser, "/api/v1/system/cache/warm", "POST", false},
		{models.RoleAdmin, "/api/v1/system/cache/warm", "POST", true},
		{models.RoleAdmin, "/api/v1/system/cache/purge", "POST", false},
		{models.RoleAdmin, "/api/v1/businesses/all", "GET", true},
		{models.RoleSuperAdmin, "/api/v1/system/cache/purge", "POST", true},
	}

	for _, tc := range cases {
		got, err := e.Enforce(tc.role, tc.path, tc.method)
		if err != nil {
			t.Fatalf("enforce %s %s %s: %v", tc.role, tc.method, tc.path, err)
		}

		if got != tc.want {
			t.Errorf("%s %s %s = %v, want %v", tc.role, tc.method, tc.path, got, tc.want)
		}
	}
}
