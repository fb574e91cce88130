package app

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/getsentry/sentry-go"
)

var (
	auth     *casbin.SyncedEnforcer
	onceAuth sync.Once
)

// Auth enforces route permissions per role. Ownership of businesses and
// websites is checked separately by the middlewares.
func Auth() *casbin.SyncedEnforcer {
	onceAuth.Do(func() {
		e, err := NewEnforcer("casbin")
		if err != nil {
			sentry.CaptureException(err)
			slog.Error(fmt.Sprintf("Could not create enforcer: %v", err))
			os.Exit(1)
		}

		auth = e
	})

	return auth
}

func NewEnforcer(basePath string) (*casbin.SyncedEnforcer, error) {
	modelFile, err := filepath.Abs(filepath.Clean(filepath.Join(basePath, "model.conf")))
	if err != nil {
		return nil, fmt.Errorf("Could not read Casbin model file at %s: %w", modelFile, err)
	}

	policyFile, err := filepath.Abs(filepath.Clean(filepath.Join(basePath, "policy.csv")))
	if err != nil {
		return nil, fmt.Errorf("Could not read Casbin policy file at %s: %w", policyFile, err)
	}

	e, err := casbin.NewSyncedEnforcer(modelFile, policyFile)
	if err != nil {
		return nil, err
	}

	if err := e.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("Could not load policy: %w", err)
	}

	return e, nil
}
