package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("TOKEN_TTL", "")
	t.Setenv("GOOGLE_CLIENT_IDS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverGorm, cfg.StoreDriver)
	assert.Equal(t, 7*24*time.Hour, cfg.TokenTTL)
	assert.Empty(t, cfg.GoogleClientIDs)
	assert.Equal(t, ":8080", cfg.Address())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("TOKEN_TTL", "3600")
	t.Setenv("GOOGLE_CLIENT_IDS", "web.apps, ios.apps ,")
	t.Setenv("REQUEST_TIMEOUT", "2s")
	t.Setenv("APP_BASE_URL", "https://coachly.app/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"web.apps", "ios.apps"}, cfg.GoogleClientIDs)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "https://coachly.app", cfg.AppBaseURL)
}

func TestLoadRejectsBadDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mongo")

	_, err := Load()
	assert.Error(t, err)
}

func TestFirestoreNeedsProject(t *testing.T) {
	t.Setenv("STORE_DRIVER", "firestore")
	t.Setenv("FIREBASE_PROJECT_ID", "")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("FIREBASE_PROJECT_ID", "coachly-dev")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.FirebaseEnabled())
}
