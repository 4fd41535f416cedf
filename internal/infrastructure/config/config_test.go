package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "facturo-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "Europe/Paris", cfg.App.Timezone)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "facturo", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, "memory", cfg.Storage.Driver)
		assert.Equal(t, 5, cfg.Invoicing.NumberRetries)
		assert.False(t, cfg.Invoicing.StrictStatusTransitions)
		assert.True(t, cfg.Subscription.GateEnabled)
		assert.Equal(t, 12, cfg.Subscription.DefaultPlanMonths)
		assert.True(t, cfg.PDF.Enabled)
		assert.Equal(t, 30*time.Second, cfg.Realtime.HeartbeatInterval)
	})

	t.Run("loads values from environment variables with FACTURO prefix", func(t *testing.T) {
		t.Setenv("FACTURO_APP_PORT", "9000")
		t.Setenv("FACTURO_DATABASE_HOST", "db.internal")
		t.Setenv("FACTURO_DATABASE_PORT", "5433")
		t.Setenv("FACTURO_INVOICING_STRICT_STATUS_TRANSITIONS", "true")
		t.Setenv("FACTURO_SUBSCRIPTION_GATE_ENABLED", "false")
		t.Setenv("FACTURO_STORAGE_DRIVER", "s3")
		t.Setenv("FACTURO_JWT_ACCESS_TOKEN_EXPIRATION", "5m")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "db.internal", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.True(t, cfg.Invoicing.StrictStatusTransitions)
		assert.False(t, cfg.Subscription.GateEnabled)
		assert.Equal(t, "s3", cfg.Storage.Driver)
		assert.Equal(t, 5*time.Minute, cfg.JWT.AccessTokenExpiration)
	})

	t.Run("splits list values from the environment", func(t *testing.T) {
		t.Setenv("FACTURO_HTTP_CORS_ALLOW_ORIGINS", "https://app.facturo.fr,https://admin.facturo.fr")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, []string{"https://app.facturo.fr", "https://admin.facturo.fr"}, cfg.HTTP.CORSAllowOrigins)
		assert.Equal(t, []string{"Content-Type", "Authorization", "X-Request-ID"}, cfg.HTTP.CORSAllowHeaders)
	})

	t.Run("reads config.toml from the working directory", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`
[invoicing]
number_retries = 9

[pdf]
timeout = "45s"
`), 0o600))
		t.Chdir(dir)
		t.Setenv("FACTURO_INVOICING_NUMBER_RETRIES", "3")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 45*time.Second, cfg.PDF.Timeout)
		assert.Equal(t, 3, cfg.Invoicing.NumberRetries, "environment wins over the file")
	})

	t.Run("rejects idle conns above open conns", func(t *testing.T) {
		t.Setenv("FACTURO_DATABASE_MAX_OPEN_CONNS", "5")
		t.Setenv("FACTURO_DATABASE_MAX_IDLE_CONNS", "10")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("rejects unknown timezone", func(t *testing.T) {
		t.Setenv("FACTURO_APP_TIMEZONE", "Mars/Olympus")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "app.timezone")
	})

	t.Run("rejects unknown storage driver", func(t *testing.T) {
		t.Setenv("FACTURO_STORAGE_DRIVER", "ftp")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.driver")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	setValidProductionBase := func(t *testing.T) {
		t.Setenv("FACTURO_APP_ENV", "production")
		t.Setenv("FACTURO_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
		t.Setenv("FACTURO_DATABASE_PASSWORD", "secure-password")
		t.Setenv("FACTURO_DATABASE_SSLMODE", "require")
		t.Setenv("FACTURO_STORAGE_DRIVER", "s3")
		t.Setenv("FACTURO_SWAGGER_ENABLED", "false")
	}

	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"short jwt secret", map[string]string{"FACTURO_JWT_SECRET": "short-secret"}, "jwt.secret must be at least 32 characters"},
		{"default database password", map[string]string{"FACTURO_DATABASE_PASSWORD": "postgres"}, "database.password"},
		{"ssl disabled", map[string]string{"FACTURO_DATABASE_SSLMODE": "disable"}, "database.sslmode cannot be 'disable'"},
		{"memory storage", map[string]string{"FACTURO_STORAGE_DRIVER": "memory"}, "storage.driver 'memory'"},
		{"wildcard origin", map[string]string{"FACTURO_HTTP_CORS_ALLOW_ORIGINS": "*"}, "cors_allow_origins"},
		{"full sql in traces", map[string]string{"FACTURO_TELEMETRY_DB_LOG_FULL_SQL": "true"}, "db_log_full_sql"},
		{"open swagger", map[string]string{"FACTURO_SWAGGER_ENABLED": "true"}, "swagger must be disabled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setValidProductionBase(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("passes validation with valid production config", func(t *testing.T) {
		setValidProductionBase(t)

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})

	t.Run("protected swagger passes", func(t *testing.T) {
		for name, env := range map[string]map[string]string{
			"auth":      {"FACTURO_SWAGGER_REQUIRE_AUTH": "true"},
			"allowlist": {"FACTURO_SWAGGER_ALLOWED_IPS": "10.0.0.0/8"},
		} {
			t.Run(name, func(t *testing.T) {
				setValidProductionBase(t)
				t.Setenv("FACTURO_SWAGGER_ENABLED", "true")
				for k, v := range env {
					t.Setenv(k, v)
				}
				cfg, err := Load()
				require.NoError(t, err)
				assert.True(t, cfg.Swagger.Enabled)
			})
		}
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost:5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "/testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{Host: "localhost", Port: 5432, User: "user", Password: "pass@word#123", DBName: "db", SSLMode: "disable"}
		assert.Contains(t, cfg.DSN(), "pass%40word%23123")
	})
}

func TestAppConfig_Location(t *testing.T) {
	assert.Equal(t, "Europe/Paris", (&AppConfig{Timezone: "Europe/Paris"}).Location().String())
	assert.Equal(t, time.UTC, (&AppConfig{Timezone: "nowhere"}).Location())
}
