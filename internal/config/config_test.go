package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimalConfig = `
server:
  host: 0.0.0.0
  port: 8080
database:
  host: localhost
  port: 5432
  user: library
  database: library
smtp:
  host: smtp.test
  port: 587
jwt:
  secret: 0123456789abcdef0123456789abcdef
log:
  level: info
  format: json
`

func TestLoad_PolicyDefaults(t *testing.T) {
	cfg, err := Load(writeConfigFile(t, minimalConfig))
	assert.NoError(t, err)

	assert.Equal(t, 30, cfg.Library.DefaultBorrowDays)
	assert.Equal(t, int32(5), cfg.Library.DefaultMaxBorrowLimit)
	assert.InDelta(t, 0.5, cfg.Library.DailyFineRate, 1e-9)
	assert.Equal(t, "0 0 2 * * *", cfg.Scheduler.ProcessOverdueFines)
	assert.Equal(t, "0 0 9 * * *", cfg.Scheduler.SendBorrowReminders)
}

func TestLoad_ExplicitPolicy(t *testing.T) {
	cfg, err := Load(writeConfigFile(t, minimalConfig+`
library:
  default_borrow_days: 14
  default_max_borrow_limit: 3
  daily_fine_rate: 1.0
`))
	assert.NoError(t, err)

	assert.Equal(t, 14, cfg.Library.DefaultBorrowDays)
	assert.Equal(t, int32(3), cfg.Library.DefaultMaxBorrowLimit)
	assert.InDelta(t, 1.0, cfg.Library.DailyFineRate, 1e-9)
}

func TestValidate_Rejections(t *testing.T) {
	t.Run("Short JWT Secret", func(t *testing.T) {
		cfg := &Config{
			Server:   ServerConfig{Port: 8080},
			Database: DatabaseConfig{Host: "h", User: "u", Database: "d"},
			SMTP:     SMTPConfig{Host: "s", Port: 587},
			JWT:      JWTConfig{Secret: "short"},
		}
		assert.Error(t, cfg.Validate())
	})

	t.Run("Negative Fine Rate", func(t *testing.T) {
		cfg := &Config{
			Server:   ServerConfig{Port: 8080},
			Database: DatabaseConfig{Host: "h", User: "u", Database: "d"},
			SMTP:     SMTPConfig{Host: "s", Port: 587},
			JWT:      JWTConfig{Secret: "0123456789abcdef0123456789abcdef"},
			Library:  LibraryConfig{DailyFineRate: -0.5},
		}
		assert.Error(t, cfg.Validate())
	})
}

func TestGetServerAddress(t *testing.T) {
	cfg := &Config{Server: ServerConfig{Host: "127.0.0.1", Port: 9000}}
	assert.Equal(t, "127.0.0.1:9000", cfg.GetServerAddress())
}
