package database

import (
	"testing"

	"github.com/healthsense/predictor/pkg/common/config"
	"github.com/stretchr/testify/assert"
)

func TestDSN(t *testing.T) {
	cfg := &config.Config{
		PostgresHost:     "db",
		PostgresPort:     "5433",
		PostgresUser:     "predictor",
		PostgresPassword: "secret",
		PostgresDB:       "registry",
		PostgresSSLMode:  "require",
	}
	assert.Equal(t, "host=db user=predictor password=secret dbname=registry port=5433 sslmode=require", DSN(cfg))
}

func TestClosePostgresNil(t *testing.T) {
	assert.NoError(t, ClosePostgres(nil))
}
