package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "orkg-backend/backend/pkg/errors"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("NEO4J_URI", "bolt://db:7687")
	t.Setenv("EXPORT_CHUNK_SIZE", "")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "bolt://db:7687", cfg.Neo4jURI)
	assert.Equal(t, 10_000, cfg.ExportChunkSize)
	assert.False(t, cfg.MetricsEnabled)
	assert.Positive(t, cfg.PMapWorkers)
}

func TestValidate_RejectsNonPositiveChunkSize(t *testing.T) {
	cfg := &Config{
		Neo4jURI:        "bolt://localhost:7687",
		Neo4jUser:       "neo4j",
		Neo4jPassword:   "secret",
		ExportChunkSize: 0,
		PMapWorkers:     1,
	}
	assert.Error(t, cfg.Validate())

	cfg.ExportChunkSize = 100
	assert.NoError(t, cfg.Validate())
	assert.False(t, cfg.HasPostgres())
}

func TestValidate_ReportsMissingField(t *testing.T) {
	cfg := &Config{Neo4jURI: "bolt://localhost:7687", Neo4jUser: "neo4j", ExportChunkSize: 1, PMapWorkers: 1}
	err := cfg.Validate()
	require.Error(t, err)

	var missing *apperrors.ErrConfigMissingRequired
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "NEO4J_PASSWORD", missing.Field)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeConfig))
}

func TestLoad_LogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
}
