// Package commands_test provides tests for CLI command creation.
package commands

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridhub-labs/gridhub/internal/cli/config"
)

func TestNewServeCommand(t *testing.T) {
	cmd := NewServeCommand()

	assert.Equal(t, "serve", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Long, "Long should not be empty")
}

func TestNewMCPCommand(t *testing.T) {
	cmd := NewMCPCommand()

	assert.Equal(t, "mcp", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
}

func TestNewIngestCommand(t *testing.T) {
	cmd := NewIngestCommand()

	assert.Equal(t, "ingest", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotNil(t, cmd.Flags().Lookup("skip-estimates"), "flag %q should exist", "skip-estimates")
}

func TestNewSeedCommand(t *testing.T) {
	cmd := NewSeedCommand()

	assert.Equal(t, "seed", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
}

func TestSeedCommandRuns(t *testing.T) {
	cfg := config.Defaults()
	cfg.DBPath = t.TempDir() + "/gridhub.db"

	cmd := NewSeedCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetContext(config.WithConfig(context.Background(), &cfg))

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Seeded 19 data centers")
}

func TestNewRegionsCommand(t *testing.T) {
	cmd := NewRegionsCommand()

	assert.Equal(t, "regions", cmd.Use)
	assert.NotNil(t, cmd.Flags().Lookup("format"), "flag %q should exist", "format")
}

func TestRegionsCommandTable(t *testing.T) {
	cmd := NewRegionsCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "ERCOT")
	assert.Contains(t, buf.String(), "CAISO")
}

func TestRegionsCommandJSON(t *testing.T) {
	cmd := NewRegionsCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--format", "json"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), `"region_id": "ERCOT"`)
}

func TestNewVersionCommand(t *testing.T) {
	cmd := NewVersionCommand("1.2.3")
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "GridHub v1.2.3")
}
