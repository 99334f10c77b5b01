package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useSQLite(t *testing.T) {
	t.Helper()
	t.Setenv("EXPENSEDESK_DB_DRIVER", "sqlite")
	t.Setenv("EXPENSEDESK_DB_PATH", filepath.Join(t.TempDir(), "migrate.db"))
	t.Setenv("EXPENSEDESK_JWT_SECRET", "test-secret")
}

func TestRun_UpDownVersion(t *testing.T) {
	useSQLite(t)
	var out bytes.Buffer

	require.NoError(t, run([]string{"version"}, &out))
	assert.Contains(t, out.String(), "no migrations applied")

	out.Reset()
	require.NoError(t, run([]string{"up"}, &out))
	assert.Contains(t, out.String(), "sqlite: version 3 dirty=false")

	out.Reset()
	require.NoError(t, run([]string{"up"}, &out))
	assert.Contains(t, out.String(), "version 3")

	out.Reset()
	require.NoError(t, run([]string{"down"}, &out))
	assert.Contains(t, out.String(), "version 2")

	out.Reset()
	require.NoError(t, run([]string{"down", "all"}, &out))
	assert.Contains(t, out.String(), "no migrations applied")
}

func TestRun_Force(t *testing.T) {
	useSQLite(t)
	var out bytes.Buffer
	require.NoError(t, run([]string{"up"}, &out))

	out.Reset()
	require.NoError(t, run([]string{"force", "2"}, &out))

	assert.Contains(t, out.String(), "version 2 dirty=false")
}

func TestRun_BadArguments(t *testing.T) {
	useSQLite(t)

	assert.Error(t, run(nil, &bytes.Buffer{}))
	assert.ErrorContains(t, run([]string{"sideways"}, &bytes.Buffer{}), "unknown command")
	assert.ErrorContains(t, run([]string{"down", "0"}, &bytes.Buffer{}), "invalid step count")
	assert.ErrorContains(t, run([]string{"force"}, &bytes.Buffer{}), "requires a version")
}
