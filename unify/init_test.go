package unify_test

import (
	"path/filepath"
	"testing"

	"github.com/fwdslsh/toolkit"
	"github.com/fwdslsh/toolkit/unify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScaffold(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	require.NoError(t, unify.Scaffold(dir))

	assert.FileExists(t, filepath.Join(dir, "unify.yaml"))
	assert.FileExists(t, filepath.Join(dir, "index.html"))
	assert.FileExists(t, filepath.Join(dir, "_includes", "layout.html"))
}

func TestScaffold_ExistingConfigConflicts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, unify.Scaffold(dir))

	err := unify.Scaffold(dir)

	assert.Equal(t, toolkit.ECONFLICT, toolkit.ErrorCode(err))
}
