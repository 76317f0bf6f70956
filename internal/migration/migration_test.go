package migration_test

import (
	"io"
	"io/fs"
	"strings"
	"testing"

	"boardflow/internal/migration"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFiles_UpAndDownPaired(t *testing.T) {
	ups, err := fs.Glob(migration.Files, "sql/*.up.sql")
	require.NoError(t, err)
	require.NotEmpty(t, ups)

	for _, up := range ups {
		down := strings.TrimSuffix(up, ".up.sql") + ".down.sql"
		_, err := fs.Stat(migration.Files, down)
		assert.NoError(t, err, "missing %s", down)
	}
}

func TestFiles_ReadableBySource(t *testing.T) {
	src, err := iofs.New(migration.Files, "sql")
	require.NoError(t, err)
	defer src.Close()

	first, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	r, _, err := src.ReadUp(first)
	require.NoError(t, err)
	defer r.Close()

	body, err := io.ReadAll(r)
	require.NoError(t, err)
	// Схема должна содержать версию карточки и вещественные позиции
	assert.Contains(t, string(body), "version     BIGINT NOT NULL DEFAULT 1")
	assert.Contains(t, string(body), "position    DOUBLE PRECISION NOT NULL")
}
