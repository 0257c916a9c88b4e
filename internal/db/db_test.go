package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sujalbistaa/secretos/internal/models"
)

func TestInit_SQLiteAndMigrate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	gdb, err := Init("sqlite://"+path, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, Migrate(gdb))

	require.True(t, gdb.Migrator().HasTable(&models.School{}))
	require.True(t, gdb.Migrator().HasTable(&models.Secret{}))
	require.True(t, gdb.Migrator().HasTable(&models.SecretImage{}))
	require.True(t, gdb.Migrator().HasTable(&models.AdminUser{}))
}

func TestInit_InvalidPrefix(t *testing.T) {
	_, err := Init("mysql://root@localhost/db", zap.NewNop())
	require.Error(t, err)
}
