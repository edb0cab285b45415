package db_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogadmin/internal/db"
	"catalogadmin/internal/model"
	"catalogadmin/internal/testutil"
)

func TestMigrateAndReset(t *testing.T) {
	gdb := testutil.OpenDB(t)

	for _, m := range db.Models() {
		assert.True(t, gdb.Migrator().HasTable(m))
	}

	require.NoError(t, db.Reset(gdb))
	assert.False(t, gdb.Migrator().HasTable(&model.Product{}))
	assert.False(t, gdb.Migrator().HasTable(&model.User{}))

	require.NoError(t, db.Migrate(gdb))
	assert.True(t, gdb.Migrator().HasTable(&model.Product{}))
}
