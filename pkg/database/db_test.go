package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLiteMemory(t *testing.T) {
	db, err := OpenSQL("sqlite", "file:dbtest?mode=memory&cache=shared")
	require.NoError(t, err)

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}

func TestUnsupportedDriver(t *testing.T) {
	_, err := OpenSQL("oracle", "")
	assert.ErrorContains(t, err, `unsupported DB_DRIVER "oracle"`)
}
