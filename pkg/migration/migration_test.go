package migration_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/pkg/database"
	"github.com/shashiranjanraj/storefront/pkg/migration"
)

type widget struct {
	ID   uint
	Name string
}

type createWidgets struct{}

func (createWidgets) Up(db *gorm.DB) error   { return db.AutoMigrate(&widget{}) }
func (createWidgets) Down(db *gorm.DB) error { return db.Migrator().DropTable(&widget{}) }

func init() {
	migration.Register("20990101000000_create_widgets_table", createWidgets{})
}

func TestRunRollbackStatus(t *testing.T) {
	db, err := database.OpenSQL("sqlite", "file:migrationtest?mode=memory&cache=shared")
	require.NoError(t, err)
	ctx := context.Background()
	r := migration.New(db)

	n, err := r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, db.Migrator().HasTable(&widget{}))

	n, err = r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "second run is a no-op")

	var out bytes.Buffer
	require.NoError(t, r.Status(ctx, &out))
	assert.Contains(t, out.String(), "20990101000000_create_widgets_table")
	assert.Contains(t, out.String(), "Ran")

	n, err = r.Rollback(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.False(t, db.Migrator().HasTable(&widget{}))

	n, err = r.Rollback(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
