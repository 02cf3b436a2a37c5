package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/gamestore/internal/domain/catalog"
	"github.com/your-org/gamestore/internal/pkg/logger"
	"github.com/your-org/gamestore/internal/testutil"
)

func TestMigration_MigratesAndSeedsOnce(t *testing.T) {
	db := testutil.NewDB(t)
	m := NewMigration(db, logger.Discard())

	require.NoError(t, m.RunAutoMigrations())
	require.NoError(t, m.CreateIndexes())
	for _, table := range []string{"users", "games", "orders", "order_items"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}

	require.NoError(t, m.SeedGames())
	require.NoError(t, m.SeedGames())

	var count int64
	require.NoError(t, db.Model(&catalog.Game{}).Count(&count).Error)
	assert.Equal(t, int64(4), count)
}
