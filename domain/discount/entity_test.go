package discount

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestCodeAmount(t *testing.T) {
	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	yesterday := now.Add(-24 * time.Hour)
	tomorrow := now.Add(24 * time.Hour)
	two := 2
	minimum := 5000.0

	tests := []struct {
		name     string
		modify   func(c *Code)
		subtotal float64
		want     float64
		wantErr  error
	}{
		{"seed takes ten percent", nil, 4500, 450, nil},
		{"percentage is rounded to paisa", nil, 1234.56, 123.46, nil},
		{"inactive", func(c *Code) { c.IsActive = false }, 4500, 0, ErrInvalidCode},
		{"not yet valid", func(c *Code) { c.ValidFrom = tomorrow }, 4500, 0, ErrInvalidCode},
		{"expired", func(c *Code) { c.ValidUntil = &yesterday }, 4500, 0, ErrInvalidCode},
		{"still valid until tomorrow", func(c *Code) { c.ValidUntil = &tomorrow }, 4500, 450, nil},
		{"exhausted", func(c *Code) { c.MaxUses = &two; c.UsedCount = 2 }, 4500, 0, ErrInvalidCode},
		{"uses left", func(c *Code) { c.MaxUses = &two; c.UsedCount = 1 }, 4500, 450, nil},
		{"below minimum", func(c *Code) { c.MinOrderAmount = &minimum }, 4500, 0, ErrBelowMinimum},
		{"at minimum", func(c *Code) { c.MinOrderAmount = &minimum }, 5000, 500, nil},
		{"fixed amount", func(c *Code) { c.DiscountType = TypeFixed; c.DiscountValue = 300 }, 4500, 300, nil},
		{"fixed capped at subtotal", func(c *Code) { c.DiscountType = TypeFixed; c.DiscountValue = 9000 }, 4500, 4500, nil},
		{"unknown type", func(c *Code) { c.DiscountType = "bogo" }, 4500, 0, ErrInvalidCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Seed()
			if tt.modify != nil {
				tt.modify(&c)
			}
			got, err := c.Amount(tt.subtotal, now)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 0.001)
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "NAMAK10", Normalize("  namak10 "))
	assert.Equal(t, "", Normalize("   "))
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&Code{}))
	return db
}

func TestRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("seed is idempotent", func(t *testing.T) {
		repo := NewRepository(setupTestDB(t))
		require.NoError(t, repo.EnsureSeed(ctx))
		require.NoError(t, repo.EnsureSeed(ctx))

		c, err := repo.FindByCode(ctx, "namak10")
		require.NoError(t, err)
		assert.Equal(t, "NAMAK10", c.Code)
		assert.Equal(t, TypePercentage, c.DiscountType)
	})

	t.Run("unknown code", func(t *testing.T) {
		repo := NewRepository(setupTestDB(t))
		_, err := repo.FindByCode(ctx, "NOPE")
		assert.ErrorIs(t, err, ErrInvalidCode)
	})

	t.Run("redeem stops at max uses", func(t *testing.T) {
		repo := NewRepository(setupTestDB(t))
		one := 1
		c := Seed()
		c.Code = "once"
		c.MaxUses = &one
		require.NoError(t, repo.Create(ctx, &c))

		require.NoError(t, repo.Redeem(ctx, "ONCE"))
		assert.ErrorIs(t, repo.Redeem(ctx, "once"), ErrInvalidCode)

		stored, err := repo.FindByCode(ctx, "once")
		require.NoError(t, err)
		assert.Equal(t, 1, stored.UsedCount)
	})

	t.Run("redeem unlimited code", func(t *testing.T) {
		repo := NewRepository(setupTestDB(t))
		require.NoError(t, repo.EnsureSeed(ctx))
		for range 3 {
			require.NoError(t, repo.Redeem(ctx, "NAMAK10"))
		}
		stored, err := repo.FindByCode(ctx, "NAMAK10")
		require.NoError(t, err)
		assert.Equal(t, 3, stored.UsedCount)
	})
}
