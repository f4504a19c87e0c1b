package product

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&Product{}))
	return db
}

func newLamp(slug string, price float64, stock int, featured bool) *Product {
	shape := "pyramid"
	return &Product{
		Name:          slug,
		Slug:          slug,
		Price:         price,
		Shape:         &shape,
		StockQuantity: stock,
		IsFeatured:    featured,
		IsActive:      true,
	}
}

func TestRepositoryCreate(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupTestDB(t))

	p := newLamp("pyramid-lamp", 4500, 10, true)
	require.NoError(t, repo.Create(ctx, p))
	assert.NotEmpty(t, p.ID)

	err := repo.Create(ctx, newLamp("pyramid-lamp", 100, 1, false))
	assert.ErrorIs(t, err, ErrDuplicateSlug)

	got, err := repo.FindActiveBySlug(ctx, "pyramid-lamp")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	_, err = repo.FindActiveBySlug(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepositoryDecrementStock(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupTestDB(t))

	p := newLamp("usb-lamp", 1500, 3, false)
	require.NoError(t, repo.Create(ctx, p))

	tests := []struct {
		name      string
		id        string
		qty       int
		wantStock int
		wantErr   error
	}{
		{"partial", p.ID, 2, 1, nil},
		{"clamps at zero", p.ID, 5, 0, nil},
		{"stays at zero", p.ID, 1, 0, nil},
		{"zero quantity", p.ID, 0, 0, ErrInvalidQuantity},
		{"unknown product", "missing", 1, 0, ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.DecrementStock(ctx, tt.id, tt.qty)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			got, err := repo.FindByID(ctx, p.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStock, got.StockQuantity)
		})
	}
}

func TestRepositoryList(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupTestDB(t))

	require.NoError(t, repo.Create(ctx, newLamp("pyramid-lamp", 4500, 10, true)))
	require.NoError(t, repo.Create(ctx, newLamp("usb-lamp", 1500, 10, false)))
	hidden := newLamp("retired-lamp", 900, 0, false)
	require.NoError(t, repo.Create(ctx, hidden))
	hidden.IsActive = false
	require.NoError(t, repo.Save(ctx, hidden))

	floor := 2000.0
	tests := []struct {
		name string
		f    Filter
		want []string
	}{
		{"default sort puts featured first", Filter{}, []string{"pyramid-lamp", "usb-lamp"}},
		{"price ascending", Filter{Sort: SortPriceAsc}, []string{"usb-lamp", "pyramid-lamp"}},
		{"minimum price", Filter{MinPrice: &floor}, []string{"pyramid-lamp"}},
		{"search is case-insensitive", Filter{Search: "USB"}, []string{"usb-lamp"}},
		{"unknown shape", Filter{Shape: "sphere"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.List(ctx, tt.f)
			require.NoError(t, err)
			slugs := make([]string, 0, len(got))
			for _, p := range got {
				slugs = append(slugs, p.Slug)
			}
			assert.Equal(t, tt.want, slugs)
		})
	}

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
