package repositories_test

import (
	"errors"
	"sync"
	"testing"

	"sepatu/internal/models"
	"sepatu/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProduct(t *testing.T, repo *repositories.MockProductRepository, stock int) {
	t.Helper()
	require.NoError(t, repo.Create(&models.Product{
		ID:   "prod-1",
		Name: models.LocalizedString{EN: "Hanoi Runner", VI: "Giay Chay Ha Noi"},
		Variations: []models.Variation{
			{
				Color: models.LocalizedString{EN: "Red", VI: "Do"},
				SizeOptions: []models.SizeOption{
					{Size: models.ShoeSize{EU: 42, US: 9}, Price: 100, Stock: stock},
				},
			},
		},
	}))
}

func currentStock(t *testing.T, repo *repositories.MockProductRepository) int {
	t.Helper()
	product, err := repo.GetByID("prod-1")
	require.NoError(t, err)
	return product.Variations[0].SizeOptions[0].Stock
}

func TestReserve_DecrementsAndRecomputesInStock(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	seedProduct(t, repo, 2)

	require.NoError(t, repo.Reserve("prod-1", 0, 0, 1))
	assert.Equal(t, 1, currentStock(t, repo))

	require.NoError(t, repo.Reserve("prod-1", 0, 0, 1))
	assert.Equal(t, 0, currentStock(t, repo))

	product, err := repo.GetByID("prod-1")
	require.NoError(t, err)
	assert.False(t, product.InStock)
}

func TestReserve_InsufficientStockLeavesProductUntouched(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	seedProduct(t, repo, 3)

	err := repo.Reserve("prod-1", 0, 0, 4)
	var stockErr *repositories.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 3, stockErr.Available)
	assert.Equal(t, 4, stockErr.Requested)
	assert.Equal(t, 3, currentStock(t, repo))
}

func TestReserve_UnknownTargets(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	seedProduct(t, repo, 3)

	assert.True(t, errors.Is(repo.Reserve("prod-404", 0, 0, 1), repositories.ErrProductNotFound))
	assert.True(t, errors.Is(repo.Reserve("prod-1", 5, 0, 1), repositories.ErrVariantNotFound))
	assert.True(t, errors.Is(repo.Reserve("prod-1", 0, 5, 1), repositories.ErrSizeNotFound))
}

func TestRelease_RestoresExactPriorStock(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	seedProduct(t, repo, 5)

	require.NoError(t, repo.Reserve("prod-1", 0, 0, 5))
	assert.Equal(t, 0, currentStock(t, repo))

	require.NoError(t, repo.Release("prod-1", 0, 0, 5))
	assert.Equal(t, 5, currentStock(t, repo))

	product, err := repo.GetByID("prod-1")
	require.NoError(t, err)
	assert.True(t, product.InStock)
}

// Concurrent reservations against the same size option must serialize: with N
// units in stock and more than N single-unit reservations racing, exactly N
// succeed and stock never goes negative.
func TestReserve_ConcurrentNeverOversells(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	seedProduct(t, repo, 50)

	const attempts = 100
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := repo.Reserve("prod-1", 0, 0, 1); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, succeeded)
	assert.Equal(t, 0, currentStock(t, repo))

	product, err := repo.GetByID("prod-1")
	require.NoError(t, err)
	assert.False(t, product.InStock)
}
