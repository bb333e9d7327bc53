package services_test

import (
	"testing"

	"sepatu/internal/models"
	"sepatu/internal/repositories"
	"sepatu/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newShippingFixture(t *testing.T) (*services.ShippingService, *repositories.MockShippingFeeRepository) {
	t.Helper()
	repo := repositories.NewMockShippingFeeRepository()
	require.NoError(t, repo.Create(&models.ShippingFee{
		Country: "US", BaseFee: 25, PerKgRate: 5, IsActive: true,
	}))
	require.NoError(t, repo.Create(&models.ShippingFee{
		Country: "DE", BaseFee: 25, PerKgRate: 4, IsActive: false,
	}))
	return services.NewShippingService(repo), repo
}

func TestRateForCountry_CaseInsensitive(t *testing.T) {
	service, _ := newShippingFixture(t)

	for _, input := range []string{"US", "us", "Us", " us "} {
		fee, err := service.RateForCountry(input)
		require.NoError(t, err, "country %q", input)
		assert.Equal(t, "US", fee.Country)
		assert.Equal(t, 35.0, fee.Fee(2))
	}
}

func TestRateForCountry_InactiveOrMissing(t *testing.T) {
	service, _ := newShippingFixture(t)

	_, err := service.RateForCountry("DE")
	assert.ErrorIs(t, err, repositories.ErrShippingFeeNotFound)

	_, err = service.RateForCountry("FR")
	assert.ErrorIs(t, err, repositories.ErrShippingFeeNotFound)
}

func TestActiveCountries_ExcludesInactive(t *testing.T) {
	service, _ := newShippingFixture(t)

	fees, err := service.ActiveCountries()
	require.NoError(t, err)
	require.Len(t, fees, 1)
	assert.Equal(t, "US", fees[0].Country)
}

func TestCreateRule_NormalizesCountryAndRejectsDuplicates(t *testing.T) {
	service, _ := newShippingFixture(t)

	fee := &models.ShippingFee{Country: "jp", BaseFee: 20, PerKgRate: 3, IsActive: true}
	require.NoError(t, service.CreateRule(fee))
	assert.Equal(t, "JP", fee.Country)

	err := service.CreateRule(&models.ShippingFee{Country: "JP", BaseFee: 1, PerKgRate: 1, IsActive: true})
	assert.ErrorIs(t, err, repositories.ErrDuplicateCountry)
}

func TestToggleRule(t *testing.T) {
	service, repo := newShippingFixture(t)

	rule, err := repo.GetByCountry("DE", false)
	require.NoError(t, err)

	toggled, err := service.ToggleRule(rule.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsActive)

	// Activated rules become visible to checkout lookups.
	fee, err := service.RateForCountry("de")
	require.NoError(t, err)
	assert.Equal(t, "DE", fee.Country)
}
