package repositories_test

import (
	"testing"

	"github.com/ephremw/gebeya/app/models"
	"github.com/ephremw/gebeya/app/repositories"
	"github.com/ephremw/gebeya/pkg/testkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAddress(userID uint, name string, isDefault bool) models.Address {
	return models.Address{
		UserID:    userID,
		FullName:  name,
		Street:    "Bole Road 12",
		City:      "Addis Ababa",
		IsDefault: isDefault,
	}
}

func defaultCount(t *testing.T, repo *repositories.AddressRepository, userID uint) (int, uint) {
	t.Helper()
	addresses, err := repo.ForUser(userID)
	require.NoError(t, err)

	count := 0
	var defaultID uint
	for _, a := range addresses {
		if a.IsDefault {
			count++
			defaultID = a.ID
		}
	}
	return count, defaultID
}

func TestCreateDefaultClearsPrevious(t *testing.T) {
	db := testkit.OpenDB(t)
	repo := repositories.NewAddressRepository(db)

	home := testAddress(1, "Sara Tesfaye", true)
	require.NoError(t, repo.Create(&home))

	office := testAddress(1, "Sara Tesfaye", true)
	require.NoError(t, repo.Create(&office))

	count, defaultID := defaultCount(t, repo, 1)
	assert.Equal(t, 1, count)
	assert.Equal(t, office.ID, defaultID)
}

func TestUpdateDefaultClearsPrevious(t *testing.T) {
	db := testkit.OpenDB(t)
	repo := repositories.NewAddressRepository(db)

	home := testAddress(1, "Sara Tesfaye", true)
	require.NoError(t, repo.Create(&home))
	office := testAddress(1, "Sara Tesfaye", false)
	require.NoError(t, repo.Create(&office))

	office.IsDefault = true
	require.NoError(t, repo.Update(&office))

	count, defaultID := defaultCount(t, repo, 1)
	assert.Equal(t, 1, count)
	assert.Equal(t, office.ID, defaultID)

	// The promoted address keeps its flag on a plain edit.
	office.Phone = "+251911000000"
	require.NoError(t, repo.Update(&office))

	count, defaultID = defaultCount(t, repo, 1)
	assert.Equal(t, 1, count)
	assert.Equal(t, office.ID, defaultID)
}

func TestDefaultScopedPerUser(t *testing.T) {
	db := testkit.OpenDB(t)
	repo := repositories.NewAddressRepository(db)

	mine := testAddress(1, "Sara Tesfaye", true)
	require.NoError(t, repo.Create(&mine))
	theirs := testAddress(2, "Abel Girma", true)
	require.NoError(t, repo.Create(&theirs))

	count, defaultID := defaultCount(t, repo, 1)
	assert.Equal(t, 1, count)
	assert.Equal(t, mine.ID, defaultID)

	count, defaultID = defaultCount(t, repo, 2)
	assert.Equal(t, 1, count)
	assert.Equal(t, theirs.ID, defaultID)
}
