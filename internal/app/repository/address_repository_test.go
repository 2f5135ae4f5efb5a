package repository

import (
	"testing"

	"github.com/ikkim/beautycart-backend/internal/app/model"
	"github.com/ikkim/beautycart-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAddressTest(t *testing.T) (*gorm.DB, AddressRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	return testDB, NewAddressRepository(testDB)
}

func TestAddressRepository_CRUD(t *testing.T) {
	testDB, repo := setupAddressTest(t)
	defer db.CleanupTestDB(testDB)

	home := &model.Address{SessionID: "sess-1", Label: "Home", Name: "Asha", Address: "12 MG Road, Bengaluru", Phone: "9876543210", Pincode: "560001"}
	work := &model.Address{SessionID: "sess-1", Label: "Work", Name: "Asha", Address: "Tech Park, Whitefield", Phone: "9876543210", Pincode: "560066"}
	require.NoError(t, repo.Create(home))
	require.NoError(t, repo.Create(work))
	require.NoError(t, repo.Create(&model.Address{SessionID: "sess-2", Name: "Other", Address: "Elsewhere", Pincode: "110001"}))

	addresses, err := repo.FindBySessionID("sess-1")
	require.NoError(t, err)
	require.Len(t, addresses, 2)
	assert.Equal(t, "Home", addresses[0].Label)

	home.Landmark = "Near metro"
	require.NoError(t, repo.Update(home))
	found, err := repo.FindByID("sess-1", home.ID)
	require.NoError(t, err)
	assert.Equal(t, "Near metro", found.Landmark)

	require.NoError(t, repo.Delete("sess-1", work.ID))
	addresses, err = repo.FindBySessionID("sess-1")
	require.NoError(t, err)
	assert.Len(t, addresses, 1)
}

func TestAddressRepository_ScopedBySession(t *testing.T) {
	testDB, repo := setupAddressTest(t)
	defer db.CleanupTestDB(testDB)

	address := &model.Address{SessionID: "sess-1", Name: "Asha", Address: "12 MG Road", Pincode: "560001"}
	require.NoError(t, repo.Create(address))

	_, err := repo.FindByID("sess-2", address.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = repo.Delete("sess-2", address.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
