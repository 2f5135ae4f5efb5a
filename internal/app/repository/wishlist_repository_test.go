package repository

import (
	"testing"

	"github.com/ikkim/beautycart-backend/internal/app/model"
	"github.com/ikkim/beautycart-backend/internal/checkout"
	"github.com/ikkim/beautycart-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavoriteRepository_AddIgnoresDuplicates(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	defer db.CleanupTestDB(testDB)

	repo := NewFavoriteRepository(testDB)
	item := checkout.LineItem{ID: "kajal-01", Name: "Kajal", UnitPrice: decimal.NewFromInt(199), ColorOptions: []string{"black"}}

	created, err := repo.Add(model.NewFavoriteItem("sess-1", item))
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Add(model.NewFavoriteItem("sess-1", item))
	require.NoError(t, err)
	assert.False(t, created)

	items, err := repo.FindBySessionID("sess-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, []string{"black"}, []string(items[0].ColorOptions))
	assert.Equal(t, "kajal-01", items[0].ToLineItem().ID)
}

func TestFavoriteRepository_Delete(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	defer db.CleanupTestDB(testDB)

	repo := NewFavoriteRepository(testDB)
	item := checkout.LineItem{ID: "kajal-01", Name: "Kajal", UnitPrice: decimal.NewFromInt(199)}
	_, err = repo.Add(model.NewFavoriteItem("sess-1", item))
	require.NoError(t, err)

	require.NoError(t, repo.Delete("sess-1", "kajal-01"))

	_, err = repo.FindBySessionAndProduct("sess-1", "kajal-01")
	assert.Error(t, err)
}
