package service

import (
	"testing"

	"github.com/ikkim/beautycart-backend/internal/app/repository"
	"github.com/ikkim/beautycart-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAddressServiceTest(t *testing.T) AddressService {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})
	return NewAddressService(repository.NewAddressRepository(testDB))
}

func validAddress() AddressInput {
	return AddressInput{
		Label:    "Home",
		Name:     "Asha Rao",
		Address:  "12 MG Road, Bengaluru",
		Landmark: "Near metro",
		Phone:    "98765 43210",
		Pincode:  "560001",
	}
}

func TestAddressInput_Validate(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*AddressInput)
		wantFields []string
	}{
		{name: "Valid", mutate: func(*AddressInput) {}},
		{name: "Missing name", mutate: func(in *AddressInput) { in.Name = "  " }, wantFields: []string{"name"}},
		{name: "Missing address and pincode", mutate: func(in *AddressInput) { in.Address = ""; in.Pincode = "" }, wantFields: []string{"address", "pincode"}},
		{name: "Missing phone", mutate: func(in *AddressInput) { in.Phone = "" }, wantFields: []string{"phone"}},
		{name: "Short phone", mutate: func(in *AddressInput) { in.Phone = "12345" }, wantFields: []string{"phone"}},
		{name: "Long phone", mutate: func(in *AddressInput) { in.Phone = "+91 98765 43210" }, wantFields: []string{"phone"}},
		{name: "Formatted phone", mutate: func(in *AddressInput) { in.Phone = "(987) 654-3210" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validAddress()
			tt.mutate(&in)

			err := in.Validate()
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, ErrInvalidAddress)
			var verr *AddressValidationError
			require.ErrorAs(t, err, &verr)
			for _, field := range tt.wantFields {
				assert.Contains(t, verr.Fields, field)
			}
			assert.Len(t, verr.Fields, len(tt.wantFields))
		})
	}
}

func TestAddressService_Lifecycle(t *testing.T) {
	svc := setupAddressServiceTest(t)

	created, err := svc.AddAddress("sess-1", validAddress())
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	update := validAddress()
	update.Label = "Work"
	updated, err := svc.UpdateAddress("sess-1", created.ID, update)
	require.NoError(t, err)
	assert.Equal(t, "Work", updated.Label)

	addresses, err := svc.ListAddresses("sess-1")
	require.NoError(t, err)
	require.Len(t, addresses, 1)
	assert.Equal(t, "Work", addresses[0].Label)

	require.NoError(t, svc.RemoveAddress("sess-1", created.ID))
	assert.ErrorIs(t, svc.RemoveAddress("sess-1", created.ID), ErrAddressNotFound)
}

func TestAddressService_RejectsInvalid(t *testing.T) {
	svc := setupAddressServiceTest(t)

	in := validAddress()
	in.Pincode = ""
	_, err := svc.AddAddress("sess-1", in)
	assert.ErrorIs(t, err, ErrInvalidAddress)

	addresses, err := svc.ListAddresses("sess-1")
	require.NoError(t, err)
	assert.Empty(t, addresses)
}

func TestAddressService_UpdateOtherSession(t *testing.T) {
	svc := setupAddressServiceTest(t)

	created, err := svc.AddAddress("sess-1", validAddress())
	require.NoError(t, err)

	_, err = svc.UpdateAddress("sess-2", created.ID, validAddress())
	assert.ErrorIs(t, err, ErrAddressNotFound)
}
