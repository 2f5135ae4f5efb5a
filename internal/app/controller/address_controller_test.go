package controller

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/ikkim/beautycart-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type addressResponse struct {
	Message string        `json:"message"`
	Address model.Address `json:"address"`
}

func validAddress() map[string]string {
	return map[string]string{
		"label":    "Home",
		"name":     "Asha Rao",
		"address":  "12 MG Road, Bengaluru",
		"landmark": "Near the metro",
		"phone":    "98765-43210",
		"pincode":  "560001",
	}
}

func TestAddressController_CRUD(t *testing.T) {
	api := setupControllerTest(t)
	token := api.newSession()

	w := api.do(http.MethodPost, "/api/v1/addresses", token, validAddress())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[addressResponse](t, w).Address
	require.NotZero(t, created.ID)
	assert.Equal(t, "Asha Rao", created.Name)

	update := validAddress()
	update["label"] = "Work"
	w = api.do(http.MethodPut, fmt.Sprintf("/api/v1/addresses/%d", created.ID), token, update)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Work", decode[addressResponse](t, w).Address.Label)

	w = api.do(http.MethodGet, "/api/v1/addresses", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[struct {
		Addresses []model.Address `json:"addresses"`
		Count     int             `json:"count"`
	}](t, w)
	require.Equal(t, 1, list.Count)
	assert.Equal(t, "Work", list.Addresses[0].Label)

	w = api.do(http.MethodDelete, fmt.Sprintf("/api/v1/addresses/%d", created.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(http.MethodDelete, fmt.Sprintf("/api/v1/addresses/%d", created.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "ADDRESS_NOT_FOUND")
}

func TestAddressController_Validation(t *testing.T) {
	api := setupControllerTest(t)
	token := api.newSession()

	bad := validAddress()
	bad["phone"] = "12345"
	bad["name"] = "  "

	w := api.do(http.MethodPost, "/api/v1/addresses", token, bad)
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := decode[struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}](t, w)
	assert.Equal(t, "ADDRESS_INVALID", resp.Error)
	assert.Contains(t, resp.Fields, "phone")
	assert.Contains(t, resp.Fields, "name")

	w = api.do(http.MethodPut, "/api/v1/addresses/abc", token, validAddress())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_INVALID_ID")
}

func TestAddressController_ScopedToSession(t *testing.T) {
	api := setupControllerTest(t)
	alice := api.newSession()
	bob := api.newSession()

	w := api.do(http.MethodPost, "/api/v1/addresses", alice, validAddress())
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode[addressResponse](t, w).Address.ID

	w = api.do(http.MethodPut, fmt.Sprintf("/api/v1/addresses/%d", id), bob, validAddress())
	assert.Equal(t, http.StatusNotFound, w.Code)
}
