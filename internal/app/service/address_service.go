package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/ikkim/beautycart-backend/internal/app/model"
	"github.com/ikkim/beautycart-backend/internal/app/repository"
	"github.com/ikkim/beautycart-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrAddressNotFound = errors.New("address not found")
	ErrInvalidAddress  = errors.New("invalid address")
)

// AddressValidationError lists the offending fields and their messages.
type AddressValidationError struct {
	Fields map[string]string
}

func (e *AddressValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "invalid address: " + strings.Join(parts, "; ")
}

func (e *AddressValidationError) Unwrap() error {
	return ErrInvalidAddress
}

type AddressInput struct {
	Label    string `json:"label"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Landmark string `json:"landmark"`
	Phone    string `json:"phone"`
	Pincode  string `json:"pincode"`
}

// Validate trims the input and checks required fields. The phone number may
// carry separators but must contain exactly 10 digits.
func (in *AddressInput) Validate() error {
	in.Label = strings.TrimSpace(in.Label)
	in.Name = strings.TrimSpace(in.Name)
	in.Address = strings.TrimSpace(in.Address)
	in.Landmark = strings.TrimSpace(in.Landmark)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Pincode = strings.TrimSpace(in.Pincode)

	fields := map[string]string{}
	if in.Name == "" {
		fields["name"] = "Name is required"
	}
	if in.Address == "" {
		fields["address"] = "Address is required"
	}
	if in.Pincode == "" {
		fields["pincode"] = "Postal code is required"
	}
	if in.Phone == "" {
		fields["phone"] = "Phone number is required"
	} else if countDigits(in.Phone) != 10 {
		fields["phone"] = "Please enter a valid 10-digit phone number"
	}

	if len(fields) > 0 {
		return &AddressValidationError{Fields: fields}
	}
	return nil
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

func (in AddressInput) apply(address *model.Address) {
	address.Label = in.Label
	address.Name = in.Name
	address.Address = in.Address
	address.Landmark = in.Landmark
	address.Phone = in.Phone
	address.Pincode = in.Pincode
}

type AddressService interface {
	ListAddresses(sessionID string) ([]model.Address, error)
	AddAddress(sessionID string, input AddressInput) (*model.Address, error)
	UpdateAddress(sessionID string, addressID uint, input AddressInput) (*model.Address, error)
	RemoveAddress(sessionID string, addressID uint) error
}

type addressService struct {
	addressRepo repository.AddressRepository
}

func NewAddressService(addressRepo repository.AddressRepository) AddressService {
	return &addressService{addressRepo: addressRepo}
}

func (s *addressService) ListAddresses(sessionID string) ([]model.Address, error) {
	addresses, err := s.addressRepo.FindBySessionID(sessionID)
	if err != nil {
		logger.Error("Failed to fetch addresses", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, err
	}
	return addresses, nil
}

func (s *addressService) AddAddress(sessionID string, input AddressInput) (*model.Address, error) {
	logger.Info("Adding address", map[string]interface{}{
		"session_id": sessionID,
		"label":      input.Label,
	})

	if err := input.Validate(); err != nil {
		logger.Warn("Address validation failed", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return nil, err
	}

	address := &model.Address{SessionID: sessionID}
	input.apply(address)
	if err := s.addressRepo.Create(address); err != nil {
		return nil, err
	}
	return address, nil
}

func (s *addressService) UpdateAddress(sessionID string, addressID uint, input AddressInput) (*model.Address, error) {
	logger.Info("Updating address", map[string]interface{}{
		"session_id": sessionID,
		"address_id": addressID,
	})

	if err := input.Validate(); err != nil {
		return nil, err
	}

	address, err := s.addressRepo.FindByID(sessionID, addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAddressNotFound
		}
		return nil, err
	}

	input.apply(address)
	if err := s.addressRepo.Update(address); err != nil {
		return nil, err
	}
	return address, nil
}

func (s *addressService) RemoveAddress(sessionID string, addressID uint) error {
	logger.Info("Removing address", map[string]interface{}{
		"session_id": sessionID,
		"address_id": addressID,
	})

	if err := s.addressRepo.Delete(sessionID, addressID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAddressNotFound
		}
		return err
	}
	return nil
}
