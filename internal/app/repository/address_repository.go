package repository

import (
	"github.com/ikkim/beautycart-backend/internal/app/model"
	"github.com/ikkim/beautycart-backend/pkg/logger"
	"gorm.io/gorm"
)

type AddressRepository interface {
	Create(address *model.Address) error
	FindBySessionID(sessionID string) ([]model.Address, error)
	FindByID(sessionID string, id uint) (*model.Address, error)
	Update(address *model.Address) error
	Delete(sessionID string, id uint) error
}

type addressRepository struct {
	db *gorm.DB
}

func NewAddressRepository(db *gorm.DB) AddressRepository {
	return &addressRepository{db: db}
}

func (r *addressRepository) Create(address *model.Address) error {
	logger.Debug("Creating address in database", map[string]interface{}{
		"session_id": address.SessionID,
		"label":      address.Label,
	})

	if err := r.db.Create(address).Error; err != nil {
		logger.Error("Failed to create address in database", err, map[string]interface{}{
			"session_id": address.SessionID,
			"label":      address.Label,
		})
		return err
	}

	logger.Debug("Address created in database", map[string]interface{}{
		"address_id": address.ID,
		"session_id": address.SessionID,
	})
	return nil
}

func (r *addressRepository) FindBySessionID(sessionID string) ([]model.Address, error) {
	var addresses []model.Address
	err := r.db.Where("session_id = ?", sessionID).
		Order("created_at ASC, id ASC").
		Find(&addresses).Error
	if err != nil {
		logger.Error("Failed to find addresses by session ID in database", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, err
	}

	logger.Debug("Addresses found by session ID in database", map[string]interface{}{
		"session_id": sessionID,
		"count":      len(addresses),
	})
	return addresses, nil
}

func (r *addressRepository) FindByID(sessionID string, id uint) (*model.Address, error) {
	var address model.Address
	err := r.db.Where("session_id = ? AND id = ?", sessionID, id).First(&address).Error
	if err != nil {
		logger.Error("Failed to find address by ID in database", err, map[string]interface{}{
			"session_id": sessionID,
			"address_id": id,
		})
		return nil, err
	}
	return &address, nil
}

func (r *addressRepository) Update(address *model.Address) error {
	logger.Debug("Updating address in database", map[string]interface{}{
		"address_id": address.ID,
	})

	if err := r.db.Save(address).Error; err != nil {
		logger.Error("Failed to update address in database", err, map[string]interface{}{
			"address_id": address.ID,
		})
		return err
	}
	return nil
}

func (r *addressRepository) Delete(sessionID string, id uint) error {
	logger.Debug("Deleting address from database", map[string]interface{}{
		"session_id": sessionID,
		"address_id": id,
	})

	result := r.db.Where("session_id = ? AND id = ?", sessionID, id).Delete(&model.Address{})
	if result.Error != nil {
		logger.Error("Failed to delete address from database", result.Error, map[string]interface{}{
			"address_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
