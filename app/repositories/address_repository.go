package repositories

import (
	"github.com/ephremw/gebeya/app/models"
	"gorm.io/gorm"
)

// AddressRepository handles database operations for Address.
type AddressRepository struct {
	db *gorm.DB
}

func NewAddressRepository(db *gorm.DB) *AddressRepository {
	return &AddressRepository{db: db}
}

// ForUser returns all addresses belonging to a user.
func (r *AddressRepository) ForUser(userID uint) ([]models.Address, error) {
	var addresses []models.Address
	err := r.db.Where("user_id = ?", userID).Order("is_default DESC, id ASC").Find(&addresses).Error
	return addresses, err
}

// FindForUser returns a single address, scoped to its owner so one user can
// never read or edit another's address by guessing IDs.
func (r *AddressRepository) FindForUser(id, userID uint) (models.Address, error) {
	var address models.Address
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&address).Error
	return address, err
}

// Create persists a new address. When it is flagged default, any previous
// default for the same user is cleared in the same transaction.
func (r *AddressRepository) Create(address *models.Address) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if address.IsDefault {
			if err := tx.Model(&models.Address{}).
				Where("user_id = ?", address.UserID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(address).Error
	})
}

// Update persists changes to an address, keeping the single-default invariant.
func (r *AddressRepository) Update(address *models.Address) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if address.IsDefault {
			if err := tx.Model(&models.Address{}).
				Where("user_id = ? AND id <> ?", address.UserID, address.ID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Save(address).Error
	})
}

// Delete removes an address owned by the user.
func (r *AddressRepository) Delete(id, userID uint) error {
	return r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Address{}).Error
}
