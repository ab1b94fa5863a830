package repositories

import (
	"time"

	"github.com/ephremw/gebeya/app/models"
	"gorm.io/gorm"
)

// UserRepository handles database operations for User.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail looks up a user by their email address.
func (r *UserRepository) FindByEmail(email string) (models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	return user, err
}

// FindByID looks up a user by primary key.
func (r *UserRepository) FindByID(id uint) (models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	return user, err
}

// FindByRefreshToken looks up a user holding the given refresh-token digest,
// ignoring expired tokens.
func (r *UserRepository) FindByRefreshToken(digest string, now time.Time) (models.User, error) {
	var user models.User
	err := r.db.
		Where("refresh_token = ? AND refresh_token_expiry > ?", digest, now).
		First(&user).Error
	return user, err
}

// Create persists a new user record.
func (r *UserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// Update persists changes to an existing user.
func (r *UserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// All returns a page of users, newest first.
func (r *UserRepository) All(page, limit int) ([]models.User, int64, error) {
	var users []models.User
	var total int64
	if err := r.db.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error
	return users, total, err
}

// ClearRefreshToken drops the stored refresh token for a user, ending the
// session server-side.
func (r *UserRepository) ClearRefreshToken(userID uint) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"refresh_token":        "",
			"refresh_token_expiry": nil,
		}).Error
}
