package repositories

import (
	"github.com/ephremw/gebeya/app/models"
	"gorm.io/gorm"
)

// MessageRepository handles database operations for ContactMessage.
type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create persists a contact-form submission.
func (r *MessageRepository) Create(msg *models.ContactMessage) error {
	return r.db.Create(msg).Error
}

// All returns a page of messages, newest first.
func (r *MessageRepository) All(page, limit int) ([]models.ContactMessage, int64, error) {
	var messages []models.ContactMessage
	var total int64
	if err := r.db.Model(&models.ContactMessage{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&messages).Error
	return messages, total, err
}

// Delete removes a message.
func (r *MessageRepository) Delete(id uint) error {
	return r.db.Delete(&models.ContactMessage{}, id).Error
}
