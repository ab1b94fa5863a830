package repositories

import (
	"github.com/ephremw/gebeya/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NewsletterRepository handles database operations for NewsletterSubscriber.
type NewsletterRepository struct {
	db *gorm.DB
}

func NewNewsletterRepository(db *gorm.DB) *NewsletterRepository {
	return &NewsletterRepository{db: db}
}

// Subscribe adds an email to the list. Re-subscribing is a no-op rather
// than an error.
func (r *NewsletterRepository) Subscribe(email string) error {
	sub := models.NewsletterSubscriber{Email: email}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&sub).Error
}

// Unsubscribe removes an email from the list.
func (r *NewsletterRepository) Unsubscribe(email string) error {
	return r.db.Where("email = ?", email).Delete(&models.NewsletterSubscriber{}).Error
}

// Delete removes a subscriber by primary key. Admin console path; shoppers
// use Unsubscribe.
func (r *NewsletterRepository) Delete(id uint) error {
	res := r.db.Delete(&models.NewsletterSubscriber{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// All returns every subscriber.
func (r *NewsletterRepository) All() ([]models.NewsletterSubscriber, error) {
	var subs []models.NewsletterSubscriber
	err := r.db.Order("created_at DESC").Find(&subs).Error
	return subs, err
}
