package models

import "gorm.io/gorm"

// NewsletterSubscriber is a single mailing-list entry.
type NewsletterSubscriber struct {
	gorm.Model
	Email string `gorm:"uniqueIndex;size:255;not null" json:"email"`
}
