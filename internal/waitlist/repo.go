package waitlist

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meridianpress/meridian-backend/pkg/db/models"
)

// Repository encapsulates waitlist persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a waitlist repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a signup. Unique-violation errors from the email index pass
// through untranslated; the service layer maps them.
func (r *Repository) Create(ctx context.Context, signup *models.WaitlistSignup) error {
	if signup.ID == uuid.Nil {
		signup.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(signup).Error
}

// FindByEmail returns the signup for the given email, or gorm.ErrRecordNotFound.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.WaitlistSignup, error) {
	var signup models.WaitlistSignup
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&signup).
		Error
	if err != nil {
		return nil, err
	}
	return &signup, nil
}
