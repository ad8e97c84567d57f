package waitlist

import (
	"time"

	"github.com/google/uuid"
)

// JoinInput is one waitlist submission from the storefront.
type JoinInput struct {
	Email     string   `json:"email" validate:"required,email"`
	FullName  string   `json:"full_name"`
	Interests []string `json:"interests"`
}

// SignupDTO is the stored signup as returned to the API layer.
type SignupDTO struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Interests []string  `json:"interests"`
	CreatedAt time.Time `json:"created_at"`
}
