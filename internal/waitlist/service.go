package waitlist

import (
	"context"
	"fmt"
	"strings"

	"github.com/meridianpress/meridian-backend/pkg/db"
	"github.com/meridianpress/meridian-backend/pkg/db/models"
	pkgerrors "github.com/meridianpress/meridian-backend/pkg/errors"
)

// Submissions without a name are stored under this placeholder so the column
// stays non-null and exports stay readable.
const defaultFullName = "Meridian Reader"

type signupRepo interface {
	Create(ctx context.Context, signup *models.WaitlistSignup) error
}

// Service records waitlist signups.
type Service interface {
	Join(ctx context.Context, input JoinInput) (*SignupDTO, error)
}

type service struct {
	repo signupRepo
}

// NewService builds a waitlist service.
func NewService(repo signupRepo) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("signup repository required")
	}
	return &service{repo: repo}, nil
}

// Join stores a new signup. Each email joins once; a repeat submission is a
// conflict, not a silent success, so the storefront can tell the visitor
// they are already on the list.
func (s *service) Join(ctx context.Context, input JoinInput) (*SignupDTO, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	fullName := strings.TrimSpace(input.FullName)
	if fullName == "" {
		fullName = defaultFullName
	}
	interests := make([]string, 0, len(input.Interests))
	for _, interest := range input.Interests {
		interest = strings.TrimSpace(interest)
		if interest != "" {
			interests = append(interests, interest)
		}
	}

	signup := &models.WaitlistSignup{
		Email:     email,
		FullName:  fullName,
		Interests: interests,
	}
	if err := s.repo.Create(ctx, signup); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email is already on the waitlist")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store waitlist signup")
	}

	return &SignupDTO{
		ID:        signup.ID,
		Email:     signup.Email,
		FullName:  signup.FullName,
		Interests: signup.Interests,
		CreatedAt: signup.CreatedAt,
	}, nil
}
