package ports

import (
	"context"
	"time"

	"github.com/devconnector/profile-api/internal/core/domain"
)

// ProfileInput carries the upsert fields. Every pointer distinguishes
// "omitted" (nil, keep stored value) from "supplied" (overwrite, even with
// an empty string). Skills is the raw comma-separated string from the client.
type ProfileInput struct {
	Company        *string
	Website        *string
	Location       *string
	Status         *string
	Skills         *string
	Bio            *string
	GithubUsername *string

	Youtube   *string
	Twitter   *string
	Facebook  *string
	Linkedin  *string
	Instagram *string
}

// ExperienceInput is a new work-history entry. Required fields are enforced
// by transport-layer validation before the service is reached.
type ExperienceInput struct {
	Title       string
	Company     string
	Location    string
	From        time.Time
	To          *time.Time
	Current     bool
	Description string
}

// EducationInput is a new schooling entry.
type EducationInput struct {
	School       string
	Degree       string
	FieldOfStudy string
	From         time.Time
	To           *time.Time
	Current      bool
	Description  string
}

// ProfileService defines the profile use cases. "owner" is always the
// guard-authenticated user id, never client input.
type ProfileService interface {
	GetCurrent(ctx context.Context, owner string) (*domain.Profile, error)
	GetByUser(ctx context.Context, userID string) (*domain.Profile, error)
	List(ctx context.Context) ([]*domain.Profile, error)

	Upsert(ctx context.Context, owner string, input ProfileInput) (*domain.Profile, error)

	AddExperience(ctx context.Context, owner string, input ExperienceInput) (*domain.Profile, error)
	RemoveExperience(ctx context.Context, owner, expID string) (*domain.Profile, error)
	AddEducation(ctx context.Context, owner string, input EducationInput) (*domain.Profile, error)
	RemoveEducation(ctx context.Context, owner, eduID string) (*domain.Profile, error)

	DeleteAccount(ctx context.Context, owner string) error
}
