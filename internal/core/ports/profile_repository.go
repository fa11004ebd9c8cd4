package ports

import (
	"context"

	"github.com/devconnector/profile-api/internal/core/domain"
)

// ProfileUpdate is the sparse update document applied by Upsert: only the
// keys present overwrite stored values. Social links use dotted keys
// ("social.youtube") so omitted platforms keep their stored value.
type ProfileUpdate map[string]any

// ProfileRepository defines persistence for profile documents and their
// nested sub-collections.
type ProfileRepository interface {
	FindByUser(ctx context.Context, userID string) (*domain.Profile, error)
	FindAll(ctx context.Context) ([]*domain.Profile, error)
	// Upsert merge-updates the profile owned by userID, creating it when
	// absent. The owning user reference is set only on insert and never
	// overwritten.
	Upsert(ctx context.Context, userID string, update ProfileUpdate) (*domain.Profile, error)

	// PushExperience / PushEducation insert the entry at the head of the
	// sub-collection and return the updated profile.
	PushExperience(ctx context.Context, userID string, exp domain.Experience) (*domain.Profile, error)
	PushEducation(ctx context.Context, userID string, edu domain.Education) (*domain.Profile, error)

	// SetExperience / SetEducation replace the whole sub-collection. Used by
	// removal, which is a read-modify-write over the owner's document.
	SetExperience(ctx context.Context, userID string, exps []domain.Experience) (*domain.Profile, error)
	SetEducation(ctx context.Context, userID string, edus []domain.Education) (*domain.Profile, error)

	DeleteByUser(ctx context.Context, userID string) error
}
