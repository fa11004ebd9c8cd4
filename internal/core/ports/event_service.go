package ports

import (
	"context"
	"time"
)

// Audit actions recorded for profile activity.
const (
	ActionLogin             = "login"
	ActionProfileUpserted   = "profile_upserted"
	ActionExperienceAdded   = "experience_added"
	ActionExperienceRemoved = "experience_removed"
	ActionEducationAdded    = "education_added"
	ActionEducationRemoved  = "education_removed"
	ActionAccountDeleted    = "account_deleted"
)

// ProfileEventInput describes one audit event for a user's profile activity.
type ProfileEventInput struct {
	UserID    string
	Action    string
	SubjectID string // sub-record id for experience/education events
	At        time.Time
}

// EventService processes audit events off the request path.
type EventService interface {
	Process(ctx context.Context, event ProfileEventInput) error
}

// EventPublisher is the fire-and-forget side used by request handlers.
// Publishing never blocks a request on persistence.
type EventPublisher interface {
	Publish(event ProfileEventInput)
}
