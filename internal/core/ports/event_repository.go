package ports

import "context"

// EventRepository persists audit events to the profile_events collection.
type EventRepository interface {
	InsertEvent(ctx context.Context, event *ProfileEventInput) error
}
