package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/devconnector/profile-api/internal/core/ports"
)

const eventsCollection = "profile_events"

// EventRepository implements ports.EventRepository using MongoDB.
type EventRepository struct {
	coll *mongo.Collection
}

func NewEventRepository(db *mongo.Database) ports.EventRepository {
	return &EventRepository{coll: db.Collection(eventsCollection)}
}

// InsertEvent persists an audit event to the profile_events collection.
func (r *EventRepository) InsertEvent(ctx context.Context, event *ports.ProfileEventInput) error {
	doc := bson.M{
		"user":        event.UserID,
		"action":      event.Action,
		"at":          event.At.UTC(),
		"recorded_at": time.Now().UTC(),
	}
	if event.SubjectID != "" {
		doc["subject"] = event.SubjectID
	}

	_, err := r.coll.InsertOne(ctx, doc)
	return err
}
