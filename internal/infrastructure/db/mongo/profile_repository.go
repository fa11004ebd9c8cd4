package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devconnector/profile-api/internal/core/domain"
	"github.com/devconnector/profile-api/internal/core/ports"
)

const profilesCollection = "profiles"

// ProfileRepository implements ports.ProfileRepository using MongoDB.
type ProfileRepository struct {
	coll *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{coll: db.Collection(profilesCollection)}
}

type mongoExperience struct {
	ID          primitive.ObjectID `bson:"_id"`
	Title       string             `bson:"title"`
	Company     string             `bson:"company"`
	Location    string             `bson:"location,omitempty"`
	From        time.Time          `bson:"from"`
	To          *time.Time         `bson:"to,omitempty"`
	Current     bool               `bson:"current"`
	Description string             `bson:"description,omitempty"`
}

type mongoEducation struct {
	ID           primitive.ObjectID `bson:"_id"`
	School       string             `bson:"school"`
	Degree       string             `bson:"degree"`
	FieldOfStudy string             `bson:"fieldofstudy"`
	From         time.Time          `bson:"from"`
	To           *time.Time         `bson:"to,omitempty"`
	Current      bool               `bson:"current"`
	Description  string             `bson:"description,omitempty"`
}

type mongoProfile struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	User           primitive.ObjectID `bson:"user"`
	Company        string             `bson:"company,omitempty"`
	Website        string             `bson:"website,omitempty"`
	Location       string             `bson:"location,omitempty"`
	Status         string             `bson:"status,omitempty"`
	Skills         []string           `bson:"skills,omitempty"`
	Bio            string             `bson:"bio,omitempty"`
	GithubUsername string             `bson:"githubusername,omitempty"`
	Social         domain.Social      `bson:"social,omitempty"`
	Experience     []mongoExperience  `bson:"experience,omitempty"`
	Education      []mongoEducation   `bson:"education,omitempty"`
	UpdatedAt      time.Time          `bson:"updated_at"`
}

func (mp mongoProfile) toDomain() *domain.Profile {
	p := &domain.Profile{
		ID:             mp.ID.Hex(),
		UserID:         mp.User.Hex(),
		Company:        mp.Company,
		Website:        mp.Website,
		Location:       mp.Location,
		Status:         mp.Status,
		Skills:         mp.Skills,
		Bio:            mp.Bio,
		GithubUsername: mp.GithubUsername,
		Social:         mp.Social,
		Experience:     make([]domain.Experience, 0, len(mp.Experience)),
		Education:      make([]domain.Education, 0, len(mp.Education)),
		UpdatedAt:      mp.UpdatedAt,
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}
	for _, e := range mp.Experience {
		p.Experience = append(p.Experience, domain.Experience{
			ID:          e.ID.Hex(),
			Title:       e.Title,
			Company:     e.Company,
			Location:    e.Location,
			From:        e.From,
			To:          e.To,
			Current:     e.Current,
			Description: e.Description,
		})
	}
	for _, e := range mp.Education {
		p.Education = append(p.Education, domain.Education{
			ID:           e.ID.Hex(),
			School:       e.School,
			Degree:       e.Degree,
			FieldOfStudy: e.FieldOfStudy,
			From:         e.From,
			To:           e.To,
			Current:      e.Current,
			Description:  e.Description,
		})
	}
	return p
}

func toMongoExperience(e domain.Experience) (mongoExperience, error) {
	id, err := primitive.ObjectIDFromHex(e.ID)
	if err != nil {
		return mongoExperience{}, fmt.Errorf("experience id %q: %w", e.ID, err)
	}
	return mongoExperience{
		ID:          id,
		Title:       e.Title,
		Company:     e.Company,
		Location:    e.Location,
		From:        e.From,
		To:          e.To,
		Current:     e.Current,
		Description: e.Description,
	}, nil
}

func toMongoEducation(e domain.Education) (mongoEducation, error) {
	id, err := primitive.ObjectIDFromHex(e.ID)
	if err != nil {
		return mongoEducation{}, fmt.Errorf("education id %q: %w", e.ID, err)
	}
	return mongoEducation{
		ID:           id,
		School:       e.School,
		Degree:       e.Degree,
		FieldOfStudy: e.FieldOfStudy,
		From:         e.From,
		To:           e.To,
		Current:      e.Current,
		Description:  e.Description,
	}, nil
}

func (r *ProfileRepository) FindByUser(ctx context.Context, userID string) (*domain.Profile, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		// A malformed id can never match a stored profile.
		return nil, domain.ErrProfileNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mp mongoProfile
	if err := r.coll.FindOne(ctx, bson.M{"user": oid}).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return mp.toDomain(), nil
}

func (r *ProfileRepository) FindAll(ctx context.Context) ([]*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer cur.Close(ctx)

	profiles := make([]*domain.Profile, 0)
	for cur.Next(ctx) {
		var mp mongoProfile
		if err := cur.Decode(&mp); err != nil {
			return nil, fmt.Errorf("decode profile: %w", err)
		}
		profiles = append(profiles, mp.toDomain())
	}
	return profiles, cur.Err()
}

// Upsert applies the sparse update to the profile owned by userID, creating
// the document when absent. The owning user reference is written only via
// $setOnInsert, keeping it immutable on updates.
func (r *ProfileRepository) Upsert(ctx context.Context, userID string, update ports.ProfileUpdate) (*domain.Profile, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrProfileNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{}
	for k, v := range update {
		set[k] = v
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var mp mongoProfile
	err = r.coll.FindOneAndUpdate(
		ctx,
		bson.M{"user": oid},
		bson.M{"$set": set, "$setOnInsert": bson.M{"user": oid}},
		opts,
	).Decode(&mp)
	if err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}
	return mp.toDomain(), nil
}

// PushExperience inserts the entry at position 0 with a fresh ObjectID.
func (r *ProfileRepository) PushExperience(ctx context.Context, userID string, exp domain.Experience) (*domain.Profile, error) {
	exp.ID = primitive.NewObjectID().Hex()
	doc, err := toMongoExperience(exp)
	if err != nil {
		return nil, err
	}
	return r.push(ctx, userID, "experience", doc)
}

// PushEducation inserts the entry at position 0 with a fresh ObjectID.
func (r *ProfileRepository) PushEducation(ctx context.Context, userID string, edu domain.Education) (*domain.Profile, error) {
	edu.ID = primitive.NewObjectID().Hex()
	doc, err := toMongoEducation(edu)
	if err != nil {
		return nil, err
	}
	return r.push(ctx, userID, "education", doc)
}

func (r *ProfileRepository) push(ctx context.Context, userID, field string, doc any) (*domain.Profile, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrProfileNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{
		"$push": bson.M{field: bson.M{"$each": bson.A{doc}, "$position": 0}},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}

	var mp mongoProfile
	err = r.coll.FindOneAndUpdate(
		ctx,
		bson.M{"user": oid},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&mp)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("push %s: %w", field, err)
	}
	return mp.toDomain(), nil
}

// SetExperience replaces the whole experience array.
func (r *ProfileRepository) SetExperience(ctx context.Context, userID string, exps []domain.Experience) (*domain.Profile, error) {
	docs := make([]mongoExperience, 0, len(exps))
	for _, e := range exps {
		doc, err := toMongoExperience(e)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return r.setArray(ctx, userID, "experience", docs)
}

// SetEducation replaces the whole education array.
func (r *ProfileRepository) SetEducation(ctx context.Context, userID string, edus []domain.Education) (*domain.Profile, error) {
	docs := make([]mongoEducation, 0, len(edus))
	for _, e := range edus {
		doc, err := toMongoEducation(e)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return r.setArray(ctx, userID, "education", docs)
}

func (r *ProfileRepository) setArray(ctx context.Context, userID, field string, docs any) (*domain.Profile, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrProfileNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mp mongoProfile
	err = r.coll.FindOneAndUpdate(
		ctx,
		bson.M{"user": oid},
		bson.M{"$set": bson.M{field: docs, "updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&mp)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("set %s: %w", field, err)
	}
	return mp.toDomain(), nil
}

func (r *ProfileRepository) DeleteByUser(ctx context.Context, userID string) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.ErrProfileNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.DeleteOne(ctx, bson.M{"user": oid}); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}

// EnsureIndexes creates the unique owner index enforcing one profile per user.
func (r *ProfileRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
