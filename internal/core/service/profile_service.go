package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/devconnector/profile-api/internal/core/domain"
	"github.com/devconnector/profile-api/internal/core/ports"
)

// ProfileCache abstracts the read cache for public profile lookups (Redis).
// Cache failures must degrade to a store read, never fail the request.
type ProfileCache interface {
	GetProfile(ctx context.Context, userID string) (*domain.Profile, bool)
	SetProfile(ctx context.Context, userID string, p *domain.Profile)
	GetAll(ctx context.Context) ([]*domain.Profile, bool)
	SetAll(ctx context.Context, ps []*domain.Profile)
	Invalidate(ctx context.Context, userID string)
}

// Options tune behaviors the reference implementation left ambiguous.
type Options struct {
	// SkillsSplit selects lenient (reference-compatible) or strict skills
	// tokenization.
	SkillsSplit SkillsSplitMode
	// LegacyRemoval reproduces the reference removal defect: a sub-record
	// found at position 0 is never removed (the guard requires a strictly
	// positive index). Off by default.
	LegacyRemoval bool
}

// ProfileService implements the profile use cases.
type ProfileService struct {
	profiles ports.ProfileRepository
	users    ports.UserRepository
	cache    ProfileCache
	events   ports.EventPublisher
	opts     Options
	logger   zerolog.Logger
}

func NewProfileService(
	profiles ports.ProfileRepository,
	users ports.UserRepository,
	cache ProfileCache,
	events ports.EventPublisher,
	opts Options,
	logger zerolog.Logger,
) *ProfileService {
	if opts.SkillsSplit == "" {
		opts.SkillsSplit = SkillsSplitLenient
	}
	return &ProfileService{
		profiles: profiles,
		users:    users,
		cache:    cache,
		events:   events,
		opts:     opts,
		logger:   logger,
	}
}

// GetCurrent returns the caller's own profile with the owning user's name
// and avatar joined in.
func (s *ProfileService) GetCurrent(ctx context.Context, owner string) (*domain.Profile, error) {
	profile, err := s.profiles.FindByUser(ctx, owner)
	if err != nil {
		return nil, err
	}
	return s.join(ctx, profile), nil
}

// GetByUser is the public lookup by user id.
func (s *ProfileService) GetByUser(ctx context.Context, userID string) (*domain.Profile, error) {
	if cached, ok := s.cache.GetProfile(ctx, userID); ok {
		return cached, nil
	}

	profile, err := s.profiles.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	joined := s.join(ctx, profile)
	s.cache.SetProfile(ctx, userID, joined)
	return joined, nil
}

// List returns every profile with joined user info. An empty store yields an
// empty slice, not an error.
func (s *ProfileService) List(ctx context.Context) ([]*domain.Profile, error) {
	if cached, ok := s.cache.GetAll(ctx); ok {
		return cached, nil
	}

	profiles, err := s.profiles.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	joined := s.joinAll(ctx, profiles)
	s.cache.SetAll(ctx, joined)
	return joined, nil
}

// Upsert merge-updates the owner's profile, creating it on first submission.
// Omitted fields keep their stored values; the owning user reference never
// comes from client input.
func (s *ProfileService) Upsert(ctx context.Context, owner string, input ports.ProfileInput) (*domain.Profile, error) {
	update := buildProfileUpdate(input, s.opts.SkillsSplit, time.Now().UTC())

	profile, err := s.profiles.Upsert(ctx, owner, update)
	if err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}

	s.cache.Invalidate(ctx, owner)
	s.events.Publish(ports.ProfileEventInput{UserID: owner, Action: ports.ActionProfileUpserted, At: time.Now().UTC()})
	s.logger.Info().Str("user_id", owner).Msg("profile upserted")
	return profile, nil
}

// AddExperience prepends a new entry with a fresh id. The profile must
// already exist; this operation never creates one.
func (s *ProfileService) AddExperience(ctx context.Context, owner string, input ports.ExperienceInput) (*domain.Profile, error) {
	if _, err := s.profiles.FindByUser(ctx, owner); err != nil {
		return nil, err
	}

	exp := domain.Experience{
		Title:       input.Title,
		Company:     input.Company,
		Location:    input.Location,
		From:        input.From,
		To:          input.To,
		Current:     input.Current,
		Description: input.Description,
	}

	profile, err := s.profiles.PushExperience(ctx, owner, exp)
	if err != nil {
		return nil, fmt.Errorf("add experience: %w", err)
	}

	s.cache.Invalidate(ctx, owner)
	s.publishSub(owner, ports.ActionExperienceAdded, firstExperienceID(profile))
	return profile, nil
}

// RemoveExperience deletes the entry whose id equals expID. An unknown id is
// a silent no-op that still returns the (unchanged) profile.
func (s *ProfileService) RemoveExperience(ctx context.Context, owner, expID string) (*domain.Profile, error) {
	profile, err := s.profiles.FindByUser(ctx, owner)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, e := range profile.Experience {
		if e.ID == expID {
			idx = i
			break
		}
	}

	if !s.shouldRemove(idx) {
		s.logger.Warn().Str("user_id", owner).Str("exp_id", expID).Int("index", idx).Msg("experience not removed")
		return s.join(ctx, profile), nil
	}

	remaining := append(profile.Experience[:idx:idx], profile.Experience[idx+1:]...)
	updated, err := s.profiles.SetExperience(ctx, owner, remaining)
	if err != nil {
		return nil, fmt.Errorf("remove experience: %w", err)
	}

	s.cache.Invalidate(ctx, owner)
	s.publishSub(owner, ports.ActionExperienceRemoved, expID)
	return s.join(ctx, updated), nil
}

// AddEducation prepends a new entry with a fresh id, mirroring AddExperience.
func (s *ProfileService) AddEducation(ctx context.Context, owner string, input ports.EducationInput) (*domain.Profile, error) {
	if _, err := s.profiles.FindByUser(ctx, owner); err != nil {
		return nil, err
	}

	edu := domain.Education{
		School:       input.School,
		Degree:       input.Degree,
		FieldOfStudy: input.FieldOfStudy,
		From:         input.From,
		To:           input.To,
		Current:      input.Current,
		Description:  input.Description,
	}

	profile, err := s.profiles.PushEducation(ctx, owner, edu)
	if err != nil {
		return nil, fmt.Errorf("add education: %w", err)
	}

	s.cache.Invalidate(ctx, owner)
	s.publishSub(owner, ports.ActionEducationAdded, firstEducationID(profile))
	return profile, nil
}

// RemoveEducation deletes the entry whose id equals eduID, mirroring
// RemoveExperience.
func (s *ProfileService) RemoveEducation(ctx context.Context, owner, eduID string) (*domain.Profile, error) {
	profile, err := s.profiles.FindByUser(ctx, owner)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, e := range profile.Education {
		if e.ID == eduID {
			idx = i
			break
		}
	}

	if !s.shouldRemove(idx) {
		s.logger.Warn().Str("user_id", owner).Str("edu_id", eduID).Int("index", idx).Msg("education not removed")
		return s.join(ctx, profile), nil
	}

	remaining := append(profile.Education[:idx:idx], profile.Education[idx+1:]...)
	updated, err := s.profiles.SetEducation(ctx, owner, remaining)
	if err != nil {
		return nil, fmt.Errorf("remove education: %w", err)
	}

	s.cache.Invalidate(ctx, owner)
	s.publishSub(owner, ports.ActionEducationRemoved, eduID)
	return s.join(ctx, updated), nil
}

// DeleteAccount removes the owner's profile (if any) and user record.
// Content authored elsewhere by the user is not cascaded.
func (s *ProfileService) DeleteAccount(ctx context.Context, owner string) error {
	if err := s.profiles.DeleteByUser(ctx, owner); err != nil && !errors.Is(err, domain.ErrProfileNotFound) {
		return fmt.Errorf("delete account: %w", err)
	}

	if err := s.users.Delete(ctx, owner); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}

	s.cache.Invalidate(ctx, owner)
	s.events.Publish(ports.ProfileEventInput{UserID: owner, Action: ports.ActionAccountDeleted, At: time.Now().UTC()})
	s.logger.Info().Str("user_id", owner).Msg("account deleted")
	return nil
}

// shouldRemove decides whether the located index qualifies for removal. The
// legacy mode keeps the reference behavior where index 0 and "not found"
// are treated identically and both skip removal.
func (s *ProfileService) shouldRemove(idx int) bool {
	if s.opts.LegacyRemoval {
		return idx > 0
	}
	return idx >= 0
}

func (s *ProfileService) publishSub(owner, action, subjectID string) {
	s.events.Publish(ports.ProfileEventInput{
		UserID:    owner,
		Action:    action,
		SubjectID: subjectID,
		At:        time.Now().UTC(),
	})
}

// join attaches the owning user's name and avatar to a profile.
func (s *ProfileService) join(ctx context.Context, p *domain.Profile) *domain.Profile {
	user, err := s.users.FindByID(ctx, p.UserID)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", p.UserID).Msg("join user info")
		return p
	}
	p.User = &domain.UserRef{ID: user.ID, Name: user.Name, Avatar: user.Avatar}
	return p
}

func (s *ProfileService) joinAll(ctx context.Context, profiles []*domain.Profile) []*domain.Profile {
	if len(profiles) == 0 {
		return []*domain.Profile{}
	}

	ids := make([]string, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.UserID)
	}

	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		s.logger.Warn().Err(err).Msg("join user info for list")
		return profiles
	}

	for _, p := range profiles {
		if u, ok := users[p.UserID]; ok {
			p.User = &domain.UserRef{ID: u.ID, Name: u.Name, Avatar: u.Avatar}
		}
	}
	return profiles
}

func firstExperienceID(p *domain.Profile) string {
	if len(p.Experience) == 0 {
		return ""
	}
	return p.Experience[0].ID
}

func firstEducationID(p *domain.Profile) string {
	if len(p.Education) == 0 {
		return ""
	}
	return p.Education[0].ID
}
