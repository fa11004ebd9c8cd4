package service

import (
	"context"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/devconnector/profile-api/internal/core/domain"
	"github.com/devconnector/profile-api/internal/core/ports"
)

type stubProfileRepo struct {
	profiles map[string]*domain.Profile
	seq      int
}

func newStubProfileRepo() *stubProfileRepo {
	return &stubProfileRepo{profiles: make(map[string]*domain.Profile)}
}

func cloneProfile(p *domain.Profile) *domain.Profile {
	if p == nil {
		return nil
	}
	clone := *p
	clone.Skills = append([]string(nil), p.Skills...)
	clone.Experience = append([]domain.Experience(nil), p.Experience...)
	clone.Education = append([]domain.Education(nil), p.Education...)
	return &clone
}

func (r *stubProfileRepo) FindByUser(_ context.Context, userID string) (*domain.Profile, error) {
	if p, ok := r.profiles[userID]; ok {
		return cloneProfile(p), nil
	}
	return nil, domain.ErrProfileNotFound
}

func (r *stubProfileRepo) FindAll(_ context.Context) ([]*domain.Profile, error) {
	all := make([]*domain.Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		all = append(all, cloneProfile(p))
	}
	return all, nil
}

// Upsert applies the sparse update the way a dotted-key $set would.
func (r *stubProfileRepo) Upsert(_ context.Context, userID string, update ports.ProfileUpdate) (*domain.Profile, error) {
	p, ok := r.profiles[userID]
	if !ok {
		r.seq++
		p = &domain.Profile{ID: fmt.Sprintf("profile_%d", r.seq), UserID: userID, Skills: []string{}}
		r.profiles[userID] = p
	}
	for k, v := range update {
		switch k {
		case "company":
			p.Company = v.(string)
		case "website":
			p.Website = v.(string)
		case "location":
			p.Location = v.(string)
		case "status":
			p.Status = v.(string)
		case "bio":
			p.Bio = v.(string)
		case "githubusername":
			p.GithubUsername = v.(string)
		case "skills":
			p.Skills = v.([]string)
		case "social.youtube":
			p.Social.Youtube = v.(string)
		case "social.twitter":
			p.Social.Twitter = v.(string)
		case "social.facebook":
			p.Social.Facebook = v.(string)
		case "social.linkedin":
			p.Social.Linkedin = v.(string)
		case "social.instagram":
			p.Social.Instagram = v.(string)
		case "updated_at":
			p.UpdatedAt = v.(time.Time)
		default:
			return nil, fmt.Errorf("stub: unexpected update key %q", k)
		}
	}
	return cloneProfile(p), nil
}

func (r *stubProfileRepo) PushExperience(_ context.Context, userID string, exp domain.Experience) (*domain.Profile, error) {
	p, ok := r.profiles[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	r.seq++
	exp.ID = fmt.Sprintf("sub_%d", r.seq)
	p.Experience = append([]domain.Experience{exp}, p.Experience...)
	return cloneProfile(p), nil
}

func (r *stubProfileRepo) PushEducation(_ context.Context, userID string, edu domain.Education) (*domain.Profile, error) {
	p, ok := r.profiles[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	r.seq++
	edu.ID = fmt.Sprintf("sub_%d", r.seq)
	p.Education = append([]domain.Education{edu}, p.Education...)
	return cloneProfile(p), nil
}

func (r *stubProfileRepo) SetExperience(_ context.Context, userID string, exps []domain.Experience) (*domain.Profile, error) {
	p, ok := r.profiles[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	p.Experience = append([]domain.Experience(nil), exps...)
	return cloneProfile(p), nil
}

func (r *stubProfileRepo) SetEducation(_ context.Context, userID string, edus []domain.Education) (*domain.Profile, error) {
	p, ok := r.profiles[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	p.Education = append([]domain.Education(nil), edus...)
	return cloneProfile(p), nil
}

func (r *stubProfileRepo) DeleteByUser(_ context.Context, userID string) error {
	delete(r.profiles, userID)
	return nil
}

type stubCache struct {
	invalidated []string
}

func (c *stubCache) GetProfile(context.Context, string) (*domain.Profile, bool) { return nil, false }
func (c *stubCache) SetProfile(context.Context, string, *domain.Profile)       {}
func (c *stubCache) GetAll(context.Context) ([]*domain.Profile, bool)          { return nil, false }
func (c *stubCache) SetAll(context.Context, []*domain.Profile)                 {}
func (c *stubCache) Invalidate(_ context.Context, userID string) {
	c.invalidated = append(c.invalidated, userID)
}

type profileFixture struct {
	svc   *ProfileService
	repo  *stubProfileRepo
	users *stubUserRepo
	cache *stubCache
	pub   *stubPublisher
}

func newProfileFixture(opts Options) *profileFixture {
	repo := newStubProfileRepo()
	users := newStubUserRepo()
	cache := &stubCache{}
	pub := &stubPublisher{}
	return &profileFixture{
		svc:   NewProfileService(repo, users, cache, pub, opts, zerolog.Nop()),
		repo:  repo,
		users: users,
		cache: cache,
		pub:   pub,
	}
}

func (f *profileFixture) addUser(t *testing.T, name, email string) string {
	t.Helper()
	u, err := f.users.Create(context.Background(), &domain.User{Name: name, Email: email, Avatar: "https://gravatar/" + name})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u.ID
}

func TestProfileService_Upsert_CreatesWhenAbsent(t *testing.T) {
	f := newProfileFixture(Options{})
	owner := f.addUser(t, "Alice", "alice@example.com")

	p, err := f.svc.Upsert(context.Background(), owner, ports.ProfileInput{
		Status: strptr("Developer"),
		Skills: strptr("node, express,  mongo"),
	})
	if err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}
	if p.UserID != owner {
		t.Fatalf("profile user must be the authenticated owner, got %s", p.UserID)
	}
	if p.Status != "Developer" {
		t.Fatalf("status not applied: %+v", p)
	}
	if want := []string{"node", "express", "mongo"}; !reflect.DeepEqual(p.Skills, want) {
		t.Fatalf("expected skills %v, got %v", want, p.Skills)
	}
}

func TestProfileService_Upsert_MergeKeepsOmittedFields(t *testing.T) {
	f := newProfileFixture(Options{})
	owner := f.addUser(t, "Alice", "alice@example.com")

	if _, err := f.svc.Upsert(context.Background(), owner, ports.ProfileInput{
		Status:  strptr("Developer"),
		Skills:  strptr("go"),
		Company: strptr("A"),
		Youtube: strptr("https://youtube.com/a"),
	}); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}

	p, err := f.svc.Upsert(context.Background(), owner, ports.ProfileInput{
		Status:  strptr("B"),
		Skills:  strptr("go"),
		Twitter: strptr("https://twitter.com/a"),
	})
	if err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	if p.Company != "A" {
		t.Fatalf("omitted company must keep stored value, got %q", p.Company)
	}
	if p.Status != "B" {
		t.Fatalf("supplied status must overwrite, got %q", p.Status)
	}
	if p.Social.Youtube != "https://youtube.com/a" {
		t.Fatalf("omitted social key must keep stored value, got %q", p.Social.Youtube)
	}
	if p.Social.Twitter != "https://twitter.com/a" {
		t.Fatalf("supplied social key must overwrite, got %q", p.Social.Twitter)
	}
}

func TestProfileService_Upsert_Idempotent(t *testing.T) {
	f := newProfileFixture(Options{})
	owner := f.addUser(t, "Alice", "alice@example.com")

	input := ports.ProfileInput{
		Status:   strptr("Developer"),
		Skills:   strptr("go,mongo"),
		Company:  strptr("Acme"),
		Location: strptr("Berlin"),
	}

	first, err := f.svc.Upsert(context.Background(), owner, input)
	if err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	second, err := f.svc.Upsert(context.Background(), owner, input)
	if err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	first.UpdatedAt, second.UpdatedAt = time.Time{}, time.Time{}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("upsert not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestProfileService_AddExperience_PrependOrder(t *testing.T) {
	f := newProfileFixture(Options{})
	owner := f.addUser(t, "Alice", "alice@example.com")
	mustUpsert(t, f, owner)

	from := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	if _, err := f.svc.AddExperience(context.Background(), owner, ports.ExperienceInput{Title: "R1", Company: "C1", From: from}); err != nil {
		t.Fatalf("add R1: %v", err)
	}
	p, err := f.svc.AddExperience(context.Background(), owner, ports.ExperienceInput{Title: "R2", Company: "C2", From: from})
	if err != nil {
		t.Fatalf("add R2: %v", err)
	}

	if len(p.Experience) != 2 || p.Experience[0].Title != "R2" || p.Experience[1].Title != "R1" {
		t.Fatalf("expected [R2, R1], got %+v", p.Experience)
	}
	if p.Experience[0].ID == "" || p.Experience[0].ID == p.Experience[1].ID {
		t.Fatalf("sub-record ids must be unique and non-empty: %+v", p.Experience)
	}
}

func TestProfileService_AddExperience_NoProfile(t *testing.T) {
	f := newProfileFixture(Options{})
	owner := f.addUser(t, "Alice", "alice@example.com")

	if _, err := f.svc.AddExperience(context.Background(), owner, ports.ExperienceInput{Title: "R1", Company: "C1", From: time.Now()}); err != domain.ErrProfileNotFound {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestProfileService_RemoveExperience_Head(t *testing.T) {
	f := newProfileFixture(Options{})
	owner := f.addUser(t, "Alice", "alice@example.com")
	mustUpsert(t, f, owner)

	p := addTwoExperiences(t, f, owner)
	headID := p.Experience[0].ID

	updated, err := f.svc.RemoveExperience(context.Background(), owner, headID)
	if err != nil {
		t.Fatalf("remove returned error: %v", err)
	}
	if len(updated.Experience) != 1 || updated.Experience[0].ID == headID {
		t.Fatalf("head entry must be removable, got %+v", updated.Experience)
	}
}

func TestProfileService_RemoveExperience_UnknownIDIsNoOp(t *testing.T) {
	f := newProfileFixture(Options{})
	owner := f.addUser(t, "Alice", "alice@example.com")
	mustUpsert(t, f, owner)
	addTwoExperiences(t, f, owner)

	updated, err := f.svc.RemoveExperience(context.Background(), owner, "no-such-id")
	if err != nil {
		t.Fatalf("unknown id must not fail: %v", err)
	}
	if len(updated.Experience) != 2 {
		t.Fatalf("unknown id must leave the collection unchanged, got %+v", updated.Experience)
	}
}

func TestProfileService_RemoveExperience_LegacyMode(t *testing.T) {
	f := newProfileFixture(Options{LegacyRemoval: true})
	owner := f.addUser(t, "Alice", "alice@example.com")
	mustUpsert(t, f, owner)

	p := addTwoExperiences(t, f, owner)
	headID, tailID := p.Experience[0].ID, p.Experience[1].ID

	// legacy guard requires a strictly positive index: head is never removed
	updated, err := f.svc.RemoveExperience(context.Background(), owner, headID)
	if err != nil {
		t.Fatalf("legacy head removal errored: %v", err)
	}
	if len(updated.Experience) != 2 {
		t.Fatalf("legacy mode must not remove the head entry, got %+v", updated.Experience)
	}

	// a positive index still removes
	updated, err = f.svc.RemoveExperience(context.Background(), owner, tailID)
	if err != nil {
		t.Fatalf("legacy tail removal errored: %v", err)
	}
	if len(updated.Experience) != 1 || updated.Experience[0].ID != headID {
		t.Fatalf("legacy mode must remove entries past the head, got %+v", updated.Experience)
	}
}

func TestProfileService_RemoveExperience_NoProfile(t *testing.T) {
	f := newProfileFixture(Options{})
	owner := f.addUser(t, "Alice", "alice@example.com")

	if _, err := f.svc.RemoveExperience(context.Background(), owner, "whatever"); err != domain.ErrProfileNotFound {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestProfileService_Education_AddAndRemove(t *testing.T) {
	f := newProfileFixture(Options{})
	owner := f.addUser(t, "Alice", "alice@example.com")
	mustUpsert(t, f, owner)

	from := time.Date(2015, 9, 1, 0, 0, 0, 0, time.UTC)
	p, err := f.svc.AddEducation(context.Background(), owner, ports.EducationInput{School: "MIT", Degree: "BSc", FieldOfStudy: "CS", From: from})
	if err != nil {
		t.Fatalf("add education: %v", err)
	}
	if len(p.Education) != 1 || p.Education[0].School != "MIT" {
		t.Fatalf("unexpected education: %+v", p.Education)
	}

	updated, err := f.svc.RemoveEducation(context.Background(), owner, p.Education[0].ID)
	if err != nil {
		t.Fatalf("remove education: %v", err)
	}
	if len(updated.Education) != 0 {
		t.Fatalf("education not removed: %+v", updated.Education)
	}
}

func TestProfileService_GetCurrent_JoinsUserInfo(t *testing.T) {
	f := newProfileFixture(Options{})
	owner := f.addUser(t, "Alice", "alice@example.com")
	mustUpsert(t, f, owner)

	p, err := f.svc.GetCurrent(context.Background(), owner)
	if err != nil {
		t.Fatalf("GetCurrent returned error: %v", err)
	}
	if p.User == nil || p.User.Name != "Alice" || p.User.Avatar == "" {
		t.Fatalf("expected joined user info, got %+v", p.User)
	}
}

func TestProfileService_GetCurrent_NotFound(t *testing.T) {
	f := newProfileFixture(Options{})
	owner := f.addUser(t, "Alice", "alice@example.com")

	if _, err := f.svc.GetCurrent(context.Background(), owner); err != domain.ErrProfileNotFound {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestProfileService_List_EmptyStore(t *testing.T) {
	f := newProfileFixture(Options{})

	profiles, err := f.svc.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if profiles == nil || len(profiles) != 0 {
		t.Fatalf("expected empty slice, got %v", profiles)
	}
}

func TestProfileService_DeleteAccount(t *testing.T) {
	f := newProfileFixture(Options{})
	owner := f.addUser(t, "Alice", "alice@example.com")
	mustUpsert(t, f, owner)

	if err := f.svc.DeleteAccount(context.Background(), owner); err != nil {
		t.Fatalf("DeleteAccount returned error: %v", err)
	}

	if _, err := f.svc.GetCurrent(context.Background(), owner); err != domain.ErrProfileNotFound {
		t.Fatalf("expected ErrProfileNotFound after deletion, got %v", err)
	}
	if _, err := f.users.FindByID(context.Background(), owner); err != domain.ErrUserNotFound {
		t.Fatalf("expected user to be deleted, got %v", err)
	}
}

func TestProfileService_DeleteAccount_WithoutProfile(t *testing.T) {
	f := newProfileFixture(Options{})
	owner := f.addUser(t, "Alice", "alice@example.com")

	// deleting an account that never submitted a profile still removes the user
	if err := f.svc.DeleteAccount(context.Background(), owner); err != nil {
		t.Fatalf("DeleteAccount returned error: %v", err)
	}
	if _, err := f.users.FindByID(context.Background(), owner); err != domain.ErrUserNotFound {
		t.Fatalf("expected user to be deleted, got %v", err)
	}
}

func TestProfileService_MutationsInvalidateCacheAndAudit(t *testing.T) {
	f := newProfileFixture(Options{})
	owner := f.addUser(t, "Alice", "alice@example.com")
	mustUpsert(t, f, owner)

	if len(f.cache.invalidated) == 0 || f.cache.invalidated[0] != owner {
		t.Fatalf("upsert must invalidate the owner's cache entries, got %v", f.cache.invalidated)
	}
	actions := f.pub.actions()
	if len(actions) == 0 || actions[0] != ports.ActionProfileUpserted {
		t.Fatalf("upsert must publish an audit event, got %v", actions)
	}
}

func mustUpsert(t *testing.T, f *profileFixture, owner string) {
	t.Helper()
	if _, err := f.svc.Upsert(context.Background(), owner, ports.ProfileInput{
		Status: strptr("Developer"),
		Skills: strptr("go"),
	}); err != nil {
		t.Fatalf("upsert fixture profile: %v", err)
	}
}

func addTwoExperiences(t *testing.T, f *profileFixture, owner string) *domain.Profile {
	t.Helper()
	from := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	if _, err := f.svc.AddExperience(context.Background(), owner, ports.ExperienceInput{Title: "R1", Company: "C1", From: from}); err != nil {
		t.Fatalf("add R1: %v", err)
	}
	p, err := f.svc.AddExperience(context.Background(), owner, ports.ExperienceInput{Title: "R2", Company: "C2", From: from})
	if err != nil {
		t.Fatalf("add R2: %v", err)
	}
	return p
}
