package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/devconnector/profile-api/internal/core/ports"
)

type stubEventRepo struct {
	inserted []*ports.ProfileEventInput
	err      error
}

func (r *stubEventRepo) InsertEvent(_ context.Context, e *ports.ProfileEventInput) error {
	if r.err != nil {
		return r.err
	}
	r.inserted = append(r.inserted, e)
	return nil
}

func TestEventService_Process_Success(t *testing.T) {
	repo := &stubEventRepo{}
	svc := NewEventService(repo, zerolog.Nop())

	event := ports.ProfileEventInput{UserID: "user_1", Action: ports.ActionProfileUpserted, At: time.Now().UTC()}
	if err := svc.Process(context.Background(), event); err != nil {
		t.Fatalf("Process returned error: %v", err)
	}

	if len(repo.inserted) != 1 || repo.inserted[0].Action != ports.ActionProfileUpserted {
		t.Fatalf("event not persisted: %+v", repo.inserted)
	}
}

func TestEventService_Process_InsertFailure(t *testing.T) {
	repoErr := errors.New("write failed")
	svc := NewEventService(&stubEventRepo{err: repoErr}, zerolog.Nop())

	err := svc.Process(context.Background(), ports.ProfileEventInput{UserID: "user_1", Action: ports.ActionLogin})
	if !errors.Is(err, repoErr) {
		t.Fatalf("expected wrapped repo error, got %v", err)
	}
}
