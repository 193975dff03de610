package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"agent-directory/internal/apperr"
	"agent-directory/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(Config{Path: filepath.Join(t.TempDir(), "agents.db")})
	if err != nil {
		t.Fatalf("NewStore error: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestStoreUpsertAndList(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	first := model.AgentInput{Slug: "ana-lopez", Nombre: "Ana López", Especialidades: []string{"vehiculos"}}.ToAgent()
	second := model.AgentInput{Slug: "luis-perez", Nombre: "Luis Pérez", MediaThumbs: []string{"assets/a.png"}}.ToAgent()

	for _, a := range []*model.Agent{&first, &second} {
		if err := store.UpsertAgent(ctx, a); err != nil {
			t.Fatalf("UpsertAgent error: %v", err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	// Re-upsert with updated name to ensure we overwrite the existing row instead of inserting.
	again := model.AgentInput{Slug: "luis-perez", Nombre: "Luis Pérez Ruiz"}.ToAgent()
	if err := store.UpsertAgent(ctx, &again); err != nil {
		t.Fatalf("UpsertAgent second run error: %v", err)
	}

	got, err := store.ListAgents(ctx)
	if err != nil {
		t.Fatalf("ListAgents error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 agents, got %d", len(got))
	}
	if got[0].Slug != "luis-perez" { // ordered by creation time desc
		t.Fatalf("expected most recent agent first, got %s", got[0].Slug)
	}
	if got[0].Nombre != "Luis Pérez Ruiz" {
		t.Fatalf("expected updated name to persist, got %s", got[0].Nombre)
	}
	if got[0].MediaHero != nil {
		t.Fatalf("expected upsert to overwrite media hero, got %v", *got[0].MediaHero)
	}
	if len(got[1].Especialidades) != 1 || got[1].Especialidades[0] != "vehiculos" {
		t.Fatalf("expected especialidades to round-trip, got %v", got[1].Especialidades)
	}
}

func TestAgentCRUD(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	agent := model.AgentInput{Slug: "maria", Nombre: "María"}.ToAgent()
	if err := store.CreateAgent(ctx, &agent); err != nil {
		t.Fatalf("CreateAgent error: %v", err)
	}

	dup := model.AgentInput{Slug: "maria", Nombre: "Otra María"}.ToAgent()
	err := store.CreateAgent(ctx, &dup)
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected duplicate key error, got %v", err)
	}

	exists, err := store.AgentExists(ctx, "maria")
	if err != nil || !exists {
		t.Fatalf("expected agent to exist, got %v %v", exists, err)
	}

	payload := model.AgentInput{Slug: "maria-gomez", Nombre: "María Gómez", Cedula: "X123"}.ToAgent()
	updated, err := store.UpdateAgent(ctx, "maria", &payload)
	if err != nil {
		t.Fatalf("UpdateAgent error: %v", err)
	}
	if updated.Slug != "maria-gomez" {
		t.Fatalf("expected re-keyed slug, got %s", updated.Slug)
	}
	if _, err := store.GetAgent(ctx, "maria"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected old slug to be gone, got %v", err)
	}
	fetched, err := store.GetAgent(ctx, "maria-gomez")
	if err != nil {
		t.Fatalf("GetAgent error: %v", err)
	}
	if fetched.Cedula != "X123" {
		t.Fatalf("expected cedula X123, got %s", fetched.Cedula)
	}

	if _, err := store.UpdateAgent(ctx, "nobody", &payload); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found on update, got %v", err)
	}

	if err := store.DeleteAgent(ctx, "maria-gomez"); err != nil {
		t.Fatalf("DeleteAgent error: %v", err)
	}
	if err := store.DeleteAgent(ctx, "maria-gomez"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestSubmissionLifecycle(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	sub := &model.AgentSubmission{Slug: "ana", Nombre: "Ana"}
	if err := store.CreateSubmission(ctx, sub); err != nil {
		t.Fatalf("CreateSubmission error: %v", err)
	}
	if sub.ID == "" || sub.Status != model.SubmissionPending {
		t.Fatalf("expected generated id and pending status, got %+v", sub)
	}

	if err := store.CreateSubmission(ctx, &model.AgentSubmission{Slug: "ana", Nombre: "Ana 2"}); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict on duplicate submission slug, got %v", err)
	}

	other := &model.AgentSubmission{Slug: "beto", Nombre: "Beto"}
	if err := store.CreateSubmission(ctx, other); err != nil {
		t.Fatalf("CreateSubmission error: %v", err)
	}

	notes := "incomplete"
	err := store.TransitionSubmission(ctx, other.ID, model.Transition{
		From: model.SubmissionPending, To: model.SubmissionRejected, At: time.Now(), Notes: &notes,
	})
	if err != nil {
		t.Fatalf("TransitionSubmission error: %v", err)
	}

	err = store.TransitionSubmission(ctx, other.ID, model.Transition{
		From: model.SubmissionPending, To: model.SubmissionApproved, At: time.Now(),
	})
	if !errors.Is(err, apperr.ErrStateConflict) {
		t.Fatalf("expected state conflict, got %v", err)
	}

	err = store.TransitionSubmission(ctx, "missing", model.Transition{
		From: model.SubmissionPending, To: model.SubmissionApproved, At: time.Now(),
	})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	pending, err := store.ListSubmissions(ctx, model.SubmissionPending)
	if err != nil {
		t.Fatalf("ListSubmissions error: %v", err)
	}
	if len(pending) != 1 || pending[0].Slug != "ana" {
		t.Fatalf("expected only ana pending, got %+v", pending)
	}

	all, err := store.ListSubmissions(ctx, "")
	if err != nil {
		t.Fatalf("ListSubmissions error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 submissions, got %d", len(all))
	}

	rejected, err := store.GetSubmission(ctx, other.ID)
	if err != nil {
		t.Fatalf("GetSubmission error: %v", err)
	}
	if rejected.Status != model.SubmissionRejected || rejected.ReviewedAt == nil {
		t.Fatalf("expected rejected with reviewedAt, got %+v", rejected)
	}
	if rejected.ReviewNotes == nil || *rejected.ReviewNotes != "incomplete" {
		t.Fatalf("expected review notes to persist")
	}
}

func TestTransactionRollsBack(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := store.Transaction(ctx, func(tx *Store) error {
		agent := model.AgentInput{Slug: "temp", Nombre: "Temp"}.ToAgent()
		if err := tx.CreateAgent(ctx, &agent); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	exists, err := store.AgentExists(ctx, "temp")
	if err != nil {
		t.Fatalf("AgentExists error: %v", err)
	}
	if exists {
		t.Fatalf("expected rolled back agent to be absent")
	}
}
