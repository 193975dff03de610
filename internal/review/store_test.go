package review

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"agent-directory/internal/apperr"
	"agent-directory/internal/model"
	"agent-directory/internal/storage"
)

func newSQLiteEngine(t *testing.T) (*Engine, *storage.Store) {
	t.Helper()

	store, err := storage.NewStore(storage.Config{Path: filepath.Join(t.TempDir(), "review.db")})
	if err != nil {
		t.Fatalf("NewStore error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return NewEngine(Transactional(store.Transaction), nil), store
}

func TestApproveAgainstSQLite(t *testing.T) {
	t.Parallel()

	engine, store := newSQLiteEngine(t)
	ctx := context.Background()

	sub := pendingSubmission()
	sub.ID = ""
	if err := store.CreateSubmission(ctx, &sub); err != nil {
		t.Fatalf("CreateSubmission error: %v", err)
	}

	if _, err := engine.Approve(ctx, sub.ID); err != nil {
		t.Fatalf("Approve error: %v", err)
	}
	agent, err := store.GetAgent(ctx, "ana-lopez")
	if err != nil {
		t.Fatalf("GetAgent error: %v", err)
	}
	if len(agent.Experiencia) != 2 || len(agent.Aseguradoras) != 2 {
		t.Fatalf("unexpected promoted agent %+v", agent)
	}
	stored, err := store.GetSubmission(ctx, sub.ID)
	if err != nil {
		t.Fatalf("GetSubmission error: %v", err)
	}
	if stored.Status != model.SubmissionApproved || stored.ReviewedAt == nil {
		t.Fatalf("expected persisted approval, got %+v", stored)
	}

	if _, err := engine.Approve(ctx, sub.ID); !errors.Is(err, apperr.ErrStateConflict) {
		t.Fatalf("expected state conflict on second approve, got %v", err)
	}
	agents, err := store.ListAgents(ctx)
	if err != nil {
		t.Fatalf("ListAgents error: %v", err)
	}
	if len(agents) != 1 {
		t.Fatalf("expected exactly 1 agent, got %d", len(agents))
	}
}

func TestApproveSlugCollisionLeavesPending(t *testing.T) {
	t.Parallel()

	engine, store := newSQLiteEngine(t)
	ctx := context.Background()

	existing := model.AgentInput{Slug: "ana-lopez", Nombre: "Otra Ana"}.ToAgent()
	if err := store.CreateAgent(ctx, &existing); err != nil {
		t.Fatalf("CreateAgent error: %v", err)
	}
	sub := pendingSubmission()
	sub.ID = ""
	if err := store.CreateSubmission(ctx, &sub); err != nil {
		t.Fatalf("CreateSubmission error: %v", err)
	}

	_, err := engine.Approve(ctx, sub.ID)
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected duplicate key error, got %v", err)
	}
	stored, err := store.GetSubmission(ctx, sub.ID)
	if err != nil {
		t.Fatalf("GetSubmission error: %v", err)
	}
	if stored.Status != model.SubmissionPending || stored.ReviewedAt != nil {
		t.Fatalf("expected submission to remain pending, got %+v", stored)
	}
	agent, err := store.GetAgent(ctx, "ana-lopez")
	if err != nil {
		t.Fatalf("GetAgent error: %v", err)
	}
	if agent.Nombre != "Otra Ana" {
		t.Fatalf("expected existing agent untouched, got %s", agent.Nombre)
	}
}

func TestConcurrentApproveSucceedsOnce(t *testing.T) {
	t.Parallel()

	engine, store := newSQLiteEngine(t)
	ctx := context.Background()

	sub := pendingSubmission()
	sub.ID = ""
	if err := store.CreateSubmission(ctx, &sub); err != nil {
		t.Fatalf("CreateSubmission error: %v", err)
	}

	const workers = 4
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = engine.Approve(ctx, sub.ID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, apperr.ErrStateConflict):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("expected exactly one approval to succeed, got %d", succeeded)
	}
	agents, err := store.ListAgents(ctx)
	if err != nil {
		t.Fatalf("ListAgents error: %v", err)
	}
	if len(agents) != 1 {
		t.Fatalf("expected exactly 1 agent, got %d", len(agents))
	}
}
