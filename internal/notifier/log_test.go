package notifier

import (
	"context"
	"testing"

	"agent-directory/internal/model"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestLogNotifierWritesSubmissions(t *testing.T) {
	logger, hook := test.NewNullLogger()
	n := NewLogNotifier(logrus.NewEntry(logger))

	subs := []model.AgentSubmission{{ID: "sub-1", Slug: "ana-lopez", Nombre: "Ana López"}}
	if err := n.Notify(context.Background(), subs); err != nil {
		t.Fatalf("Notify error: %v", err)
	}

	entry := hook.LastEntry()
	if entry == nil {
		t.Fatalf("expected a log entry")
	}
	if entry.Data["slug"] != "ana-lopez" || entry.Data["submission_id"] != "sub-1" {
		t.Fatalf("log entry missing submission info: %+v", entry.Data)
	}
}

func TestLogNotifierSkipsEmpty(t *testing.T) {
	logger, hook := test.NewNullLogger()
	n := NewLogNotifier(logrus.NewEntry(logger))

	if err := n.Notify(context.Background(), nil); err != nil {
		t.Fatalf("Notify error: %v", err)
	}
	if len(hook.AllEntries()) != 0 {
		t.Fatalf("expected no log output, got %d entries", len(hook.AllEntries()))
	}
}
