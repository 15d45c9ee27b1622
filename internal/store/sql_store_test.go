package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/roasbeef/revue/internal/db"
)

// newTestStore opens a fresh migrated database under the test's temp dir.
func newTestStore(t *testing.T) *SQLStore {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	dbPath := filepath.Join(t.TempDir(), "revue-test.db")
	sqlDB, err := db.Open(dbPath, logger)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	st := NewSQLStore(db.NewBaseDB(sqlDB), logger)
	t.Cleanup(func() {
		_ = st.Close()
	})

	return st
}

// TestSubmissionLifecycle exercises create, fetch, field updates, and
// delete for a single submission.
func TestSubmissionLifecycle(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	sub, err := st.CreateSubmission(ctx, CreateSubmissionParams{
		ID:           "sub-1",
		Title:        "Graph Attention Revisited",
		Content:      "paper text",
		ConferenceID: "neurips",
		Status:       "screening",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if sub.Status != "screening" || !sub.CreatedAt.Equal(sub.UpdatedAt) {
		t.Fatalf("unexpected new submission: %+v", sub)
	}
	if sub.Result != nil {
		t.Fatal("new submission should have no result snapshot")
	}

	if err := st.UpdateSubmissionStatus(ctx, "sub-1", "reviewing"); err != nil {
		t.Fatalf("update status: %v", err)
	}
	if err := st.UpdateSubmissionResult(ctx, "sub-1", []byte(`{"summary":"ok"}`)); err != nil {
		t.Fatalf("update result: %v", err)
	}
	if err := st.UpdateSubmissionContent(ctx, "sub-1", "extracted text"); err != nil {
		t.Fatalf("update content: %v", err)
	}

	got, err := st.GetSubmission(ctx, "sub-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != "reviewing" {
		t.Fatalf("expected status reviewing, got %q", got.Status)
	}
	if string(got.Result) != `{"summary":"ok"}` {
		t.Fatalf("unexpected result snapshot: %s", got.Result)
	}
	if got.Content != "extracted text" {
		t.Fatalf("unexpected content: %q", got.Content)
	}

	if err := st.DeleteSubmission(ctx, "sub-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := st.GetSubmission(ctx, "sub-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

// TestUpdateMissingSubmission verifies zero-row updates surface ErrNotFound.
func TestUpdateMissingSubmission(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	if err := st.UpdateSubmissionStatus(ctx, "ghost", "failed"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := st.DeleteSubmission(ctx, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// TestListSubmissionsNewestFirst verifies the dashboard ordering contract.
func TestListSubmissionsNewestFirst(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		_, err := st.CreateSubmission(ctx, CreateSubmissionParams{
			ID:           id,
			Title:        "paper " + id,
			Content:      "text",
			ConferenceID: "iclr",
			Status:       "screening",
		})
		if err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}

	subs, err := st.ListSubmissions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(subs) != 3 {
		t.Fatalf("expected 3 submissions, got %d", len(subs))
	}

	// Creation timestamps may collide within the same millisecond, so the
	// id tiebreaker decides: later inserts sort first.
	if subs[0].ID != "c" || subs[2].ID != "a" {
		t.Fatalf("unexpected order: %s, %s, %s",
			subs[0].ID, subs[1].ID, subs[2].ID)
	}
}

// TestRebuttalAppendOrder verifies dialogue turns come back in append order
// and cascade away with their submission.
func TestRebuttalAppendOrder(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	_, err := st.CreateSubmission(ctx, CreateSubmissionParams{
		ID:           "sub-1",
		Title:        "t",
		Content:      "c",
		ConferenceID: "acl",
		Status:       "completed",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	turns := []struct{ role, text string }{
		{"user", "we disagree with W1"},
		{"model", "the objection stands"},
		{"user", "new evidence attached"},
	}
	for _, turn := range turns {
		_, err := st.AppendRebuttalMessage(
			ctx, AppendRebuttalMessageParams{
				SubmissionID: "sub-1",
				Role:         turn.role,
				Text:         turn.text,
			},
		)
		if err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	msgs, err := st.ListRebuttalMessages(ctx, "sub-1")
	if err != nil {
		t.Fatalf("list turns: %v", err)
	}
	if len(msgs) != len(turns) {
		t.Fatalf("expected %d turns, got %d", len(turns), len(msgs))
	}
	for i, msg := range msgs {
		if msg.Role != turns[i].role || msg.Text != turns[i].text {
			t.Fatalf("turn %d mismatch: %+v", i, msg)
		}
	}

	if err := st.DeleteSubmission(ctx, "sub-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	msgs, err = st.ListRebuttalMessages(ctx, "sub-1")
	if err != nil {
		t.Fatalf("list after delete: %v", err)
	}
	if len(msgs) != 0 {
		t.Fatalf("expected cascade delete, got %d turns", len(msgs))
	}
}

// TestAppConfigSnapshot verifies the single-row snapshot semantics.
func TestAppConfigSnapshot(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	if _, err := st.GetAppConfig(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound before first write, got %v",
			err)
	}

	if err := st.SetAppConfig(ctx, []byte(`{"v":1}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := st.SetAppConfig(ctx, []byte(`{"v":2}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	data, err := st.GetAppConfig(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(data) != `{"v":2}` {
		t.Fatalf("expected full overwrite, got %s", data)
	}
}
