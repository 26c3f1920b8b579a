package repository

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"estate_assistant_backend/internal/leads/domain"
	"estate_assistant_backend/platform/apperr"
	"estate_assistant_backend/platform/logger"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "leads.json"), logger.New("development"))
}

func sampleLead(id string, score int, createdAt time.Time) domain.Record {
	return domain.Record{
		ID:        id,
		Phone:     "233201234567",
		Score:     score,
		Source:    domain.Source,
		Status:    domain.StatusPendingSync,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestAppendAndList(t *testing.T) {
	repo := newTestRepo(t)
	now := time.Now().UTC()

	for i, id := range []string{"a", "b", "c"} {
		if err := repo.Append(sampleLead(id, 60+20*i, now)); err != nil {
			t.Fatalf("append %s: %v", id, err)
		}
	}

	all, err := repo.List(ListFilters{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 leads, got %d", len(all))
	}
	for i, want := range []string{"a", "b", "c"} {
		if all[i].ID != want {
			t.Fatalf("insertion order not preserved at %d: got %s", i, all[i].ID)
		}
	}
}

func TestList_MinScoreInclusive(t *testing.T) {
	repo := newTestRepo(t)
	now := time.Now().UTC()
	for i, score := range []int{60, 80, 100} {
		if err := repo.Append(sampleLead(string(rune('a'+i)), score, now)); err != nil {
			t.Fatal(err)
		}
	}

	min := 80
	got, err := repo.List(ListFilters{MinScore: &min})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 leads with score >= 80, got %d", len(got))
	}
	if got[0].Score != 80 || got[1].Score != 100 {
		t.Fatalf("wrong leads or order: %d, %d", got[0].Score, got[1].Score)
	}
}

func TestList_StatusAndDateRange(t *testing.T) {
	repo := newTestRepo(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	early := sampleLead("early", 80, base.Add(-48*time.Hour))
	mid := sampleLead("mid", 80, base)
	late := sampleLead("late", 80, base.Add(48*time.Hour))
	for _, lead := range []domain.Record{early, mid, late} {
		if err := repo.Append(lead); err != nil {
			t.Fatal(err)
		}
	}

	start := base.Add(-time.Hour)
	end := base.Add(time.Hour)
	got, err := repo.List(ListFilters{StartDate: &start, EndDate: &end})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "mid" {
		t.Fatalf("date range filter wrong: %+v", got)
	}

	pending := domain.StatusPendingSync
	got, err = repo.List(ListFilters{Status: &pending})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("status filter wrong: got %d", len(got))
	}
}

func TestUpdateStatus_UnknownIDLeavesCollectionUnchanged(t *testing.T) {
	repo := newTestRepo(t)
	if err := repo.Append(sampleLead("known", 80, time.Now().UTC())); err != nil {
		t.Fatal(err)
	}

	_, err := repo.UpdateStatus("missing", domain.StatusSynced, nil)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}

	all, err := repo.List(ListFilters{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 || all[0].Status != domain.StatusPendingSync {
		t.Fatalf("collection must be unchanged: %+v", all)
	}
}

func TestUpdateStatus_TransitionAndTerminality(t *testing.T) {
	repo := newTestRepo(t)
	created := time.Now().UTC().Add(-time.Minute)
	if err := repo.Append(sampleLead("l1", 100, created)); err != nil {
		t.Fatal(err)
	}

	syncErr := "connection refused"
	updated, err := repo.UpdateStatus("l1", domain.StatusSyncFailed, &syncErr)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Status != domain.StatusSyncFailed {
		t.Fatalf("status: got %s", updated.Status)
	}
	if updated.LastSyncError == nil || *updated.LastSyncError != syncErr {
		t.Fatalf("lastSyncError not recorded: %v", updated.LastSyncError)
	}
	if !updated.UpdatedAt.After(created) {
		t.Fatal("updatedAt must advance")
	}

	// Terminal statuses never revert.
	_, err = repo.UpdateStatus("l1", domain.StatusPendingSync, nil)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected terminal transition rejection, got %v", err)
	}

	all, _ := repo.List(ListFilters{})
	if all[0].Status != domain.StatusSyncFailed {
		t.Fatalf("terminal status reverted to %s", all[0].Status)
	}
}

func TestList_CorruptBackingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "leads.json")
	if err := os.WriteFile(path, []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}

	repo := New(path, logger.New("development"))
	all, err := repo.List(ListFilters{})
	if err != nil {
		t.Fatalf("corrupt store must read as empty, got %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("expected empty collection, got %d", len(all))
	}

	if err := repo.Append(sampleLead("after", 80, time.Now().UTC())); err != nil {
		t.Fatalf("store must stay usable after corruption: %v", err)
	}
}
