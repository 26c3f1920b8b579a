package domain

import (
	"strings"
	"testing"
	"time"
)

func ptr(s string) *string { return &s }

func TestMerge_OverrideWins(t *testing.T) {
	base := Partial{Name: ptr("heuristic"), Location: ptr("accra")}
	override := Partial{Name: ptr("Ama")}

	merged := Merge(base, override)

	if merged.Name == nil || *merged.Name != "Ama" {
		t.Fatalf("override must win: got %v", merged.Name)
	}
	if merged.Location == nil || *merged.Location != "accra" {
		t.Fatalf("absent override fields must fill from base: got %v", merged.Location)
	}
}

func TestMerge_BlankOverrideCountsAsAbsent(t *testing.T) {
	base := Partial{Budget: ptr("GHS 400,000")}
	override := Partial{Budget: ptr("   ")}

	merged := Merge(base, override)

	if merged.Budget == nil || *merged.Budget != "GHS 400,000" {
		t.Fatalf("blank override must not mask base value: got %v", merged.Budget)
	}
}

func TestScore_MultipleOfTwentyWithinRange(t *testing.T) {
	cases := []struct {
		name string
		p    Partial
		want int
	}{
		{"empty", Partial{}, 0},
		{"one field", Partial{Name: ptr("Ama")}, 20},
		{"three fields", Partial{Name: ptr("Ama"), Location: ptr("accra"), Type: ptr("apartment")}, 60},
		{"four fields", Partial{Name: ptr("Ama"), Budget: ptr("GHS 400,000"), Location: ptr("accra"), Type: ptr("apartment")}, 80},
		{"all fields", Partial{Name: ptr("Ama"), Budget: ptr("GHS 400,000"), Location: ptr("accra"), Type: ptr("apartment"), Timeline: ptr("next month")}, 100},
	}

	for _, tc := range cases {
		got := Score(tc.p)
		if got != tc.want {
			t.Fatalf("%s: score %d, want %d", tc.name, got, tc.want)
		}
		if got < 0 || got > 100 || got%20 != 0 {
			t.Fatalf("%s: score %d out of contract", tc.name, got)
		}
	}
}

func TestSynthesize_BelowThresholdProducesNoRecord(t *testing.T) {
	now := time.Now()

	// Three fields: score 60.
	if rec := Synthesize(Partial{Location: ptr("accra"), Type: ptr("apartment")}, Partial{Name: ptr("Ama")}, "summary", "233201234567", now); rec != nil {
		t.Fatalf("score 60 must not synthesize a record, got %+v", rec)
	}
}

func TestSynthesize_AtThresholdProducesRecord(t *testing.T) {
	now := time.Now()
	heuristic := Partial{Location: ptr("accra"), Type: ptr("apartment"), Budget: ptr("GHS 400,000")}
	model := Partial{Name: ptr("Ama"), Timeline: nil}

	rec := Synthesize(heuristic, model, "wants a place in accra", "233201234567", now)
	if rec == nil {
		t.Fatal("score 80 must synthesize a record")
	}
	if rec.Score != 80 {
		t.Fatalf("score: got %d want 80", rec.Score)
	}
	if rec.Status != StatusPendingSync {
		t.Fatalf("new records start pending_sync, got %s", rec.Status)
	}
	if rec.Source != Source {
		t.Fatalf("source: got %s", rec.Source)
	}
	if rec.Phone != "233201234567" {
		t.Fatalf("phone: got %s", rec.Phone)
	}
	if !strings.HasPrefix(rec.ID, "233201234567-") {
		t.Fatalf("id must embed the sender: %s", rec.ID)
	}
	if rec.CreatedAt != now || rec.UpdatedAt != now {
		t.Fatal("timestamps must be set at creation")
	}
}

func TestSynthesize_ModelOverridesHeuristic(t *testing.T) {
	heuristic := Partial{Name: ptr("whatsapp prospect"), Budget: ptr("GHS 100,000"), Location: ptr("accra"), Type: ptr("apartment"), Timeline: ptr("immediate")}
	model := Partial{Name: ptr("Kofi Mensah"), Budget: ptr("GHS 950,000")}

	rec := Synthesize(heuristic, model, "", "233501112222", time.Now())
	if rec == nil {
		t.Fatal("expected a record")
	}
	if *rec.Details.Name != "Kofi Mensah" {
		t.Fatalf("model name must win, got %s", *rec.Details.Name)
	}
	if *rec.Details.Budget != "GHS 950,000" {
		t.Fatalf("model budget must win, got %s", *rec.Details.Budget)
	}
	if *rec.Details.Location != "accra" {
		t.Fatalf("heuristic location must backfill, got %s", *rec.Details.Location)
	}
}

func TestNewID_Unique(t *testing.T) {
	now := time.Now()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewID("233201234567", now)
		if seen[id] {
			t.Fatalf("duplicate id generated: %s", id)
		}
		seen[id] = true
	}
}

func TestStatusTerminality(t *testing.T) {
	if StatusPendingSync.IsTerminal() {
		t.Fatal("pending_sync is not terminal")
	}
	if !StatusSynced.IsTerminal() || !StatusSyncFailed.IsTerminal() {
		t.Fatal("synced and sync_failed are terminal")
	}
}
