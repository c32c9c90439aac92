package repo

import (
	"testing"

	"StaffBot/model"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
)

func nopLogger() zerolog.Logger { return zerolog.Nop() }

func TestFirebaseRecordsKeepOrder(t *testing.T) {
	all := []model.Worker{bobur, anvar}
	records := workersToRecords(all)
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if records["2"].Order != 0 || records["1"].Order != 1 {
		t.Errorf("unexpected order: %+v", records)
	}
	if diff := cmp.Diff(all, recordsToWorkers(records)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestFirebaseRecordUsesKeyWhenIDMissing(t *testing.T) {
	records := map[string]firebaseRecord{
		"77": {Worker: model.Worker{FirstName: "Key", LastName: "Only", PhoneNumber: "+1"}},
	}
	got := recordsToWorkers(records)
	if len(got) != 1 || got[0].UserID != 77 {
		t.Fatalf("recordsToWorkers = %+v, want user id 77 from key", got)
	}
}
