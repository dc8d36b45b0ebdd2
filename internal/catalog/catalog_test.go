package catalog

import (
	"path/filepath"
	"testing"
)

func TestRecordAndGetRun(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	buckets := map[int]int{3: 2, 7: 1}
	id, err := db.RecordRun("/archives/run1.tar.gz", 3, buckets)
	if err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if id == "" {
		t.Fatal("RecordRun returned empty ID")
	}

	run, err := db.GetRun(id)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run.Archive != "/archives/run1.tar.gz" {
		t.Errorf("Archive = %q", run.Archive)
	}
	if run.CaseCount != 3 {
		t.Errorf("CaseCount = %d, want 3", run.CaseCount)
	}
	if len(run.Buckets) != 2 || run.Buckets[3] != 2 || run.Buckets[7] != 1 {
		t.Errorf("Buckets = %v, want %v", run.Buckets, buckets)
	}
	if run.Timestamp.IsZero() {
		t.Error("Timestamp not set")
	}
}

func TestGetRunMissing(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	if _, err := db.GetRun("no-such-run"); err == nil {
		t.Fatal("GetRun on missing ID: want error")
	}
}

func TestListRuns(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	ids, err := db.ListRuns()
	if err != nil {
		t.Fatalf("ListRuns (empty): %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("ListRuns on fresh catalog = %v", ids)
	}

	a, err := db.RecordRun("/archives/a.tar.gz", 1, nil)
	if err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	b, err := db.RecordRun("/archives/b.tar.gz", 2, map[int]int{5: 4})
	if err != nil {
		t.Fatalf("RecordRun: %v", err)
	}

	ids, err = db.ListRuns()
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("ListRuns = %v, want 2 entries", ids)
	}
	seen := map[string]bool{ids[0]: true, ids[1]: true}
	if !seen[a] || !seen[b] {
		t.Errorf("ListRuns = %v, missing %s or %s", ids, a, b)
	}
}

func TestOpenReusesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	id, err := db.RecordRun("/archives/keep.tar.gz", 9, map[int]int{2: 2})
	if err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	db.Close()

	db, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()
	run, err := db.GetRun(id)
	if err != nil {
		t.Fatalf("GetRun after reopen: %v", err)
	}
	if run.CaseCount != 9 {
		t.Errorf("CaseCount after reopen = %d, want 9", run.CaseCount)
	}
}
