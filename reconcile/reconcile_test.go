package reconcile

import (
	"errors"
	"reflect"
	"testing"
)

const (
	testSuffix     = " - Luterana Biguaçu"
	testDatePrefix = `^Mensagem \d{2}/\d{2} - `
	testNoToken    = "Não"
)

func newTestReconciler(t *testing.T) *Reconciler {
	t.Helper()
	norm, err := NewNormalizer(testSuffix, testDatePrefix)
	if err != nil {
		t.Fatalf("NewNormalizer() error = %v", err)
	}
	return NewReconciler(norm, testNoToken)
}

func TestReconcileNewVideoAgainstEmptyLedger(t *testing.T) {
	r := newTestReconciler(t)

	catalog := []CatalogItem{
		{VideoID: "v1", Title: "Talk - Luterana Biguaçu", PublishedAt: "2024-03-01T00:00:00Z"},
	}

	result, err := r.Reconcile(catalog, nil)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	wantRow := []string{
		"2024", "Talk", "https://www.youtube.com/watch?v=v1",
		"00:00:00", "00:00:00", "00:00:00", "Não", "Não",
	}
	if len(result.NewRows) != 1 || !reflect.DeepEqual(result.NewRows[0], wantRow) {
		t.Errorf("NewRows = %v, want [%v]", result.NewRows, wantRow)
	}
	if len(result.Downloads) != 0 {
		t.Errorf("Downloads = %v, want empty", result.Downloads)
	}
}

func TestReconcileMatchedRowWithWindowQueuesDownload(t *testing.T) {
	r := newTestReconciler(t)

	catalog := []CatalogItem{
		{VideoID: "v2", Title: "Talk - Luterana Biguaçu", PublishedAt: "2024-03-01T00:00:00Z"},
	}
	ledger := []LedgerRow{
		{Title: "Talk", StartTime: "00:10:00", EndTime: "00:40:00"},
	}

	result, err := r.Reconcile(catalog, ledger)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	if len(result.NewRows) != 0 {
		t.Errorf("NewRows = %v, want empty", result.NewRows)
	}
	want := DownloadItem{VideoID: "v2", Title: "Talk", StartTime: "00:10:00", EndTime: "00:40:00"}
	if len(result.Downloads) != 1 || result.Downloads[0] != want {
		t.Errorf("Downloads = %v, want [%v]", result.Downloads, want)
	}
}

func TestReconcileMatchedRowAlreadyOnline(t *testing.T) {
	r := newTestReconciler(t)

	catalog := []CatalogItem{
		{VideoID: "v2", Title: "Talk - Luterana Biguaçu", PublishedAt: "2024-03-01T00:00:00Z"},
	}
	ledger := []LedgerRow{
		{Title: "Talk", StartTime: "00:10:00", EndTime: "00:40:00", Online: true},
	}

	result, err := r.Reconcile(catalog, ledger)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if len(result.NewRows) != 0 || len(result.Downloads) != 0 {
		t.Errorf("got NewRows=%v Downloads=%v, want both empty", result.NewRows, result.Downloads)
	}
}

func TestReconcileMatchedRowAlreadyDownloaded(t *testing.T) {
	r := newTestReconciler(t)

	catalog := []CatalogItem{
		{VideoID: "v2", Title: "Talk - Luterana Biguaçu", PublishedAt: "2024-03-01T00:00:00Z"},
	}
	ledger := []LedgerRow{
		{Title: "Talk", StartTime: "00:10:00", EndTime: "00:40:00", Downloaded: true},
	}

	result, err := r.Reconcile(catalog, ledger)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if len(result.NewRows) != 0 || len(result.Downloads) != 0 {
		t.Errorf("got NewRows=%v Downloads=%v, want both empty", result.NewRows, result.Downloads)
	}
}

func TestReconcileMatchedRowWithoutWindow(t *testing.T) {
	r := newTestReconciler(t)

	catalog := []CatalogItem{
		{VideoID: "v2", Title: "Talk - Luterana Biguaçu", PublishedAt: "2024-03-01T00:00:00Z"},
	}
	ledger := []LedgerRow{
		{Title: "Talk", StartTime: ZeroTime, EndTime: ZeroTime},
	}

	result, err := r.Reconcile(catalog, ledger)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if len(result.NewRows) != 0 || len(result.Downloads) != 0 {
		t.Errorf("got NewRows=%v Downloads=%v, want both empty", result.NewRows, result.Downloads)
	}
}

func TestReconcileSkipsItemsWithoutVideoID(t *testing.T) {
	r := newTestReconciler(t)

	catalog := []CatalogItem{
		{Title: "Playlist result - Luterana Biguaçu", PublishedAt: "not-a-timestamp"},
	}
	ledger := []LedgerRow{
		{Title: "Playlist result", StartTime: "00:10:00", EndTime: "00:40:00"},
	}

	result, err := r.Reconcile(catalog, ledger)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if len(result.NewRows) != 0 || len(result.Downloads) != 0 {
		t.Errorf("got NewRows=%v Downloads=%v, want both empty", result.NewRows, result.Downloads)
	}
}

// The catalog arrives newest first; outputs must come out oldest first so
// appended ledger rows stay chronological.
func TestReconcileEmitsOldestFirst(t *testing.T) {
	r := newTestReconciler(t)

	catalog := []CatalogItem{
		{VideoID: "new", Title: "Newest - Luterana Biguaçu", PublishedAt: "2024-03-02T00:00:00Z"},
		{VideoID: "mid", Title: "Middle - Luterana Biguaçu", PublishedAt: "2024-03-01T00:00:00Z"},
		{VideoID: "old", Title: "Oldest - Luterana Biguaçu", PublishedAt: "2024-02-01T00:00:00Z"},
	}

	result, err := r.Reconcile(catalog, nil)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if len(result.NewRows) != 3 {
		t.Fatalf("len(NewRows) = %d, want 3", len(result.NewRows))
	}
	gotOrder := []string{result.NewRows[0][1], result.NewRows[1][1], result.NewRows[2][1]}
	wantOrder := []string{"Oldest", "Middle", "Newest"}
	if !reflect.DeepEqual(gotOrder, wantOrder) {
		t.Errorf("NewRows title order = %v, want %v", gotOrder, wantOrder)
	}
}

func TestReconcileDownloadOrderFollowsCatalog(t *testing.T) {
	r := newTestReconciler(t)

	catalog := []CatalogItem{
		{VideoID: "b", Title: "Beta - Luterana Biguaçu", PublishedAt: "2024-03-02T00:00:00Z"},
		{VideoID: "a", Title: "Alpha - Luterana Biguaçu", PublishedAt: "2024-03-01T00:00:00Z"},
	}
	ledger := []LedgerRow{
		{Title: "Beta", StartTime: "00:01:00", EndTime: "00:02:00"},
		{Title: "Alpha", StartTime: "00:01:00", EndTime: "00:02:00"},
	}

	result, err := r.Reconcile(catalog, ledger)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if len(result.Downloads) != 2 {
		t.Fatalf("len(Downloads) = %d, want 2", len(result.Downloads))
	}
	if result.Downloads[0].VideoID != "a" || result.Downloads[1].VideoID != "b" {
		t.Errorf("download order = [%s %s], want [a b]",
			result.Downloads[0].VideoID, result.Downloads[1].VideoID)
	}
}

// Duplicate titles in the ledger: the first row in ledger order wins and
// later duplicates are never matched against.
func TestReconcileDuplicateLedgerTitlesFirstWins(t *testing.T) {
	r := newTestReconciler(t)

	catalog := []CatalogItem{
		{VideoID: "v1", Title: "Talk - Luterana Biguaçu", PublishedAt: "2024-03-01T00:00:00Z"},
	}
	ledger := []LedgerRow{
		{Title: "Talk", StartTime: "00:05:00", EndTime: "00:25:00"},
		{Title: "Talk", StartTime: "01:00:00", EndTime: "02:00:00"},
	}

	result, err := r.Reconcile(catalog, ledger)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if len(result.Downloads) != 1 {
		t.Fatalf("len(Downloads) = %d, want 1", len(result.Downloads))
	}
	if got := result.Downloads[0].StartTime; got != "00:05:00" {
		t.Errorf("StartTime = %s, want 00:05:00 (first ledger row)", got)
	}
}

func TestReconcileBadTimestampAbortsRun(t *testing.T) {
	r := newTestReconciler(t)

	catalog := []CatalogItem{
		{VideoID: "bad", Title: "Broken - Luterana Biguaçu", PublishedAt: "yesterday"},
		{VideoID: "ok", Title: "Fine - Luterana Biguaçu", PublishedAt: "2024-03-01T00:00:00Z"},
	}

	result, err := r.Reconcile(catalog, nil)
	if err == nil {
		t.Fatal("Reconcile() error = nil, want *ItemError")
	}
	var itemErr *ItemError
	if !errors.As(err, &itemErr) {
		t.Fatalf("error type = %T, want *ItemError", err)
	}
	if itemErr.VideoID != "bad" {
		t.Errorf("ItemError.VideoID = %s, want bad", itemErr.VideoID)
	}
	if result != nil {
		t.Errorf("result = %v, want nil on failure", result)
	}
}

func TestReconcileEmptyCatalog(t *testing.T) {
	r := newTestReconciler(t)

	result, err := r.Reconcile(nil, []LedgerRow{{Title: "Talk"}})
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if len(result.NewRows) != 0 || len(result.Downloads) != 0 {
		t.Errorf("got NewRows=%v Downloads=%v, want both empty", result.NewRows, result.Downloads)
	}
}

// No whitespace or casing fuzzing: a title differing only in case is a
// different title.
func TestReconcileMatchingIsExact(t *testing.T) {
	r := newTestReconciler(t)

	catalog := []CatalogItem{
		{VideoID: "v1", Title: "talk - Luterana Biguaçu", PublishedAt: "2024-03-01T00:00:00Z"},
	}
	ledger := []LedgerRow{
		{Title: "Talk", StartTime: "00:10:00", EndTime: "00:40:00"},
	}

	result, err := r.Reconcile(catalog, ledger)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if len(result.Downloads) != 0 {
		t.Errorf("Downloads = %v, want empty (no fuzzy match)", result.Downloads)
	}
	if len(result.NewRows) != 1 {
		t.Errorf("len(NewRows) = %d, want 1", len(result.NewRows))
	}
}

// Every catalog item with a video ID lands in exactly one of: new rows,
// downloads, or neither. Never both.
func TestReconcilePartition(t *testing.T) {
	r := newTestReconciler(t)

	catalog := []CatalogItem{
		{VideoID: "v1", Title: "Untracked - Luterana Biguaçu", PublishedAt: "2024-03-04T00:00:00Z"},
		{VideoID: "v2", Title: "Ready - Luterana Biguaçu", PublishedAt: "2024-03-03T00:00:00Z"},
		{VideoID: "v3", Title: "Done - Luterana Biguaçu", PublishedAt: "2024-03-02T00:00:00Z"},
		{Title: "No ID - Luterana Biguaçu", PublishedAt: "2024-03-01T00:00:00Z"},
	}
	ledger := []LedgerRow{
		{Title: "Ready", StartTime: "00:10:00", EndTime: "00:40:00"},
		{Title: "Done", StartTime: "00:10:00", EndTime: "00:40:00", Online: true},
	}

	result, err := r.Reconcile(catalog, ledger)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	if len(result.NewRows) != 1 || result.NewRows[0][1] != "Untracked" {
		t.Errorf("NewRows = %v, want only Untracked", result.NewRows)
	}
	if len(result.Downloads) != 1 || result.Downloads[0].VideoID != "v2" {
		t.Errorf("Downloads = %v, want only v2", result.Downloads)
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	r := newTestReconciler(t)

	catalog := []CatalogItem{
		{VideoID: "v1", Title: "Untracked - Luterana Biguaçu", PublishedAt: "2024-03-02T00:00:00Z"},
		{VideoID: "v2", Title: "Ready - Luterana Biguaçu", PublishedAt: "2024-03-01T00:00:00Z"},
	}
	ledger := []LedgerRow{
		{Title: "Ready", StartTime: "00:10:00", EndTime: "00:40:00"},
	}

	first, err := r.Reconcile(catalog, ledger)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	second, err := r.Reconcile(catalog, ledger)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated runs differ: %v vs %v", first, second)
	}
}
