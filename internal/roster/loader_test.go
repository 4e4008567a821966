package roster

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/nvdow/volunteerfinder/internal/config"
	"github.com/nvdow/volunteerfinder/internal/domain"
	"github.com/nvdow/volunteerfinder/internal/observability"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "volunteers.csv")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write csv: %v", err)
	}
	return path
}

func newTestLoader(t *testing.T, path string, ttlSeconds int) *Loader {
	t.Helper()
	cfg := config.RosterConfig{Path: path, CacheTTLSeconds: ttlSeconds}
	return NewLoader(cfg, zap.NewNop(), observability.NewMetrics(), nil)
}

func TestLoadNormalizes(t *testing.T) {
	path := writeCSV(t, ""+
		" Insider Volunteers ,CRG, Timezone ,Business Unit,Email,Employee #\n"+
		"  Alice  , X ,PT,Graphics,a@x.com,123)\n"+
		"Bob,,ET,,b@x.com,456\n")
	l := newTestLoader(t, path, 3600)

	records, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := []domain.VolunteerRecord{
		{Name: "Alice", CRG: "X", Timezone: "PT", BusinessUnit: "Graphics", Email: "a@x.com", EmployeeID: "123"},
		{Name: "Bob", CRG: domain.NotSpecified, Timezone: "ET", BusinessUnit: domain.NotSpecified, Email: "b@x.com", EmployeeID: "456"},
	}
	if !reflect.DeepEqual(records, want) {
		t.Errorf("unexpected records:\n got %+v\nwant %+v", records, want)
	}
}

func TestLoadDropsExactDuplicates(t *testing.T) {
	path := writeCSV(t, ""+
		"Insider Volunteers,CRG,Timezone,Business Unit,Email,Employee #\n"+
		"Alice,X,PT,Graphics,a@x.com,123\n"+
		"Alice,X,PT,Graphics,a@x.com,123\n"+
		"Alice,Y,PT,Graphics,a@x.com,123\n")
	l := newTestLoader(t, path, 3600)

	records, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records after dedup, got %d", len(records))
	}
	if records[0].CRG != "X" || records[1].CRG != "Y" {
		t.Errorf("dedup broke source order: %+v", records)
	}
}

func TestNormalizeRecordsIdempotent(t *testing.T) {
	raw := []domain.VolunteerRecord{
		{Name: " Alice ", CRG: "", Timezone: " PT", BusinessUnit: "Graphics ", Email: "a@x.com", EmployeeID: "12)3"},
		{Name: "Alice", CRG: domain.NotSpecified, Timezone: "PT", BusinessUnit: "Graphics", Email: "a@x.com", EmployeeID: "123"},
		{Name: "Bob", CRG: "X", Timezone: "ET", BusinessUnit: "HW", Email: "b@x.com", EmployeeID: "456"},
	}

	once := NormalizeRecords(raw)
	twice := NormalizeRecords(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("normalization not idempotent:\n once %+v\ntwice %+v", once, twice)
	}
	if len(once) != 2 {
		t.Errorf("expected whitespace variant to collapse into duplicate, got %d rows", len(once))
	}
}

func TestNormalizeRecordsSkipsEmptyNames(t *testing.T) {
	raw := []domain.VolunteerRecord{
		{Name: "   ", Email: "ghost@x.com"},
		{Name: "Alice", Email: "a@x.com"},
	}
	out := NormalizeRecords(raw)
	if len(out) != 1 || out[0].Name != "Alice" {
		t.Errorf("expected empty-name row dropped, got %+v", out)
	}
}

func TestLoadMissingFile(t *testing.T) {
	l := newTestLoader(t, filepath.Join(t.TempDir(), "nope.csv"), 3600)
	if _, err := l.Load(context.Background()); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadMissingRequiredColumn(t *testing.T) {
	path := writeCSV(t, "Name,Email\nAlice,a@x.com\n")
	l := newTestLoader(t, path, 3600)
	if _, err := l.Load(context.Background()); err == nil {
		t.Fatal("expected error for missing Insider Volunteers column")
	}
}

func TestLoadCachesUntilTTL(t *testing.T) {
	path := writeCSV(t, "Insider Volunteers,Email\nAlice,a@x.com\n")
	l := newTestLoader(t, path, 3600)

	now := time.Now()
	l.nowFunc = func() time.Time { return now }

	first, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Rewrite the file; a cache hit must not see the change.
	if err := os.WriteFile(path, []byte("Insider Volunteers,Email\nBob,b@x.com\n"), 0o600); err != nil {
		t.Fatalf("failed to rewrite csv: %v", err)
	}

	now = now.Add(59 * time.Minute)
	cached, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(first, cached) {
		t.Errorf("cache hit returned different data: %+v vs %+v", first, cached)
	}

	now = now.Add(2 * time.Minute)
	fresh, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(fresh) != 1 || fresh[0].Name != "Bob" {
		t.Errorf("expected reload after TTL expiry, got %+v", fresh)
	}
}

func TestLoadReturnsDefensiveCopy(t *testing.T) {
	path := writeCSV(t, "Insider Volunteers,Email\nAlice,a@x.com\n")
	l := newTestLoader(t, path, 3600)

	first, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	first[0].Name = "Mallory"

	second, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if second[0].Name != "Alice" {
		t.Errorf("snapshot mutated through a returned copy: %+v", second)
	}
}
