package roster

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nvdow/volunteerfinder/internal/config"
	"github.com/nvdow/volunteerfinder/internal/domain"
	"github.com/nvdow/volunteerfinder/internal/events"
	"github.com/nvdow/volunteerfinder/internal/observability"
	"github.com/nvdow/volunteerfinder/pkg/util"
)

// Column headers expected in the roster CSV. Header cells are
// whitespace-trimmed before matching, so incidental padding is tolerated.
const (
	colName         = "Insider Volunteers"
	colCRG          = "CRG"
	colTimezone     = "Timezone"
	colBusinessUnit = "Business Unit"
	colEmail        = "Email"
	colEmployeeID   = "Employee #"
)

// Loader reads the volunteer CSV and serves a cached, normalized snapshot.
type Loader struct {
	path       string
	ttl        time.Duration
	logger     *zap.Logger
	metrics    *observability.Metrics
	dispatcher events.Dispatcher

	nowFunc func() time.Time

	mu       sync.Mutex
	snapshot []domain.VolunteerRecord
	loadedAt time.Time
}

// NewLoader constructs a roster loader.
func NewLoader(cfg config.RosterConfig, logger *zap.Logger, metrics *observability.Metrics, dispatcher events.Dispatcher) *Loader {
	return &Loader{
		path:       cfg.Path,
		ttl:        cfg.CacheTTL(),
		logger:     logger,
		metrics:    metrics,
		dispatcher: dispatcher,
		nowFunc:    time.Now,
	}
}

// Load returns the normalized roster, reading the CSV at most once per cache
// TTL. Callers receive a copy of the snapshot and may not observe later
// reloads through it. Failed loads are never cached.
func (l *Loader) Load(ctx context.Context) ([]domain.VolunteerRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.nowFunc()
	if l.snapshot != nil && now.Sub(l.loadedAt) < l.ttl {
		return copyRecords(l.snapshot), nil
	}

	records, err := l.readAndNormalize()
	if err != nil {
		l.logger.Error("roster load failed", zap.String("path", l.path), zap.Error(err))
		return nil, util.NewRosterLoadError(err)
	}

	l.snapshot = records
	l.loadedAt = now
	l.metrics.RecordRosterLoad()
	l.logger.Info("roster loaded", zap.String("path", l.path), zap.Int("rows", len(records)))

	if l.dispatcher != nil {
		_ = l.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.New().String(),
			Type:      events.EventRosterLoaded,
			Timestamp: now,
			Payload:   events.RosterLoadedPayload{Rows: len(records)},
		})
	}

	return copyRecords(l.snapshot), nil
}

func (l *Loader) readAndNormalize() ([]domain.VolunteerRecord, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("csv %q has no header row", l.path)
	}

	columns := map[string]int{}
	for i, header := range rows[0] {
		columns[strings.TrimSpace(header)] = i
	}
	if _, ok := columns[colName]; !ok {
		return nil, fmt.Errorf("csv %q is missing required column %q", l.path, colName)
	}

	raw := make([]domain.VolunteerRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		raw = append(raw, domain.VolunteerRecord{
			Name:         cell(row, columns, colName),
			CRG:          cell(row, columns, colCRG),
			Timezone:     cell(row, columns, colTimezone),
			BusinessUnit: cell(row, columns, colBusinessUnit),
			Email:        cell(row, columns, colEmail),
			EmployeeID:   cell(row, columns, colEmployeeID),
		})
	}

	return NormalizeRecords(raw), nil
}

// NormalizeRecords applies the roster cleaning pipeline: trim every field,
// fill missing categorical fields with the sentinel, strip ")" from employee
// ids, and collapse exact-duplicate rows. Applying it twice yields the same
// result as applying it once.
func NormalizeRecords(records []domain.VolunteerRecord) []domain.VolunteerRecord {
	seen := make(map[domain.VolunteerRecord]struct{}, len(records))
	out := make([]domain.VolunteerRecord, 0, len(records))

	for _, r := range records {
		r.Name = strings.TrimSpace(r.Name)
		r.CRG = fillMissing(strings.TrimSpace(r.CRG))
		r.Timezone = fillMissing(strings.TrimSpace(r.Timezone))
		r.BusinessUnit = fillMissing(strings.TrimSpace(r.BusinessUnit))
		r.Email = strings.TrimSpace(r.Email)
		r.EmployeeID = strings.ReplaceAll(strings.TrimSpace(r.EmployeeID), ")", "")

		if r.Name == "" {
			continue
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

func fillMissing(v string) string {
	if v == "" {
		return domain.NotSpecified
	}
	return v
}

func cell(row []string, columns map[string]int, name string) string {
	idx, ok := columns[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func copyRecords(records []domain.VolunteerRecord) []domain.VolunteerRecord {
	out := make([]domain.VolunteerRecord, len(records))
	copy(out, records)
	return out
}
