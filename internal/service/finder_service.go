package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/nvdow/volunteerfinder/internal/domain"
	"github.com/nvdow/volunteerfinder/internal/events"
	"github.com/nvdow/volunteerfinder/internal/observability"
	"github.com/nvdow/volunteerfinder/internal/roster"
	"github.com/nvdow/volunteerfinder/internal/selection"
	"github.com/nvdow/volunteerfinder/pkg/util"
)

// ResultLimit caps how many volunteers one search returns.
const ResultLimit = 5

// Filter restricts a search by category. Empty values and the "All" wildcard
// mean no restriction; filters combine with AND.
type Filter struct {
	CRG          string
	Timezone     string
	BusinessUnit string
}

// FindResult is one search pass over the roster.
type FindResult struct {
	// Volunteers is at most ResultLimit rows, one per name.
	Volunteers []domain.VolunteerRecord
	// Total counts matches before truncation (after dedup).
	Total int
	// ResetOccurred is true when this pass crossed the weekly boundary.
	ResetOccurred bool
}

// FilterOptions lists the selectable values per category, each prefixed with
// the wildcard. Values come from the full roster, not the cap-filtered one.
type FilterOptions struct {
	CRG           []string
	Timezones     []string
	BusinessUnits []string
}

// ScheduleResult reports a recorded selection and its mail handoff link.
type ScheduleResult struct {
	Name          string
	TimesSelected int
	MailtoLink    string
	Applied       bool
	ResetOccurred bool
}

// FinderService runs the search pipeline (weekly reset check, cap filter,
// category filters, dedup by name, truncation) and records selections.
type FinderService struct {
	loader     *roster.Loader
	tracker    *selection.Tracker
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
}

// FinderDependencies bundles collaborators for the finder service.
type FinderDependencies struct {
	Loader     *roster.Loader
	Tracker    *selection.Tracker
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
}

// NewFinderService constructs the service.
func NewFinderService(deps FinderDependencies) *FinderService {
	return &FinderService{
		loader:     deps.Loader,
		tracker:    deps.Tracker,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
	}
}

// Find returns available volunteers matching the filter. The weekly reset
// check runs before any filtering so the cap reflects the fresh window.
// Counts are not mutated.
func (s *FinderService) Find(ctx context.Context, filter Filter) (*FindResult, error) {
	records, err := s.loader.Load(ctx)
	if err != nil {
		// A failed load leaves counts and window untouched.
		return nil, err
	}

	reset := s.checkWindow(ctx)
	s.tracker.Sync(names(records))

	available := s.tracker.Available()

	matched := make([]domain.VolunteerRecord, 0, len(records))
	seen := make(map[string]struct{})
	for _, r := range records {
		if _, ok := available[r.Name]; !ok {
			continue
		}
		if !matchesCategory(filter.CRG, r.CRG) ||
			!matchesCategory(filter.Timezone, r.Timezone) ||
			!matchesCategory(filter.BusinessUnit, r.BusinessUnit) {
			continue
		}
		// One row per volunteer; source order decides which row wins.
		if _, dup := seen[r.Name]; dup {
			continue
		}
		seen[r.Name] = struct{}{}
		matched = append(matched, r)
	}

	total := len(matched)
	if len(matched) > ResultLimit {
		matched = matched[:ResultLimit]
	}

	return &FindResult{Volunteers: matched, Total: total, ResetOccurred: reset}, nil
}

// Options returns the sorted distinct filter values from the full roster.
func (s *FinderService) Options(ctx context.Context) (*FilterOptions, error) {
	records, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	return &FilterOptions{
		CRG:           distinct(records, func(r domain.VolunteerRecord) string { return r.CRG }),
		Timezones:     distinct(records, func(r domain.VolunteerRecord) string { return r.Timezone }),
		BusinessUnits: distinct(records, func(r domain.VolunteerRecord) string { return r.BusinessUnit }),
	}, nil
}

// Schedule records one selection for the named volunteer and builds the mail
// compose link. The increment is committed even though nothing confirms the
// mail client actually opened.
func (s *FinderService) Schedule(ctx context.Context, name, interactionID string) (*ScheduleResult, error) {
	records, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	reset := s.checkWindow(ctx)
	s.tracker.Sync(names(records))

	record, ok := firstByName(records, name)
	if !ok {
		return nil, util.NewNotFound("volunteer", map[string]any{"name": name})
	}

	count, applied := s.tracker.Select(name, interactionID)
	if applied {
		s.metrics.RecordSchedule()
		s.publish(ctx, events.Event{
			Type: events.EventVolunteerScheduled,
			Payload: events.VolunteerScheduledPayload{
				Name:          name,
				TimesSelected: count,
				InteractionID: interactionID,
			},
		})
	}

	return &ScheduleResult{
		Name:          name,
		TimesSelected: count,
		MailtoLink:    ComposeMailtoLink(record.Email, record.Name),
		Applied:       applied,
		ResetOccurred: reset,
	}, nil
}

// Count reports the selections recorded for name this window.
func (s *FinderService) Count(name string) int {
	return s.tracker.Count(name)
}

func (s *FinderService) checkWindow(ctx context.Context) bool {
	before := s.tracker.WindowStart()
	if !s.tracker.CheckWindow() {
		return false
	}
	s.metrics.RecordWeeklyReset()
	s.publish(ctx, events.Event{
		Type: events.EventWeekReset,
		Payload: events.WeekResetPayload{
			PreviousWindowStart: before,
			NewWindowStart:      s.tracker.WindowStart(),
		},
	})
	return true
}

func (s *FinderService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.New().String()
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}

func matchesCategory(want, got string) bool {
	return want == "" || want == domain.FilterAll || want == got
}

func names(records []domain.VolunteerRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Name)
	}
	return out
}

func firstByName(records []domain.VolunteerRecord, name string) (domain.VolunteerRecord, bool) {
	for _, r := range records {
		if r.Name == name {
			return r, true
		}
	}
	return domain.VolunteerRecord{}, false
}

func distinct(records []domain.VolunteerRecord, field func(domain.VolunteerRecord) string) []string {
	seen := make(map[string]struct{}, len(records))
	values := make([]string, 0, len(records))
	for _, r := range records {
		v := field(r)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	sort.Strings(values)
	return append([]string{domain.FilterAll}, values...)
}
