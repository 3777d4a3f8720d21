// Package session computes the session-scoped temporal state the condition
// evaluator reads: day-rollover visit counters, the time-of-day bucket, and
// the task-derived booleans. Everything here is a pure function of stored
// state and wall-clock time, recomputed idempotently on every session start
// and written back to the data store.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/patterflow/patter/internal/logging"
	"github.com/patterflow/patter/pkg/ports"
)

// Store keys read and written by the service.
const (
	KeyLastVisitDate   = "session.lastVisitDate"
	KeyVisitCount      = "session.visitCount"
	KeyTotalVisitCount = "session.totalVisitCount"
	KeyTimeOfDay       = "session.timeOfDay"

	KeyTaskDays        = "task.days"
	KeyTaskDeadline    = "task.deadline"
	KeyTaskDate        = "task.date"
	KeyTaskActiveDay   = "task.isActiveDay"
	KeyTaskPastDeadline = "task.isPastDeadline"
)

const dateLayout = "2006-01-02"

// Service derives and persists the temporal state for one conversation.
type Service struct {
	store  ports.DataStore
	clock  ports.Clock
	logger *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// New creates a temporal service over the given store and clock.
func New(store ports.DataStore, clock ports.Clock, opts ...Option) *Service {
	s := &Service{store: store, clock: clock, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start runs the once-per-session-start computation: visit counters roll over
// on a calendar-day change, the time-of-day bucket is recomputed, and the
// task booleans are rederived from stored task configuration.
func (s *Service) Start(ctx context.Context) error {
	now := s.clock.Now()
	today := now.Format(dateLayout)

	lastVisit, _ := s.getString(ctx, KeyLastVisitDate)

	visits := s.getNumber(ctx, KeyVisitCount)
	if lastVisit != today {
		visits = 1
	} else {
		visits++
	}
	total := s.getNumber(ctx, KeyTotalVisitCount) + 1

	bucket := TimeOfDay(now.Hour())

	writes := map[string]any{
		KeyLastVisitDate:   today,
		KeyVisitCount:      visits,
		KeyTotalVisitCount: total,
		KeyTimeOfDay:       bucket,
		KeyTaskActiveDay:   s.computeActiveDay(ctx, now),
		KeyTaskPastDeadline: s.computePastDeadline(ctx, now),
	}
	for key, value := range writes {
		if err := s.store.Set(ctx, key, value); err != nil {
			return fmt.Errorf("failed to persist %s: %w", key, err)
		}
	}

	s.logger.Debug("session state computed",
		"visits", visits, "total", total, "time_of_day", bucket)
	return nil
}

func (s *Service) computeActiveDay(ctx context.Context, now time.Time) bool {
	days, ok := s.getString(ctx, KeyTaskDays)
	if !ok {
		return false
	}
	return ActiveDay(days, now.Weekday())
}

func (s *Service) computePastDeadline(ctx context.Context, now time.Time) bool {
	option, ok := s.getString(ctx, KeyTaskDeadline)
	if !ok {
		return false
	}
	dateStr, ok := s.getString(ctx, KeyTaskDate)
	if !ok {
		return false
	}
	date, err := time.ParseInLocation(dateLayout, strings.TrimSpace(dateStr), now.Location())
	if err != nil {
		s.logger.Warn("stored task date is unparseable", "value", dateStr, "err", err)
		return false
	}
	end, ok := DeadlineEnd(option, date)
	if !ok {
		s.logger.Warn("stored task deadline option is unknown", "value", option)
		return false
	}
	return now.After(end)
}

func (s *Service) getString(ctx context.Context, key string) (string, bool) {
	v, ok, err := s.store.Get(ctx, key)
	if err != nil || !ok || v == nil {
		return "", false
	}
	return fmt.Sprint(v), true
}

func (s *Service) getNumber(ctx context.Context, key string) int {
	v, ok, err := s.store.Get(ctx, key)
	if err != nil || !ok {
		return 0
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0
		}
		return i
	default:
		return 0
	}
}

// TimeOfDay maps an hour into one of the four fixed windows.
func TimeOfDay(hour int) string {
	switch {
	case hour >= 5 && hour <= 11:
		return "morning"
	case hour >= 12 && hour <= 16:
		return "afternoon"
	case hour >= 17 && hour <= 21:
		return "evening"
	default:
		return "night"
	}
}

// ActiveDay reports whether the weekday is in the configured day set.
// Days are stored as comma-separated tokens ("mon,wed,fri"); full names are
// accepted too.
func ActiveDay(days string, weekday time.Weekday) bool {
	want := strings.ToLower(weekday.String()[:3])
	for _, tok := range strings.Split(days, ",") {
		tok = strings.ToLower(strings.TrimSpace(tok))
		if len(tok) > 3 {
			tok = tok[:3]
		}
		if tok == want {
			return true
		}
	}
	return false
}

// DeadlineEnd maps a deadline option to the end instant of its time-of-day
// window on the given task date. The night window closes at 05:00 the
// following day.
func DeadlineEnd(option string, date time.Time) (time.Time, bool) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	switch strings.ToLower(strings.TrimSpace(option)) {
	case "morning":
		return day.Add(12 * time.Hour), true
	case "afternoon":
		return day.Add(17 * time.Hour), true
	case "evening":
		return day.Add(22 * time.Hour), true
	case "night":
		return day.Add(29 * time.Hour), true
	default:
		return time.Time{}, false
	}
}
