package calendar

import (
	"context"
	"fmt"
	"time"

	gcal "google.golang.org/api/calendar/v3"
)

// DefaultResolveWindowMinutes is the half-width of the search window used
// when a lookup by start time does not specify one.
const DefaultResolveWindowMinutes = 60

const naiveLayout = "2006-01-02T15:04:05"

// Scheduler exposes the calendar operations the assistant's tools call.
// Every timestamp that reaches the remote API is timezone-qualified:
// strings without an offset are interpreted in the scheduler's location.
type Scheduler struct {
	api      API
	loc      *time.Location
	timezone string
}

func NewScheduler(api API, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{api: api, loc: loc, timezone: loc.String()}
}

// Location returns the timezone naive inputs are interpreted in.
func (s *Scheduler) Location() *time.Location {
	return s.loc
}

// ParseDateTime parses an ISO 8601 timestamp. Offset-qualified inputs keep
// their offset; naive datetimes and bare dates are placed in the
// scheduler's location.
func (s *Scheduler) ParseDateTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(naiveLayout, value, s.loc); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", value, s.loc); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", value)
}

// ParseDate parses a bare YYYY-MM-DD date at midnight in the scheduler's
// location.
func (s *Scheduler) ParseDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", value, s.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", value)
	}
	return t, nil
}

// CheckAvailability reports whether the calendar has no busy interval on
// the given day. The queried range runs from 00:00 to 23:59 local time, so
// an event occupying only the final minute of the day goes unnoticed.
func (s *Scheduler) CheckAvailability(ctx context.Context, day time.Time) (bool, error) {
	year, month, dom := day.In(s.loc).Date()
	min := time.Date(year, month, dom, 0, 0, 0, 0, s.loc)
	max := time.Date(year, month, dom, 23, 59, 0, 0, s.loc)
	busy, err := s.api.FreeBusy(ctx, min, max)
	if err != nil {
		return false, err
	}
	return len(busy) == 0, nil
}

// CreateEvent inserts a new event and returns its remote identifier.
// Repeated calls with identical arguments create distinct events.
func (s *Scheduler) CreateEvent(ctx context.Context, title string, start, end time.Time, description string) (string, error) {
	body := &gcal.Event{
		Summary:     title,
		Description: description,
		Start: &gcal.EventDateTime{
			DateTime: start.Format(time.RFC3339),
			TimeZone: s.timezone,
		},
		End: &gcal.EventDateTime{
			DateTime: end.Format(time.RFC3339),
			TimeZone: s.timezone,
		},
	}
	created, err := s.api.InsertEvent(ctx, body)
	if err != nil {
		return "", err
	}
	return created.Id, nil
}

// UpdateEventTime moves an existing event to a new start and end, leaving
// every other field as the remote returned it. Any failure, including an
// unknown event id, reports false.
func (s *Scheduler) UpdateEventTime(ctx context.Context, eventID string, newStart, newEnd time.Time) bool {
	ev, err := s.api.GetEvent(ctx, eventID)
	if err != nil {
		return false
	}
	if ev.Start == nil {
		ev.Start = &gcal.EventDateTime{}
	}
	if ev.End == nil {
		ev.End = &gcal.EventDateTime{}
	}
	ev.Start.DateTime = newStart.Format(time.RFC3339)
	ev.End.DateTime = newEnd.Format(time.RFC3339)
	if _, err := s.api.UpdateEvent(ctx, eventID, ev); err != nil {
		return false
	}
	return true
}

// CancelEvent deletes an event. Any failure reports false.
func (s *Scheduler) CancelEvent(ctx context.Context, eventID string) bool {
	return s.api.DeleteEvent(ctx, eventID) == nil
}

// ResolveEventIDByStartTime finds an event whose start lies within
// windowMinutes of target and returns its id. Candidates are scanned in
// the order the remote lists them and the first one inside the window
// wins, even if a later candidate starts closer to the target. A day-long
// candidate counts as starting at midnight. No match is not an error: the
// second return value reports whether an id was found.
func (s *Scheduler) ResolveEventIDByStartTime(ctx context.Context, target time.Time, windowMinutes int) (string, bool, error) {
	window := time.Duration(windowMinutes) * time.Minute
	events, err := s.api.ListEvents(ctx, target.Add(-window), target.Add(window))
	if err != nil {
		return "", false, err
	}
	for _, ev := range events {
		raw := eventStart(ev)
		if raw == "" {
			continue
		}
		evStart, err := s.ParseDateTime(raw)
		if err != nil {
			return "", false, fmt.Errorf("event %s: %w", ev.Id, err)
		}
		delta := evStart.Sub(target)
		if delta < 0 {
			delta = -delta
		}
		if delta <= window {
			return ev.Id, true, nil
		}
	}
	return "", false, nil
}

func eventStart(ev *gcal.Event) string {
	if ev == nil || ev.Start == nil {
		return ""
	}
	if ev.Start.DateTime != "" {
		return ev.Start.DateTime
	}
	return ev.Start.Date
}
