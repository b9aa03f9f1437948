package calendar

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// Interval is one busy period reported by the free/busy query.
type Interval struct {
	Start string
	End   string
}

// API is the remote calendar surface the scheduler operates on. The
// production implementation talks to Google Calendar; tests substitute
// an in-memory fake.
type API interface {
	FreeBusy(ctx context.Context, min, max time.Time) ([]Interval, error)
	InsertEvent(ctx context.Context, ev *gcal.Event) (*gcal.Event, error)
	GetEvent(ctx context.Context, eventID string) (*gcal.Event, error)
	UpdateEvent(ctx context.Context, eventID string, ev *gcal.Event) (*gcal.Event, error)
	DeleteEvent(ctx context.Context, eventID string) error
	ListEvents(ctx context.Context, min, max time.Time) ([]*gcal.Event, error)
}

// googleAPI implements API over the Calendar v3 service for one calendar.
// Mutating calls carry sendUpdates=all so attendees are notified, and the
// listing expands recurring events into single occurrences.
type googleAPI struct {
	service    *gcal.Service
	calendarID string
	timezone   string
}

// NewGoogleAPI authenticates with a service-account credentials file and
// returns an API bound to calendarID. All range queries are expressed in
// the given IANA timezone.
func NewGoogleAPI(ctx context.Context, credsFile, calendarID, timezone string) (API, error) {
	data, err := os.ReadFile(credsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}
	cfg, err := google.JWTConfigFromJSON(data, gcal.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("parse service-account credentials: %w", err)
	}
	service, err := gcal.NewService(ctx, option.WithHTTPClient(cfg.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	return &googleAPI{service: service, calendarID: calendarID, timezone: timezone}, nil
}

func (g *googleAPI) FreeBusy(ctx context.Context, min, max time.Time) ([]Interval, error) {
	req := &gcal.FreeBusyRequest{
		TimeMin:  min.Format(time.RFC3339),
		TimeMax:  max.Format(time.RFC3339),
		TimeZone: g.timezone,
		Items:    []*gcal.FreeBusyRequestItem{{Id: g.calendarID}},
	}
	resp, err := g.service.Freebusy.Query(req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("freebusy query: %w", err)
	}
	cal, ok := resp.Calendars[g.calendarID]
	if !ok {
		return nil, fmt.Errorf("calendar %s missing from freebusy response", g.calendarID)
	}
	intervals := make([]Interval, 0, len(cal.Busy))
	for _, period := range cal.Busy {
		intervals = append(intervals, Interval{Start: period.Start, End: period.End})
	}
	return intervals, nil
}

func (g *googleAPI) InsertEvent(ctx context.Context, ev *gcal.Event) (*gcal.Event, error) {
	created, err := g.service.Events.Insert(g.calendarID, ev).SendUpdates("all").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return created, nil
}

func (g *googleAPI) GetEvent(ctx context.Context, eventID string) (*gcal.Event, error) {
	ev, err := g.service.Events.Get(g.calendarID, eventID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get event %s: %w", eventID, err)
	}
	return ev, nil
}

func (g *googleAPI) UpdateEvent(ctx context.Context, eventID string, ev *gcal.Event) (*gcal.Event, error) {
	updated, err := g.service.Events.Update(g.calendarID, eventID, ev).SendUpdates("all").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("update event %s: %w", eventID, err)
	}
	return updated, nil
}

func (g *googleAPI) DeleteEvent(ctx context.Context, eventID string) error {
	if err := g.service.Events.Delete(g.calendarID, eventID).SendUpdates("all").Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete event %s: %w", eventID, err)
	}
	return nil
}

func (g *googleAPI) ListEvents(ctx context.Context, min, max time.Time) ([]*gcal.Event, error) {
	call := g.service.Events.List(g.calendarID).
		TimeMin(min.Format(time.RFC3339)).
		TimeMax(max.Format(time.RFC3339)).
		SingleEvents(true)
	if g.timezone != "" {
		call = call.TimeZone(g.timezone)
	}
	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return resp.Items, nil
}
