package calendar

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	gcal "google.golang.org/api/calendar/v3"
)

type fakeAPI struct {
	busy    []Interval
	busyErr error
	busyMin time.Time
	busyMax time.Time

	inserted  []*gcal.Event
	insertErr error

	events    map[string]*gcal.Event
	getErr    error
	updated   *gcal.Event
	updateErr error

	deleted   []string
	deleteErr error

	listed  []*gcal.Event
	listErr error
	listMin time.Time
	listMax time.Time
}

func (f *fakeAPI) FreeBusy(ctx context.Context, min, max time.Time) ([]Interval, error) {
	f.busyMin, f.busyMax = min, max
	if f.busyErr != nil {
		return nil, f.busyErr
	}
	return f.busy, nil
}

func (f *fakeAPI) InsertEvent(ctx context.Context, ev *gcal.Event) (*gcal.Event, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	created := *ev
	created.Id = fmt.Sprintf("evt-%d", len(f.inserted)+1)
	f.inserted = append(f.inserted, &created)
	return &created, nil
}

func (f *fakeAPI) GetEvent(ctx context.Context, eventID string) (*gcal.Event, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	ev, ok := f.events[eventID]
	if !ok {
		return nil, fmt.Errorf("event %s not found", eventID)
	}
	copied := *ev
	return &copied, nil
}

func (f *fakeAPI) UpdateEvent(ctx context.Context, eventID string, ev *gcal.Event) (*gcal.Event, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.updated = ev
	return ev, nil
}

func (f *fakeAPI) DeleteEvent(ctx context.Context, eventID string) error {
	f.deleted = append(f.deleted, eventID)
	return f.deleteErr
}

func (f *fakeAPI) ListEvents(ctx context.Context, min, max time.Time) ([]*gcal.Event, error) {
	f.listMin, f.listMax = min, max
	if f.listErr != nil {
		return nil, f.listErr
	}
	if f.listed != nil {
		return f.listed, nil
	}
	return f.inserted, nil
}

var testLoc = time.FixedZone("IST", 5*3600+30*60)

func newTestScheduler(api API) *Scheduler {
	return NewScheduler(api, testLoc)
}

func TestCheckAvailabilityFreeDay(t *testing.T) {
	fake := &fakeAPI{}
	sched := newTestScheduler(fake)

	day := time.Date(2025, 7, 21, 0, 0, 0, 0, testLoc)
	free, err := sched.CheckAvailability(context.Background(), day)
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	if !free {
		t.Fatal("expected free day")
	}

	wantMin := time.Date(2025, 7, 21, 0, 0, 0, 0, testLoc)
	wantMax := time.Date(2025, 7, 21, 23, 59, 0, 0, testLoc)
	if !fake.busyMin.Equal(wantMin) {
		t.Errorf("query min = %v, want %v", fake.busyMin, wantMin)
	}
	if !fake.busyMax.Equal(wantMax) {
		t.Errorf("query max = %v, want %v", fake.busyMax, wantMax)
	}
}

func TestCheckAvailabilityBusyDay(t *testing.T) {
	fake := &fakeAPI{busy: []Interval{{Start: "2025-07-21T10:00:00+05:30", End: "2025-07-21T11:00:00+05:30"}}}
	sched := newTestScheduler(fake)

	free, err := sched.CheckAvailability(context.Background(), time.Date(2025, 7, 21, 0, 0, 0, 0, testLoc))
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	if free {
		t.Fatal("expected busy day")
	}
}

func TestCheckAvailabilityPropagatesError(t *testing.T) {
	fake := &fakeAPI{busyErr: errors.New("quota exceeded")}
	sched := newTestScheduler(fake)

	if _, err := sched.CheckAvailability(context.Background(), time.Now()); err == nil {
		t.Fatal("expected error")
	}
}

func TestCreateEventFields(t *testing.T) {
	fake := &fakeAPI{}
	sched := newTestScheduler(fake)

	start := time.Date(2025, 7, 21, 15, 0, 0, 0, testLoc)
	end := start.Add(time.Hour)
	id, err := sched.CreateEvent(context.Background(), "Dentist", start, end, "Annual checkup")
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	if id != "evt-1" {
		t.Fatalf("id = %q, want evt-1", id)
	}

	ev := fake.inserted[0]
	if ev.Summary != "Dentist" {
		t.Errorf("summary = %q", ev.Summary)
	}
	if ev.Description != "Annual checkup" {
		t.Errorf("description = %q", ev.Description)
	}
	if ev.Start.DateTime != "2025-07-21T15:00:00+05:30" {
		t.Errorf("start = %q", ev.Start.DateTime)
	}
	if ev.End.DateTime != "2025-07-21T16:00:00+05:30" {
		t.Errorf("end = %q", ev.End.DateTime)
	}
	if ev.Start.TimeZone != "IST" {
		t.Errorf("timezone = %q", ev.Start.TimeZone)
	}
}

func TestCreateEventDistinctIDs(t *testing.T) {
	fake := &fakeAPI{}
	sched := newTestScheduler(fake)

	start := time.Date(2025, 7, 21, 15, 0, 0, 0, testLoc)
	end := start.Add(time.Hour)
	first, err := sched.CreateEvent(context.Background(), "Standup", start, end, "")
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	second, err := sched.CreateEvent(context.Background(), "Standup", start, end, "")
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if first == second {
		t.Fatalf("both creates returned %q", first)
	}
	if len(fake.inserted) != 2 {
		t.Fatalf("inserted %d events, want 2", len(fake.inserted))
	}
}

func TestCreateEventPropagatesError(t *testing.T) {
	fake := &fakeAPI{insertErr: errors.New("forbidden")}
	sched := newTestScheduler(fake)

	if _, err := sched.CreateEvent(context.Background(), "x", time.Now(), time.Now(), ""); err == nil {
		t.Fatal("expected error")
	}
}

func TestUpdateEventTimePreservesOtherFields(t *testing.T) {
	fake := &fakeAPI{events: map[string]*gcal.Event{
		"evt-9": {
			Id:          "evt-9",
			Summary:     "Standup",
			Location:    "Room 4",
			Description: "Daily sync",
			Start:       &gcal.EventDateTime{DateTime: "2025-07-21T09:00:00+05:30", TimeZone: "IST"},
			End:         &gcal.EventDateTime{DateTime: "2025-07-21T09:15:00+05:30", TimeZone: "IST"},
		},
	}}
	sched := newTestScheduler(fake)

	newStart := time.Date(2025, 7, 21, 14, 0, 0, 0, testLoc)
	if ok := sched.UpdateEventTime(context.Background(), "evt-9", newStart, newStart.Add(15*time.Minute)); !ok {
		t.Fatal("expected update to succeed")
	}

	if fake.updated.Summary != "Standup" || fake.updated.Location != "Room 4" || fake.updated.Description != "Daily sync" {
		t.Errorf("unrelated fields changed: %+v", fake.updated)
	}
	if fake.updated.Start.DateTime != "2025-07-21T14:00:00+05:30" {
		t.Errorf("start = %q", fake.updated.Start.DateTime)
	}
	if fake.updated.End.DateTime != "2025-07-21T14:15:00+05:30" {
		t.Errorf("end = %q", fake.updated.End.DateTime)
	}
}

func TestUpdateEventTimeUnknownID(t *testing.T) {
	fake := &fakeAPI{events: map[string]*gcal.Event{}}
	sched := newTestScheduler(fake)

	if ok := sched.UpdateEventTime(context.Background(), "missing", time.Now(), time.Now()); ok {
		t.Fatal("expected false for unknown id")
	}
	if fake.updated != nil {
		t.Fatal("update should not be attempted after a failed get")
	}
}

func TestUpdateEventTimeRemoteFailure(t *testing.T) {
	fake := &fakeAPI{
		events:    map[string]*gcal.Event{"evt-1": {Id: "evt-1"}},
		updateErr: errors.New("backend unavailable"),
	}
	sched := newTestScheduler(fake)

	if ok := sched.UpdateEventTime(context.Background(), "evt-1", time.Now(), time.Now()); ok {
		t.Fatal("expected false on remote failure")
	}
}

func TestCancelEvent(t *testing.T) {
	fake := &fakeAPI{}
	sched := newTestScheduler(fake)

	if ok := sched.CancelEvent(context.Background(), "evt-3"); !ok {
		t.Fatal("expected cancel to succeed")
	}
	if len(fake.deleted) != 1 || fake.deleted[0] != "evt-3" {
		t.Fatalf("deleted = %v", fake.deleted)
	}

	fake.deleteErr = errors.New("gone")
	if ok := sched.CancelEvent(context.Background(), "evt-3"); ok {
		t.Fatal("expected false on delete failure")
	}
}

func TestResolveSkipsStartsOutsideWindow(t *testing.T) {
	target := time.Date(2025, 7, 21, 10, 0, 0, 0, testLoc)
	fake := &fakeAPI{listed: []*gcal.Event{
		{Id: "far", Start: &gcal.EventDateTime{DateTime: "2025-07-21T11:30:00+05:30"}},
		{Id: "near", Start: &gcal.EventDateTime{DateTime: "2025-07-21T09:55:00+05:30"}},
	}}
	sched := newTestScheduler(fake)

	id, found, err := sched.ResolveEventIDByStartTime(context.Background(), target, 60)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !found || id != "near" {
		t.Fatalf("id = %q found = %v, want near", id, found)
	}
}

func TestResolveFirstMatchWins(t *testing.T) {
	target := time.Date(2025, 7, 21, 10, 0, 0, 0, testLoc)
	fake := &fakeAPI{listed: []*gcal.Event{
		{Id: "earlier", Start: &gcal.EventDateTime{DateTime: "2025-07-21T09:10:00+05:30"}},
		{Id: "exact", Start: &gcal.EventDateTime{DateTime: "2025-07-21T10:00:00+05:30"}},
	}}
	sched := newTestScheduler(fake)

	id, found, err := sched.ResolveEventIDByStartTime(context.Background(), target, 60)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !found || id != "earlier" {
		t.Fatalf("id = %q, want earlier even though exact is closer", id)
	}
}

func TestResolveNoMatch(t *testing.T) {
	fake := &fakeAPI{listed: []*gcal.Event{}}
	sched := newTestScheduler(fake)

	id, found, err := sched.ResolveEventIDByStartTime(context.Background(), time.Now(), 60)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if found || id != "" {
		t.Fatalf("expected no match, got %q", id)
	}
}

func TestResolveQueriesSymmetricWindow(t *testing.T) {
	target := time.Date(2025, 7, 21, 10, 0, 0, 0, testLoc)
	fake := &fakeAPI{listed: []*gcal.Event{}}
	sched := newTestScheduler(fake)

	if _, _, err := sched.ResolveEventIDByStartTime(context.Background(), target, 45); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !fake.listMin.Equal(target.Add(-45 * time.Minute)) {
		t.Errorf("list min = %v", fake.listMin)
	}
	if !fake.listMax.Equal(target.Add(45 * time.Minute)) {
		t.Errorf("list max = %v", fake.listMax)
	}
}

func TestResolveAllDayEvent(t *testing.T) {
	target := time.Date(2025, 7, 21, 0, 30, 0, 0, testLoc)
	fake := &fakeAPI{listed: []*gcal.Event{
		{Id: "allday", Start: &gcal.EventDateTime{Date: "2025-07-21"}},
	}}
	sched := newTestScheduler(fake)

	id, found, err := sched.ResolveEventIDByStartTime(context.Background(), target, 60)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !found || id != "allday" {
		t.Fatalf("id = %q found = %v", id, found)
	}
}

func TestResolveZuluStart(t *testing.T) {
	target := time.Date(2025, 7, 21, 10, 0, 0, 0, testLoc)
	fake := &fakeAPI{listed: []*gcal.Event{
		{Id: "zulu", Start: &gcal.EventDateTime{DateTime: "2025-07-21T04:30:00Z"}},
	}}
	sched := newTestScheduler(fake)

	id, found, err := sched.ResolveEventIDByStartTime(context.Background(), target, 60)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !found || id != "zulu" {
		t.Fatalf("id = %q found = %v", id, found)
	}
}

func TestResolveNaiveStartUsesDefaultZone(t *testing.T) {
	target := time.Date(2025, 7, 21, 10, 0, 0, 0, testLoc)
	fake := &fakeAPI{listed: []*gcal.Event{
		{Id: "naive", Start: &gcal.EventDateTime{DateTime: "2025-07-21T10:15:00"}},
	}}
	sched := newTestScheduler(fake)

	id, found, err := sched.ResolveEventIDByStartTime(context.Background(), target, 60)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !found || id != "naive" {
		t.Fatalf("id = %q found = %v", id, found)
	}
}

func TestResolveSkipsEventsWithoutStart(t *testing.T) {
	target := time.Date(2025, 7, 21, 10, 0, 0, 0, testLoc)
	fake := &fakeAPI{listed: []*gcal.Event{
		{Id: "blank", Start: &gcal.EventDateTime{}},
		{Id: "ok", Start: &gcal.EventDateTime{DateTime: "2025-07-21T10:05:00+05:30"}},
	}}
	sched := newTestScheduler(fake)

	id, found, err := sched.ResolveEventIDByStartTime(context.Background(), target, 60)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !found || id != "ok" {
		t.Fatalf("id = %q found = %v", id, found)
	}
}

func TestResolveBadStartIsAnError(t *testing.T) {
	fake := &fakeAPI{listed: []*gcal.Event{
		{Id: "broken", Start: &gcal.EventDateTime{DateTime: "next tuesday"}},
	}}
	sched := newTestScheduler(fake)

	_, _, err := sched.ResolveEventIDByStartTime(context.Background(), time.Now(), 60)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "broken") {
		t.Errorf("error should name the event: %v", err)
	}
}

func TestResolveListError(t *testing.T) {
	fake := &fakeAPI{listErr: errors.New("rate limited")}
	sched := newTestScheduler(fake)

	if _, _, err := sched.ResolveEventIDByStartTime(context.Background(), time.Now(), 60); err == nil {
		t.Fatal("expected error")
	}
}

func TestCreateThenResolveRoundTrip(t *testing.T) {
	fake := &fakeAPI{}
	sched := newTestScheduler(fake)

	start, err := sched.ParseDateTime("2025-07-21T15:00:00")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	id, err := sched.CreateEvent(context.Background(), "Review", start, start.Add(time.Hour), "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	resolved, found, err := sched.ResolveEventIDByStartTime(context.Background(), start, DefaultResolveWindowMinutes)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !found || resolved != id {
		t.Fatalf("resolved %q, want %q", resolved, id)
	}
}

func TestParseDateTime(t *testing.T) {
	sched := newTestScheduler(&fakeAPI{})

	cases := []struct {
		in   string
		want time.Time
	}{
		{"2025-07-21T15:00:00+05:30", time.Date(2025, 7, 21, 15, 0, 0, 0, testLoc)},
		{"2025-07-21T09:30:00Z", time.Date(2025, 7, 21, 15, 0, 0, 0, testLoc)},
		{"2025-07-21T15:00:00", time.Date(2025, 7, 21, 15, 0, 0, 0, testLoc)},
		{"2025-07-21", time.Date(2025, 7, 21, 0, 0, 0, 0, testLoc)},
	}
	for _, tc := range cases {
		got, err := sched.ParseDateTime(tc.in)
		if err != nil {
			t.Errorf("ParseDateTime(%q): %v", tc.in, err)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("ParseDateTime(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}

	if _, err := sched.ParseDateTime("half past nine"); err == nil {
		t.Error("expected error for free text")
	}
}

func TestParseDate(t *testing.T) {
	sched := newTestScheduler(&fakeAPI{})

	got, err := sched.ParseDate("2025-07-21")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	want := time.Date(2025, 7, 21, 0, 0, 0, 0, testLoc)
	if !got.Equal(want) {
		t.Fatalf("ParseDate = %v, want %v", got, want)
	}

	if _, err := sched.ParseDate("2025-07-21T10:00:00"); err == nil {
		t.Fatal("expected error for datetime input")
	}
}
