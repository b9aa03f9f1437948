// Package tools exposes the calendar operations as tools the assistant's
// model can call. Each tool validates its arguments against the advertised
// schema before touching the remote calendar.
package tools

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/schedmate/go-assistant"
	"github.com/schedmate/go-assistant/src/calendar"
)

// Scheduler is the slice of the calendar adapter the tools call.
type Scheduler interface {
	ParseDate(value string) (time.Time, error)
	ParseDateTime(value string) (time.Time, error)
	CheckAvailability(ctx context.Context, day time.Time) (bool, error)
	CreateEvent(ctx context.Context, title string, start, end time.Time, description string) (string, error)
	UpdateEventTime(ctx context.Context, eventID string, newStart, newEnd time.Time) bool
	CancelEvent(ctx context.Context, eventID string) bool
	ResolveEventIDByStartTime(ctx context.Context, target time.Time, windowMinutes int) (string, bool, error)
}

// Conventions are rendered into tool descriptions so the model fills in
// missing date parts the same way on every turn.
type Conventions struct {
	CurrentYear  int
	CurrentMonth time.Month
}

func DefaultConventions() Conventions {
	return Conventions{CurrentYear: 2025, CurrentMonth: time.July}
}

func (c Conventions) orDefault() Conventions {
	if c.CurrentYear == 0 || c.CurrentMonth == 0 {
		return DefaultConventions()
	}
	return c
}

func (c Conventions) hint() string {
	return fmt.Sprintf("If the year is not specified take the current year (%d). If the month is not specified take the current month (%d).", c.CurrentYear, int(c.CurrentMonth))
}

// CalendarTools builds the five calendar tools in their catalog order.
func CalendarTools(sched Scheduler, conv Conventions) []assistant.Tool {
	return []assistant.Tool{
		NewCheckAvailabilityTool(sched, conv),
		NewCreateEventTool(sched, conv),
		NewUpdateEventTimeTool(sched),
		NewCancelEventTool(sched),
		NewResolveEventTool(sched),
	}
}

// CheckAvailabilityTool reports whether a whole day is free of events.
type CheckAvailabilityTool struct {
	sched Scheduler
	conv  Conventions
}

func NewCheckAvailabilityTool(sched Scheduler, conv Conventions) *CheckAvailabilityTool {
	return &CheckAvailabilityTool{sched: sched, conv: conv.orDefault()}
}

func (t *CheckAvailabilityTool) Spec() assistant.ToolSpec {
	return assistant.ToolSpec{
		Name:        "check_availability",
		Description: fmt.Sprintf("Check user's calendar for busy time slots on a specific day. %s Returns true if the user is free on the date, false otherwise.", t.conv.hint()),
		InputSchema: objectSchema(map[string]any{
			"date_to_be_checked": map[string]any{
				"type":        "string",
				"format":      "date",
				"description": "Day to check, YYYY-MM-DD.",
			},
		}, "date_to_be_checked"),
		Examples: []map[string]any{{"date_to_be_checked": "2025-07-21"}},
	}
}

func (t *CheckAvailabilityTool) Invoke(ctx context.Context, req assistant.ToolRequest) (assistant.ToolResponse, error) {
	var args checkAvailabilityArgs
	if err := decodeArguments(req.Arguments, &args); err != nil {
		return assistant.ToolResponse{}, err
	}
	if err := args.validate(); err != nil {
		return assistant.ToolResponse{}, err
	}
	day, err := t.sched.ParseDate(args.DateToBeChecked)
	if err != nil {
		return assistant.ToolResponse{}, err
	}
	free, err := t.sched.CheckAvailability(ctx, day)
	if err != nil {
		return assistant.ToolResponse{}, err
	}
	return assistant.ToolResponse{
		Content:  strconv.FormatBool(free),
		Metadata: map[string]string{"operation": "check_availability", "date": args.DateToBeChecked},
	}, nil
}

// CreateEventTool books a new event and reports its id.
type CreateEventTool struct {
	sched Scheduler
	conv  Conventions
}

func NewCreateEventTool(sched Scheduler, conv Conventions) *CreateEventTool {
	return &CreateEventTool{sched: sched, conv: conv.orDefault()}
}

func (t *CreateEventTool) Spec() assistant.ToolSpec {
	return assistant.ToolSpec{
		Name:        "create_event",
		Description: fmt.Sprintf("Create a calendar event. %s Returns the event id of the newly created event.", t.conv.hint()),
		InputSchema: objectSchema(map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "Event title.",
			},
			"start_time": map[string]any{
				"type":        "string",
				"format":      "date-time",
				"description": "Event start, ISO 8601.",
			},
			"end_time": map[string]any{
				"type":        "string",
				"format":      "date-time",
				"description": "Event end, ISO 8601.",
			},
			"description": map[string]any{
				"type":        "string",
				"description": "Optional event description.",
			},
		}, "title", "start_time", "end_time"),
		Examples: []map[string]any{{
			"title":      "Dentist",
			"start_time": "2025-07-21T15:00:00",
			"end_time":   "2025-07-21T16:00:00",
		}},
	}
}

func (t *CreateEventTool) Invoke(ctx context.Context, req assistant.ToolRequest) (assistant.ToolResponse, error) {
	var args createEventArgs
	if err := decodeArguments(req.Arguments, &args); err != nil {
		return assistant.ToolResponse{}, err
	}
	if err := args.validate(); err != nil {
		return assistant.ToolResponse{}, err
	}
	start, err := t.sched.ParseDateTime(args.StartTime)
	if err != nil {
		return assistant.ToolResponse{}, err
	}
	end, err := t.sched.ParseDateTime(args.EndTime)
	if err != nil {
		return assistant.ToolResponse{}, err
	}
	id, err := t.sched.CreateEvent(ctx, args.Title, start, end, args.Description)
	if err != nil {
		return assistant.ToolResponse{}, err
	}
	return assistant.ToolResponse{
		Content:  id,
		Metadata: map[string]string{"operation": "create_event", "event_id": id},
	}, nil
}

// UpdateEventTimeTool moves an existing event to a new start and end.
type UpdateEventTimeTool struct {
	sched Scheduler
}

func NewUpdateEventTimeTool(sched Scheduler) *UpdateEventTimeTool {
	return &UpdateEventTimeTool{sched: sched}
}

func (t *UpdateEventTimeTool) Spec() assistant.ToolSpec {
	return assistant.ToolSpec{
		Name:        "update_event_time",
		Description: "Update the start/end time of an existing event. Returns true if the update succeeded.",
		InputSchema: objectSchema(map[string]any{
			"event_id": map[string]any{
				"type":        "string",
				"description": "Id of the event to move.",
			},
			"new_start_time": map[string]any{
				"type":        "string",
				"format":      "date-time",
				"description": "New start, ISO 8601.",
			},
			"new_end_time": map[string]any{
				"type":        "string",
				"format":      "date-time",
				"description": "New end, ISO 8601.",
			},
		}, "event_id", "new_start_time", "new_end_time"),
	}
}

func (t *UpdateEventTimeTool) Invoke(ctx context.Context, req assistant.ToolRequest) (assistant.ToolResponse, error) {
	var args updateEventTimeArgs
	if err := decodeArguments(req.Arguments, &args); err != nil {
		return assistant.ToolResponse{}, err
	}
	if err := args.validate(); err != nil {
		return assistant.ToolResponse{}, err
	}
	newStart, err := t.sched.ParseDateTime(args.NewStartTime)
	if err != nil {
		return assistant.ToolResponse{}, err
	}
	newEnd, err := t.sched.ParseDateTime(args.NewEndTime)
	if err != nil {
		return assistant.ToolResponse{}, err
	}
	moved := t.sched.UpdateEventTime(ctx, args.EventID, newStart, newEnd)
	return assistant.ToolResponse{
		Content:  strconv.FormatBool(moved),
		Metadata: map[string]string{"operation": "update_event_time", "event_id": args.EventID},
	}, nil
}

// CancelEventTool deletes an event from the calendar.
type CancelEventTool struct {
	sched Scheduler
}

func NewCancelEventTool(sched Scheduler) *CancelEventTool {
	return &CancelEventTool{sched: sched}
}

func (t *CancelEventTool) Spec() assistant.ToolSpec {
	return assistant.ToolSpec{
		Name:        "cancel_event",
		Description: "Cancel (delete) an event from the calendar. Returns true if the cancellation succeeded.",
		InputSchema: objectSchema(map[string]any{
			"event_id": map[string]any{
				"type":        "string",
				"description": "Id of the event to cancel.",
			},
		}, "event_id"),
	}
}

func (t *CancelEventTool) Invoke(ctx context.Context, req assistant.ToolRequest) (assistant.ToolResponse, error) {
	var args cancelEventArgs
	if err := decodeArguments(req.Arguments, &args); err != nil {
		return assistant.ToolResponse{}, err
	}
	if err := args.validate(); err != nil {
		return assistant.ToolResponse{}, err
	}
	cancelled := t.sched.CancelEvent(ctx, args.EventID)
	return assistant.ToolResponse{
		Content:  strconv.FormatBool(cancelled),
		Metadata: map[string]string{"operation": "cancel_event", "event_id": args.EventID},
	}, nil
}

// ResolveEventTool finds an event id by its approximate start time.
type ResolveEventTool struct {
	sched Scheduler
}

func NewResolveEventTool(sched Scheduler) *ResolveEventTool {
	return &ResolveEventTool{sched: sched}
}

func (t *ResolveEventTool) Spec() assistant.ToolSpec {
	return assistant.ToolSpec{
		Name:        "get_event_id_by_start_time",
		Description: "Get the event id of an event by its start time. Returns the event id of the event.",
		InputSchema: objectSchema(map[string]any{
			"start_time": map[string]any{
				"type":        "string",
				"format":      "date-time",
				"description": "Approximate event start, ISO 8601.",
			},
			"window_minutes": map[string]any{
				"type":        "integer",
				"description": fmt.Sprintf("Search window around start_time in minutes, %d by default.", calendar.DefaultResolveWindowMinutes),
			},
		}, "start_time"),
	}
}

func (t *ResolveEventTool) Invoke(ctx context.Context, req assistant.ToolRequest) (assistant.ToolResponse, error) {
	var args resolveEventArgs
	if err := decodeArguments(req.Arguments, &args); err != nil {
		return assistant.ToolResponse{}, err
	}
	if err := args.validate(); err != nil {
		return assistant.ToolResponse{}, err
	}
	target, err := t.sched.ParseDateTime(args.StartTime)
	if err != nil {
		return assistant.ToolResponse{}, err
	}
	window := calendar.DefaultResolveWindowMinutes
	if args.WindowMinutes != nil {
		window = *args.WindowMinutes
	}
	id, found, err := t.sched.ResolveEventIDByStartTime(ctx, target, window)
	if err != nil {
		return assistant.ToolResponse{}, err
	}
	if !found {
		return assistant.ToolResponse{
			Content:  fmt.Sprintf("no event found within %d minutes of %s", window, args.StartTime),
			Metadata: map[string]string{"operation": "get_event_id_by_start_time", "found": "false"},
		}, nil
	}
	return assistant.ToolResponse{
		Content:  id,
		Metadata: map[string]string{"operation": "get_event_id_by_start_time", "found": "true", "event_id": id},
	}, nil
}
