package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Argument structs mirror the wire names the model is prompted with. The
// model's arguments arrive as a loose map; decodeArguments round-trips
// them through JSON into the typed struct and validation rejects anything
// malformed before a remote call is made.

type checkAvailabilityArgs struct {
	DateToBeChecked string `json:"date_to_be_checked"`
}

func (a checkAvailabilityArgs) validate() error {
	if strings.TrimSpace(a.DateToBeChecked) == "" {
		return errors.New("date_to_be_checked is required")
	}
	return nil
}

type createEventArgs struct {
	Title       string `json:"title"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Description string `json:"description"`
}

func (a createEventArgs) validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return errors.New("title is required")
	}
	if strings.TrimSpace(a.StartTime) == "" {
		return errors.New("start_time is required")
	}
	if strings.TrimSpace(a.EndTime) == "" {
		return errors.New("end_time is required")
	}
	return nil
}

type updateEventTimeArgs struct {
	EventID      string `json:"event_id"`
	NewStartTime string `json:"new_start_time"`
	NewEndTime   string `json:"new_end_time"`
}

func (a updateEventTimeArgs) validate() error {
	if strings.TrimSpace(a.EventID) == "" {
		return errors.New("event_id is required")
	}
	if strings.TrimSpace(a.NewStartTime) == "" {
		return errors.New("new_start_time is required")
	}
	if strings.TrimSpace(a.NewEndTime) == "" {
		return errors.New("new_end_time is required")
	}
	return nil
}

type cancelEventArgs struct {
	EventID string `json:"event_id"`
}

func (a cancelEventArgs) validate() error {
	if strings.TrimSpace(a.EventID) == "" {
		return errors.New("event_id is required")
	}
	return nil
}

type resolveEventArgs struct {
	StartTime     string `json:"start_time"`
	WindowMinutes *int   `json:"window_minutes"`
}

func (a resolveEventArgs) validate() error {
	if strings.TrimSpace(a.StartTime) == "" {
		return errors.New("start_time is required")
	}
	if a.WindowMinutes != nil && *a.WindowMinutes < 0 {
		return errors.New("window_minutes must not be negative")
	}
	return nil
}

func decodeArguments(arguments map[string]any, dst any) error {
	payload, err := json.Marshal(arguments)
	if err != nil {
		return fmt.Errorf("encode arguments: %w", err)
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func objectSchema(properties map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}
