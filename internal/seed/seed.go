// Package seed loads sample data into an empty portal.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/Togather-Foundation/glee/internal/domain/events"
	"github.com/Togather-Foundation/glee/internal/domain/meetings"
	"github.com/Togather-Foundation/glee/internal/domain/staff"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultDocument []byte

// Document is the seed file layout. Dates are relative to the time the seed
// is applied.
type Document struct {
	Events   []Event   `yaml:"events"`
	Meetings []Meeting `yaml:"meetings"`
	Staff    []Member  `yaml:"staff"`
}

type Event struct {
	Title        string `yaml:"title"`
	Description  string `yaml:"description"`
	DaysFromNow  int    `yaml:"daysFromNow"`
	Location     string `yaml:"location"`
	Status       string `yaml:"status"`
	Budget       int    `yaml:"budget"`
	MaxAttendees int    `yaml:"maxAttendees"`
}

type Meeting struct {
	Title       string `yaml:"title"`
	DaysFromNow int    `yaml:"daysFromNow"`
	LoopLink    string `yaml:"loopLink"`
	Minutes     string `yaml:"minutes"`
	Status      string `yaml:"status"`
}

type Member struct {
	Name     string `yaml:"name"`
	Phone    string `yaml:"phone"`
	Inactive bool   `yaml:"inactive"`
}

// Default returns the embedded seed document.
func Default() (Document, error) {
	return Parse(defaultDocument)
}

// Load reads a seed document from path.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("parse seed document: %w", err)
	}
	return doc, nil
}

// Services are the domain services the seeder writes through, so seeded rows
// pass the same validation as API input.
type Services struct {
	Events   *events.Service
	Meetings *meetings.Service
	Staff    *staff.Service
}

// Result counts what Apply created.
type Result struct {
	Events   int
	Meetings int
	Staff    int
}

// Apply writes doc into empty collections. The events and meetings sections
// are applied together, only when there are no events yet; staff is applied
// only when there are no staff members.
func Apply(ctx context.Context, svc Services, doc Document, now time.Time, logger zerolog.Logger) (Result, error) {
	var result Result

	existing, err := svc.Events.List(ctx)
	if err != nil {
		return result, err
	}
	if len(existing) == 0 {
		for _, e := range doc.Events {
			if _, err := svc.Events.Create(ctx, events.CreateParams{
				Title:        e.Title,
				Description:  e.Description,
				Date:         now.AddDate(0, 0, e.DaysFromNow),
				Location:     optional(e.Location),
				Status:       events.Status(e.Status),
				Budget:       e.Budget,
				MaxAttendees: optionalInt(e.MaxAttendees),
			}); err != nil {
				return result, fmt.Errorf("seed event %q: %w", e.Title, err)
			}
			result.Events++
		}
		for _, m := range doc.Meetings {
			if _, err := svc.Meetings.Create(ctx, meetings.CreateParams{
				Title:    m.Title,
				Date:     now.AddDate(0, 0, m.DaysFromNow),
				LoopLink: optional(m.LoopLink),
				Minutes:  optional(m.Minutes),
				Status:   meetings.Status(m.Status),
			}); err != nil {
				return result, fmt.Errorf("seed meeting %q: %w", m.Title, err)
			}
			result.Meetings++
		}
	}

	members, err := svc.Staff.List(ctx)
	if err != nil {
		return result, err
	}
	if len(members) == 0 {
		for _, m := range doc.Staff {
			active := !m.Inactive
			if _, err := svc.Staff.Create(ctx, staff.CreateParams{Name: m.Name, Phone: m.Phone, IsActive: &active}); err != nil {
				return result, fmt.Errorf("seed staff member %q: %w", m.Name, err)
			}
			result.Staff++
		}
	}

	logger.Info().
		Int("events", result.Events).
		Int("meetings", result.Meetings).
		Int("staff", result.Staff).
		Msg("seed applied")
	return result, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optionalInt(n int) *int {
	if n == 0 {
		return nil
	}
	return &n
}
