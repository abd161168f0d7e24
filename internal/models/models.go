package models

import (
	"time"

	"inkflowcrm/internal/calendar"
)

// Artist is a tattoo artist account; a solo shop has one, a studio has many.
type Artist struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	APIToken  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Artist roles within a studio.
const (
	RoleOwner  = "owner"
	RoleArtist = "artist"
)

// Client is a customer record owned by one artist.
type Client struct {
	ID        int64     `json:"id"`
	ArtistID  int64     `json:"artist_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Appointment is a scheduled session on an artist's calendar.
type Appointment struct {
	ID          int64     `json:"id"`
	ArtistID    int64     `json:"artist_id"`
	ClientID    int64     `json:"client_id"`
	Service     string    `json:"service"`
	StartsAt    time.Time `json:"starts_at"`
	DurationMin int64     `json:"duration_min"`
	Status      string    `json:"status"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ValidAppointmentStatuses enumerates the calendar states.
var ValidAppointmentStatuses = map[string]struct{}{
	"scheduled": {},
	"completed": {},
	"cancelled": {},
}

// Tattoo statuses. Completing a tattoo is the business event that spawns
// follow-up tasks.
const (
	TattooScheduled  = "scheduled"
	TattooInProgress = "in_progress"
	TattooCompleted  = "completed"
)

// ValidTattooStatuses enumerates the tattoo pipeline states.
var ValidTattooStatuses = map[string]struct{}{
	TattooScheduled:  {},
	TattooInProgress: {},
	TattooCompleted:  {},
}

// Tattoo is one piece of work for one client.
type Tattoo struct {
	ID          int64         `json:"id"`
	ArtistID    int64         `json:"artist_id"`
	ClientID    int64         `json:"client_id"`
	Description string        `json:"description"`
	Placement   string        `json:"placement"`
	PriceCents  int64         `json:"price_cents"`
	Status      string        `json:"status"`
	CompletedOn calendar.Date `json:"completed_on"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// Expense is a business cost entry used by revenue analytics.
type Expense struct {
	ID          int64         `json:"id"`
	ArtistID    int64         `json:"artist_id"`
	Category    string        `json:"category"`
	Description string        `json:"description"`
	AmountCents int64         `json:"amount_cents"`
	IncurredOn  calendar.Date `json:"incurred_on"`
	CreatedAt   time.Time     `json:"created_at"`
}

// TaskType is one of the five fixed follow-up cadence slots.
type TaskType string

const (
	TaskDay1      TaskType = "day1"
	TaskDay3      TaskType = "day3"
	TaskWeek1     TaskType = "week1"
	TaskBiweekly1 TaskType = "biweekly_1"
	TaskBiweekly2 TaskType = "biweekly_2"
)

// Valid reports whether the type is one of the known cadence slots.
func (t TaskType) Valid() bool {
	switch t {
	case TaskDay1, TaskDay3, TaskWeek1, TaskBiweekly1, TaskBiweekly2:
		return true
	}
	return false
}

// TaskStatus is the lifecycle state of a follow-up task.
type TaskStatus string

const (
	StatusPending TaskStatus = "pending"
	StatusSent    TaskStatus = "sent"
	StatusSkipped TaskStatus = "skipped"
)

// Valid reports whether the status is a known lifecycle state.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusSent, StatusSkipped:
		return true
	}
	return false
}

// Terminal reports whether the status ends the task lifecycle.
func (s TaskStatus) Terminal() bool {
	return s == StatusSent || s == StatusSkipped
}

// FollowUpTask is one scheduled outreach action tied to one completed tattoo.
// Client name and email are snapshots taken at creation time; later edits to
// the client record do not touch existing tasks.
type FollowUpTask struct {
	ID           string        `json:"id"`
	ArtistID     int64         `json:"artist_id"`
	TattooID     int64         `json:"tattoo_id"`
	ClientName   string        `json:"client_name"`
	ClientEmail  string        `json:"client_email"`
	TaskType     TaskType      `json:"task_type"`
	TaskLabel    string        `json:"task_label"`
	DueDate      calendar.Date `json:"due_date"`
	Status       TaskStatus    `json:"status"`
	EmailSubject string        `json:"email_subject"`
	EmailBody    string        `json:"email_body"`
	CompletedAt  *time.Time    `json:"completed_at,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}
