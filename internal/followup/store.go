package followup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"inkflowcrm/internal/calendar"
	"inkflowcrm/internal/models"
)

var (
	// ErrTaskNotFound means the task id is unknown to this artist's collection.
	ErrTaskNotFound = errors.New("follow-up task not found")
	// ErrTaskFinalized means the task was already sent or skipped.
	ErrTaskFinalized = errors.New("follow-up task already sent or skipped")
	// ErrInvalidTransition means the requested status is not a legal next state.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrMissingCompletion means the tattoo lacks a completion date or client name.
	ErrMissingCompletion = errors.New("tattoo needs a completion date and a client name")
	// ErrAlreadyScheduled means follow-ups for this tattoo already exist.
	ErrAlreadyScheduled = errors.New("follow-up tasks already exist for this tattoo")
)

// TaskChanges is a partial update applied to one persisted task. Nil fields
// are left untouched.
type TaskChanges struct {
	Status      *models.TaskStatus
	CompletedAt *time.Time
	Subject     *string
	Body        *string
	ClientEmail *string
}

// Repository is the persistence collaborator. InsertTasks must apply the
// whole batch or none of it and return the rows with server-assigned IDs and
// creation timestamps.
type Repository interface {
	InsertTasks(ctx context.Context, tasks []models.FollowUpTask) ([]models.FollowUpTask, error)
	UpdateTask(ctx context.Context, artistID int64, id string, changes TaskChanges) error
	ListTasks(ctx context.Context, artistID int64) ([]models.FollowUpTask, error)
}

// CompletedTattoo is the event payload that triggers batch creation.
type CompletedTattoo struct {
	TattooID    int64
	ClientName  string
	ClientEmail string
	CompletedOn calendar.Date
}

// Store owns the follow-up task collection for one artist. Every mutation is
// persisted first and mirrored into memory only after the repository
// confirms, so the mirror and the database never diverge on error.
type Store struct {
	mu       sync.Mutex
	repo     Repository
	logger   *slog.Logger
	now      func() time.Time
	artistID int64
	tasks    []models.FollowUpTask
	loaded   bool
}

// NewStore builds a store for one artist's session.
func NewStore(repo Repository, artistID int64, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		repo:     repo,
		logger:   logger,
		now:      time.Now,
		artistID: artistID,
	}
}

// WithClock overrides the wall clock; tests use a fixed instant.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Load pulls the artist's tasks from the repository into the mirror. Calling
// it again refreshes the mirror.
func (s *Store) Load(ctx context.Context) error {
	tasks, err := s.repo.ListTasks(ctx, s.artistID)
	if err != nil {
		return fmt.Errorf("load follow-up tasks: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = tasks
	s.loaded = true
	return nil
}

// CreateTasksForTattoo derives the full outreach batch for a completed
// tattoo: one task per schedule row, each due-dated from the completion date
// and seeded with generated email content. The batch persists atomically; on
// failure the mirror is untouched.
func (s *Store) CreateTasksForTattoo(ctx context.Context, tattoo CompletedTattoo, artistName, studioName string) ([]models.FollowUpTask, error) {
	if tattoo.CompletedOn.IsZero() || tattoo.ClientName == "" {
		return nil, ErrMissingCompletion
	}

	s.mu.Lock()
	for _, t := range s.tasks {
		if t.TattooID == tattoo.TattooID {
			s.mu.Unlock()
			return nil, ErrAlreadyScheduled
		}
	}
	s.mu.Unlock()

	batch := make([]models.FollowUpTask, 0, len(Schedule))
	for _, step := range Schedule {
		content := GenerateContent(step.Type, tattoo.ClientName, artistName, studioName)
		batch = append(batch, models.FollowUpTask{
			ArtistID:     s.artistID,
			TattooID:     tattoo.TattooID,
			ClientName:   tattoo.ClientName,
			ClientEmail:  tattoo.ClientEmail,
			TaskType:     step.Type,
			TaskLabel:    step.Label,
			DueDate:      tattoo.CompletedOn.AddDays(step.DaysAfter),
			Status:       models.StatusPending,
			EmailSubject: content.Subject,
			EmailBody:    content.Body,
		})
	}

	persisted, err := s.repo.InsertTasks(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("persist follow-up batch: %w", err)
	}

	s.mu.Lock()
	s.tasks = append(s.tasks, persisted...)
	s.mu.Unlock()

	s.logger.Info("follow-up tasks scheduled",
		slog.Int64("tattoo_id", tattoo.TattooID),
		slog.Int("count", len(persisted)))
	return persisted, nil
}

// UpdateStatus moves a pending task to sent or skipped. Both are terminal;
// there is no way back to pending.
func (s *Store) UpdateStatus(ctx context.Context, id string, status models.TaskStatus) (models.FollowUpTask, error) {
	if !status.Terminal() {
		return models.FollowUpTask{}, ErrInvalidTransition
	}

	current, err := s.get(id)
	if err != nil {
		return models.FollowUpTask{}, err
	}
	if current.Status.Terminal() {
		return models.FollowUpTask{}, ErrTaskFinalized
	}

	completedAt := s.now()
	changes := TaskChanges{Status: &status, CompletedAt: &completedAt}
	if err := s.repo.UpdateTask(ctx, s.artistID, id, changes); err != nil {
		return models.FollowUpTask{}, fmt.Errorf("persist status change: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i].Status = status
			s.tasks[i].CompletedAt = &completedAt
			return s.tasks[i], nil
		}
	}
	return models.FollowUpTask{}, ErrTaskNotFound
}

// UpdateEmail edits the draft subject, body, or recipient of a pending task.
// Nil fields are left untouched. Terminal tasks are immutable.
func (s *Store) UpdateEmail(ctx context.Context, id string, subject, body, clientEmail *string) (models.FollowUpTask, error) {
	current, err := s.get(id)
	if err != nil {
		return models.FollowUpTask{}, err
	}
	if current.Status.Terminal() {
		return models.FollowUpTask{}, ErrTaskFinalized
	}

	changes := TaskChanges{Subject: subject, Body: body, ClientEmail: clientEmail}
	if err := s.repo.UpdateTask(ctx, s.artistID, id, changes); err != nil {
		return models.FollowUpTask{}, fmt.Errorf("persist email change: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			if subject != nil {
				s.tasks[i].EmailSubject = *subject
			}
			if body != nil {
				s.tasks[i].EmailBody = *body
			}
			if clientEmail != nil {
				s.tasks[i].ClientEmail = *clientEmail
			}
			return s.tasks[i], nil
		}
	}
	return models.FollowUpTask{}, ErrTaskNotFound
}

// Get returns one task by id.
func (s *Store) Get(id string) (models.FollowUpTask, error) {
	return s.get(id)
}

func (s *Store) get(id string) (models.FollowUpTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return models.FollowUpTask{}, ErrTaskNotFound
}

// Tasks returns a copy of the full collection ordered by due date.
func (s *Store) Tasks() []models.FollowUpTask {
	return s.filter(func(models.FollowUpTask) bool { return true })
}

// Pending returns tasks that have not been sent or skipped yet.
func (s *Store) Pending() []models.FollowUpTask {
	return s.filter(func(t models.FollowUpTask) bool {
		return t.Status == models.StatusPending
	})
}

// Overdue returns pending tasks whose due date is strictly before today.
func (s *Store) Overdue(today calendar.Date) []models.FollowUpTask {
	return s.filter(func(t models.FollowUpTask) bool {
		return t.Status == models.StatusPending && t.DueDate.Before(today)
	})
}

// DueToday returns pending tasks due exactly today.
func (s *Store) DueToday(today calendar.Date) []models.FollowUpTask {
	return s.filter(func(t models.FollowUpTask) bool {
		return t.Status == models.StatusPending && t.DueDate.Equal(today)
	})
}

// Upcoming returns pending tasks due after today.
func (s *Store) Upcoming(today calendar.Date) []models.FollowUpTask {
	return s.filter(func(t models.FollowUpTask) bool {
		return t.Status == models.StatusPending && t.DueDate.After(today)
	})
}

// Completed returns tasks that were sent or skipped.
func (s *Store) Completed() []models.FollowUpTask {
	return s.filter(func(t models.FollowUpTask) bool {
		return t.Status.Terminal()
	})
}

// UrgentCount counts pending tasks due today or earlier; the UI badge number.
func (s *Store) UrgentCount(today calendar.Date) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, t := range s.tasks {
		if t.Status == models.StatusPending && !t.DueDate.After(today) {
			count++
		}
	}
	return count
}

func (s *Store) filter(keep func(models.FollowUpTask) bool) []models.FollowUpTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.FollowUpTask, 0, len(s.tasks))
	for _, t := range s.tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DueDate.Before(out[j].DueDate)
	})
	return out
}
