package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"inkflowcrm/internal/followup"
	"inkflowcrm/internal/models"
)

// InsertTasks writes a follow-up batch inside one transaction: either all
// rows land or none do, so a tattoo can never end up with a partial cadence.
func (s *Store) InsertTasks(ctx context.Context, tasks []models.FollowUpTask) ([]models.FollowUpTask, error) {
	if len(tasks) == 0 {
		return nil, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin follow-up batch: %w", err)
	}
	defer tx.Rollback()

	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		id := uuid.New().String()
		_, err := tx.ExecContext(ctx,
			`INSERT INTO followup_tasks(id, artist_id, tattoo_id, client_name, client_email, task_type, task_label, due_date, status, email_subject, email_body)
            VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, t.ArtistID, t.TattooID, t.ClientName, t.ClientEmail,
			string(t.TaskType), t.TaskLabel, t.DueDate.String(), string(t.Status),
			t.EmailSubject, t.EmailBody)
		if err != nil {
			return nil, fmt.Errorf("insert follow-up task: %w", err)
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit follow-up batch: %w", err)
	}

	persisted := make([]models.FollowUpTask, 0, len(ids))
	for _, id := range ids {
		t, err := s.getTask(ctx, id)
		if err != nil {
			return nil, err
		}
		persisted = append(persisted, t)
	}
	return persisted, nil
}

// UpdateTask applies a partial change to one task row, scoped to the owning
// artist.
func (s *Store) UpdateTask(ctx context.Context, artistID int64, id string, changes followup.TaskChanges) error {
	current, err := s.getTask(ctx, id)
	if err != nil {
		return err
	}
	if current.ArtistID != artistID {
		return followup.ErrTaskNotFound
	}

	status := current.Status
	completedAt := current.CompletedAt
	subject := current.EmailSubject
	body := current.EmailBody
	clientEmail := current.ClientEmail

	if changes.Status != nil {
		status = *changes.Status
	}
	if changes.CompletedAt != nil {
		completedAt = changes.CompletedAt
	}
	if changes.Subject != nil {
		subject = *changes.Subject
	}
	if changes.Body != nil {
		body = *changes.Body
	}
	if changes.ClientEmail != nil {
		clientEmail = *changes.ClientEmail
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE followup_tasks SET status = ?, completed_at = ?, email_subject = ?, email_body = ?, client_email = ?
        WHERE id = ? AND artist_id = ?`,
		string(status), completedAt, subject, body, clientEmail, id, artistID)
	if err != nil {
		return fmt.Errorf("update follow-up task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return followup.ErrTaskNotFound
	}
	return nil
}

// ListTasks returns every follow-up task belonging to an artist.
func (s *Store) ListTasks(ctx context.Context, artistID int64) ([]models.FollowUpTask, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, artist_id, tattoo_id, client_name, client_email, task_type, task_label, due_date, status, email_subject, email_body, completed_at, created_at
        FROM followup_tasks WHERE artist_id = ? ORDER BY due_date ASC, created_at ASC`, artistID)
	if err != nil {
		return nil, fmt.Errorf("list follow-up tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.FollowUpTask
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Store) getTask(ctx context.Context, id string) (models.FollowUpTask, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, artist_id, tattoo_id, client_name, client_email, task_type, task_label, due_date, status, email_subject, email_body, completed_at, created_at
        FROM followup_tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.FollowUpTask{}, followup.ErrTaskNotFound
		}
		return models.FollowUpTask{}, err
	}
	return t, nil
}

func scanTask(row rowScanner) (models.FollowUpTask, error) {
	var t models.FollowUpTask
	var taskType, status string
	err := row.Scan(&t.ID, &t.ArtistID, &t.TattooID, &t.ClientName, &t.ClientEmail,
		&taskType, &t.TaskLabel, &t.DueDate, &status, &t.EmailSubject, &t.EmailBody,
		&t.CompletedAt, &t.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.FollowUpTask{}, err
		}
		return models.FollowUpTask{}, fmt.Errorf("scan follow-up task: %w", err)
	}
	t.TaskType = models.TaskType(taskType)
	t.Status = models.TaskStatus(status)
	return t, nil
}
