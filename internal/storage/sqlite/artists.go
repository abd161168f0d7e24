package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"inkflowcrm/internal/models"
)

// ErrArtistNotFound is returned when a token or id matches no artist row.
var ErrArtistNotFound = errors.New("artist not found")

// CreateArtist registers an artist and issues their API token.
func (s *Store) CreateArtist(ctx context.Context, name, email, role string) (models.Artist, error) {
	if strings.TrimSpace(name) == "" {
		return models.Artist{}, fmt.Errorf("artist name must not be empty")
	}
	if strings.TrimSpace(email) == "" {
		return models.Artist{}, fmt.Errorf("artist email must not be empty")
	}
	if role != models.RoleOwner && role != models.RoleArtist {
		role = models.RoleArtist
	}

	token := uuid.New().String()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO artists(name, email, role, api_token) VALUES(?, ?, ?, ?)`,
		strings.TrimSpace(name), strings.ToLower(strings.TrimSpace(email)), role, token)
	if err != nil {
		return models.Artist{}, fmt.Errorf("insert artist: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Artist{}, fmt.Errorf("artist id: %w", err)
	}
	return s.GetArtist(ctx, id)
}

// GetArtist fetches a single artist by id.
func (s *Store) GetArtist(ctx context.Context, id int64) (models.Artist, error) {
	var a models.Artist
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, role, api_token, created_at, updated_at FROM artists WHERE id = ?`, id).
		Scan(&a.ID, &a.Name, &a.Email, &a.Role, &a.APIToken, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Artist{}, ErrArtistNotFound
	}
	if err != nil {
		return models.Artist{}, fmt.Errorf("get artist: %w", err)
	}
	return a, nil
}

// GetArtistByToken resolves an API token to its artist. The token is the only
// caller-supplied identity input; the artist id itself never comes from the
// request.
func (s *Store) GetArtistByToken(ctx context.Context, token string) (models.Artist, error) {
	var a models.Artist
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, role, api_token, created_at, updated_at FROM artists WHERE api_token = ?`, token).
		Scan(&a.ID, &a.Name, &a.Email, &a.Role, &a.APIToken, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Artist{}, ErrArtistNotFound
	}
	if err != nil {
		return models.Artist{}, fmt.Errorf("get artist by token: %w", err)
	}
	return a, nil
}

// ListArtists returns the studio roster ordered by creation date.
func (s *Store) ListArtists(ctx context.Context) ([]models.Artist, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, email, role, api_token, created_at, updated_at FROM artists ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list artists: %w", err)
	}
	defer rows.Close()

	var artists []models.Artist
	for rows.Next() {
		var a models.Artist
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.Role, &a.APIToken, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan artist: %w", err)
		}
		artists = append(artists, a)
	}
	return artists, rows.Err()
}
