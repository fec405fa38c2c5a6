package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/network-overlap/internal/types"
)

const candidateColumns = `id, name, profile_url, profile_image_url, source, created_at`

func scanCandidate(row pgx.Row) (*types.Candidate, error) {
	var c types.Candidate
	var profileURL, image *string
	if err := row.Scan(&c.ID, &c.Name, &profileURL, &image, &c.Source, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.ProfileURL = deref(profileURL)
	c.ProfileImageURL = deref(image)
	return &c, nil
}

// ListCandidates returns every candidate, newest first, without history.
func (db *DB) ListCandidates(ctx context.Context) ([]types.Candidate, error) {
	rows, err := db.pool.Query(ctx, `SELECT `+candidateColumns+` FROM candidates ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer rows.Close()

	candidates := []types.Candidate{}
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, *c)
	}
	return candidates, rows.Err()
}

// GetCandidate returns a candidate with history and education, or nil if absent.
func (db *DB) GetCandidate(ctx context.Context, id uuid.UUID) (*types.Candidate, error) {
	return db.getCandidateWhere(ctx, `id = $1`, id)
}

// GetCandidateByURL returns the candidate with the given profile URL, or nil if absent.
func (db *DB) GetCandidateByURL(ctx context.Context, profileURL string) (*types.Candidate, error) {
	return db.getCandidateWhere(ctx, `profile_url = $1`, profileURL)
}

func (db *DB) getCandidateWhere(ctx context.Context, where string, arg any) (*types.Candidate, error) {
	c, err := scanCandidate(db.pool.QueryRow(ctx,
		`SELECT `+candidateColumns+` FROM candidates WHERE `+where, arg))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}

	if c.History, err = candidateTables.loadPeriods(ctx, db.pool, c.ID); err != nil {
		return nil, err
	}
	if c.Education, err = candidateTables.loadEducation(ctx, db.pool, c.ID); err != nil {
		return nil, err
	}
	return c, nil
}

// CreateCandidate stores a candidate with its history and education in one transaction.
func (db *DB) CreateCandidate(ctx context.Context, c *types.Candidate) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	source := c.Source
	if source == "" {
		source = types.SourceProfile
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx,
		`INSERT INTO candidates (id, name, profile_url, profile_image_url, source)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		c.ID, c.Name, nullIfEmpty(c.ProfileURL), nullIfEmpty(c.ProfileImageURL), source,
	).Scan(&c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert candidate: %w", err)
	}
	c.Source = source

	if err := candidateTables.insertPeriods(ctx, tx, c.ID, c.History); err != nil {
		return err
	}
	if err := candidateTables.insertEducation(ctx, tx, c.ID, c.Education); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteCandidate removes a candidate and their history. It reports whether a row was deleted.
func (db *DB) DeleteCandidate(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM candidates WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete candidate: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
