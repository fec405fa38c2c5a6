package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/network-overlap/internal/types"
)

const colleagueColumns = `id, name, profile_url, current_title, current_company, profile_image_url,
	enriched_at, created_at, updated_at`

func scanColleague(row pgx.Row) (*types.Colleague, error) {
	var c types.Colleague
	var profileURL, title, company, image *string
	if err := row.Scan(&c.ID, &c.Name, &profileURL, &title, &company, &image,
		&c.EnrichedAt, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.ProfileURL = deref(profileURL)
	c.CurrentTitle = deref(title)
	c.CurrentCompany = deref(company)
	c.ProfileImageURL = deref(image)
	return &c, nil
}

// ListColleagues returns every colleague ordered by name, without history.
func (db *DB) ListColleagues(ctx context.Context) ([]types.Colleague, error) {
	rows, err := db.pool.Query(ctx, `SELECT `+colleagueColumns+` FROM colleagues ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list colleagues: %w", err)
	}
	defer rows.Close()

	colleagues := []types.Colleague{}
	for rows.Next() {
		c, err := scanColleague(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan colleague: %w", err)
		}
		colleagues = append(colleagues, *c)
	}
	return colleagues, rows.Err()
}

// GetColleague returns a colleague with work history and education, or nil if absent.
func (db *DB) GetColleague(ctx context.Context, id uuid.UUID) (*types.Colleague, error) {
	c, err := scanColleague(db.pool.QueryRow(ctx,
		`SELECT `+colleagueColumns+` FROM colleagues WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get colleague: %w", err)
	}

	if c.WorkHistory, err = colleagueTables.loadPeriods(ctx, db.pool, id); err != nil {
		return nil, err
	}
	if c.Education, err = colleagueTables.loadEducation(ctx, db.pool, id); err != nil {
		return nil, err
	}
	return c, nil
}

// InsertColleague stores a new colleague. It returns false without error when
// a colleague with the same profile URL already exists.
func (db *DB) InsertColleague(ctx context.Context, c *types.Colleague) (bool, error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO colleagues (id, name, profile_url, current_title, current_company, profile_image_url)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (profile_url) DO NOTHING
		 RETURNING id`,
		c.ID, c.Name, nullIfEmpty(c.ProfileURL), nullIfEmpty(c.CurrentTitle),
		nullIfEmpty(c.CurrentCompany), nullIfEmpty(c.ProfileImageURL),
	).Scan(&id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("failed to insert colleague: %w", err)
	}
	return true, nil
}

// DeleteColleague removes a colleague and everything they own.
// It reports whether a row was deleted.
func (db *DB) DeleteColleague(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM colleagues WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete colleague: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ReplaceColleagueProfile atomically replaces a colleague's work history and
// education and stamps the enrichment time. An empty headline keeps the
// stored title.
func (db *DB) ReplaceColleagueProfile(ctx context.Context, id uuid.UUID, update types.ProfileUpdate) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx,
		`UPDATE colleagues
		 SET enriched_at = $2,
		     current_title = COALESCE(NULLIF($3, ''), current_title),
		     updated_at = NOW()
		 WHERE id = $1`,
		id, update.EnrichedAt, update.Headline,
	)
	if err != nil {
		return fmt.Errorf("failed to update colleague: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("colleague %s does not exist", id)
	}

	if err := colleagueTables.deleteAll(ctx, tx, id); err != nil {
		return err
	}
	if err := colleagueTables.insertPeriods(ctx, tx, id, update.Periods); err != nil {
		return err
	}
	if err := colleagueTables.insertEducation(ctx, tx, id, update.Education); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListColleaguePool returns every colleague employment period with its owner,
// in a stable order.
func (db *DB) ListColleaguePool(ctx context.Context) ([]types.PoolPeriod, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT c.id, c.name, c.profile_url, c.profile_image_url, c.current_title,
		        w.id, w.company_name, w.title, w.start_year, w.start_month, w.end_year, w.end_month, w.is_current
		 FROM work_history w
		 JOIN colleagues c ON c.id = w.colleague_id
		 ORDER BY c.name, c.id, w.position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query colleague pool: %w", err)
	}
	defer rows.Close()

	pool := []types.PoolPeriod{}
	for rows.Next() {
		var pp types.PoolPeriod
		var profileURL, image, currentTitle, title *string
		p := &pp.Period
		if err := rows.Scan(&pp.Person.ID, &pp.Person.Name, &profileURL, &image, &currentTitle,
			&p.ID, &p.CompanyName, &title, &p.StartYear, &p.StartMonth, &p.EndYear, &p.EndMonth, &p.IsCurrent); err != nil {
			return nil, fmt.Errorf("failed to scan pool period: %w", err)
		}
		pp.Person.ProfileURL = deref(profileURL)
		pp.Person.ProfileImageURL = deref(image)
		pp.Person.CurrentTitle = deref(currentTitle)
		p.PersonID = pp.Person.ID
		p.Title = deref(title)
		pool = append(pool, pp)
	}
	return pool, rows.Err()
}
