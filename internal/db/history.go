package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jonathan/network-overlap/internal/types"
)

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// historyTable names the period and education tables owned by one kind of person.
type historyTable struct {
	periods   string
	education string
	owner     string
}

var (
	colleagueTables = historyTable{periods: "work_history", education: "colleague_education", owner: "colleague_id"}
	candidateTables = historyTable{periods: "candidate_history", education: "candidate_education", owner: "candidate_id"}
)

func (t historyTable) insertPeriods(ctx context.Context, q querier, owner uuid.UUID, periods []types.EmploymentPeriod) error {
	sql := fmt.Sprintf(
		`INSERT INTO %s (id, %s, position, company_name, title, start_year, start_month, end_year, end_month, is_current)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`, t.periods, t.owner)
	for i, p := range periods {
		id := p.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		_, err := q.Exec(ctx, sql,
			id, owner, i, p.CompanyName, nullIfEmpty(p.Title),
			p.StartYear, p.StartMonth, p.EndYear, p.EndMonth, p.IsCurrent,
		)
		if err != nil {
			return fmt.Errorf("failed to insert employment period: %w", err)
		}
	}
	return nil
}

func (t historyTable) insertEducation(ctx context.Context, q querier, owner uuid.UUID, records []types.Education) error {
	sql := fmt.Sprintf(
		`INSERT INTO %s (id, %s, position, school_name, degree, field_of_study, start_year, end_year)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`, t.education, t.owner)
	for i, e := range records {
		id := e.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		_, err := q.Exec(ctx, sql,
			id, owner, i, e.SchoolName, nullIfEmpty(e.Degree), nullIfEmpty(e.FieldOfStudy),
			e.StartYear, e.EndYear,
		)
		if err != nil {
			return fmt.Errorf("failed to insert education: %w", err)
		}
	}
	return nil
}

func (t historyTable) deleteAll(ctx context.Context, q querier, owner uuid.UUID) error {
	for _, table := range []string{t.periods, t.education} {
		if _, err := q.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table, t.owner), owner); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

func (t historyTable) loadPeriods(ctx context.Context, q querier, owner uuid.UUID) ([]types.EmploymentPeriod, error) {
	rows, err := q.Query(ctx, fmt.Sprintf(
		`SELECT id, %s, company_name, title, start_year, start_month, end_year, end_month, is_current
		 FROM %s WHERE %s = $1 ORDER BY position`, t.owner, t.periods, t.owner), owner)
	if err != nil {
		return nil, fmt.Errorf("failed to query employment periods: %w", err)
	}
	defer rows.Close()

	periods := []types.EmploymentPeriod{}
	for rows.Next() {
		var p types.EmploymentPeriod
		var title *string
		if err := rows.Scan(&p.ID, &p.PersonID, &p.CompanyName, &title,
			&p.StartYear, &p.StartMonth, &p.EndYear, &p.EndMonth, &p.IsCurrent); err != nil {
			return nil, fmt.Errorf("failed to scan employment period: %w", err)
		}
		p.Title = deref(title)
		periods = append(periods, p)
	}
	return periods, rows.Err()
}

func (t historyTable) loadEducation(ctx context.Context, q querier, owner uuid.UUID) ([]types.Education, error) {
	rows, err := q.Query(ctx, fmt.Sprintf(
		`SELECT id, %s, school_name, degree, field_of_study, start_year, end_year
		 FROM %s WHERE %s = $1 ORDER BY position`, t.owner, t.education, t.owner), owner)
	if err != nil {
		return nil, fmt.Errorf("failed to query education: %w", err)
	}
	defer rows.Close()

	records := []types.Education{}
	for rows.Next() {
		var e types.Education
		var degree, field *string
		if err := rows.Scan(&e.ID, &e.PersonID, &e.SchoolName, &degree, &field, &e.StartYear, &e.EndYear); err != nil {
			return nil, fmt.Errorf("failed to scan education: %w", err)
		}
		e.Degree = deref(degree)
		e.FieldOfStudy = deref(field)
		records = append(records, e)
	}
	return records, rows.Err()
}
