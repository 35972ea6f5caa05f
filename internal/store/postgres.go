package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeSquared-Agency/Gradebook/internal/catalog"
)

const pgUniqueViolation = "23505"

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, schemaPostgres); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const moduleColumns = `id, user_id, code, title, ects, scale, method, created_at, updated_at`

func (s *PostgresStore) CreateModule(ctx context.Context, m *Module) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO gradebook_modules (id, user_id, code, title, ects, scale, method)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`,
		m.ID, m.UserID, m.Code, m.Title, m.ECTS, m.Scale, m.Method,
	).Scan(&m.CreatedAt, &m.UpdatedAt)
	return translatePgError(err)
}

func (s *PostgresStore) GetModule(ctx context.Context, id uuid.UUID) (*Module, error) {
	m := &Module{}
	err := s.pool.QueryRow(ctx, `
		SELECT `+moduleColumns+`
		FROM gradebook_modules WHERE id = $1`, id,
	).Scan(&m.ID, &m.UserID, &m.Code, &m.Title, &m.ECTS, &m.Scale, &m.Method, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (s *PostgresStore) ListModules(ctx context.Context, filter ModuleFilter) ([]*Module, error) {
	query := `SELECT ` + moduleColumns + ` FROM gradebook_modules WHERE 1=1`
	args := []interface{}{}
	n := 0

	if filter.UserID != "" {
		n++
		query += fmt.Sprintf(" AND user_id = $%d", n)
		args = append(args, filter.UserID)
	}

	query += " ORDER BY created_at DESC"

	limit := filter.Limit
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit > 0 {
		n++
		query += fmt.Sprintf(" LIMIT $%d", n)
		args = append(args, limit)
	}

	if filter.Offset > 0 {
		n++
		query += fmt.Sprintf(" OFFSET $%d", n)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var modules []*Module
	for rows.Next() {
		m := &Module{}
		if err := rows.Scan(&m.ID, &m.UserID, &m.Code, &m.Title, &m.ECTS, &m.Scale, &m.Method, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}
	return modules, rows.Err()
}

func (s *PostgresStore) UpdateModule(ctx context.Context, m *Module) error {
	err := s.pool.QueryRow(ctx, `
		UPDATE gradebook_modules SET
			code = $2, title = $3, ects = $4, scale = $5, method = $6, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`,
		m.ID, m.Code, m.Title, m.ECTS, m.Scale, m.Method,
	).Scan(&m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	return translatePgError(err)
}

func (s *PostgresStore) DeleteModule(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM gradebook_modules WHERE id = $1`, id)
	return err
}

const assessmentColumns = `id, module_id, name, weight, mark, status, created_at, updated_at`

func (s *PostgresStore) CreateAssessment(ctx context.Context, a *Assessment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return s.pool.QueryRow(ctx, `
		INSERT INTO gradebook_assessments (id, module_id, name, weight, mark, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`,
		a.ID, a.ModuleID, a.Name, a.Weight, a.Mark, a.Status,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
}

func (s *PostgresStore) GetAssessment(ctx context.Context, id uuid.UUID) (*Assessment, error) {
	a := &Assessment{}
	err := s.pool.QueryRow(ctx, `
		SELECT `+assessmentColumns+`
		FROM gradebook_assessments WHERE id = $1`, id,
	).Scan(&a.ID, &a.ModuleID, &a.Name, &a.Weight, &a.Mark, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *PostgresStore) ListAssessments(ctx context.Context, moduleID uuid.UUID) ([]*Assessment, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+assessmentColumns+`
		FROM gradebook_assessments WHERE module_id = $1
		ORDER BY created_at ASC`, moduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Assessment
	for rows.Next() {
		a := &Assessment{}
		if err := rows.Scan(&a.ID, &a.ModuleID, &a.Name, &a.Weight, &a.Mark, &a.Status, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *PostgresStore) UpdateAssessment(ctx context.Context, a *Assessment) error {
	err := s.pool.QueryRow(ctx, `
		UPDATE gradebook_assessments SET
			name = $2, weight = $3, mark = $4, status = $5, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`,
		a.ID, a.Name, a.Weight, a.Mark, a.Status,
	).Scan(&a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	return err
}

func (s *PostgresStore) DeleteAssessment(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM gradebook_assessments WHERE id = $1`, id)
	return err
}

func (s *PostgresStore) GetCatalogEntry(ctx context.Context, code string) (*catalog.Entry, error) {
	e := &catalog.Entry{}
	err := s.pool.QueryRow(ctx, `
		SELECT code, title, ects, default_scale
		FROM gradebook_catalog WHERE code = $1`, catalog.Normalize(code),
	).Scan(&e.Code, &e.Title, &e.ECTS, &e.DefaultScale)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (s *PostgresStore) ListCatalog(ctx context.Context) ([]catalog.Entry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT code, title, ects, default_scale
		FROM gradebook_catalog ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []catalog.Entry
	for rows.Next() {
		var e catalog.Entry
		if err := rows.Scan(&e.Code, &e.Title, &e.ECTS, &e.DefaultScale); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *PostgresStore) UpsertCatalogEntry(ctx context.Context, e *catalog.Entry) error {
	e.Code = catalog.Normalize(e.Code)
	_, err := s.pool.Exec(ctx, `
		INSERT INTO gradebook_catalog (code, title, ects, default_scale)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (code) DO UPDATE SET
			title = EXCLUDED.title, ects = EXCLUDED.ects, default_scale = EXCLUDED.default_scale`,
		e.Code, e.Title, e.ECTS, e.DefaultScale,
	)
	return err
}

func (s *PostgresStore) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	err := s.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(DISTINCT user_id) FROM gradebook_modules),
			(SELECT COUNT(*) FROM gradebook_modules),
			(SELECT COUNT(*) FROM gradebook_assessments),
			(SELECT COUNT(*) FROM gradebook_assessments WHERE status = 'pending'),
			(SELECT COUNT(*) FROM gradebook_catalog)`,
	).Scan(&stats.Users, &stats.Modules, &stats.Assessments, &stats.PendingAssessments, &stats.CatalogEntries)
	return stats, err
}

func translatePgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrDuplicateCode
	}
	return err
}
