package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/MikeSquared-Agency/Gradebook/internal/catalog"
)

const defaultSQLitePath = "gradebook.db"

// SQLiteStore keeps everything in a single SQLite file. Timestamps are
// stored as unix nanoseconds.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path and
// ensures the schema exists.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// PRAGMA foreign_keys is per connection.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, schemaSQLite); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func sqliteDSN(path string) string {
	if path == "" {
		path = defaultSQLitePath
	}
	if strings.HasPrefix(path, "file:") {
		return path
	}
	return "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateModule(ctx context.Context, m *Module) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO gradebook_modules (id, user_id, code, title, ects, scale, method, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID.String(), m.UserID, m.Code, m.Title, m.ECTS, string(m.Scale), string(m.Method), now.UnixNano(), now.UnixNano(),
	)
	if err != nil {
		return translateSQLiteError(err)
	}
	m.CreatedAt, m.UpdatedAt = now, now
	return nil
}

func (s *SQLiteStore) GetModule(ctx context.Context, id uuid.UUID) (*Module, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+moduleColumns+`
		FROM gradebook_modules WHERE id = ?`, id.String())
	m, err := scanSQLiteModule(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return m, err
}

func (s *SQLiteStore) ListModules(ctx context.Context, filter ModuleFilter) ([]*Module, error) {
	query := `SELECT ` + moduleColumns + ` FROM gradebook_modules WHERE 1=1`
	args := []interface{}{}
	if filter.UserID != "" {
		query += " AND user_id = ?"
		args = append(args, filter.UserID)
	}
	query += " ORDER BY created_at DESC, rowid DESC"

	// SQLite reads a negative LIMIT as unbounded.
	limit := filter.Limit
	if limit == 0 {
		limit = DefaultLimit
	} else if limit < 0 {
		limit = -1
	}
	query += " LIMIT ? OFFSET ?"
	args = append(args, limit, max(filter.Offset, 0))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var modules []*Module
	for rows.Next() {
		m, err := scanSQLiteModule(rows)
		if err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}
	return modules, rows.Err()
}

func (s *SQLiteStore) UpdateModule(ctx context.Context, m *Module) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		UPDATE gradebook_modules SET
			code = ?, title = ?, ects = ?, scale = ?, method = ?, updated_at = ?
		WHERE id = ?`,
		m.Code, m.Title, m.ECTS, string(m.Scale), string(m.Method), now.UnixNano(), m.ID.String(),
	)
	if err != nil {
		return translateSQLiteError(err)
	}
	m.UpdatedAt = now
	return nil
}

func (s *SQLiteStore) DeleteModule(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM gradebook_modules WHERE id = ?`, id.String())
	return err
}

func (s *SQLiteStore) CreateAssessment(ctx context.Context, a *Assessment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO gradebook_assessments (id, module_id, name, weight, mark, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID.String(), a.ModuleID.String(), a.Name, a.Weight, nullFloat(a.Mark), string(a.Status), now.UnixNano(), now.UnixNano(),
	)
	if err != nil {
		return err
	}
	a.CreatedAt, a.UpdatedAt = now, now
	return nil
}

func (s *SQLiteStore) GetAssessment(ctx context.Context, id uuid.UUID) (*Assessment, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+assessmentColumns+`
		FROM gradebook_assessments WHERE id = ?`, id.String())
	a, err := scanSQLiteAssessment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return a, err
}

func (s *SQLiteStore) ListAssessments(ctx context.Context, moduleID uuid.UUID) ([]*Assessment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+assessmentColumns+`
		FROM gradebook_assessments WHERE module_id = ?
		ORDER BY created_at ASC, rowid ASC`, moduleID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Assessment
	for rows.Next() {
		a, err := scanSQLiteAssessment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) UpdateAssessment(ctx context.Context, a *Assessment) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		UPDATE gradebook_assessments SET
			name = ?, weight = ?, mark = ?, status = ?, updated_at = ?
		WHERE id = ?`,
		a.Name, a.Weight, nullFloat(a.Mark), string(a.Status), now.UnixNano(), a.ID.String(),
	)
	if err != nil {
		return err
	}
	a.UpdatedAt = now
	return nil
}

func (s *SQLiteStore) DeleteAssessment(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM gradebook_assessments WHERE id = ?`, id.String())
	return err
}

func (s *SQLiteStore) GetCatalogEntry(ctx context.Context, code string) (*catalog.Entry, error) {
	e := &catalog.Entry{}
	err := s.db.QueryRowContext(ctx, `
		SELECT code, title, ects, default_scale
		FROM gradebook_catalog WHERE code = ?`, catalog.Normalize(code),
	).Scan(&e.Code, &e.Title, &e.ECTS, &e.DefaultScale)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (s *SQLiteStore) ListCatalog(ctx context.Context) ([]catalog.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
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

func (s *SQLiteStore) UpsertCatalogEntry(ctx context.Context, e *catalog.Entry) error {
	e.Code = catalog.Normalize(e.Code)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO gradebook_catalog (code, title, ects, default_scale)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (code) DO UPDATE SET
			title = excluded.title, ects = excluded.ects, default_scale = excluded.default_scale`,
		e.Code, e.Title, e.ECTS, string(e.DefaultScale),
	)
	return err
}

func (s *SQLiteStore) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(DISTINCT user_id) FROM gradebook_modules),
			(SELECT COUNT(*) FROM gradebook_modules),
			(SELECT COUNT(*) FROM gradebook_assessments),
			(SELECT COUNT(*) FROM gradebook_assessments WHERE status = 'pending'),
			(SELECT COUNT(*) FROM gradebook_catalog)`,
	).Scan(&stats.Users, &stats.Modules, &stats.Assessments, &stats.PendingAssessments, &stats.CatalogEntries)
	return stats, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteModule(r rowScanner) (*Module, error) {
	m := &Module{}
	var id string
	var created, updated int64
	if err := r.Scan(&id, &m.UserID, &m.Code, &m.Title, &m.ECTS, &m.Scale, &m.Method, &created, &updated); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse module id: %w", err)
	}
	m.ID = parsed
	m.CreatedAt = time.Unix(0, created).UTC()
	m.UpdatedAt = time.Unix(0, updated).UTC()
	return m, nil
}

func scanSQLiteAssessment(r rowScanner) (*Assessment, error) {
	a := &Assessment{}
	var id, moduleID string
	var mark sql.NullFloat64
	var created, updated int64
	if err := r.Scan(&id, &moduleID, &a.Name, &a.Weight, &mark, &a.Status, &created, &updated); err != nil {
		return nil, err
	}
	var err error
	if a.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse assessment id: %w", err)
	}
	if a.ModuleID, err = uuid.Parse(moduleID); err != nil {
		return nil, fmt.Errorf("parse module id: %w", err)
	}
	if mark.Valid {
		v := mark.Float64
		a.Mark = &v
	}
	a.CreatedAt = time.Unix(0, created).UTC()
	a.UpdatedAt = time.Unix(0, updated).UTC()
	return a, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func translateSQLiteError(err error) error {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return err
	}
	code := sqliteErr.Code()
	if code == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
		(code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(sqliteErr.Error(), "UNIQUE")) {
		return ErrDuplicateCode
	}
	return err
}
