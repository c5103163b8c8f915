package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Store persists a catalog in a SQLite database so a team can share one
// seeded dataset. Row order is kept through the position column.
type Store struct {
	db   *sql.DB
	path string
}

func OpenStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := migrateStore(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, path: path}, nil
}

func migrateStore(db *sql.DB) error {
	statements := []string{
		`PRAGMA journal_mode=WAL;`,
		`CREATE TABLE IF NOT EXISTS projects (
			position INTEGER NOT NULL,
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			code_name TEXT NOT NULL DEFAULT '',
			last_accessed TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS ingredients (
			position INTEGER NOT NULL,
			id TEXT NOT NULL,
			type TEXT NOT NULL DEFAULT '',
			name TEXT NOT NULL DEFAULT '',
			releases_count INTEGER NOT NULL DEFAULT 0,
			silicon_family TEXT NOT NULL DEFAULT '',
			segment TEXT NOT NULL DEFAULT '',
			step TEXT NOT NULL DEFAULT '',
			validation TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS releases (
			position INTEGER NOT NULL,
			role TEXT NOT NULL,
			id TEXT NOT NULL,
			version TEXT NOT NULL DEFAULT '',
			changed_deps TEXT NOT NULL DEFAULT '',
			released_by TEXT NOT NULL DEFAULT '',
			released_date TEXT NOT NULL DEFAULT '',
			released_ww TEXT NOT NULL DEFAULT '',
			is_modified INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS knobs (
			position INTEGER NOT NULL,
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			path TEXT NOT NULL DEFAULT '',
			display_value TEXT NOT NULL DEFAULT '',
			raw_value TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'active',
			is_overridden INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS straps (
			position INTEGER NOT NULL,
			key TEXT NOT NULL,
			value TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS workflow_steps (
			position INTEGER NOT NULL,
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT '',
			kind TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS test_lines (
			position INTEGER NOT NULL,
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			node TEXT NOT NULL DEFAULT '',
			duration TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			included INTEGER NOT NULL DEFAULT 1,
			goal_name TEXT NOT NULL DEFAULT '',
			hw_config TEXT NOT NULL DEFAULT '',
			sw_config TEXT NOT NULL DEFAULT ''
		);`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("catalog store migration failed: %w", err)
		}
	}
	return nil
}

func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

var storeTables = []string{"projects", "ingredients", "releases", "knobs", "straps", "workflow_steps", "test_lines"}

// Seed replaces the stored dataset with c in a single transaction.
func (s *Store) Seed(ctx context.Context, c *Catalog) error {
	if s == nil || s.db == nil {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := seedTx(ctx, tx, c.Data()); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func seedTx(ctx context.Context, tx *sql.Tx, data Data) error {
	for _, table := range storeTables {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	for i, p := range data.Projects {
		if _, err := tx.ExecContext(ctx, `INSERT INTO projects (position, id, name, code_name, last_accessed) VALUES (?, ?, ?, ?, ?)`,
			i, p.ID, p.Name, p.CodeName, p.LastAccessed); err != nil {
			return fmt.Errorf("insert project %s: %w", p.ID, err)
		}
	}
	for i, in := range data.Ingredients {
		if _, err := tx.ExecContext(ctx, `INSERT INTO ingredients (position, id, type, name, releases_count, silicon_family, segment, step, validation, description)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			i, in.ID, in.Type, in.Name, in.ReleasesCount, in.SiliconFamily, in.Segment, in.Step, in.Validation, in.Description); err != nil {
			return fmt.Errorf("insert ingredient %s: %w", in.ID, err)
		}
	}
	if err := insertReleases(ctx, tx, "release", data.Releases); err != nil {
		return err
	}
	if err := insertReleases(ctx, tx, "build_dep", data.BuildDeps); err != nil {
		return err
	}
	for i, k := range data.Knobs {
		if _, err := tx.ExecContext(ctx, `INSERT INTO knobs (position, id, name, path, display_value, raw_value, status, is_overridden)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			i, k.ID, k.Name, k.Path, k.DisplayValue, k.RawValue, string(k.Status), boolInt(k.IsOverridden)); err != nil {
			return fmt.Errorf("insert knob %s: %w", k.ID, err)
		}
	}
	for i, st := range data.Straps {
		if _, err := tx.ExecContext(ctx, `INSERT INTO straps (position, key, value) VALUES (?, ?, ?)`, i, st.Key, st.Value); err != nil {
			return fmt.Errorf("insert strap %s: %w", st.Key, err)
		}
	}
	for i, step := range data.Steps {
		if _, err := tx.ExecContext(ctx, `INSERT INTO workflow_steps (position, id, name, status, kind) VALUES (?, ?, ?, ?, ?)`,
			i, step.ID, step.Name, string(step.Status), string(step.Kind)); err != nil {
			return fmt.Errorf("insert workflow step %s: %w", step.ID, err)
		}
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO test_lines (position, id, name, node, duration, status, included, goal_name, hw_config, sw_config)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, line := range data.TestLines {
		if _, err := stmt.ExecContext(ctx, i, line.ID, line.Name, line.Node, line.Duration, string(line.Status),
			boolInt(line.Included), line.GoalName, line.HWConfig, line.SWConfig); err != nil {
			return fmt.Errorf("insert test line %s: %w", line.ID, err)
		}
	}
	return nil
}

func insertReleases(ctx context.Context, tx *sql.Tx, role string, releases []Release) error {
	for i, r := range releases {
		if _, err := tx.ExecContext(ctx, `INSERT INTO releases (position, role, id, version, changed_deps, released_by, released_date, released_ww, is_modified)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			i, role, r.ID, r.Version, r.ChangedDeps, r.ReleasedBy, r.ReleasedDate, r.ReleasedWW, boolInt(r.IsModified)); err != nil {
			return fmt.Errorf("insert %s %s: %w", role, r.ID, err)
		}
	}
	return nil
}

// Load reads the stored dataset. An unseeded database yields an empty,
// valid catalog.
func (s *Store) Load(ctx context.Context) (*Catalog, error) {
	if s == nil || s.db == nil {
		return New(Data{})
	}
	var (
		data Data
		err  error
	)
	if data.Projects, err = s.loadProjects(ctx); err != nil {
		return nil, err
	}
	if data.Ingredients, err = s.loadIngredients(ctx); err != nil {
		return nil, err
	}
	if data.Releases, err = s.loadReleases(ctx, "release"); err != nil {
		return nil, err
	}
	if data.BuildDeps, err = s.loadReleases(ctx, "build_dep"); err != nil {
		return nil, err
	}
	if data.Knobs, err = s.loadKnobs(ctx); err != nil {
		return nil, err
	}
	if data.Straps, err = s.loadStraps(ctx); err != nil {
		return nil, err
	}
	if data.Steps, err = s.loadSteps(ctx); err != nil {
		return nil, err
	}
	if data.TestLines, err = s.loadTestLines(ctx); err != nil {
		return nil, err
	}
	return New(data)
}

func (s *Store) loadProjects(ctx context.Context) ([]Project, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, code_name, last_accessed FROM projects ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.CodeName, &p.LastAccessed); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) loadIngredients(ctx context.Context) ([]Ingredient, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, type, name, releases_count, silicon_family, segment, step, validation, description
		FROM ingredients ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Ingredient
	for rows.Next() {
		var in Ingredient
		if err := rows.Scan(&in.ID, &in.Type, &in.Name, &in.ReleasesCount, &in.SiliconFamily, &in.Segment, &in.Step, &in.Validation, &in.Description); err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

func (s *Store) loadReleases(ctx context.Context, role string) ([]Release, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, version, changed_deps, released_by, released_date, released_ww, is_modified
		FROM releases WHERE role = ? ORDER BY position ASC`, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Release
	for rows.Next() {
		var (
			r        Release
			modified int
		)
		if err := rows.Scan(&r.ID, &r.Version, &r.ChangedDeps, &r.ReleasedBy, &r.ReleasedDate, &r.ReleasedWW, &modified); err != nil {
			return nil, err
		}
		r.IsModified = modified != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) loadKnobs(ctx context.Context) ([]Knob, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, path, display_value, raw_value, status, is_overridden FROM knobs ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Knob
	for rows.Next() {
		var (
			k          Knob
			status     string
			overridden int
		)
		if err := rows.Scan(&k.ID, &k.Name, &k.Path, &k.DisplayValue, &k.RawValue, &status, &overridden); err != nil {
			return nil, err
		}
		k.Status = KnobStatus(status)
		k.IsOverridden = overridden != 0
		out = append(out, k)
	}
	return out, rows.Err()
}

func (s *Store) loadStraps(ctx context.Context) ([]Strap, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM straps ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Strap
	for rows.Next() {
		var st Strap
		if err := rows.Scan(&st.Key, &st.Value); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *Store) loadSteps(ctx context.Context) ([]WorkflowStep, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, status, kind FROM workflow_steps ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []WorkflowStep
	for rows.Next() {
		var (
			step         WorkflowStep
			status, kind string
		)
		if err := rows.Scan(&step.ID, &step.Name, &status, &kind); err != nil {
			return nil, err
		}
		step.Status = StepStatus(status)
		step.Kind = StepKind(kind)
		out = append(out, step)
	}
	return out, rows.Err()
}

func (s *Store) loadTestLines(ctx context.Context) ([]TestLine, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, node, duration, status, included, goal_name, hw_config, sw_config
		FROM test_lines ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TestLine
	for rows.Next() {
		var (
			line     TestLine
			status   string
			included int
		)
		if err := rows.Scan(&line.ID, &line.Name, &line.Node, &line.Duration, &status, &included, &line.GoalName, &line.HWConfig, &line.SWConfig); err != nil {
			return nil, err
		}
		line.Status = TestStatus(status)
		line.Included = included != 0
		out = append(out, line)
	}
	return out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
