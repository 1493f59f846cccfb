package migrate

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"todo_api/internal/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//go:embed sql/*.sql
var embedded embed.FS

// lockKey is the pg_advisory_lock key serializing runners across processes
const lockKey int64 = 0x746f646f5f6d6967

const createVersionTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
	version    TEXT PRIMARY KEY,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

var (
	migrationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "todo_migration_duration_seconds",
		Help:    "Wall time of a full migration run",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
	})
	migrationRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "todo_migration_runs_total",
		Help: "Migration runs by outcome",
	}, []string{"outcome"})
)

// Migration is one schema change; Version is the file name without extension
type Migration struct {
	Version string
	SQL     string
}

// Load reads every .sql file under dir, ordered by file name
func Load(fsys fs.FS, dir string) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}

	var out []Migration
	seen := make(map[string]bool)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}
		version := strings.TrimSuffix(name, ".sql")
		prefix, _, _ := strings.Cut(version, "_")
		if seen[prefix] {
			return nil, fmt.Errorf("duplicate migration number %s", prefix)
		}
		seen[prefix] = true

		b, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read file %s: %w", name, err)
		}
		if strings.TrimSpace(string(b)) == "" {
			return nil, fmt.Errorf("migration %s is empty", name)
		}
		out = append(out, Migration{Version: version, SQL: string(b)})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

// Embedded returns the migrations compiled into the binary
func Embedded() ([]Migration, error) {
	return Load(embedded, "sql")
}

// Runner applies pending migrations to the record store
type Runner struct {
	db         *pgxpool.Pool
	migrations []Migration
}

func NewRunner(db *pgxpool.Pool, migrations []Migration) *Runner {
	return &Runner{db: db, migrations: migrations}
}

// NewEmbeddedRunner builds a Runner over the compiled-in migrations
func NewEmbeddedRunner(db *pgxpool.Pool) (*Runner, error) {
	ms, err := Embedded()
	if err != nil {
		return nil, err
	}
	return NewRunner(db, ms), nil
}

// Run applies every pending migration in order, each inside its own
// transaction. It stops at the first failure; migrations applied before it
// stay applied. With nothing pending it is a successful no-op.
func (r *Runner) Run(ctx context.Context) error {
	start := time.Now()

	applied, err := r.run(ctx)
	elapsed := time.Since(start)
	migrationDuration.Observe(elapsed.Seconds())

	if err != nil {
		migrationRuns.WithLabelValues("failed").Inc()
		logger.Error("migrations failed", "error", err, "applied", applied, "duration_ms", elapsed.Milliseconds())
		return err
	}

	migrationRuns.WithLabelValues("ok").Inc()
	logger.Info("migrations completed", "applied", applied, "duration_ms", elapsed.Milliseconds())
	return nil
}

func (r *Runner) run(ctx context.Context) (int, error) {
	conn, err := r.db.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `SELECT pg_advisory_lock($1)`, lockKey); err != nil {
		return 0, fmt.Errorf("acquire migration lock: %w", err)
	}
	defer func() {
		unlockCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := conn.Exec(unlockCtx, `SELECT pg_advisory_unlock($1)`, lockKey); err != nil {
			logger.Warn("release migration lock", "error", err)
		}
	}()

	if _, err := conn.Exec(ctx, createVersionTable); err != nil {
		return 0, fmt.Errorf("create schema_migrations: %w", err)
	}

	done, err := appliedVersions(ctx, conn.Conn())
	if err != nil {
		return 0, err
	}

	count := 0
	for _, m := range r.migrations {
		if done[m.Version] {
			continue
		}
		if err := applyOne(ctx, conn.Conn(), m); err != nil {
			return count, fmt.Errorf("apply %s: %w", m.Version, err)
		}
		logger.Debug("migration applied", "version", m.Version)
		count++
	}
	return count, nil
}

func applyOne(ctx context.Context, conn *pgx.Conn, m Migration) error {
	tx, err := conn.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// no arguments: pgx uses the simple protocol, so a file may hold several statements
	if _, err := tx.Exec(ctx, m.SQL); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, m.Version); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func appliedVersions(ctx context.Context, conn *pgx.Conn) (map[string]bool, error) {
	rows, err := conn.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}
	versions, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}

	done := make(map[string]bool, len(versions))
	for _, v := range versions {
		done[v] = true
	}
	return done, nil
}

// Status is the applied/pending split reported by cmd/migrate
type Status struct {
	Applied []string
	Pending []string
}

// Status lists applied and pending versions without changing anything
func (r *Runner) Status(ctx context.Context) (*Status, error) {
	done := map[string]bool{}

	var exists bool
	err := r.db.QueryRow(ctx, `SELECT to_regclass('schema_migrations') IS NOT NULL`).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check schema_migrations: %w", err)
	}
	if exists {
		conn, err := r.db.Acquire(ctx)
		if err != nil {
			return nil, fmt.Errorf("acquire connection: %w", err)
		}
		done, err = appliedVersions(ctx, conn.Conn())
		conn.Release()
		if err != nil {
			return nil, err
		}
	}

	return split(r.migrations, done), nil
}

func split(ms []Migration, done map[string]bool) *Status {
	st := &Status{}
	for _, m := range ms {
		if done[m.Version] {
			st.Applied = append(st.Applied, m.Version)
		} else {
			st.Pending = append(st.Pending, m.Version)
		}
	}
	return st
}
