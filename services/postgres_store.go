package services

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	_ "github.com/lib/pq"

	"github.com/encryptogroup/dp-KRE/dataset"
	"github.com/encryptogroup/dp-KRE/harness"
	"github.com/encryptogroup/dp-KRE/noise"
	"github.com/encryptogroup/dp-KRE/protocol"
)

// PostgresStore implements TrialStore with PostgreSQL persistence.
// Values are stored as BIGINT: domains above 63 bits do not fit and are
// rejected at save time.
type PostgresStore struct {
	db *sql.DB
}

// PostgresConfig contains PostgreSQL connection settings.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// ConnectionString returns the PostgreSQL connection string.
func (c *PostgresConfig) ConnectionString() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, sslMode)
}

// NewPostgresStore connects to PostgreSQL and runs migrations.
func NewPostgresStore(connectionString string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	store := &PostgresStore{db: db}
	if err := store.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return store, nil
}

func (s *PostgresStore) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS trials (
			id          SERIAL PRIMARY KEY,
			statistic   TEXT NOT NULL,
			noise_level TEXT NOT NULL,
			k           INTEGER NOT NULL,
			true_value  BIGINT NOT NULL,
			estimate    BIGINT NOT NULL,
			rounds      INTEGER NOT NULL,
			condition   TEXT NOT NULL DEFAULT '',
			elapsed_ns  BIGINT NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS trials_statistic_idx ON trials (statistic, noise_level);
	`)
	return err
}

// SaveTrials implements TrialStore.
func (s *PostgresStore) SaveTrials(ctx context.Context, trials []harness.Trial) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO trials (statistic, noise_level, k, true_value, estimate, rounds, condition, elapsed_ns)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range trials {
		if t.TrueValue > math.MaxInt64 || t.Estimate > math.MaxInt64 {
			return fmt.Errorf("trial value exceeds 63-bit storage range")
		}
		if _, err := stmt.ExecContext(ctx,
			string(t.Statistic), string(t.Level), t.K,
			int64(t.TrueValue), int64(t.Estimate), t.Rounds,
			string(t.Condition), int64(t.Elapsed),
		); err != nil {
			return fmt.Errorf("inserting trial: %w", err)
		}
	}
	return tx.Commit()
}

// ListTrials implements TrialStore.
func (s *PostgresStore) ListTrials(ctx context.Context, statistic dataset.Statistic) ([]harness.Trial, error) {
	query := `
		SELECT statistic, noise_level, k, true_value, estimate, rounds, condition, elapsed_ns
		FROM trials
	`
	var args []any
	if statistic != "" {
		query += ` WHERE statistic = $1`
		args = append(args, string(statistic))
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying trials: %w", err)
	}
	defer rows.Close()

	var trials []harness.Trial
	for rows.Next() {
		var (
			t                   harness.Trial
			stat, level, cond   string
			trueValue, estimate int64
			elapsed             int64
		)
		if err := rows.Scan(&stat, &level, &t.K, &trueValue, &estimate, &t.Rounds, &cond, &elapsed); err != nil {
			return nil, fmt.Errorf("scanning trial: %w", err)
		}
		t.Statistic = dataset.Statistic(stat)
		t.Level = noise.Level(level)
		t.TrueValue = uint64(trueValue)
		t.Estimate = uint64(estimate)
		t.Condition = protocol.Condition(cond)
		t.Elapsed = time.Duration(elapsed)
		trials = append(trials, t)
	}
	return trials, rows.Err()
}

// Close releases the database connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
