package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"gtp/internal/config"
	"gtp/internal/domain"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS gtp_runs (
		id                VARCHAR(36) NOT NULL PRIMARY KEY,
		started_at        VARCHAR(32) NOT NULL,
		duration_seconds  DOUBLE      NOT NULL,
		workers           INT         NOT NULL,
		total_executables INT         NOT NULL,
		passed_jobs       INT         NOT NULL,
		failed_jobs       INT         NOT NULL,
		passed_cases      INT         NOT NULL,
		failed_cases      INT         NOT NULL,
		skipped_cases     INT         NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS gtp_failures (
		id                BIGINT AUTO_INCREMENT PRIMARY KEY,
		run_id            VARCHAR(36)   NOT NULL,
		executable        VARCHAR(1024) NOT NULL,
		test_name         VARCHAR(512)  NOT NULL,
		outcome           VARCHAR(16)   NOT NULL,
		error_message     MEDIUMTEXT    NOT NULL,
		error_stack_trace TEXT          NOT NULL,
		duration_ms       BIGINT        NOT NULL,
		resolved          BOOLEAN       NOT NULL DEFAULT FALSE,
		INDEX idx_gtp_failures_run (run_id)
	)`,
}

// MySQLExporter copies stored runs into a MySQL database
type MySQLExporter struct {
	config *config.Config
	logger *zap.Logger
}

// NewMySQLExporter creates a new MySQLExporter
func NewMySQLExporter(cfg *config.Config, logger *zap.Logger) *MySQLExporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MySQLExporter{config: cfg, logger: logger}
}

// Export writes the run and its failures. The database and tables are created if
// they don't exist; rows are inserted in a single transaction.
func (e *MySQLExporter) Export(ctx context.Context, output *domain.TestResultsOutput) error {
	dbName := e.config.Database.Name
	if !isValidDatabaseName(dbName) {
		return fmt.Errorf("invalid database name: %q", dbName)
	}
	if output.Meta.RunID == "" {
		return fmt.Errorf("run has no id")
	}

	if err := e.ensureDatabase(ctx, dbName); err != nil {
		return err
	}

	db, err := sql.Open("mysql", e.config.GetDatabaseDSN())
	if err != nil {
		return fmt.Errorf("failed to connect to database %s: %w", dbName, err)
	}
	defer db.Close()

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create tables: %w", err)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := insertRun(ctx, tx, output.Meta); err != nil {
		return err
	}
	for _, f := range output.Details {
		if err := insertFailure(ctx, tx, output.Meta.RunID, f); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	e.logger.Info("Exported run",
		zap.String("run", output.Meta.RunID),
		zap.String("database", dbName),
		zap.Int("failures", len(output.Details)))
	return nil
}

// ensureDatabase connects to the server without selecting a database and creates it if needed
func (e *MySQLExporter) ensureDatabase(ctx context.Context, dbName string) error {
	db, err := sql.Open("mysql", e.config.GetServerDSN())
	if err != nil {
		return fmt.Errorf("failed to connect to database server: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database server: %w", err)
	}

	var exists bool
	query := "SELECT EXISTS(SELECT SCHEMA_NAME FROM INFORMATION_SCHEMA.SCHEMATA WHERE SCHEMA_NAME = ?)"
	if err := db.QueryRowContext(ctx, query, dbName).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check database %s: %w", dbName, err)
	}
	if exists {
		return nil
	}

	e.logger.Debug("Creating database", zap.String("database", dbName))
	if _, err := db.ExecContext(ctx, fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", dbName)); err != nil {
		return fmt.Errorf("failed to create database %s: %w", dbName, err)
	}
	return nil
}

func insertRun(ctx context.Context, tx *sql.Tx, meta domain.TestResultsMeta) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO gtp_runs (id, started_at, duration_seconds, workers, total_executables,
			passed_jobs, failed_jobs, passed_cases, failed_cases, skipped_cases)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		meta.RunID, meta.Timestamp, meta.DurationSeconds, meta.Workers, meta.TotalExecutables,
		meta.PassedJobs, meta.FailedJobs, meta.PassedTestCases, meta.FailedTestCases, meta.SkippedTestCases)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", meta.RunID, err)
	}
	return nil
}

func insertFailure(ctx context.Context, tx *sql.Tx, runID string, f domain.TestFailure) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO gtp_failures (run_id, executable, test_name, outcome, error_message,
			error_stack_trace, duration_ms, resolved)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, f.Executable, f.TestName, string(f.Outcome), f.ErrorMessage,
		f.ErrorStackTrace, f.DurationMs, f.Resolved)
	if err != nil {
		return fmt.Errorf("insert failure %s: %w", f.TestName, err)
	}
	return nil
}

// isValidDatabaseName validates database name (basic check)
func isValidDatabaseName(name string) bool {
	if len(name) == 0 || len(name) > 64 {
		return false
	}
	for _, r := range name {
		if !(r == '_' || r == '$' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return false
		}
	}
	// Check for SQL keywords used in injection attempts
	upperName := strings.ToUpper(name)
	for _, keyword := range []string{"DROP", "DELETE", "TRUNCATE"} {
		if strings.Contains(upperName, keyword) {
			return false
		}
	}
	return true
}
