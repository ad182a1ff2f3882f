package signatures

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"github.com/jcastellr/netwarden/internal/core/domain"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteRepository implements ports.SignatureRepository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens (or creates) the signature database.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// Load returns the enabled signatures from both tables.
func (r *SQLiteRepository) Load(ctx context.Context) (domain.SignatureSet, error) {
	var set domain.SignatureSet

	rows, err := r.db.QueryContext(ctx,
		"SELECT port, note FROM suspicious_ports WHERE enabled = 1 ORDER BY port")
	if err != nil {
		return set, fmt.Errorf("load ports: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sig domain.PortSignature
		if err := rows.Scan(&sig.Port, &sig.Note); err != nil {
			return set, fmt.Errorf("load ports: %w", err)
		}
		set.Ports = append(set.Ports, sig)
	}
	if err := rows.Err(); err != nil {
		return set, fmt.Errorf("load ports: %w", err)
	}

	bannerRows, err := r.db.QueryContext(ctx,
		"SELECT pattern, note FROM vulnerable_banners WHERE enabled = 1 ORDER BY pattern")
	if err != nil {
		return set, fmt.Errorf("load banners: %w", err)
	}
	defer bannerRows.Close()

	for bannerRows.Next() {
		var sig domain.BannerSignature
		if err := bannerRows.Scan(&sig.Pattern, &sig.Note); err != nil {
			return set, fmt.Errorf("load banners: %w", err)
		}
		set.Banners = append(set.Banners, sig)
	}
	if err := bannerRows.Err(); err != nil {
		return set, fmt.Errorf("load banners: %w", err)
	}

	return set, nil
}

// Seed inserts the given set only when both tables are empty, so a tuned
// store survives restarts untouched. Disabled rows count as present.
func (r *SQLiteRepository) Seed(ctx context.Context, set domain.SignatureSet) error {
	var total int
	err := r.db.QueryRowContext(ctx,
		"SELECT (SELECT COUNT(*) FROM suspicious_ports) + (SELECT COUNT(*) FROM vulnerable_banners)").Scan(&total)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if total > 0 {
		return nil
	}
	return r.Import(ctx, set)
}

// Import upserts the given set inside one transaction, enabling every entry
// it names. Notes on existing rows are replaced.
func (r *SQLiteRepository) Import(ctx context.Context, set domain.SignatureSet) error {
	set.Normalize()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	defer tx.Rollback()

	portStmt := `
		INSERT INTO suspicious_ports (port, note, enabled) VALUES (?, ?, 1)
		ON CONFLICT(port) DO UPDATE SET
			note = excluded.note,
			enabled = 1,
			updated_at = CURRENT_TIMESTAMP
	`
	for _, p := range set.Ports {
		if _, err := tx.ExecContext(ctx, portStmt, p.Port, p.Note); err != nil {
			return fmt.Errorf("import port %d: %w", p.Port, err)
		}
	}

	bannerStmt := `
		INSERT INTO vulnerable_banners (pattern, note, enabled) VALUES (?, ?, 1)
		ON CONFLICT(pattern) DO UPDATE SET
			note = excluded.note,
			enabled = 1,
			updated_at = CURRENT_TIMESTAMP
	`
	for _, b := range set.Banners {
		if _, err := tx.ExecContext(ctx, bannerStmt, b.Pattern, b.Note); err != nil {
			return fmt.Errorf("import banner %q: %w", b.Pattern, err)
		}
	}

	return tx.Commit()
}

// Count returns the number of enabled signatures across both tables.
func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT (SELECT COUNT(*) FROM suspicious_ports WHERE enabled = 1) + (SELECT COUNT(*) FROM vulnerable_banners WHERE enabled = 1)").Scan(&count)
	return count, err
}

// Close closes the database connection.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
