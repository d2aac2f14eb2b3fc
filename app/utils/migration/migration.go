package migration

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
)

// TableParam is replaced with the quoted invitation table name in every
// migration file.
const TableParam = "{{invitation_table}}"

const (
	upSuffix   = ".up.sql"
	downSuffix = ".down.sql"

	createLedgerSQL = `CREATE TABLE IF NOT EXISTS schema_migrations (
	version    INTEGER PRIMARY KEY,
	name       TEXT NOT NULL,
	checksum   CHAR(64) NOT NULL,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`
	selectLedgerSQL = `SELECT version, checksum, applied_at FROM schema_migrations ORDER BY version`
	insertLedgerSQL = `INSERT INTO schema_migrations (version, name, checksum) VALUES ($1, $2, $3)`
	deleteLedgerSQL = `DELETE FROM schema_migrations WHERE version = $1`
)

// Migration is one "<version>_<name>" pair of up and down scripts.
type Migration struct {
	Version int
	Name    string
	UpSQL   string
	DownSQL string
}

type ledgerEntry struct {
	checksum  string
	appliedAt time.Time
}

// Migrator applies the embedded invitation store schema and records each
// applied version in schema_migrations.
type Migrator struct {
	db       *sql.DB
	logger   *slog.Logger
	source   fs.FS
	replacer *strings.Replacer
}

// NewMigrator binds the migrations in source to invitationTable, which may
// be schema-qualified.
func NewMigrator(db *sql.DB, logger *slog.Logger, source fs.FS, invitationTable string) *Migrator {
	return &Migrator{
		db:       db,
		logger:   logger.With("component", "migrator"),
		source:   source,
		replacer: strings.NewReplacer(TableParam, quoteTable(invitationTable)),
	}
}

// LoadMigrations reads every up script with its down pair, ordered by
// version. Files that do not follow the naming scheme are skipped.
func (m *Migrator) LoadMigrations() ([]Migration, error) {
	var out []Migration

	walkErr := fs.WalkDir(m.source, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(p, upSuffix) {
			return err
		}

		version, name, ok := parseName(path.Base(p))
		if !ok {
			m.logger.Warn("skipping migration with malformed name", "file", p)
			return nil
		}

		stem := strings.TrimSuffix(p, upSuffix)
		up, err := fs.ReadFile(m.source, p)
		if err != nil {
			return fmt.Errorf("read up migration %s: %w", p, err)
		}
		down, err := fs.ReadFile(m.source, stem+downSuffix)
		if err != nil {
			return fmt.Errorf("read down migration %s: %w", stem+downSuffix, err)
		}

		out = append(out, Migration{
			Version: version,
			Name:    name,
			UpSQL:   m.replacer.Replace(string(up)),
			DownSQL: m.replacer.Replace(string(down)),
		})
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("load migrations: %w", walkErr)
	}

	slices.SortFunc(out, func(a, b Migration) int { return a.Version - b.Version })
	for i := 1; i < len(out); i++ {
		if out[i].Version == out[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %d", out[i].Version)
		}
	}
	return out, nil
}

// Up applies every migration missing from the ledger, in version order.
func (m *Migrator) Up(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, createLedgerSQL); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	all, ledger, err := m.state(ctx)
	if err != nil {
		return err
	}

	// 未適用のマイグレーションのみ実行
	todo := pending(all, ledger)
	if len(todo) == 0 {
		m.logger.InfoContext(ctx, "schema up to date", "version", latest(ledger))
		return nil
	}

	for _, mig := range todo {
		err := m.inTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, mig.UpSQL); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx, insertLedgerSQL, mig.Version, mig.Name, Checksum(mig.UpSQL))
			return err
		})
		if err != nil {
			return fmt.Errorf("apply migration %d_%s: %w", mig.Version, mig.Name, err)
		}
		m.logger.InfoContext(ctx, "migration applied", "version", mig.Version, "name", mig.Name)
	}
	return nil
}

// Down reverts the most recently applied migration.
func (m *Migrator) Down(ctx context.Context) error {
	all, ledger, err := m.state(ctx)
	if err != nil {
		return err
	}

	last := latest(ledger)
	if last == 0 {
		m.logger.InfoContext(ctx, "nothing to roll back")
		return nil
	}

	idx := slices.IndexFunc(all, func(mig Migration) bool { return mig.Version == last })
	if idx < 0 {
		return fmt.Errorf("applied migration %d has no script on disk", last)
	}
	mig := all[idx]

	err = m.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, mig.DownSQL); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, deleteLedgerSQL, mig.Version)
		return err
	})
	if err != nil {
		return fmt.Errorf("roll back migration %d_%s: %w", mig.Version, mig.Name, err)
	}
	m.logger.InfoContext(ctx, "migration rolled back", "version", mig.Version, "name", mig.Name)
	return nil
}

// Status logs every known migration as applied or pending and warns when
// an applied script has changed since it ran.
func (m *Migrator) Status(ctx context.Context) error {
	all, ledger, err := m.state(ctx)
	if err != nil {
		return err
	}

	for _, mig := range all {
		entry, ok := ledger[mig.Version]
		switch {
		case !ok:
			m.logger.InfoContext(ctx, "migration pending", "version", mig.Version, "name", mig.Name)
		case entry.checksum != Checksum(mig.UpSQL):
			m.logger.WarnContext(ctx, "migration changed after apply", "version", mig.Version, "name", mig.Name)
		default:
			m.logger.InfoContext(ctx, "migration applied",
				"version", mig.Version,
				"name", mig.Name,
				"applied_at", entry.appliedAt.Format(time.RFC3339))
		}
	}
	return nil
}

func (m *Migrator) state(ctx context.Context) ([]Migration, map[int]ledgerEntry, error) {
	all, err := m.LoadMigrations()
	if err != nil {
		return nil, nil, err
	}

	rows, err := m.db.QueryContext(ctx, selectLedgerSQL)
	if err != nil {
		return nil, nil, fmt.Errorf("read schema_migrations: %w", err)
	}
	defer rows.Close()

	ledger := make(map[int]ledgerEntry)
	for rows.Next() {
		var version int
		var entry ledgerEntry
		if err := rows.Scan(&version, &entry.checksum, &entry.appliedAt); err != nil {
			return nil, nil, fmt.Errorf("scan schema_migrations: %w", err)
		}
		ledger[version] = entry
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("read schema_migrations: %w", err)
	}
	return all, ledger, nil
}

func (m *Migrator) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// Checksum is the hex SHA-256 of a rendered migration script.
func Checksum(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

func parseName(file string) (int, string, bool) {
	versionPart, name, ok := strings.Cut(strings.TrimSuffix(file, upSuffix), "_")
	if !ok || name == "" {
		return 0, "", false
	}
	version, err := strconv.Atoi(versionPart)
	if err != nil || version <= 0 {
		return 0, "", false
	}
	return version, name, true
}

func pending(all []Migration, ledger map[int]ledgerEntry) []Migration {
	var out []Migration
	for _, mig := range all {
		if _, done := ledger[mig.Version]; !done {
			out = append(out, mig)
		}
	}
	return out
}

func latest(ledger map[int]ledgerEntry) int {
	last := 0
	for v := range ledger {
		last = max(last, v)
	}
	return last
}

func quoteTable(table string) string {
	parts := strings.Split(table, ".")
	for i, part := range parts {
		parts[i] = pq.QuoteIdentifier(part)
	}
	return strings.Join(parts, ".")
}
