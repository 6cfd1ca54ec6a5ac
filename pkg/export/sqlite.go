package export

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/freqdeck/pkg/lecture"
	"github.com/vanderheijden86/freqdeck/pkg/metrics"
)

// SchemaVersion is stored in the meta table.
const SchemaVersion = 1

// SQLiteStats summarises an export.
type SQLiteStats struct {
	Datasets int `json:"datasets"`
	Points   int `json:"points"`
}

// ExportSQLite writes every dataset of the deck to a fresh SQLite file at path.
func ExportSQLite(ctx context.Context, d lecture.Deck, path string) (SQLiteStats, error) {
	defer metrics.Timer(metrics.SQLiteExport)()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return SQLiteStats{}, fmt.Errorf("create output dir: %w", err)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return SQLiteStats{}, fmt.Errorf("remove existing database: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return SQLiteStats{}, fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := createSchema(ctx, db); err != nil {
		return SQLiteStats{}, fmt.Errorf("create schema: %w", err)
	}

	stats, err := insertDatasets(ctx, db, d)
	if err != nil {
		return SQLiteStats{}, fmt.Errorf("insert datasets: %w", err)
	}

	if _, err := db.ExecContext(ctx, `INSERT INTO meta (key, value) VALUES ('schema_version', ?), ('deck_title', ?)`,
		fmt.Sprint(SchemaVersion), d.Title); err != nil {
		return SQLiteStats{}, fmt.Errorf("write meta: %w", err)
	}

	if err := db.Close(); err != nil {
		return SQLiteStats{}, fmt.Errorf("close database: %w", err)
	}
	return stats, nil
}

func createSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS slides (
			slide INTEGER PRIMARY KEY,
			title TEXT NOT NULL,
			subtitle TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS datasets (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			slide INTEGER NOT NULL,
			block INTEGER NOT NULL,
			kind TEXT NOT NULL,
			title TEXT,
			FOREIGN KEY (slide) REFERENCES slides(slide)
		)`,
		`CREATE TABLE IF NOT EXISTS points (
			dataset INTEGER NOT NULL,
			ord INTEGER NOT NULL,
			label TEXT NOT NULL,
			series TEXT,
			value REAL NOT NULL,
			PRIMARY KEY (dataset, ord),
			FOREIGN KEY (dataset) REFERENCES datasets(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_datasets_kind ON datasets(kind)`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func insertDatasets(ctx context.Context, db *sql.DB, d lecture.Deck) (SQLiteStats, error) {
	var st SQLiteStats

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return st, err
	}
	defer tx.Rollback()

	for i, s := range d.Slides {
		if _, err := tx.ExecContext(ctx, `INSERT INTO slides (slide, title, subtitle) VALUES (?, ?, ?)`,
			i, s.Title, s.Subtitle); err != nil {
			return st, err
		}
	}

	pointStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO points (dataset, ord, label, series, value)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return st, err
	}
	defer pointStmt.Close()

	for _, ds := range CollectDatasets(d) {
		res, err := tx.ExecContext(ctx, `INSERT INTO datasets (slide, block, kind, title) VALUES (?, ?, ?, ?)`,
			ds.Slide, ds.Block, ds.Kind, ds.Title)
		if err != nil {
			return st, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return st, err
		}
		st.Datasets++
		for _, p := range ds.Points {
			if _, err := pointStmt.ExecContext(ctx, id, p.Ord, p.Label, p.Series, p.Value); err != nil {
				return st, err
			}
			st.Points++
		}
	}

	return st, tx.Commit()
}
