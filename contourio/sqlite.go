package contourio

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/katalvlaran/isolines/contour"
)

const schema = `
CREATE TABLE IF NOT EXISTS contour_points (
	dataset TEXT    NOT NULL,
	level   REAL    NOT NULL,
	run     INTEGER NOT NULL,
	seq     INTEGER NOT NULL,
	year    REAL    NOT NULL,
	age     REAL    NOT NULL,
	PRIMARY KEY (dataset, level, run, seq)
)`

// SaveSQLite replaces the points of dataset in the contour_points table of
// the database at path with results. One row is written per point.
func SaveSQLite(ctx context.Context, path, dataset string, results []contour.LevelResult) error {
	if err := Validate(results); err != nil {
		return err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("contourio: open %s: %w", path, err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("contourio: create schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("contourio: begin: %w", err)
	}
	if err := insertPoints(ctx, tx, dataset, results); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("contourio: %v, rollback: %w", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("contourio: commit: %w", err)
	}

	return nil
}

func insertPoints(ctx context.Context, tx *sql.Tx, dataset string, results []contour.LevelResult) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM contour_points WHERE dataset = ?`, dataset); err != nil {
		return fmt.Errorf("contourio: clear %s: %w", dataset, err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO contour_points (dataset, level, run, seq, year, age) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("contourio: prepare: %w", err)
	}
	defer stmt.Close()

	for _, lr := range results {
		for ri, r := range lr.Runs {
			for pi, p := range r {
				if _, err := stmt.ExecContext(ctx, dataset, lr.Level, ri, pi, p.Year, p.Age); err != nil {
					return fmt.Errorf("contourio: insert level %g run %d point %d: %w", lr.Level, ri, pi, err)
				}
			}
		}
	}

	return nil
}

// LoadSQLite reads the levels of dataset back from the database at path,
// ordered by level, run and point.
func LoadSQLite(ctx context.Context, path, dataset string) ([]contour.LevelResult, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("contourio: open %s: %w", path, err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx,
		`SELECT level, run, year, age FROM contour_points WHERE dataset = ? ORDER BY level, run, seq`, dataset)
	if err != nil {
		return nil, fmt.Errorf("contourio: query: %w", err)
	}
	defer rows.Close()

	var out []contour.LevelResult
	for rows.Next() {
		var (
			level float64
			run   int
			p     contour.Point
		)
		if err := rows.Scan(&level, &run, &p.Year, &p.Age); err != nil {
			return nil, fmt.Errorf("contourio: scan: %w", err)
		}
		if len(out) == 0 || out[len(out)-1].Level != level {
			out = append(out, contour.LevelResult{Level: level})
		}
		lr := &out[len(out)-1]
		for len(lr.Runs) <= run {
			lr.Runs = append(lr.Runs, nil)
		}
		lr.Runs[run] = append(lr.Runs[run], p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("contourio: rows: %w", err)
	}

	return out, nil
}
