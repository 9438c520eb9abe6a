// Package contourio validates contour levels and moves them in and out of
// the persisted artifact: an indented JSON array of {level, points} or
// {level, runs} records, and optionally a SQLite table of points.
//
// Nothing is written unless every level passes Validate, and the encoded
// bytes are scanned once more for null coordinates before they leave the
// package.
package contourio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/katalvlaran/isolines/contour"
)

var (
	// ErrInvalidContourPoint indicates a level, run or point that must not
	// be persisted.
	ErrInvalidContourPoint = fmt.Errorf("%w: contourio: invalid contour point", contour.ErrInvariantViolation)

	// ErrNullCoordinate indicates encoded output holding a null year or age.
	ErrNullCoordinate = fmt.Errorf("%w: contourio: null coordinate in output", contour.ErrInvariantViolation)
)

var nullTokens = [][]byte{
	[]byte(`"age":null`), []byte(`"age": null`),
	[]byte(`"year":null`), []byte(`"year": null`),
}

// Validate checks that every level is finite, owns at least one run, every
// run has at least two points and every point is finite.
func Validate(results []contour.LevelResult) error {
	for i, lr := range results {
		if math.IsNaN(lr.Level) || math.IsInf(lr.Level, 0) {
			return fmt.Errorf("%w: record %d: level %g", ErrInvalidContourPoint, i, lr.Level)
		}
		if len(lr.Runs) == 0 {
			return fmt.Errorf("%w: level %g: no runs", ErrInvalidContourPoint, lr.Level)
		}
		for ri, r := range lr.Runs {
			if len(r) < 2 {
				return fmt.Errorf("%w: level %g run %d: %d points", ErrInvalidContourPoint, lr.Level, ri, len(r))
			}
			for pi, p := range r {
				if !p.IsFinite() {
					return fmt.Errorf("%w: level %g run %d point %d: %s", ErrInvalidContourPoint, lr.Level, ri, pi, p)
				}
			}
		}
	}

	return nil
}

// Marshal validates results and returns the artifact bytes: two-space
// indented JSON with a trailing newline.
func Marshal(results []contour.LevelResult) ([]byte, error) {
	if err := Validate(results); err != nil {
		return nil, err
	}
	if results == nil {
		results = []contour.LevelResult{}
	}
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("contourio: encode: %w", err)
	}
	if err := ScanNulls(data); err != nil {
		return nil, err
	}

	return append(data, '\n'), nil
}

// ScanNulls reports ErrNullCoordinate if data holds a null year or age.
func ScanNulls(data []byte) error {
	for _, tok := range nullTokens {
		if i := bytes.Index(data, tok); i >= 0 {
			return fmt.Errorf("%w: %q at byte %d", ErrNullCoordinate, tok, i)
		}
	}

	return nil
}

// Encode writes the artifact to w.
func Encode(w io.Writer, results []contour.LevelResult) error {
	data, err := Marshal(results)
	if err != nil {
		return err
	}
	_, err = w.Write(data)

	return err
}

// WriteFile writes the artifact to path, creating parent directories. The
// file is replaced atomically; on error the previous file is kept.
func WriteFile(path string, results []contour.LevelResult) error {
	data, err := Marshal(results)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("contourio: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("contourio: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("contourio: write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("contourio: close %s: %w", tmp.Name(), err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("contourio: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("contourio: %w", err)
	}

	return nil
}

// Decode reads an artifact from r and validates it. A null coordinate is
// rejected rather than read as zero.
func Decode(r io.Reader) ([]contour.LevelResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("contourio: read: %w", err)
	}
	if err := ScanNulls(data); err != nil {
		return nil, err
	}
	var out []contour.LevelResult
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("contourio: decode: %w", err)
	}
	if err := Validate(out); err != nil {
		return nil, err
	}

	return out, nil
}

// ReadFile reads the artifact at path.
func ReadFile(path string) ([]contour.LevelResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("contourio: %w", err)
	}
	defer f.Close()

	return Decode(f)
}
