// Package fileio reads the whitespace-separated column files that
// describe dipoles, electrode positions and per-layer conductivity
// vectors. Blank lines and lines starting with '#' are skipped; a row
// with the wrong column count is an error naming the line.
package fileio

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/MalteHoel/duneuro-forward-test/internal/domain/geometry"
	"github.com/MalteHoel/duneuro-forward-test/internal/domain/model"
)

// Column counts of the supported file kinds.
const (
	dipoleColumns = 2 * geometry.SpatialDim
	pointColumns  = geometry.SpatialDim
	layerColumns  = geometry.LayerCount
)

// ReadDipoles reads a dipole file: one dipole per row, position
// followed by moment (6 columns).
func ReadDipoles(path string) ([]model.Dipole, error) {
	rows, err := readRows(path, dipoleColumns)
	if err != nil {
		return nil, err
	}
	dipoles := make([]model.Dipole, 0, len(rows))
	for _, row := range rows {
		var d model.Dipole
		copy(d.Position[:], row[:geometry.SpatialDim])
		copy(d.Moment[:], row[geometry.SpatialDim:])
		dipoles = append(dipoles, d)
	}
	return dipoles, nil
}

// ReadPoints reads a point file: one 3D position per row. Row order is
// significant; it defines the electrode index correspondence used by
// the whole pipeline.
func ReadPoints(path string) ([]geometry.Vec3, error) {
	rows, err := readRows(path, pointColumns)
	if err != nil {
		return nil, err
	}
	points := make([]geometry.Vec3, 0, len(rows))
	for _, row := range rows {
		var p geometry.Vec3
		copy(p[:], row)
		points = append(points, p)
	}
	return points, nil
}

// ReadLayerVectors reads a conductivity tensor file: one 4-component
// per-layer vector per row.
func ReadLayerVectors(path string) ([]geometry.Vec4, error) {
	rows, err := readRows(path, layerColumns)
	if err != nil {
		return nil, err
	}
	vectors := make([]geometry.Vec4, 0, len(rows))
	for _, row := range rows {
		var v geometry.Vec4
		copy(v[:], row)
		vectors = append(vectors, v)
	}
	return vectors, nil
}

// readRows parses every data row of the file into exactly cols floats.
func readRows(path string, cols int) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadableFile, err)
	}
	defer f.Close()

	var rows [][]float64
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != cols {
			return nil, fmt.Errorf("%s line %d: %w: expected %d columns, got %d", path, line, ErrMalformedRow, cols, len(fields))
		}
		row := make([]float64, cols)
		for i, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: %w: column %d: %w", path, line, ErrMalformedRow, i+1, err)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnreadableFile, path, err)
	}
	return rows, nil
}
