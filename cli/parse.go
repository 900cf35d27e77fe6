// Package cli implements the textual command surface of the editor: a
// registry of named commands with aliases, and the coordinate parsing they
// share. Coordinates always carry a unit, integer centimeters ("100cm") or
// decimal meters ("1m", "0.5m"); a bare number is a parse error.
package cli

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/voxelforge/voxelforge/vox/coord"
)

var ErrInvalidInput = errors.New("invalid input")

// ParseCoordinate parses one coordinate token into centimeters.
func ParseCoordinate(tok string) (int32, error) {
	switch {
	case strings.HasSuffix(tok, "cm"):
		n, err := strconv.ParseInt(strings.TrimSuffix(tok, "cm"), 10, 32)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not an integer centimeter value", ErrInvalidInput, tok)
		}
		return int32(n), nil
	case strings.HasSuffix(tok, "m"):
		f, err := strconv.ParseFloat(strings.TrimSuffix(tok, "m"), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, fmt.Errorf("%w: %q is not a meter value", ErrInvalidInput, tok)
		}
		return int32(math.Round(f * 100)), nil
	default:
		return 0, fmt.Errorf("%w: %q is missing units (e.g. 100cm or 1m)", ErrInvalidInput, tok)
	}
}

// ParseTriple parses three consecutive coordinate tokens.
func ParseTriple(toks []string) (coord.IncrementCoordinates, error) {
	if len(toks) < 3 {
		return coord.IncrementCoordinates{}, fmt.Errorf("%w: expected three coordinates", ErrInvalidInput)
	}
	var out [3]int32
	for i, axis := range [3]string{"X", "Y", "Z"} {
		v, err := ParseCoordinate(toks[i])
		if err != nil {
			return coord.IncrementCoordinates{}, fmt.Errorf("invalid %s coordinate: %w", axis, err)
		}
		out[i] = v
	}
	return coord.Increment(out[0], out[1], out[2]), nil
}

// ParseResolution parses a voxel size in centimeters, with or without the
// cm suffix.
func ParseResolution(tok string) (coord.Resolution, error) {
	n, err := strconv.Atoi(strings.TrimSuffix(tok, "cm"))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a voxel size", ErrInvalidInput, tok)
	}
	r, ok := coord.ResolutionFromCm(n)
	if !ok {
		return 0, fmt.Errorf("%w: no %dcm resolution; sizes are powers of two from 1cm to 512cm", ErrInvalidInput, n)
	}
	return r, nil
}

// ParseMeters parses a plain decimal meter value (workspace sizes carry no
// unit suffix).
func ParseMeters(tok string) (float32, error) {
	f, err := strconv.ParseFloat(tok, 32)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q is not a size in meters", ErrInvalidInput, tok)
	}
	return float32(f), nil
}
