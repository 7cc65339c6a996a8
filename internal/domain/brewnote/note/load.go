// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package note

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ManuGH/brewlog/internal/domain/brewnote/model"
)

// DateLayout is the ISO-8601 layout used for stored dates.
const DateLayout = time.RFC3339

// Load rebuilds a record from a stored row keyed by column name. Values go
// through ApplyRaw, so nothing is converted or recomputed. Unknown columns
// are ignored.
func Load(id, recipeID string, row map[string]any, opts ...Option) (*Record, error) {
	r := New(id, recipeID, opts...)

	// deterministic order keeps error reporting stable
	cols := make([]string, 0, len(row))
	for col := range row {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	for _, col := range cols {
		f, ok := model.FieldByColumn(col)
		if !ok {
			continue
		}
		v, err := ParseValue(f, row[col])
		if err != nil {
			return nil, fmt.Errorf("load note %s: column %s: %w", id, col, err)
		}
		if v == nil {
			continue
		}
		if _, err := r.ApplyRaw(f, v); err != nil {
			return nil, fmt.Errorf("load note %s: %w", id, err)
		}
	}
	return r, nil
}

// ParseValue converts a stored or user-supplied value into the Go type of
// f's kind. A nil result means "not set" and should be skipped.
func ParseValue(f model.Field, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	switch f.Kind() {
	case model.KindTime:
		return parseTime(v)
	case model.KindText:
		switch x := v.(type) {
		case string:
			return x, nil
		default:
			return fmt.Sprint(x), nil
		}
	default:
		return parseNumber(v)
	}
}

func parseTime(v any) (any, error) {
	switch x := v.(type) {
	case time.Time:
		return x, nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return time.Time{}, nil
		}
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		return nil, fmt.Errorf("invalid date %q", s)
	default:
		return nil, fmt.Errorf("invalid date type %T", v)
	}
}

func parseNumber(v any) (any, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return nil, nil
		}
		// ParseFloat accepts "NaN", "+Inf" and "-Inf" as written by FormatNumber.
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", s)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("invalid number type %T", v)
	}
}

// FormatTime renders t for storage; the zero time is the empty string.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// FormatNumber returns x unchanged when finite and its strconv spelling
// ("NaN", "+Inf", "-Inf") otherwise, for stores and encoders that cannot
// carry non-finite floats.
func FormatNumber(x float64) any {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return strconv.FormatFloat(x, 'g', -1, 64)
	}
	return x
}

// StorageValue converts a field value into the form kept by text-friendly
// stores: dates as ISO-8601 strings, non-finite numbers as strings.
func StorageValue(v any) any {
	switch x := v.(type) {
	case time.Time:
		return FormatTime(x)
	case float64:
		return FormatNumber(x)
	}
	return v
}
