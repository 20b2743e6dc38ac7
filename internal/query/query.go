// Package query filters, sorts and selects over an in-memory product
// snapshot. View is a pure function of its inputs so the table logic
// is testable without any remote state.
package query

import (
	"sort"
	"strconv"
	"strings"

	"github.com/dukerupert/vend/internal/domain"
)

// CompareOp is a numeric comparison operator for threshold filters.
type CompareOp string

const (
	OpGreater   CompareOp = ">"
	OpLess      CompareOp = "<"
	OpGreaterEq CompareOp = ">="
	OpLessEq    CompareOp = "<="
	OpEqual     CompareOp = "="
)

// FilterSpec restricts visible rows on a single field. Exactly one of
// the three filter kinds is active per spec:
//   - Values: keep rows whose stringified field value is in the set.
//   - Contains: case-insensitive substring match (text fields).
//   - Op/Threshold: numeric comparison (numeric fields only).
//
// A spec whose active kind has no usable input matches everything: an
// empty value set and an unparsable or empty threshold both deactivate
// the filter rather than blanking the table.
type FilterSpec struct {
	Values    map[string]struct{}
	Contains  string
	Op        CompareOp
	Threshold string
}

// ValueSet builds a value-set filter from the chosen values.
func ValueSet(values ...string) FilterSpec {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return FilterSpec{Values: set}
}

// Contains builds a case-insensitive substring filter.
func Contains(substr string) FilterSpec {
	return FilterSpec{Contains: substr}
}

// Compare builds a numeric comparison filter against a raw threshold
// string as typed by the operator.
func Compare(op CompareOp, threshold string) FilterSpec {
	return FilterSpec{Op: op, Threshold: threshold}
}

// matches reports whether p passes the spec on field f.
func (s FilterSpec) matches(f domain.Field, p domain.Product) bool {
	if len(s.Values) > 0 {
		_, ok := s.Values[f.StringValue(p)]
		return ok
	}

	if s.Contains != "" {
		return strings.Contains(
			strings.ToLower(f.StringValue(p)),
			strings.ToLower(s.Contains),
		)
	}

	if s.Op != "" {
		if !f.Numeric() {
			return true
		}
		threshold, err := strconv.ParseFloat(strings.TrimSpace(s.Threshold), 64)
		if err != nil {
			// Unparsable or empty threshold: filter is inactive.
			return true
		}
		v := f.NumericValue(p)
		switch s.Op {
		case OpGreater:
			return v > threshold
		case OpLess:
			return v < threshold
		case OpGreaterEq:
			return v >= threshold
		case OpLessEq:
			return v <= threshold
		case OpEqual:
			return v == threshold
		}
		return true
	}

	return true
}

// Direction orders a sort ascending or descending.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// SortSpec orders the view on one field. Numeric fields compare
// numerically, all others by case-sensitive string compare. At most
// one SortSpec is active at a time.
type SortSpec struct {
	Field     domain.Field
	Direction Direction
}

// View returns the products satisfying every filter, ordered by sort
// (or snapshot order when sort is nil). The snapshot is never
// mutated; ties keep their relative snapshot order.
func View(snapshot []domain.Product, filters map[domain.Field]FilterSpec, sortSpec *SortSpec) []domain.Product {
	out := make([]domain.Product, 0, len(snapshot))
	for _, p := range snapshot {
		keep := true
		for f, spec := range filters {
			if !spec.matches(f, p) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, p)
		}
	}

	if sortSpec != nil {
		f := sortSpec.Field
		desc := sortSpec.Direction == Descending
		// Strict inequality keeps the comparison total; equal keys
		// fall through to the stable original order.
		sort.SliceStable(out, func(i, j int) bool {
			if f.Numeric() {
				a, b := f.NumericValue(out[i]), f.NumericValue(out[j])
				if desc {
					return a > b
				}
				return a < b
			}
			a, b := f.StringValue(out[i]), f.StringValue(out[j])
			if desc {
				return a > b
			}
			return a < b
		})
	}

	return out
}
