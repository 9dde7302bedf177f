package nba

import (
	"fmt"
	"strconv"
	"strings"
)

// The stats endpoint returns tabular payloads: named result sets carrying a
// header row and untyped value rows. Cells come back as strings, numbers or
// null depending on the column and the feed's mood, so all access goes
// through the coercing getters below.

// statsResponse is the top-level envelope of a stats endpoint payload.
type statsResponse struct {
	Resource   string      `json:"resource"`
	ResultSets []resultSet `json:"resultSets"`
}

type resultSet struct {
	Name    string   `json:"name"`
	Headers []string `json:"headers"`
	RowSet  [][]any  `json:"rowSet"`
}

// set returns the named result set, or the first one when name is empty.
func (r *statsResponse) set(name string) (*resultSet, error) {
	if len(r.ResultSets) == 0 {
		return nil, fmt.Errorf("response has no result sets")
	}
	if name == "" {
		return &r.ResultSets[0], nil
	}
	for i := range r.ResultSets {
		if r.ResultSets[i].Name == name {
			return &r.ResultSets[i], nil
		}
	}
	return nil, fmt.Errorf("result set %q not present", name)
}

// column returns the index of a header, -1 when absent.
func (rs *resultSet) column(header string) int {
	for i, h := range rs.Headers {
		if h == header {
			return i
		}
	}
	return -1
}

// row wraps one value row with its headers for typed access.
type row struct {
	set  *resultSet
	data []any
}

func (rs *resultSet) rows() []row {
	out := make([]row, len(rs.RowSet))
	for i, data := range rs.RowSet {
		out[i] = row{set: rs, data: data}
	}
	return out
}

func (r row) cell(header string) any {
	i := r.set.column(header)
	if i < 0 || i >= len(r.data) {
		return nil
	}
	return r.data[i]
}

func (r row) str(header string) string {
	switch v := r.cell(header).(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func (r row) float(header string) float64 {
	switch v := r.cell(header).(type) {
	case float64:
		return v
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func (r row) int(header string) int {
	return int(r.float(header))
}

// has reports whether the column exists and the cell is non-null.
func (r row) has(header string) bool {
	return r.cell(header) != nil
}
