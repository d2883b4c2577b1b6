package spc

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/BTBurke/spc/pkg/metric"
	"github.com/BTBurke/spc/pkg/stat"
)

// ReadSeries reads one numeric column of a CSV table with a header row.  The column is matched by name ignoring
// case and surrounding space.  A table with a single column is read regardless of its header.
func ReadSeries(r io.Reader, column string, opts ...metric.SeriesOption) (*metric.Series, error) {
	rows, err := readTable(r)
	if err != nil {
		return nil, err
	}
	header := rows[0]
	idx := columnIndex(header, column)
	if idx < 0 {
		if len(header) != 1 {
			return nil, stat.InvalidInputError{Msg: fmt.Sprintf("measurement table has no column %q, found %s", column, strings.Join(header, ","))}
		}
		idx = 0
	}

	values := make([]float64, 0, len(rows)-1)
	for i, row := range rows[1:] {
		v, err := parseCell(row, idx, i+2)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return metric.NewSeries(values, opts...)
}

// ReadLimits reads a specification table with the columns Nominal, LSL and USL and exactly one row of limits
func ReadLimits(r io.Reader) (metric.Limits, error) {
	rows, err := readTable(r)
	if err != nil {
		return metric.Limits{}, err
	}
	header := rows[0]
	cols := make(map[string]int)
	for _, name := range []string{"nominal", "lsl", "usl"} {
		idx := columnIndex(header, name)
		if idx < 0 {
			return metric.Limits{}, stat.InvalidInputError{Msg: fmt.Sprintf("specification table must have columns Nominal, LSL and USL, found %s", strings.Join(header, ","))}
		}
		cols[name] = idx
	}
	if len(rows) != 2 {
		return metric.Limits{}, stat.InvalidInputError{Msg: fmt.Sprintf("specification table must have exactly one row of limits, found %d", len(rows)-1)}
	}

	var v [3]float64
	for i, name := range []string{"nominal", "lsl", "usl"} {
		v[i], err = parseCell(rows[1], cols[name], 2)
		if err != nil {
			return metric.Limits{}, err
		}
	}
	return metric.NewLimits(v[0], v[1], v[2])
}

// LoadSeries reads the measurement column from a CSV file
func LoadSeries(path string, column string, opts ...metric.SeriesOption) (*metric.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := ReadSeries(f, column, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// LoadLimits reads specification limits from a CSV file
func LoadLimits(path string) (metric.Limits, error) {
	f, err := os.Open(path)
	if err != nil {
		return metric.Limits{}, err
	}
	defer f.Close()
	l, err := ReadLimits(f)
	if err != nil {
		return metric.Limits{}, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

func readTable(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, stat.InvalidInputError{Msg: fmt.Sprintf("could not read CSV table: %v", err)}
	}
	if len(rows) < 2 {
		return nil, stat.InvalidInputError{Msg: "table must have a header row and at least one data row"}
	}
	return rows, nil
}

func columnIndex(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(name)) {
			return i
		}
	}
	return -1
}

func parseCell(row []string, idx int, line int) (float64, error) {
	if idx >= len(row) {
		return 0, stat.InvalidInputError{Msg: fmt.Sprintf("line %d: missing value", line)}
	}
	cell := strings.TrimSpace(row[idx])
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, stat.InvalidInputError{Msg: fmt.Sprintf("line %d: %q is not a number", line, cell)}
	}
	return v, nil
}
