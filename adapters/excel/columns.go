package excel

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/francisco-sereno/synapsis-bolt-sub001/domain/core"
	"github.com/francisco-sereno/synapsis-bolt-sub001/domain/stats"

	"github.com/xuri/excelize/v2"
)

// Column returns a numeric column by header name. Trailing blank cells are
// dropped so groups of different sizes can share a sheet; a blank or
// non-numeric cell before the last value is an error naming the cell.
func (t *Table) Column(name string) ([]float64, error) {
	col := t.index(name)
	if col < 0 {
		return nil, core.NewInvalidInputError(core.ErrInvalidInput, "%s: no column %q (have %s)", t.Source, name, strings.Join(t.Headers, ", "))
	}

	last := -1
	for i, row := range t.Rows {
		if row[col] != "" {
			last = i
		}
	}
	if last < 0 {
		return nil, core.NewInvalidInputError(core.ErrEmptySample, "%s: column %q has no values", t.Source, name)
	}

	values := make([]float64, last+1)
	for i := 0; i <= last; i++ {
		cell := t.Rows[i][col]
		if cell == "" {
			return nil, core.NewInvalidInputError(core.ErrInvalidInput, "%s: blank cell %s in column %q", t.Source, cellName(col, i+1), name)
		}
		v, err := parseNumber(cell)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, core.NewInvalidInputError(core.ErrInvalidInput, "%s: cell %s (%q) is not a number", t.Source, cellName(col, i+1), cell)
		}
		values[i] = v
	}
	return values, nil
}

// Variables returns the named columns as correlation variables. With no
// names every column is used.
func (t *Table) Variables(names ...string) ([]stats.Variable, error) {
	if len(names) == 0 {
		names = t.Headers
	}
	variables := make([]stats.Variable, 0, len(names))
	for _, name := range names {
		data, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		variables = append(variables, stats.Variable{Name: name, Data: data})
	}
	return variables, nil
}

// RatingMatrix treats each named column as an item and each row as an
// observation. With no names every column is used.
func (t *Table) RatingMatrix(names ...string) (stats.RatingMatrix, error) {
	variables, err := t.Variables(names...)
	if err != nil {
		return nil, err
	}
	matrix := make(stats.RatingMatrix, len(variables))
	for i, v := range variables {
		if i > 0 && len(v.Data) != len(matrix[0]) {
			return nil, core.NewInvalidInputError(core.ErrRaggedMatrix, "%s: item %q has %d ratings, expected %d", t.Source, v.Name, len(v.Data), len(matrix[0]))
		}
		matrix[i] = v.Data
	}
	return matrix, nil
}

// JudgePanel treats each row as one judge and each named column as an
// item rated on the 1-4 scale. idColumn, when set, names the judge column.
func (t *Table) JudgePanel(idColumn string, items ...string) ([]stats.JudgeRatings, error) {
	if len(items) == 0 {
		for _, h := range t.Headers {
			if h != idColumn {
				items = append(items, h)
			}
		}
	}
	if len(items) == 0 {
		return nil, core.NewInvalidInputError(core.ErrInsufficientData, "%s: no item columns", t.Source)
	}
	idIndex := -1
	if idColumn != "" {
		if idIndex = t.index(idColumn); idIndex < 0 {
			return nil, core.NewInvalidInputError(core.ErrInvalidInput, "%s: no judge column %q", t.Source, idColumn)
		}
	}

	columns := make([][]float64, len(items))
	for i, name := range items {
		data, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		columns[i] = data
	}

	judges := len(columns[0])
	panel := make([]stats.JudgeRatings, judges)
	for j := 0; j < judges; j++ {
		ratings := make([]int, len(items))
		for i, data := range columns {
			if len(data) != judges {
				return nil, core.NewInvalidInputError(core.ErrLengthMismatch, "%s: item %q has %d ratings, expected %d", t.Source, items[i], len(data), judges)
			}
			if data[j] != math.Trunc(data[j]) {
				return nil, core.NewInvalidInputError(core.ErrRatingOutOfRange, "%s: cell %s is not a whole rating", t.Source, cellName(t.index(items[i]), j+1))
			}
			ratings[i] = int(data[j])
		}
		id := fmt.Sprintf("judge_%d", j+1)
		if idIndex >= 0 && t.Rows[j][idIndex] != "" {
			id = t.Rows[j][idIndex]
		}
		panel[j] = stats.JudgeRatings{JudgeID: id, Ratings: ratings}
	}
	return panel, nil
}

func (t *Table) index(name string) int {
	name = strings.TrimSpace(name)
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// cellName converts a zero-based column and a row offset from the header
// row into an A1 reference
func cellName(col, row int) string {
	name, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return fmt.Sprintf("R%dC%d", row+1, col+1)
	}
	return name
}

// thousandsGrouping matches integers grouped by commas, the way excelize
// formats cells with a "#,##0" number format
var thousandsGrouping = regexp.MustCompile(`^[-+]?\d{1,3}(,\d{3})+(\.\d*)?$`)

// parseNumber reads a cell as a number. Commas are thousands separators when
// they group digits in threes ("1,000", "1,234.5"); a single other comma is a
// decimal comma ("3,5").
func parseNumber(cell string) (float64, error) {
	switch {
	case !strings.Contains(cell, ","):
	case thousandsGrouping.MatchString(cell):
		cell = strings.ReplaceAll(cell, ",", "")
	case strings.Count(cell, ",") == 1 && !strings.Contains(cell, "."):
		cell = strings.Replace(cell, ",", ".", 1)
	default:
		return 0, fmt.Errorf("ambiguous separators in %q", cell)
	}
	return strconv.ParseFloat(cell, 64)
}
