package frame

import (
	"fmt"
	"math"
	"strconv"

	"golang.org/x/exp/constraints"
)

// Storage is the physical representation of a column.
type Storage int

const (
	StorageFloat Storage = iota
	StorageString
)

// Column is one named series of cells. Cells live in a single typed slice
// (floats or strs, depending on storage) with a validity mask alongside, so
// aggregations scan a flat array instead of per-cell tagged values.
type Column struct {
	Name string

	storage Storage
	floats  []float64
	strs    []string
	valids  []bool
}

func NewFloatColumn(name string, data []float64, valids []bool) *Column {
	if valids == nil {
		valids = make([]bool, len(data))
		fillBools(valids, true)
	}
	return &Column{Name: name, storage: StorageFloat, floats: data, valids: valids}
}

func NewStringColumn(name string, data []string, valids []bool) *Column {
	if valids == nil {
		valids = make([]bool, len(data))
		fillBools(valids, true)
	}
	return &Column{Name: name, storage: StorageString, strs: data, valids: valids}
}

// ColumnFromCells builds a column from raw CSV cells. Cells matching the
// missing-token set are invalid. If every valid cell parses as a finite
// float and at least one exists, the column gets float storage.
func ColumnFromCells(name string, cells []string) *Column {
	valids := make([]bool, len(cells))
	numeric := false
	floats := make([]float64, len(cells))
	allNumeric := true
	for i, c := range cells {
		if isMissingToken(c) {
			continue
		}
		valids[i] = true
		v, err := strconv.ParseFloat(c, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			allNumeric = false
			continue
		}
		floats[i] = v
		numeric = true
	}
	if numeric && allNumeric {
		return &Column{Name: name, storage: StorageFloat, floats: floats, valids: valids}
	}
	strs := make([]string, len(cells))
	for i, c := range cells {
		if valids[i] {
			strs[i] = c
		}
	}
	return &Column{Name: name, storage: StorageString, strs: strs, valids: valids}
}

func (c *Column) Len() int { return len(c.valids) }

func (c *Column) IsNumeric() bool { return c.storage == StorageFloat }

func (c *Column) Valid(i int) bool { return c.valids[i] }

// MissingCount returns the number of invalid cells.
func (c *Column) MissingCount() int {
	n := 0
	for _, v := range c.valids {
		if !v {
			n++
		}
	}
	return n
}

// Float returns the cell as float64 and whether it is usable. String cells
// are coerced; unconvertible or non-finite cells report false.
func (c *Column) Float(i int) (float64, bool) {
	if !c.valids[i] {
		return 0, false
	}
	if c.storage == StorageFloat {
		return c.floats[i], true
	}
	v, err := strconv.ParseFloat(c.strs[i], 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Str returns the cell rendered as a string. Missing cells return "".
func (c *Column) Str(i int) string {
	if !c.valids[i] {
		return ""
	}
	if c.storage == StorageFloat {
		return strconv.FormatFloat(c.floats[i], 'g', -1, 64)
	}
	return c.strs[i]
}

// Value returns the cell for JSON output: float64, string, or nil.
func (c *Column) Value(i int) any {
	if !c.valids[i] {
		return nil
	}
	if c.storage == StorageFloat {
		return c.floats[i]
	}
	return c.strs[i]
}

// MinMax returns the smallest and largest usable numeric cell. ok is false
// when the column has none.
func (c *Column) MinMax() (lo, hi float64, ok bool) {
	vals := c.Floats()
	if len(vals) == 0 {
		return 0, 0, false
	}
	lo, hi = minMax(vals)
	return lo, hi, true
}

// Floats collects all usable numeric cells, dropping missing and
// unconvertible ones.
func (c *Column) Floats() []float64 {
	out := make([]float64, 0, len(c.valids))
	for i := range c.valids {
		if v, ok := c.Float(i); ok {
			out = append(out, v)
		}
	}
	return out
}

func (c *Column) take(rows []int) *Column {
	out := &Column{Name: c.Name, storage: c.storage, valids: make([]bool, len(rows))}
	if c.storage == StorageFloat {
		out.floats = make([]float64, len(rows))
		for k, i := range rows {
			out.floats[k] = c.floats[i]
			out.valids[k] = c.valids[i]
		}
		return out
	}
	out.strs = make([]string, len(rows))
	for k, i := range rows {
		out.strs[k] = c.strs[i]
		out.valids[k] = c.valids[i]
	}
	return out
}

// Frame is an immutable in-memory table: ordered named columns of equal
// length. Aggregations never mutate a frame; filtering produces a copy.
type Frame struct {
	cols   []*Column
	byName map[string]int
}

func New(cols ...*Column) (*Frame, error) {
	f := &Frame{cols: cols, byName: make(map[string]int, len(cols))}
	for i, c := range cols {
		if _, ok := f.byName[c.Name]; ok {
			return nil, fmt.Errorf("duplicate column name: %q", c.Name)
		}
		if c.Len() != cols[0].Len() {
			return nil, fmt.Errorf("column %q has %d rows, want %d", c.Name, c.Len(), cols[0].Len())
		}
		f.byName[c.Name] = i
	}
	return f, nil
}

func (f *Frame) RowCount() int {
	if len(f.cols) == 0 {
		return 0
	}
	return f.cols[0].Len()
}

func (f *Frame) ColumnCount() int { return len(f.cols) }

func (f *Frame) Columns() []*Column { return f.cols }

// Column returns the named column or nil.
func (f *Frame) Column(name string) *Column {
	i, ok := f.byName[name]
	if !ok {
		return nil
	}
	return f.cols[i]
}

func (f *Frame) Names() []string {
	names := make([]string, len(f.cols))
	for i, c := range f.cols {
		names[i] = c.Name
	}
	return names
}

// Take returns a new frame restricted to the given row indexes, in order.
func (f *Frame) Take(rows []int) *Frame {
	cols := make([]*Column, len(f.cols))
	for i, c := range f.cols {
		cols[i] = c.take(rows)
	}
	out, _ := New(cols...)
	return out
}

func fillBools(b []bool, v bool) {
	for i := range b {
		b[i] = v
	}
}

func minMax[T constraints.Ordered](xs []T) (T, T) {
	lo, hi := xs[0], xs[0]
	for _, x := range xs[1:] {
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
	}
	return lo, hi
}
