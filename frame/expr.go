package frame

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// WhereFilter is a compiled row expression, e.g. `age > 30 && city == "NY"`.
// Unlike Filter it is strict: a bad expression is the caller's error, not
// something to quietly drop.
type WhereFilter struct {
	src  string
	prog *vm.Program
}

func CompileWhere(src string) (*WhereFilter, error) {
	prog, err := expr.Compile(src, expr.AsBool(), expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("invalid where expression: %w", err)
	}
	return &WhereFilter{src: src, prog: prog}, nil
}

// Apply keeps the rows for which the expression evaluates to true. Each row
// is exposed as an environment of column name to cell value, missing cells
// as nil.
func (w *WhereFilter) Apply(f *Frame) *Frame {
	cols := f.Columns()
	env := make(map[string]any, len(cols))
	rows := make([]int, 0, f.RowCount())
	for i := 0; i < f.RowCount(); i++ {
		for _, c := range cols {
			env[c.Name] = c.Value(i)
		}
		out, err := expr.Run(w.prog, env)
		if err != nil {
			// Rows the expression cannot evaluate (usually missing
			// cells compared against a typed literal) are excluded.
			continue
		}
		if keep, _ := out.(bool); keep {
			rows = append(rows, i)
		}
	}
	return f.Take(rows)
}
