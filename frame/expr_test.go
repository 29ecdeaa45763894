package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWhereFilterNumeric(t *testing.T) {
	f := testFrame(t)
	flt, err := CompileWhere(`age > 26 && city != "Chicago"`)
	require.NoError(t, err)
	got := flt.Apply(f)
	assert.Equal(t, 1, got.RowCount())
	assert.Equal(t, []float64{30}, got.Column("age").Floats())
}

func TestWhereFilterMissingCellsExcluded(t *testing.T) {
	f := testFrame(t)
	flt, err := CompileWhere(`age >= 0`)
	require.NoError(t, err)
	got := flt.Apply(f)
	assert.Equal(t, 3, got.RowCount())
}

func TestWhereFilterUnknownColumn(t *testing.T) {
	f := testFrame(t)
	flt, err := CompileWhere(`nothing == "x"`)
	require.NoError(t, err)
	got := flt.Apply(f)
	assert.Equal(t, 0, got.RowCount())
}

func TestCompileWhereRejectsBadExpression(t *testing.T) {
	_, err := CompileWhere(`age >`)
	assert.Error(t, err)
}
