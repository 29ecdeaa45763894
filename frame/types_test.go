package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyNumeric(t *testing.T) {
	c := ColumnFromCells("v", []string{"1", "2.5", ""})
	assert.Equal(t, KindNumeric, Classify(c))
}

func TestClassifyDatetime(t *testing.T) {
	c := ColumnFromCells("d", []string{"2024-01-01", "2024-02-15", ""})
	assert.Equal(t, KindDatetime, Classify(c))
}

func TestClassifyDatetimeMixedLayouts(t *testing.T) {
	c := ColumnFromCells("d", []string{"2024-01-01 10:00:00", "2024/02/15", "01/02/2024"})
	assert.Equal(t, KindDatetime, Classify(c))
}

func TestClassifyCategorical(t *testing.T) {
	c := ColumnFromCells("v", []string{"2024-01-01", "not a date"})
	assert.Equal(t, KindCategorical, Classify(c))
}

func TestClassifyUnknown(t *testing.T) {
	c := ColumnFromCells("v", []string{"", "na", "null"})
	assert.Equal(t, KindUnknown, Classify(c))
}

func TestParseTimeLayouts(t *testing.T) {
	for _, s := range []string{
		"2024-03-05T12:30:00Z",
		"2024-03-05T12:30:00",
		"2024-03-05 12:30:00",
		"2024-03-05",
		"2024/03/05",
		"03/05/2024",
	} {
		_, ok := ParseTime(s)
		assert.True(t, ok, s)
	}
	_, ok := ParseTime("yesterday")
	assert.False(t, ok)
}
