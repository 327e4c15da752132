package value_objects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriority(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Priority
		wantErr  bool
	}{
		{"low", "low", PriorityLow, false},
		{"medium", "medium", PriorityMedium, false},
		{"high", "high", PriorityHigh, false},
		{"uppercase", "HIGH", PriorityHigh, false},
		{"mixed case", "Medium", PriorityMedium, false},
		{"padded", "  low  ", PriorityLow, false},
		{"unknown", "urgent", PriorityMedium, true},
		{"empty", "", PriorityMedium, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePriority(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidPriority)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, p)
		})
	}
}

func TestPriorityWeight(t *testing.T) {
	assert.Equal(t, 1, PriorityLow.Weight())
	assert.Equal(t, 5, PriorityMedium.Weight())
	assert.Equal(t, 10, PriorityHigh.Weight())

	// Unknown values score like medium.
	assert.Equal(t, 5, Priority(99).Weight())
}

func TestPriorityString(t *testing.T) {
	assert.Equal(t, "Low", PriorityLow.String())
	assert.Equal(t, "Medium", PriorityMedium.String())
	assert.Equal(t, "High", PriorityHigh.String())
	assert.Equal(t, "unknown", Priority(0).String())
}

func TestPriorityIsValid(t *testing.T) {
	assert.True(t, PriorityLow.IsValid())
	assert.True(t, PriorityHigh.IsValid())
	assert.False(t, Priority(0).IsValid())
	assert.False(t, Priority(42).IsValid())
}
