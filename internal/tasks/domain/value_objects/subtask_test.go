package value_objects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSubtask(t *testing.T) {
	t.Run("valid text", func(t *testing.T) {
		s, err := NewSubtask("Draft the outline")
		require.NoError(t, err)
		assert.Equal(t, "Draft the outline", s.Text)
		assert.False(t, s.IsCompleted)
	})

	t.Run("trims whitespace", func(t *testing.T) {
		s, err := NewSubtask("  review notes  ")
		require.NoError(t, err)
		assert.Equal(t, "review notes", s.Text)
	})

	t.Run("empty text rejected", func(t *testing.T) {
		_, err := NewSubtask("   ")
		require.ErrorIs(t, err, ErrEmptySubtask)
	})
}

func TestValidateSubtasks(t *testing.T) {
	t.Run("all valid", func(t *testing.T) {
		subtasks := []Subtask{{Text: "one"}, {Text: "two", IsCompleted: true}}
		assert.NoError(t, ValidateSubtasks(subtasks))
	})

	t.Run("blank entry rejected", func(t *testing.T) {
		subtasks := []Subtask{{Text: "one"}, {Text: "  "}}
		assert.ErrorIs(t, ValidateSubtasks(subtasks), ErrEmptySubtask)
	})

	t.Run("empty list valid", func(t *testing.T) {
		assert.NoError(t, ValidateSubtasks(nil))
	})
}
