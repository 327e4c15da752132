package value_objects

import (
	"errors"
	"strings"
)

// ErrEmptySubtask is returned when a subtask has no text.
var ErrEmptySubtask = errors.New("subtask text cannot be empty")

// Subtask is a single step within a task, independently completable.
type Subtask struct {
	Text        string `json:"text"`
	IsCompleted bool   `json:"isCompleted"`
}

// NewSubtask creates a subtask from its text.
func NewSubtask(text string) (Subtask, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Subtask{}, ErrEmptySubtask
	}
	return Subtask{Text: text}, nil
}

// ValidateSubtasks checks every subtask in the list.
func ValidateSubtasks(subtasks []Subtask) error {
	for _, s := range subtasks {
		if strings.TrimSpace(s.Text) == "" {
			return ErrEmptySubtask
		}
	}
	return nil
}
