package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Kind string

const (
	KindTodo     Kind = "T"
	KindDeadline Kind = "D"
	KindEvent    Kind = "E"
)

var ErrBlankDescription = errors.New("description is blank")

// Task is one of the three task variants, selected by Kind. By is only
// meaningful for deadlines, From and To only for events.
type Task struct {
	Kind        Kind   `json:"kind"`
	Description string `json:"description"`
	Done        bool   `json:"done"`
	By          string `json:"by,omitempty"`
	From        string `json:"from,omitempty"`
	To          string `json:"to,omitempty"`
}

func NewTodo(description string) (Task, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return Task{}, ErrBlankDescription
	}
	return Task{Kind: KindTodo, Description: description}, nil
}

func NewDeadline(description, by string) (Task, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return Task{}, ErrBlankDescription
	}
	return Task{Kind: KindDeadline, Description: description, By: strings.TrimSpace(by)}, nil
}

func NewEvent(description, from, to string) (Task, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return Task{}, ErrBlankDescription
	}
	return Task{
		Kind:        KindEvent,
		Description: description,
		From:        strings.TrimSpace(from),
		To:          strings.TrimSpace(to),
	}, nil
}

func (t Task) Render() string {
	switch t.Kind {
	case KindDeadline:
		return fmt.Sprintf("[D]%s %s (by: %s)", t.marker(), t.Description, formatWhen(t.By))
	case KindEvent:
		return fmt.Sprintf("[E]%s %s (from: %s to: %s)", t.marker(), t.Description, formatWhen(t.From), formatWhen(t.To))
	default:
		return fmt.Sprintf("[T]%s %s", t.marker(), t.Description)
	}
}

func (t Task) String() string {
	return t.Render()
}

func (t Task) marker() string {
	if t.Done {
		return "[X]"
	}
	return "[ ]"
}

var whenLayouts = []struct {
	parse  string
	render string
}{
	{parse: "2006-01-02 1504", render: "Jan 2 2006 15:04"},
	{parse: "2006-01-02", render: "Jan 2 2006"},
}

// formatWhen renders ISO dates in a friendlier form and leaves any other
// text untouched.
func formatWhen(value string) string {
	trimmed := strings.TrimSpace(value)
	for _, layout := range whenLayouts {
		if parsed, err := time.Parse(layout.parse, trimmed); err == nil {
			return parsed.Format(layout.render)
		}
	}
	return value
}
