package model

import (
	"errors"
	"fmt"
	"strings"
)

var ErrMalformedLine = errors.New("malformed task line")

const fieldSep = '|'

// Encode writes the task as TYPE|DONE|description[|field...]. Separators and
// backslashes inside fields are escaped with a backslash, and line breaks
// become \n and \r so every task stays on one line.
func Encode(t Task) string {
	done := "0"
	if t.Done {
		done = "1"
	}

	fields := []string{string(t.Kind), done, escape(t.Description)}
	switch t.Kind {
	case KindDeadline:
		fields = append(fields, escape(t.By))
	case KindEvent:
		fields = append(fields, escape(t.From), escape(t.To))
	}
	return strings.Join(fields, string(fieldSep))
}

func Decode(line string) (Task, error) {
	fields := splitFields(line)
	if len(fields) < 3 {
		return Task{}, fmt.Errorf("%w: %q", ErrMalformedLine, line)
	}

	var done bool
	switch fields[1] {
	case "0":
	case "1":
		done = true
	default:
		return Task{}, fmt.Errorf("%w: done flag %q", ErrMalformedLine, fields[1])
	}

	var (
		task Task
		err  error
	)
	switch Kind(fields[0]) {
	case KindTodo:
		if len(fields) != 3 {
			return Task{}, fmt.Errorf("%w: todo has %d fields", ErrMalformedLine, len(fields))
		}
		task, err = NewTodo(fields[2])
	case KindDeadline:
		if len(fields) != 4 {
			return Task{}, fmt.Errorf("%w: deadline has %d fields", ErrMalformedLine, len(fields))
		}
		task, err = NewDeadline(fields[2], fields[3])
	case KindEvent:
		if len(fields) != 5 {
			return Task{}, fmt.Errorf("%w: event has %d fields", ErrMalformedLine, len(fields))
		}
		task, err = NewEvent(fields[2], fields[3], fields[4])
	default:
		return Task{}, fmt.Errorf("%w: unknown type %q", ErrMalformedLine, fields[0])
	}
	if err != nil {
		return Task{}, fmt.Errorf("%w: %v", ErrMalformedLine, err)
	}

	task.Done = done
	return task, nil
}

func escape(value string) string {
	if !strings.ContainsAny(value, "\\|\n\r") {
		return value
	}
	var b strings.Builder
	for _, r := range value {
		switch r {
		case '\\', fieldSep:
			b.WriteByte('\\')
			b.WriteRune(r)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func splitFields(line string) []string {
	var (
		fields  []string
		current strings.Builder
		escaped bool
	)
	for _, r := range line {
		switch {
		case escaped:
			current.WriteRune(unescape(r))
			escaped = false
		case r == '\\':
			escaped = true
		case r == fieldSep:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	if escaped {
		current.WriteByte('\\')
	}
	return append(fields, current.String())
}

func unescape(r rune) rune {
	switch r {
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	}
	return r
}
