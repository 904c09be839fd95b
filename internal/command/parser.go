package command

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type Kind int

const (
	KindInvalid Kind = iota
	KindTodo
	KindDeadline
	KindEvent
	KindMark
	KindUnmark
	KindList
	KindDelete
	KindFind
	KindBye
)

func (k Kind) String() string {
	for _, entry := range dispatch {
		if entry.kind == k {
			return entry.word
		}
	}
	return "invalid"
}

// Mutates reports whether a successful command of this kind changes the
// task list and therefore has to be saved.
func (k Kind) Mutates() bool {
	switch k {
	case KindTodo, KindDeadline, KindEvent, KindMark, KindUnmark, KindDelete:
		return true
	}
	return false
}

// Command is one parsed input line. Only the fields relevant to Kind are set.
type Command struct {
	Kind        Kind
	Description string
	By          string
	From        string
	To          string
	Index       int
	Keyword     string
}

const (
	markerBy   = "/by"
	markerFrom = "/from"
	markerTo   = "/to"
)

type parseFunc func(rest string) (Command, error)

// dispatch maps the first word of a line to its parser. Words are matched
// exactly, so no command can shadow another.
var dispatch = []struct {
	word  string
	kind  Kind
	parse parseFunc
}{
	{word: "todo", kind: KindTodo, parse: parseTodo},
	{word: "deadline", kind: KindDeadline, parse: parseDeadline},
	{word: "event", kind: KindEvent, parse: parseEvent},
	{word: "mark", kind: KindMark, parse: indexParser(KindMark, "mark")},
	{word: "unmark", kind: KindUnmark, parse: indexParser(KindUnmark, "unmark")},
	{word: "list", kind: KindList, parse: bareParser(KindList)},
	{word: "delete", kind: KindDelete, parse: indexParser(KindDelete, "delete")},
	{word: "find", kind: KindFind, parse: parseFind},
	{word: "bye", kind: KindBye, parse: bareParser(KindBye)},
}

// Parse turns a raw line into a Command. Validation failures are returned as
// *Error values carrying the user-facing message.
func Parse(line string) (Command, error) {
	line = strings.TrimSpace(line)
	if strings.ContainsAny(line, "\r\n") {
		return Command{Kind: KindInvalid}, multiline()
	}
	word, rest := cutWord(line)
	for _, entry := range dispatch {
		if entry.word == word {
			cmd, err := entry.parse(rest)
			cmd.Kind = entry.kind
			return cmd, err
		}
	}
	return Command{Kind: KindInvalid}, unrecognized()
}

func parseTodo(rest string) (Command, error) {
	if rest == "" {
		return Command{}, blankDescription("a todo")
	}
	return Command{Kind: KindTodo, Description: rest}, nil
}

func parseDeadline(rest string) (Command, error) {
	if rest == "" {
		return Command{}, blankDescription("a deadline")
	}
	description, by, found := cutMarker(rest, markerBy)
	if !found {
		return Command{}, malformedDeadline()
	}
	if description == "" {
		return Command{}, blankDescription("a deadline")
	}
	if by == "" {
		return Command{}, malformedDeadline()
	}
	return Command{Kind: KindDeadline, Description: description, By: by}, nil
}

func parseEvent(rest string) (Command, error) {
	if rest == "" {
		return Command{}, blankDescription("an event")
	}
	description, span, found := cutMarker(rest, markerFrom)
	if !found {
		return Command{}, malformedEvent()
	}
	from, to, found := cutMarker(span, markerTo)
	if !found {
		return Command{}, malformedEvent()
	}
	if description == "" {
		return Command{}, blankDescription("an event")
	}
	if from == "" || to == "" {
		return Command{}, malformedEvent()
	}
	return Command{Kind: KindEvent, Description: description, From: from, To: to}, nil
}

func indexParser(kind Kind, verb string) parseFunc {
	return func(rest string) (Command, error) {
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			return Command{}, missingIndex(verb)
		}
		index, err := strconv.Atoi(fields[0])
		if err != nil {
			return Command{}, notANumber(fields[0])
		}
		return Command{Kind: kind, Index: index}, nil
	}
}

func parseFind(rest string) (Command, error) {
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return Command{}, missingKeyword()
	}
	return Command{Kind: KindFind, Keyword: fields[0]}, nil
}

func bareParser(kind Kind) parseFunc {
	return func(string) (Command, error) {
		return Command{Kind: kind}, nil
	}
}

func multiline() *Error {
	return newError(CodeMalformedArguments, ErrMalformedArguments, "☹ OOPS!!! A command has to fit on a single line.")
}

func malformedDeadline() *Error {
	return newError(CodeMalformedArguments, ErrMalformedArguments, "☹ OOPS!!! The %s date of a deadline cannot be empty.", markerBy)
}

func malformedEvent() *Error {
	return newError(CodeMalformedArguments, ErrMalformedArguments, "☹ OOPS!!! The %s and %s times of an event cannot be empty.", markerFrom, markerTo)
}

// cutWord splits s at its first run of whitespace.
func cutWord(s string) (word, rest string) {
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i:])
}

// cutMarker splits s around the first occurrence of marker that stands as a
// whole word. Both halves are trimmed.
func cutMarker(s, marker string) (before, after string, found bool) {
	offset := 0
	for {
		i := strings.Index(s[offset:], marker)
		if i < 0 {
			return s, "", false
		}
		start := offset + i
		end := start + len(marker)
		if spaceBefore(s, start) && spaceAfter(s, end) {
			return strings.TrimSpace(s[:start]), strings.TrimSpace(s[end:]), true
		}
		offset = end
	}
}

// spaceBefore reports whether s[:i] is empty or ends in whitespace.
func spaceBefore(s string, i int) bool {
	if i <= 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return unicode.IsSpace(r)
}

// spaceAfter reports whether s[i:] is empty or starts with whitespace.
func spaceAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return unicode.IsSpace(r)
}
