package tui

import "strings"

type speaker int

const (
	speakerUser speaker = iota
	speakerGideon
)

type entry struct {
	speaker speaker
	text    string
	failed  bool
}

const (
	userLabel   = "you    > "
	gideonLabel = "gideon : "
	errorLabel  = "gideon ! "
)

// formatEntry lays out one dialog bubble. Continuation lines are indented to
// line up with the first.
func formatEntry(item entry) []string {
	label := userLabel
	if item.speaker == speakerGideon {
		label = gideonLabel
		if item.failed {
			label = errorLabel
		}
	}

	indent := strings.Repeat(" ", len(label))
	lines := strings.Split(item.text, "\n")
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		if i == 0 {
			out = append(out, label+line)
			continue
		}
		out = append(out, indent+line)
	}
	return out
}
