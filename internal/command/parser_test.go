package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  Command
	}{
		{"todo read book", Command{Kind: KindTodo, Description: "read book"}},
		{"  todo   read book  ", Command{Kind: KindTodo, Description: "read book"}},
		{"deadline submit report /by Friday", Command{Kind: KindDeadline, Description: "submit report", By: "Friday"}},
		{"deadline read /bye-bye letter /by 2019-10-15", Command{Kind: KindDeadline, Description: "read /bye-bye letter", By: "2019-10-15"}},
		{"event team sync /from Mon 2pm /to Mon 3pm", Command{Kind: KindEvent, Description: "team sync", From: "Mon 2pm", To: "Mon 3pm"}},
		{"event trip /to Rome /from Mon /to Fri", Command{Kind: KindEvent, Description: "trip /to Rome", From: "Mon", To: "Fri"}},
		{"mark 2", Command{Kind: KindMark, Index: 2}},
		{"unmark 3 extra", Command{Kind: KindUnmark, Index: 3}},
		{"delete -1", Command{Kind: KindDelete, Index: -1}},
		{"find book shelf", Command{Kind: KindFind, Keyword: "book"}},
		{"list", Command{Kind: KindList}},
		{"list everything", Command{Kind: KindList}},
		{"bye", Command{Kind: KindBye}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRejectsUnknownWords(t *testing.T) {
	for _, input := range []string{"", "   ", "TODO read", "listing", "byebye", "marked 1"} {
		cmd, err := Parse(input)
		assert.Equal(t, KindInvalid, cmd.Kind, input)
		assert.ErrorIs(t, err, ErrUnrecognizedCommand, input)
	}
}

func TestCutMarker(t *testing.T) {
	before, after, found := cutMarker("a /by b", "/by")
	assert.True(t, found)
	assert.Equal(t, "a", before)
	assert.Equal(t, "b", after)

	_, _, found = cutMarker("a/by b", "/by")
	assert.False(t, found)

	_, _, found = cutMarker("voila/by Friday", "/by")
	assert.False(t, found)

	_, _, found = cutMarker("voilà/by Friday", "/by")
	assert.False(t, found)

	_, _, found = cutMarker("a /by\u00a0Friday", "/by")
	assert.True(t, found)

	before, after, found = cutMarker("/by", "/by")
	assert.True(t, found)
	assert.Empty(t, before)
	assert.Empty(t, after)
}

func TestParseRejectsAccentedWordGluedToMarker(t *testing.T) {
	for _, input := range []string{"deadline voila/by Friday", "deadline voilà/by Friday"} {
		_, err := Parse(input)
		assert.ErrorIs(t, err, ErrMalformedArguments, input)
	}

	cmd, err := Parse("deadline voilà /by Friday")
	require.NoError(t, err)
	assert.Equal(t, "voilà", cmd.Description)
	assert.Equal(t, "Friday", cmd.By)
}

func TestParseRejectsMultilineInput(t *testing.T) {
	for _, input := range []string{"todo a\nb", "todo a\r\nb", "list\rbye"} {
		cmd, err := Parse(input)
		assert.Equal(t, KindInvalid, cmd.Kind, input)
		assert.ErrorIs(t, err, ErrMalformedArguments, input)
	}

	cmd, err := Parse("todo read book\n")
	require.NoError(t, err)
	assert.Equal(t, "read book", cmd.Description)
}

func TestKindMutates(t *testing.T) {
	for _, kind := range []Kind{KindTodo, KindDeadline, KindEvent, KindMark, KindUnmark, KindDelete} {
		assert.True(t, kind.Mutates(), kind.String())
	}
	for _, kind := range []Kind{KindList, KindFind, KindBye, KindInvalid} {
		assert.False(t, kind.Mutates(), kind.String())
	}
	assert.Equal(t, "deadline", KindDeadline.String())
	assert.Equal(t, "invalid", KindInvalid.String())
}
