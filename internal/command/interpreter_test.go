package command_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jrchoo/ip/internal/command"
	"github.com/jrchoo/ip/internal/model"
	"github.com/jrchoo/ip/internal/storage"
	"github.com/jrchoo/ip/internal/tasklist"
)

// MockGateway records loads and saves.
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Load(ctx context.Context) ([]model.Task, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockGateway) Save(ctx context.Context, tasks []model.Task) error {
	args := m.Called(ctx, tasks)
	return args.Error(0)
}

var _ command.Gateway = (*MockGateway)(nil)

func newInterpreter(t *testing.T) (*command.Interpreter, *MockGateway) {
	t.Helper()
	gateway := new(MockGateway)
	gateway.On("Save", mock.Anything, mock.Anything).Return(nil)
	return command.New(tasklist.New(nil), gateway), gateway
}

func run(t *testing.T, in command.Handler, line string) command.Response {
	t.Helper()
	resp, err := in.Interpret(context.Background(), line)
	require.NoError(t, err)
	return resp
}

func TestInterpreter_Scenarios(t *testing.T) {
	in, gateway := newInterpreter(t)

	resp := run(t, in, "todo read book")
	assert.Equal(t, "[T][ ] read book", resp.Text)
	assert.NoError(t, resp.Err)
	assert.Len(t, in.Tasks(), 1)

	resp = run(t, in, "deadline submit report /by Friday")
	assert.Equal(t, "[D][ ] submit report (by: Friday)", resp.Text)

	resp = run(t, in, "event team sync /from Mon 2pm /to Mon 3pm")
	assert.Equal(t, "[E][ ] team sync (from: Mon 2pm to: Mon 3pm)", resp.Text)

	resp = run(t, in, "mark 2")
	assert.Equal(t, "[D][X] submit report (by: Friday)", resp.Text)

	resp = run(t, in, "delete 1")
	assert.Equal(t, "[T][ ] read book", resp.Text)
	assert.Len(t, in.Tasks(), 2)

	resp = run(t, in, "todo ")
	assert.Equal(t, "☹ OOPS!!! The description of a todo cannot be empty.", resp.Text)
	assert.ErrorIs(t, resp.Err, command.ErrBlankDescription)
	assert.Len(t, in.Tasks(), 2)

	gateway.AssertNumberOfCalls(t, "Save", 5)
}

func TestInterpreter_SavesFullListInOrder(t *testing.T) {
	gateway := new(MockGateway)
	gateway.On("Save", mock.Anything, []model.Task{
		{Kind: model.KindTodo, Description: "a"},
	}).Return(nil).Once()
	gateway.On("Save", mock.Anything, []model.Task{
		{Kind: model.KindTodo, Description: "a"},
		{Kind: model.KindDeadline, Description: "b", By: "Friday"},
	}).Return(nil).Once()
	gateway.On("Save", mock.Anything, []model.Task{
		{Kind: model.KindTodo, Description: "a", Done: true},
		{Kind: model.KindDeadline, Description: "b", By: "Friday"},
	}).Return(nil).Once()

	in := command.New(tasklist.New(nil), gateway)
	run(t, in, "todo a")
	run(t, in, "deadline b /by Friday")
	run(t, in, "mark 1")

	gateway.AssertExpectations(t)
}

func TestInterpreter_ReadOnlyCommandsDoNotSave(t *testing.T) {
	gateway := new(MockGateway)
	in := command.New(tasklist.New([]model.Task{{Kind: model.KindTodo, Description: "read book"}}), gateway)

	for _, line := range []string{"list", "find book", "bye", "blah", "mark", "delete x", "mark 7", "find"} {
		run(t, in, line)
	}

	gateway.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestInterpreter_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
		target  error
	}{
		{
			name:    "todo without description",
			input:   "todo",
			message: "☹ OOPS!!! The description of a todo cannot be empty.",
			target:  command.ErrBlankDescription,
		},
		{
			name:    "deadline without marker",
			input:   "deadline submit report",
			message: "☹ OOPS!!! The /by date of a deadline cannot be empty.",
			target:  command.ErrMalformedArguments,
		},
		{
			name:    "deadline without date",
			input:   "deadline submit report /by   ",
			message: "☹ OOPS!!! The /by date of a deadline cannot be empty.",
			target:  command.ErrMalformedArguments,
		},
		{
			name:    "deadline without description",
			input:   "deadline /by Friday",
			message: "☹ OOPS!!! The description of a deadline cannot be empty.",
			target:  command.ErrBlankDescription,
		},
		{
			name:    "event without to",
			input:   "event team sync /from Mon 2pm",
			message: "☹ OOPS!!! The /from and /to times of an event cannot be empty.",
			target:  command.ErrMalformedArguments,
		},
		{
			name:    "event with markers swapped",
			input:   "event team sync /to Mon 3pm /from Mon 2pm",
			message: "☹ OOPS!!! The /from and /to times of an event cannot be empty.",
			target:  command.ErrMalformedArguments,
		},
		{
			name:    "event without description",
			input:   "event /from a /to b",
			message: "☹ OOPS!!! The description of an event cannot be empty.",
			target:  command.ErrBlankDescription,
		},
		{
			name:    "mark without index",
			input:   "mark",
			message: "To mark a task you need to include the index",
			target:  command.ErrMissingIndex,
		},
		{
			name:    "unmark without index",
			input:   "unmark   ",
			message: "To unmark a task you need to include the index",
			target:  command.ErrMissingIndex,
		},
		{
			name:    "delete without index",
			input:   "delete",
			message: "To delete a task you have to include the index",
			target:  command.ErrMissingIndex,
		},
		{
			name:    "todo spanning two lines",
			input:   "todo a\nb",
			message: "☹ OOPS!!! A command has to fit on a single line.",
			target:  command.ErrMalformedArguments,
		},
		{
			name:    "deadline with carriage return",
			input:   "deadline a /by\rFriday",
			message: "☹ OOPS!!! A command has to fit on a single line.",
			target:  command.ErrMalformedArguments,
		},
		{
			name:    "delete with word",
			input:   "delete first",
			message: `☹ OOPS!!! "first" is not a valid task number.`,
			target:  command.ErrNotANumber,
		},
		{
			name:    "mark out of range",
			input:   "mark 5",
			message: "☹ OOPS!!! There is no task 5. You have 1 task in your list.",
			target:  command.ErrIndexOutOfRange,
		},
		{
			name:    "delete zero",
			input:   "delete 0",
			message: "☹ OOPS!!! There is no task 0. You have 1 task in your list.",
			target:  command.ErrIndexOutOfRange,
		},
		{
			name:    "find without keyword",
			input:   "find",
			message: "To search for a task you need to include a keyword",
			target:  command.ErrMissingKeyword,
		},
		{
			name:    "unknown word",
			input:   "hello there",
			message: "☹ OOPS!!! I'm sorry, but I don't know what that means :-(",
			target:  command.ErrUnrecognizedCommand,
		},
		{
			name:    "keyword prefix is not a command",
			input:   "todos buy milk",
			message: "☹ OOPS!!! I'm sorry, but I don't know what that means :-(",
			target:  command.ErrUnrecognizedCommand,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gateway := new(MockGateway)
			in := command.New(tasklist.New([]model.Task{{Kind: model.KindTodo, Description: "read book"}}), gateway)

			resp := run(t, in, tt.input)

			assert.Equal(t, tt.message, resp.Text)
			assert.ErrorIs(t, resp.Err, tt.target)
			assert.False(t, resp.Exit)
			assert.Equal(t, []model.Task{{Kind: model.KindTodo, Description: "read book"}}, in.Tasks())
			gateway.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		})
	}
}

func TestInterpreter_MarkUnmarkIdempotent(t *testing.T) {
	in, _ := newInterpreter(t)
	run(t, in, "todo read book")

	assert.Equal(t, "[T][X] read book", run(t, in, "mark 1").Text)
	assert.Equal(t, "[T][X] read book", run(t, in, "mark 1").Text)
	assert.Equal(t, "[T][ ] read book", run(t, in, "unmark 1").Text)
	assert.Equal(t, "[T][ ] read book", run(t, in, "unmark 1").Text)
}

func TestInterpreter_ListAndFind(t *testing.T) {
	in, _ := newInterpreter(t)

	assert.Equal(t, command.MessageEmptyList, run(t, in, "list").Text)

	run(t, in, "todo read book")
	run(t, in, "todo return book")
	run(t, in, "deadline submit report /by Friday")

	assert.Equal(t,
		"1.[T][ ] read book\n2.[T][ ] return book\n3.[D][ ] submit report (by: Friday)",
		run(t, in, "list").Text)
	assert.Equal(t,
		"1.[T][ ] read book\n2.[T][ ] return book",
		run(t, in, "find book").Text)
	assert.Equal(t, `No tasks match "zzz".`, run(t, in, "find zzz").Text)
	assert.Equal(t, `No tasks match "Book".`, run(t, in, "find Book").Text)
}

func TestInterpreter_Bye(t *testing.T) {
	in, _ := newInterpreter(t)

	resp := run(t, in, "bye")

	assert.True(t, resp.Exit)
	assert.Equal(t, command.MessageBye, resp.Text)
}

func TestInterpreter_SaveFailureRollsBack(t *testing.T) {
	gateway := new(MockGateway)
	gateway.On("Save", mock.Anything, mock.Anything).Return(nil).Once()
	gateway.On("Save", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	in := command.New(tasklist.New(nil), gateway)
	run(t, in, "todo read book")

	for _, line := range []string{"todo write essay", "mark 1", "delete 1"} {
		resp := run(t, in, line)
		assert.Equal(t, "☹ OOPS!!! I could not save your tasks, so nothing was changed.", resp.Text)
		assert.ErrorIs(t, resp.Err, command.ErrStorage)
		assert.Equal(t, []model.Task{{Kind: model.KindTodo, Description: "read book"}}, in.Tasks())
	}
}

func TestInterpreter_FileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := storage.NewFileStore(filepath.Join(t.TempDir(), "data", "gideon.txt"))
	in := command.New(command.Load(ctx, store), store)

	run(t, in, "todo read book")
	run(t, in, `todo pipe | and back\slash`)
	run(t, in, `deadline a|b /by C:\tmp | now`)
	run(t, in, `event x\|y /from 2019-10-15 1800 /to a|b`)
	run(t, in, "mark 2")

	resp := run(t, in, "todo a\nb")
	assert.ErrorIs(t, resp.Err, command.ErrMalformedArguments)

	want := []model.Task{
		{Kind: model.KindTodo, Description: "read book"},
		{Kind: model.KindTodo, Description: `pipe | and back\slash`, Done: true},
		{Kind: model.KindDeadline, Description: "a|b", By: `C:\tmp | now`},
		{Kind: model.KindEvent, Description: `x\|y`, From: "2019-10-15 1800", To: "a|b"},
	}
	require.Equal(t, want, in.Tasks())

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, loaded)

	reloaded := command.New(command.Load(ctx, store), store)
	assert.Equal(t, want, reloaded.Tasks())
	assert.Equal(t, `1.[T][X] pipe | and back\slash`, run(t, reloaded, "find pipe").Text)
}

func TestLoad(t *testing.T) {
	t.Run("uses stored tasks", func(t *testing.T) {
		gateway := new(MockGateway)
		stored := []model.Task{{Kind: model.KindTodo, Description: "read book"}}
		gateway.On("Load", mock.Anything).Return(stored, nil)

		list := command.Load(context.Background(), gateway)

		assert.Equal(t, 1, list.Len())
		gateway.AssertExpectations(t)
	})

	t.Run("starts empty on failure", func(t *testing.T) {
		gateway := new(MockGateway)
		gateway.On("Load", mock.Anything).Return(nil, errors.New("corrupt"))

		list := command.Load(context.Background(), gateway)

		assert.Equal(t, 0, list.Len())
	})
}

func TestSerialized(t *testing.T) {
	in, _ := newInterpreter(t)
	serialized := command.NewSerialized(in)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = serialized.Interpret(context.Background(), "todo task")
			_ = serialized.Tasks()
		}()
	}
	wg.Wait()

	assert.Len(t, serialized.Tasks(), 20)
}
