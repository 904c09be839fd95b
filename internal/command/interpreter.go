// Package command turns single lines of user input into operations on the
// task list and renders the text shown back to the user.
package command

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jrchoo/ip/internal/logger"
	"github.com/jrchoo/ip/internal/model"
	"github.com/jrchoo/ip/internal/tasklist"
)

const (
	MessageGreeting  = "Hello! I'm Gideon\nWhat can I do for you?"
	MessageBye       = "Bye. Hope to see you again soon!"
	MessageEmptyList = "Your task list is empty."
)

// Gateway loads and saves the full task list.
type Gateway interface {
	Load(ctx context.Context) ([]model.Task, error)
	Save(ctx context.Context, tasks []model.Task) error
}

// Handler is what front ends talk to.
type Handler interface {
	Interpret(ctx context.Context, line string) (Response, error)
	Tasks() []model.Task
}

// Response is the outcome of one line. Text is always set. Err holds the
// failure behind Text when the command was rejected.
type Response struct {
	Kind Kind
	Text string
	Exit bool
	Err  error
}

type Interpreter struct {
	tasks *tasklist.List
	store Gateway
}

func New(tasks *tasklist.List, store Gateway) *Interpreter {
	return &Interpreter{tasks: tasks, store: store}
}

// Load builds the initial task list from store. An unreadable store is
// logged and the session starts with an empty list.
func Load(ctx context.Context, store Gateway) *tasklist.List {
	tasks, err := store.Load(ctx)
	if err != nil {
		logger.Warn("load tasks failed, starting with an empty list", zap.Error(err))
		return tasklist.New(nil)
	}
	logger.Info("tasks loaded", zap.Int("count", len(tasks)))
	return tasklist.New(tasks)
}

func (in *Interpreter) Tasks() []model.Task {
	return in.tasks.Tasks()
}

func (in *Interpreter) Interpret(ctx context.Context, line string) (resp Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("interpret panicked", nil, zap.String("input", line), zap.Any("panic", r))
			resp = Response{}
			err = fmt.Errorf("%w: %v", ErrInternal, r)
		}
	}()

	cmd, parseErr := Parse(line)
	if parseErr != nil {
		resp, err = reject(parseErr)
	} else {
		resp, err = in.execute(ctx, cmd)
	}
	resp.Kind = cmd.Kind
	return resp, err
}

func (in *Interpreter) execute(ctx context.Context, cmd Command) (Response, error) {
	switch cmd.Kind {
	case KindTodo:
		return in.add(ctx, func() (model.Task, error) { return model.NewTodo(cmd.Description) }, "a todo")
	case KindDeadline:
		return in.add(ctx, func() (model.Task, error) { return model.NewDeadline(cmd.Description, cmd.By) }, "a deadline")
	case KindEvent:
		return in.add(ctx, func() (model.Task, error) { return model.NewEvent(cmd.Description, cmd.From, cmd.To) }, "an event")
	case KindMark:
		return in.mutate(ctx, cmd, func() (model.Task, error) { return in.tasks.MarkDone(cmd.Index) })
	case KindUnmark:
		return in.mutate(ctx, cmd, func() (model.Task, error) { return in.tasks.MarkUndone(cmd.Index) })
	case KindDelete:
		return in.mutate(ctx, cmd, func() (model.Task, error) { return in.tasks.Delete(cmd.Index) })
	case KindList:
		if in.tasks.Len() == 0 {
			return Response{Text: MessageEmptyList}, nil
		}
		return Response{Text: in.tasks.Render()}, nil
	case KindFind:
		matches := in.tasks.Find(cmd.Keyword)
		if matches.Len() == 0 {
			return Response{Text: fmt.Sprintf("No tasks match %q.", cmd.Keyword)}, nil
		}
		return Response{Text: matches.Render()}, nil
	case KindBye:
		return Response{Text: MessageBye, Exit: true}, nil
	}

	return Response{}, fmt.Errorf("%w: no handler for %s", ErrInternal, cmd.Kind)
}

func (in *Interpreter) add(ctx context.Context, build func() (model.Task, error), noun string) (Response, error) {
	task, err := build()
	if err != nil {
		if errors.Is(err, model.ErrBlankDescription) {
			return reject(blankDescription(noun))
		}
		return Response{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	snapshot := in.tasks.Snapshot()
	in.tasks.Add(task)
	if err := in.save(ctx, snapshot); err != nil {
		return reject(err)
	}
	logger.Debug("task added", zap.String("kind", string(task.Kind)), zap.Int("count", in.tasks.Len()))
	return Response{Text: task.Render()}, nil
}

// mutate applies a change addressed by index and saves the list, restoring
// the previous state if the save fails.
func (in *Interpreter) mutate(ctx context.Context, cmd Command, apply func() (model.Task, error)) (Response, error) {
	snapshot := in.tasks.Snapshot()
	task, err := apply()
	if err != nil {
		if errors.Is(err, tasklist.ErrIndexOutOfRange) {
			return reject(indexOutOfRange(cmd.Index, in.tasks.Len(), err))
		}
		return Response{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if err := in.save(ctx, snapshot); err != nil {
		return reject(err)
	}
	logger.Debug("task changed", zap.Stringer("command", cmd.Kind), zap.Int("index", cmd.Index))
	return Response{Text: task.Render()}, nil
}

func (in *Interpreter) save(ctx context.Context, snapshot []model.Task) *Error {
	if err := in.store.Save(ctx, in.tasks.Tasks()); err != nil {
		in.tasks.Restore(snapshot)
		logger.Error("save tasks failed, change rolled back", err)
		return storageFailure(err)
	}
	return nil
}

func reject(err error) (Response, error) {
	var cmdErr *Error
	if errors.As(err, &cmdErr) {
		return Response{Text: cmdErr.Message, Err: cmdErr}, nil
	}
	return Response{}, fmt.Errorf("%w: %v", ErrInternal, err)
}
