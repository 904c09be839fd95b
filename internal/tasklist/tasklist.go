// Package tasklist holds the ordered, in-memory list of tasks. Positions are
// 1-based at the API boundary.
package tasklist

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jrchoo/ip/internal/model"
)

var ErrIndexOutOfRange = errors.New("task index out of range")

type List struct {
	tasks []model.Task
}

func New(tasks []model.Task) *List {
	list := &List{tasks: make([]model.Task, 0, len(tasks))}
	list.tasks = append(list.tasks, tasks...)
	return list
}

func (l *List) Add(task model.Task) {
	l.tasks = append(l.tasks, task)
}

func (l *List) Get(index int) (model.Task, error) {
	if err := l.check(index); err != nil {
		return model.Task{}, err
	}
	return l.tasks[index-1], nil
}

func (l *List) Delete(index int) (model.Task, error) {
	if err := l.check(index); err != nil {
		return model.Task{}, err
	}
	removed := l.tasks[index-1]
	l.tasks = append(l.tasks[:index-1], l.tasks[index:]...)
	return removed, nil
}

func (l *List) MarkDone(index int) (model.Task, error) {
	return l.setDone(index, true)
}

func (l *List) MarkUndone(index int) (model.Task, error) {
	return l.setDone(index, false)
}

func (l *List) setDone(index int, done bool) (model.Task, error) {
	if err := l.check(index); err != nil {
		return model.Task{}, err
	}
	l.tasks[index-1].Done = done
	return l.tasks[index-1], nil
}

// Find returns the tasks whose description contains keyword, case-sensitive,
// in their original order. An empty keyword matches every task.
func (l *List) Find(keyword string) *List {
	matches := &List{}
	for _, task := range l.tasks {
		if strings.Contains(task.Description, keyword) {
			matches.tasks = append(matches.tasks, task)
		}
	}
	return matches
}

func (l *List) Len() int {
	return len(l.tasks)
}

// Tasks returns a copy of the current sequence.
func (l *List) Tasks() []model.Task {
	out := make([]model.Task, len(l.tasks))
	copy(out, l.tasks)
	return out
}

// Snapshot captures the current sequence so a failed mutation can be undone
// with Restore.
func (l *List) Snapshot() []model.Task {
	return l.Tasks()
}

func (l *List) Restore(snapshot []model.Task) {
	l.tasks = append(l.tasks[:0:0], snapshot...)
}

// Render returns the numbered listing, one task per line.
func (l *List) Render() string {
	lines := make([]string, 0, len(l.tasks))
	for i, task := range l.tasks {
		lines = append(lines, fmt.Sprintf("%d.%s", i+1, task.Render()))
	}
	return strings.Join(lines, "\n")
}

func (l *List) check(index int) error {
	if index < 1 || index > len(l.tasks) {
		return fmt.Errorf("%w: %d not in 1..%d", ErrIndexOutOfRange, index, len(l.tasks))
	}
	return nil
}
