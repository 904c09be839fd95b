// Package storage keeps the task list in a plain text file, one encoded task
// per line.
package storage

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jrchoo/ip/internal/model"
)

var ErrCorrupt = errors.New("corrupt task file")

type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string {
	return s.path
}

// Load reads every task from the file. A missing file is an empty list.
func (s *FileStore) Load(ctx context.Context) ([]model.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []model.Task{}, nil
		}
		return nil, fmt.Errorf("open task file: %w", err)
	}
	defer file.Close()

	tasks := []model.Task{}
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		task, err := model.Decode(line)
		if err != nil {
			return nil, fmt.Errorf("%w: %s:%d: %v", ErrCorrupt, s.path, lineNo, err)
		}
		tasks = append(tasks, task)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read task file: %w", err)
	}
	return tasks, nil
}

// Save replaces the file with tasks. The new content is written to a
// temporary file first and renamed over the old one.
func (s *FileStore) Save(ctx context.Context, tasks []model.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	writer := bufio.NewWriter(tmp)
	for _, task := range tasks {
		if _, err := writer.WriteString(model.Encode(task) + "\n"); err != nil {
			_ = tmp.Close()
			return fmt.Errorf("write task file: %w", err)
		}
	}
	if err := writer.Flush(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write task file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close task file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("replace task file: %w", err)
	}
	return nil
}
