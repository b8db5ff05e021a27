// Package store is the file-backed markdown todo document the plugin edits.
// Tasks are checkbox list lines; everything else in the file, including the
// AI-owned comment regions, passes through mutations untouched.
package store

import (
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"braindump/internal/errors"
)

var taskLinePattern = regexp.MustCompile(`^(\s*)- \[( |x|X)\] (.*)$`)

// Task is one checkbox line in the document.
type Task struct {
	// ID is "<line>-<fragment>": the zero-based line number plus a short
	// content hash. Stable while the file is unchanged; after edits a stale
	// id still resolves through its line prefix.
	ID        string `json:"id"`
	Line      int    `json:"line"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Document is a single markdown file with serialized mutations. Every write
// goes through one mutex-guarded read-modify-write and lands atomically via
// a temp file rename.
type Document struct {
	path string
	mu   sync.Mutex
}

// Open binds a document to path, creating an empty file when none exists.
func Open(path string) (*Document, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.NewInternal(err)
		}
		if err := writeAtomic(path, ""); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, errors.NewInternal(err)
	}
	return &Document{path: path}, nil
}

// Path returns the underlying file path.
func (d *Document) Path() string { return d.path }

// Markdown returns the current file content with newlines normalized.
func (d *Document) Markdown() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.read()
}

// UpdateMarkdown applies fn to the current content and writes the result
// back. The whole cycle holds the writer lock, so concurrent mutations
// cannot interleave.
func (d *Document) UpdateMarkdown(fn func(md string) (string, error)) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	md, err := d.read()
	if err != nil {
		return err
	}
	updated, err := fn(md)
	if err != nil {
		return err
	}
	if updated == md {
		return nil
	}
	return writeAtomic(d.path, updated)
}

// Tasks lists every checkbox line in the document, top to bottom.
func (d *Document) Tasks() ([]Task, error) {
	md, err := d.Markdown()
	if err != nil {
		return nil, err
	}
	return ParseTasks(md), nil
}

// ParseTasks extracts the checkbox lines from markdown text.
func ParseTasks(md string) []Task {
	lines := strings.Split(normalizeNewlines(md), "\n")
	var out []Task
	for i, line := range lines {
		m := taskLinePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		text := strings.TrimSpace(m[3])
		out = append(out, Task{
			ID:        taskID(i, text),
			Line:      i,
			Text:      text,
			Completed: m[2] == "x" || m[2] == "X",
		})
	}
	return out
}

// AddTask appends an open task. It lands after the last existing task line
// so new items join the list instead of trailing the AI regions; a document
// without tasks gets it at the end.
func (d *Document) AddTask(text string) (Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, errors.NewInvalidRequest("task text is required")
	}

	var added Task
	err := d.UpdateMarkdown(func(md string) (string, error) {
		lines := strings.Split(md, "\n")

		insertAt := len(lines)
		for i := len(lines) - 1; i >= 0; i-- {
			if taskLinePattern.MatchString(lines[i]) {
				insertAt = i + 1
				break
			}
		}

		lines = insertLines(lines, insertAt, []string{"- [ ] " + text})
		added = Task{ID: taskID(insertAt, text), Line: insertAt, Text: text, Completed: false}
		return strings.Join(lines, "\n"), nil
	})
	return added, err
}

// InsertTasksAfter adds open subtask lines directly under the target task,
// indented one level past it.
func (d *Document) InsertTasksAfter(targetID string, texts []string) error {
	if len(texts) == 0 {
		return errors.NewInvalidRequest("at least one subtask is required")
	}

	return d.UpdateMarkdown(func(md string) (string, error) {
		lines := strings.Split(md, "\n")
		idx, indent, err := findTaskLine(lines, targetID)
		if err != nil {
			return "", err
		}

		sub := make([]string, 0, len(texts))
		for _, t := range texts {
			if t = strings.TrimSpace(t); t != "" {
				sub = append(sub, indent+"  - [ ] "+t)
			}
		}
		return strings.Join(insertLines(lines, idx+1, sub), "\n"), nil
	})
}

// UpdateTaskText rewrites the target task's text, preserving its checkbox
// state and indentation.
func (d *Document) UpdateTaskText(targetID, newText string) error {
	newText = strings.TrimSpace(newText)
	if newText == "" {
		return errors.NewInvalidRequest("new task text is required")
	}

	return d.UpdateMarkdown(func(md string) (string, error) {
		lines := strings.Split(md, "\n")
		idx, _, err := findTaskLine(lines, targetID)
		if err != nil {
			return "", err
		}

		m := taskLinePattern.FindStringSubmatch(lines[idx])
		lines[idx] = m[1] + "- [" + m[2] + "] " + newText
		return strings.Join(lines, "\n"), nil
	})
}

// UpdateTaskDescription replaces the indented plain-text block under the
// target task. An empty description removes the block.
func (d *Document) UpdateTaskDescription(targetID, description string) error {
	return d.UpdateMarkdown(func(md string) (string, error) {
		lines := strings.Split(md, "\n")
		idx, indent, err := findTaskLine(lines, targetID)
		if err != nil {
			return "", err
		}

		// Existing description: contiguous deeper-indented non-task lines.
		end := idx + 1
		for end < len(lines) {
			l := lines[end]
			if strings.TrimSpace(l) == "" || taskLinePattern.MatchString(l) {
				break
			}
			if len(l)-len(strings.TrimLeft(l, " \t")) <= len(indent) {
				break
			}
			end++
		}

		var desc []string
		for _, l := range strings.Split(normalizeNewlines(description), "\n") {
			if l = strings.TrimSpace(l); l != "" {
				desc = append(desc, indent+"  "+l)
			}
		}

		replaced := append(append(append([]string(nil), lines[:idx+1]...), desc...), lines[end:]...)
		return strings.Join(replaced, "\n"), nil
	})
}

func findTaskLine(lines []string, targetID string) (idx int, indent string, err error) {
	for i, line := range lines {
		m := taskLinePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if taskID(i, strings.TrimSpace(m[3])) == targetID {
			return i, m[1], nil
		}
	}
	return 0, "", errors.NewNotFound("task " + targetID)
}

func insertLines(lines []string, at int, insert []string) []string {
	out := make([]string, 0, len(lines)+len(insert))
	out = append(out, lines[:at]...)
	out = append(out, insert...)
	out = append(out, lines[at:]...)
	return out
}

// taskID derives the stable id for a task line: the line number prefix used
// for stale-id resolution plus a short content hash.
func taskID(line int, text string) string {
	h := fnv.New32a()
	h.Write([]byte(text))
	return fmt.Sprintf("%d-%08x", line, h.Sum32())
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

func (d *Document) read() (string, error) {
	data, err := os.ReadFile(d.path)
	if err != nil {
		return "", errors.NewInternal(err)
	}
	return normalizeNewlines(string(data)), nil
}

func writeAtomic(path, content string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".braindump-*")
	if err != nil {
		return errors.NewInternal(err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.NewInternal(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.NewInternal(err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.NewInternal(err)
	}
	return nil
}
