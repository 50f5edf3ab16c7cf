package storage

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// TableEntry is one line of a name:score table.
type TableEntry struct {
	Name  string
	Score int
}

// Table is a per-level high-score table stored as newline-delimited
// "name:score" pairs. A name appears at most once; adding it again keeps
// the better score.
type Table struct {
	entries []TableEntry
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{}
}

// TableFileName returns the file name of a level's table.
func TableFileName(level string) string {
	return "high_scores_" + level
}

// Add records a score for name.
func (t *Table) Add(name string, score int) {
	for i := range t.entries {
		if t.entries[i].Name == name {
			if score > t.entries[i].Score {
				t.entries[i].Score = score
			}
			return
		}
	}
	t.entries = append(t.entries, TableEntry{Name: name, Score: score})
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// Entries returns all entries, highest score first. Ties keep insertion order.
func (t *Table) Entries() []TableEntry {
	out := make([]TableEntry, len(t.entries))
	copy(out, t.entries)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// Top returns at most n entries, highest score first.
func (t *Table) Top(n int) []TableEntry {
	out := t.Entries()
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// ParseTable reads name:score lines. Blank lines are skipped; a line
// without a valid score is an error naming its line number.
func ParseTable(r io.Reader) (*Table, error) {
	t := NewTable()
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		i := strings.LastIndexByte(text, ':')
		if i < 0 {
			return nil, fmt.Errorf("storage: line %d: missing ':' in %q", line, text)
		}
		score, err := strconv.Atoi(strings.TrimSpace(text[i+1:]))
		if err != nil {
			return nil, fmt.Errorf("storage: line %d: bad score: %w", line, err)
		}
		t.Add(strings.TrimSpace(text[:i]), score)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("storage: read table: %w", err)
	}
	return t, nil
}

// ReadTable loads a table from path. A missing file yields an empty table.
func ReadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewTable(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", path, err)
	}
	return ParseTable(bytes.NewReader(data))
}

// WriteTo writes the table, highest score first.
func (t *Table) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	for _, e := range t.Entries() {
		fmt.Fprintf(&buf, "%s:%d\n", e.Name, e.Score)
	}
	return buf.WriteTo(w)
}

// WriteTable stores the table at path, replacing any existing file.
func WriteTable(path string, t *Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("storage: write %s: %w", path, err)
	}
	if _, err := t.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("storage: write %s: %w", path, err)
	}
	return f.Close()
}

// tableMu serialises read-modify-write cycles on table files.
var tableMu sync.Mutex

// RecordTableScore adds a score to the table file of level in dir,
// creating dir and the file as needed.
func RecordTableScore(dir, level, name string, score int) error {
	tableMu.Lock()
	defer tableMu.Unlock()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage: create %s: %w", dir, err)
	}
	path := filepath.Join(dir, TableFileName(level))
	t, err := ReadTable(path)
	if err != nil {
		return err
	}
	t.Add(name, score)
	return WriteTable(path, t)
}
