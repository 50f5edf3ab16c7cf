package platformer

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
)

//go:embed levels/*.txt
var embeddedLevels embed.FS

// ErrUnknownLevel is returned when no source has a layout for a level id.
var ErrUnknownLevel = errors.New("platformer: unknown level")

// LevelSource provides level layouts by id. Ids are file names such as
// "level1.txt".
type LevelSource interface {
	Layout(id string) (string, error)
	List() ([]string, error)
}

type fsSource struct {
	fsys fs.FS
	dir  string
}

// EmbeddedLevels returns the levels shipped with the game.
func EmbeddedLevels() LevelSource {
	return fsSource{fsys: embeddedLevels, dir: "levels"}
}

// DirLevels returns levels read from a directory on disk.
func DirLevels(dir string) LevelSource {
	return fsSource{fsys: os.DirFS(dir), dir: "."}
}

func (s fsSource) Layout(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrUnknownLevel, id)
	}
	data, err := fs.ReadFile(s.fsys, path.Join(s.dir, id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %q", ErrUnknownLevel, id)
		}
		return "", fmt.Errorf("platformer: read level %q: %w", id, err)
	}
	return string(data), nil
}

func (s fsSource) List() ([]string, error) {
	entries, err := fs.ReadDir(s.fsys, s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("platformer: list levels: %w", err)
	}
	var ids []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".txt") {
			ids = append(ids, e.Name())
		}
	}
	return ids, nil
}

// overlay looks levels up in each source in turn.
type overlay []LevelSource

// Overlay returns a source that prefers the first source holding a level.
func Overlay(sources ...LevelSource) LevelSource {
	return overlay(sources)
}

func (o overlay) Layout(id string) (string, error) {
	for _, s := range o {
		layout, err := s.Layout(id)
		if err == nil {
			return layout, nil
		}
		if !errors.Is(err, ErrUnknownLevel) {
			return "", err
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLevel, id)
}

func (o overlay) List() ([]string, error) {
	seen := make(map[string]bool)
	var ids []string
	for _, s := range o {
		list, err := s.List()
		if err != nil {
			return nil, err
		}
		for _, id := range list {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// MapSource is an in-memory level source.
type MapSource map[string]string

func (m MapSource) Layout(id string) (string, error) {
	layout, ok := m[id]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownLevel, id)
	}
	return layout, nil
}

func (m MapSource) List() ([]string, error) {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
