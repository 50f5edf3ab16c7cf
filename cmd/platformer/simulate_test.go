package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-platformer/internal/config"
	"github.com/vovakirdan/tui-platformer/internal/core"
	"github.com/vovakirdan/tui-platformer/internal/games/platformer"
)

func savedRun(t *testing.T) (string, uint64) {
	t.Helper()
	game := platformer.NewWithConfig(config.DefaultPlatformerConfig())
	game.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 100, Seed: 3})
	for range 20 {
		game.Step(core.NewInputFrame())
	}

	snap := game.Snapshot()
	sum, err := snap.Fingerprint()
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	data, err := snap.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	path := filepath.Join(t.TempDir(), "run.msgpack")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path, sum
}

func TestCompareSnapshot(t *testing.T) {
	path, sum := savedRun(t)

	var out bytes.Buffer
	if err := compareSnapshot(&out, path, sum); err != nil {
		t.Fatalf("compareSnapshot: %v", err)
	}
	if got, want := out.String(), "matches "+path+"\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestCompareSnapshotDiverged(t *testing.T) {
	path, sum := savedRun(t)

	var out bytes.Buffer
	err := compareSnapshot(&out, path, sum+1)
	if err == nil || !strings.Contains(err.Error(), "diverged") {
		t.Fatalf("compareSnapshot error = %v, want divergence", err)
	}
	if out.Len() != 0 {
		t.Errorf("unexpected output %q", out.String())
	}
}
