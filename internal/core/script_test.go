package core

import "testing"

func TestParseScript(t *testing.T) {
	frames, err := ParseScript("R*3, J+R ,_*2,D")
	if err != nil {
		t.Fatalf("ParseScript() failed: %v", err)
	}
	if len(frames) != 7 {
		t.Fatalf("Expected 7 frames, got %d", len(frames))
	}

	tests := []struct {
		i    int
		has  []Action
		none bool
	}{
		{0, []Action{ActionRight}, false},
		{2, []Action{ActionRight}, false},
		{3, []Action{ActionJump, ActionRight}, false},
		{4, nil, true},
		{5, nil, true},
		{6, []Action{ActionDuck}, false},
	}
	for _, tt := range tests {
		f := frames[tt.i]
		for _, a := range tt.has {
			if !f.Has(a) {
				t.Errorf("frame %d missing %v", tt.i, a)
			}
		}
		if tt.none && len(f.Actions) != 0 {
			t.Errorf("frame %d = %v, expected idle", tt.i, f.Actions)
		}
	}
}

func TestParseScriptEmpty(t *testing.T) {
	frames, err := ParseScript("")
	if err != nil || len(frames) != 0 {
		t.Errorf("ParseScript(\"\") = %d frames, %v", len(frames), err)
	}
}

func TestParseScriptErrors(t *testing.T) {
	for _, in := range []string{"Q", "R*x", "R*-1", "J+", "R*2000000"} {
		if _, err := ParseScript(in); err == nil {
			t.Errorf("ParseScript(%q) should fail", in)
		}
	}
}
