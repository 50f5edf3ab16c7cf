package core

import (
	"fmt"
	"strconv"
	"strings"
)

// maxScriptRepeat bounds a single "*N" so a typo cannot allocate forever.
const maxScriptRepeat = 1_000_000

// ParseScript reads an input script: comma-separated steps, each a set of
// actions joined by '+' with an optional "*N" repeat count. "R*50,J+R,_*10"
// holds right for 50 ticks, jumps while moving right once, then idles for
// 10 ticks. Whitespace around steps is ignored.
func ParseScript(s string) ([]InputFrame, error) {
	var frames []InputFrame
	for i, step := range strings.Split(s, ",") {
		step = strings.TrimSpace(step)
		if step == "" {
			continue
		}

		count := 1
		if body, n, ok := strings.Cut(step, "*"); ok {
			c, err := strconv.Atoi(strings.TrimSpace(n))
			if err != nil || c < 0 || c > maxScriptRepeat {
				return nil, fmt.Errorf("core: script step %d: bad repeat %q", i+1, n)
			}
			step, count = strings.TrimSpace(body), c
		}

		var actions []Action
		for _, name := range strings.Split(step, "+") {
			a, ok := ParseAction(strings.TrimSpace(name))
			if !ok {
				return nil, fmt.Errorf("core: script step %d: unknown action %q", i+1, name)
			}
			actions = append(actions, a)
		}
		for range count {
			frames = append(frames, InputOf(actions...))
		}
	}
	return frames, nil
}
