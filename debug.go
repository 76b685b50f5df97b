package o2

import (
	"fmt"
	"os"
	"time"
)

// debugStats holds per-frame timing. Only populated when Scene.debug is
// true.
type debugStats struct {
	inputTime   time.Duration
	treeTime    time.Duration
	handleTime  time.Duration
	handleCount int
}

// debugLog prints frame stats to stderr.
func (s *Scene) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	total := stats.inputTime + stats.treeTime + stats.handleTime
	_, _ = fmt.Fprintf(os.Stderr,
		"[o2] input: %v | tree: %v | handles: %v | total: %v\n",
		stats.inputTime, stats.treeTime, stats.handleTime, total)
	_, _ = fmt.Fprintf(os.Stderr,
		"[o2] widgets: %d | handles: %d\n",
		countWidgets(s.root), stats.handleCount)
}

func countWidgets(w *Widget) int {
	n := 1
	for _, c := range w.children {
		n += countWidgets(c)
	}
	return n
}

// debugCheckDisposed panics with a descriptive message when a disposed
// widget is used in a tree operation. Only called in debug mode.
func debugCheckDisposed(w *Widget, op string) {
	if w.disposed {
		panic(fmt.Sprintf("o2 debug: %s on disposed widget %q (ID was %d)", op, w.Name, w.ID))
	}
}

// debugCheckTreeDepth warns on stderr if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(w *Widget) {
	depth := 0
	for p := w; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		_, _ = fmt.Fprintf(os.Stderr, "[o2] warning: tree depth %d exceeds %d (widget %q)\n",
			depth, debugMaxTreeDepth, w.Name)
	}
}

// debugCheckChildCount warns on stderr if a widget has more than 1000
// children.
const debugMaxChildCount = 1000

func debugCheckChildCount(w *Widget) {
	if len(w.children) > debugMaxChildCount {
		_, _ = fmt.Fprintf(os.Stderr, "[o2] warning: widget %q has %d children (threshold %d)\n",
			w.Name, len(w.children), debugMaxChildCount)
	}
}
