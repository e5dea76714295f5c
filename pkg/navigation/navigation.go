// Package navigation provides navigators for the hosted form and the CLI.
package navigation

import (
	"context"
	"fmt"
	"io"
	"sync"

	"agentconsole/pkg/interfaces"
	"agentconsole/pkg/logger"
)

// Recorder remembers the last requested path
type Recorder struct {
	mu   sync.Mutex
	path string
}

var _ interfaces.Navigator = (*Recorder)(nil)

func (r *Recorder) NavigateTo(ctx context.Context, path string) {
	r.mu.Lock()
	r.path = path
	r.mu.Unlock()
	logger.DebugCtx(ctx, "navigate to %s", path)
}

// Path returns the last requested path, or "" when navigation never happened
func (r *Recorder) Path() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.path
}

// Printer writes navigation targets to w
type Printer struct {
	w io.Writer
}

var _ interfaces.Navigator = (*Printer)(nil)

func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) NavigateTo(_ context.Context, path string) {
	fmt.Fprintf(p.w, "→ %s\n", path)
}
