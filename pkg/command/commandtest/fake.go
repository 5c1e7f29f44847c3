// Package commandtest provides a scripted command.Executor for tests.
package commandtest

import (
	"context"
	"strings"
	"sync"

	"github.com/hoppxi/lightroom/pkg/command"
)

// Response is what Fake returns for one command line.
type Response struct {
	Result command.Result
	Err    error
}

// Fake answers Run calls from a table keyed by the joined command line
// ("xrandr --verbose") and records every Run and Start.
type Fake struct {
	Responses map[string]Response
	StartErr  error

	mu      sync.Mutex
	runs    []string
	started [][]string
}

func key(name string, args []string) string {
	return strings.Join(append([]string{name}, args...), " ")
}

func (f *Fake) Run(ctx context.Context, name string, args ...string) (command.Result, error) {
	k := key(name, args)

	f.mu.Lock()
	f.runs = append(f.runs, k)
	f.mu.Unlock()

	r, ok := f.Responses[k]
	if !ok {
		return command.Result{}, &NotScriptedError{Command: k}
	}
	return r.Result, r.Err
}

func (f *Fake) Start(name string, args ...string) error {
	if f.StartErr != nil {
		return f.StartErr
	}

	f.mu.Lock()
	f.started = append(f.started, append([]string{name}, args...))
	f.mu.Unlock()
	return nil
}

// Runs returns the command lines passed to Run, in order.
func (f *Fake) Runs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.runs...)
}

// Started returns the argv of every successful Start, in order.
func (f *Fake) Started() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]string(nil), f.started...)
}

type NotScriptedError struct {
	Command string
}

func (e *NotScriptedError) Error() string {
	return "commandtest: no response for " + e.Command
}
