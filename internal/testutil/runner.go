package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/nickyball/cli/internal/tools"
)

// Call records one FakeRunner.Run invocation.
type Call struct {
	Name string
	Args []string
	Opts tools.RunOpts
}

// String renders the call as "name arg1 arg2".
func (c Call) String() string {
	return strings.TrimSpace(filepath.Base(c.Name) + " " + strings.Join(c.Args, " "))
}

// FakeResponse is the canned outcome of a command.
type FakeResponse struct {
	Result tools.CmdResult
	Err    error
}

// FakeRunner is a tools.CommandRunner that records calls and returns
// canned responses keyed by Call.String(). Unknown commands succeed.
type FakeRunner struct {
	mu sync.Mutex

	// Responses maps "git commit -m msg" style keys to outcomes.
	Responses map[string]FakeResponse

	// Missing lists binaries LookPath must not find.
	Missing map[string]bool

	// Calls is every Run invocation in order.
	Calls []Call
}

// NewFakeRunner creates a FakeRunner where every command succeeds.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		Responses: make(map[string]FakeResponse),
		Missing:   make(map[string]bool),
	}
}

// On registers the response for a command key.
func (f *FakeRunner) On(key string, resp FakeResponse) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Responses[key] = resp
	return f
}

// LookPath implements tools.CommandRunner.
func (f *FakeRunner) LookPath(name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Missing[name] {
		return "", fmt.Errorf("exec: %q: executable file not found in $PATH", name)
	}
	return "/usr/bin/" + name, nil
}

// Run implements tools.CommandRunner.
func (f *FakeRunner) Run(ctx context.Context, name string, args []string, opts tools.RunOpts) (tools.CmdResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	call := Call{Name: name, Args: append([]string(nil), args...), Opts: opts}
	f.Calls = append(f.Calls, call)

	if err := ctx.Err(); err != nil {
		return tools.CmdResult{}, err
	}

	if resp, ok := f.Responses[call.String()]; ok {
		return resp.Result, resp.Err
	}
	return tools.CmdResult{}, nil
}

// Commands returns the recorded calls as strings.
func (f *FakeRunner) Commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.Calls))
	for i, c := range f.Calls {
		out[i] = c.String()
	}
	return out
}
