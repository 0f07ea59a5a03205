package core

import (
	"context"
	"os"
	"strings"

	"wpm/internal/types"
)

type recordedCall struct {
	Dir  string
	Args []string
}

func (c recordedCall) String() string {
	return strings.Join(c.Args, " ")
}

// fakeRunner records every invocation. handle may shape the result; the
// default is a silent success.
type fakeRunner struct {
	calls  []recordedCall
	handle func(dir string, args []string) types.CommandResult
}

func (f *fakeRunner) Run(_ context.Context, dir string, name string, args ...string) (types.CommandResult, error) {
	call := append([]string{name}, args...)
	f.calls = append(f.calls, recordedCall{Dir: dir, Args: call})
	if f.handle != nil {
		return f.handle(dir, call), nil
	}
	return types.CommandResult{}, nil
}

func (f *fakeRunner) commands() []string {
	out := make([]string, 0, len(f.calls))
	for _, call := range f.calls {
		out = append(out, call.String())
	}
	return out
}

// cloneCreatesPath makes "git clone URL PATH" create PATH.
func cloneCreatesPath(dir string, args []string) types.CommandResult {
	if len(args) >= 4 && args[0] == "git" && args[1] == "clone" {
		if err := os.MkdirAll(args[3], 0o755); err != nil {
			return types.CommandResult{ExitCode: 128, Stderr: err.Error()}
		}
	}
	return types.CommandResult{}
}

type fakeActions struct {
	byPath map[string]types.PackageActions
	loads  int
}

func (f *fakeActions) LoadActions(installPath string) (types.PackageActions, bool, error) {
	f.loads++
	actions, ok := f.byPath[installPath]
	return actions, ok, nil
}

type fakeSecrets struct {
	values  map[string]string
	queried []string
}

func (f *fakeSecrets) Query(keys []string) (map[string]string, error) {
	f.queried = append(f.queried, keys...)
	out := map[string]string{}
	for _, key := range keys {
		if value, ok := f.values[key]; ok {
			out[key] = value
		}
	}
	return out, nil
}
