package adapters

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"wpm/internal/ports"
	"wpm/internal/shared"
	"wpm/internal/types"
)

// ExecCommandRunner runs programs through os/exec. Git never prompts for
// credentials; a missing credential is a failed command.
type ExecCommandRunner struct {
	Env []string
}

func NewExecCommandRunner() ExecCommandRunner {
	return ExecCommandRunner{Env: []string{"GIT_TERMINAL_PROMPT=0"}}
}

func (r ExecCommandRunner) Run(ctx context.Context, dir string, name string, args ...string) (types.CommandResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), r.Env...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := types.CommandResult{Stdout: stdout.String(), Stderr: stderr.String()}
	log.Ctx(ctx).Debug().Str("dir", dir).Str("cmd", name).Strs("args", args).Msg("command finished")
	if err == nil {
		return result, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}
	return result, errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg("failed to run " + name).
		WithCause(shared.CommandError(stderr.Bytes(), err))
}

var _ ports.CommandRunnerPort = ExecCommandRunner{}
