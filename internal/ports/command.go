package ports

import (
	"context"

	"wpm/internal/types"
)

// CommandRunnerPort runs external programs and captures their output
// wholesale. A non-zero exit status is reported in the result, not as an
// error; the error is reserved for programs that could not be started.
type CommandRunnerPort interface {
	Run(ctx context.Context, dir string, name string, args ...string) (types.CommandResult, error)
}
