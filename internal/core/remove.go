package core

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
)

const (
	removalPollInterval = 100 * time.Millisecond
	removalPollAttempts = 10
)

// RemoveFolder deletes path recursively and waits until the filesystem
// no longer reports it. The returned error matches ErrRemovalFailed.
func RemoveFolder(ctx context.Context, path string) error {
	if err := os.RemoveAll(path); err != nil {
		return removalError(path, err)
	}
	for attempt := 0; attempt < removalPollAttempts; attempt++ {
		if _, err := os.Lstat(path); os.IsNotExist(err) {
			return nil
		}
		log.Ctx(ctx).Debug().Str("path", path).Int("attempt", attempt).Msg("waiting for folder removal")
		select {
		case <-ctx.Done():
			return removalError(path, ctx.Err())
		case <-time.After(removalPollInterval):
		}
	}
	return removalError(path, fmt.Errorf("%s still exists", path))
}

func removalError(path string, cause error) error {
	return fmt.Errorf("%w: %w", ErrRemovalFailed, errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg(fmt.Sprintf("failed to remove %s", path)).
		WithCause(cause))
}
