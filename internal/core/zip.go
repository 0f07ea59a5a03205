package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
)

const zipStagingPattern = ".wpm-unpack-*"

// installZip unpacks the archive into a staging folder inside the
// workspace and moves the top-level folder named after the package into
// place. Nothing is left behind when any step fails.
func (e *Entry) installZip(ctx context.Context, workspace string) error {
	url, err := e.ExpandURL()
	if err != nil {
		return err
	}
	if e.tools == nil || e.tools.Archives == nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("no archive installer configured")
	}
	if err := os.MkdirAll(workspace, 0o755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create workspace folder").
			WithCause(err)
	}
	staging, err := os.MkdirTemp(workspace, zipStagingPattern)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create staging folder").
			WithCause(err)
	}
	defer func() {
		if err := os.RemoveAll(staging); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("path", staging).Msg("failed to clean up staging folder")
		}
	}()

	if err := e.tools.Archives.FetchAndExtract(ctx, url, staging); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to install %s", e.name)).
			WithCause(err)
	}
	unpacked := filepath.Join(staging, e.name)
	if info, err := os.Stat(unpacked); err != nil || !info.IsDir() {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("archive of %s has no top-level folder %s", e.name, e.name))
	}
	if err := os.Rename(unpacked, e.InstallPath(workspace)); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to move %s into place", e.name)).
			WithCause(err)
	}
	return nil
}
