package adapters

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"wpm/internal/ports"
)

// HTTPArchiveInstaller downloads a zip next to its destination, unpacks it
// in place and deletes the download.
type HTTPArchiveInstaller struct {
	Client *http.Client
}

func NewHTTPArchiveInstaller() HTTPArchiveInstaller {
	return HTTPArchiveInstaller{Client: http.DefaultClient}
}

func (a HTTPArchiveInstaller) FetchAndExtract(ctx context.Context, url string, destDir string) error {
	tmp, err := os.CreateTemp(destDir, ".wpm-download-*.zip")
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create temporary archive").
			WithCause(err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := a.download(ctx, url, tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write temporary archive").
			WithCause(err)
	}
	log.Ctx(ctx).Debug().Str("archive", tmpPath).Str("dest", destDir).Msg("extracting archive")
	return extractZip(tmpPath, destDir)
}

func (a HTTPArchiveInstaller) download(ctx context.Context, url string, out io.Writer) error {
	client := a.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid archive url").
			WithCause(err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to download archive").
			WithCause(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("archive download returned HTTP %d", resp.StatusCode))
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read archive").
			WithCause(err)
	}
	return nil
}

func extractZip(archive string, destDir string) error {
	reader, err := zip.OpenReader(archive)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("downloaded file is not a zip archive").
			WithCause(err)
	}
	defer reader.Close()

	root, err := filepath.Abs(destDir)
	if err != nil {
		return err
	}
	for _, file := range reader.File {
		target := filepath.Join(root, filepath.FromSlash(file.Name))
		if target != root && !strings.HasPrefix(target, root+string(filepath.Separator)) {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("archive entry %s escapes the destination", file.Name))
		}
		if err := extractFile(file, target); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg(fmt.Sprintf("failed to extract %s", file.Name)).
				WithCause(err)
		}
	}
	return nil
}

func extractFile(file *zip.File, target string) error {
	if file.FileInfo().IsDir() {
		return os.MkdirAll(target, 0o755)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()
	mode := file.Mode().Perm()
	if mode == 0 {
		mode = 0o644
	}
	dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}

var _ ports.ArchivePort = HTTPArchiveInstaller{}
