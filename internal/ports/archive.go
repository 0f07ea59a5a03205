package ports

import "context"

// ArchivePort downloads a zip archive and unpacks it into destDir.
type ArchivePort interface {
	FetchAndExtract(ctx context.Context, url string, destDir string) error
}
