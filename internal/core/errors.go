package core

import (
	"errors"
	"fmt"
)

// MissingPropertyError reports a template key that no scope defines.
type MissingPropertyError struct {
	Key      string
	Template string
}

func (e *MissingPropertyError) Error() string {
	return fmt.Sprintf("missing key %s in string %q", e.Key, e.Template)
}

// ErrRemovalFailed marks an install directory the filesystem refused to
// delete. Callers stop rather than continue on a half-removed workspace.
var ErrRemovalFailed = errors.New("failed to remove folder")
