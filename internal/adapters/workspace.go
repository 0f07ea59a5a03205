package adapters

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"wpm/internal/ports"
)

const (
	stateDirName   = ".wpm"
	configFileName = "config.json"
)

type WorkspaceAdapter struct{}

func NewWorkspaceAdapter() WorkspaceAdapter {
	return WorkspaceAdapter{}
}

// LoadProperties reads <workspace>/.wpm/config.json. A missing file means
// no global properties.
func (a WorkspaceAdapter) LoadProperties(workspace string) (map[string]string, error) {
	if workspace == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("workspace root is empty")
	}
	path := filepath.Join(workspace, stateDirName, configFileName)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read workspace config").
			WithCause(err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("malformed workspace config %s", path)).
			WithCause(err)
	}
	props := make(map[string]string, len(raw))
	for key, value := range raw {
		props[key] = propertyString(value)
	}
	return props, nil
}

func propertyString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64, bool:
		return fmt.Sprint(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(data)
	}
}

func (a WorkspaceAdapter) EnsureStateDir(workspace string) error {
	if err := os.MkdirAll(filepath.Join(workspace, stateDirName), 0o755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create workspace state folder").
			WithCause(err)
	}
	return nil
}

// ListEntries returns the names of everything directly under the
// workspace, sorted.
func (a WorkspaceAdapter) ListEntries(workspace string) ([]string, error) {
	items, err := os.ReadDir(workspace)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to scan workspace").
			WithCause(err)
	}
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name())
	}
	sort.Strings(names)
	return names, nil
}

// FindWorkspaceRoot returns the nearest ancestor of start, start included,
// that holds a .wpm folder.
func FindWorkspaceRoot(start string) (string, bool) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false
	}
	for {
		info, err := os.Stat(filepath.Join(dir, stateDirName))
		if err == nil && info.IsDir() {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

var _ ports.WorkspacePort = WorkspaceAdapter{}
