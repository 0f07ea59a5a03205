package adapters

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"wpm/internal/ports"
	"wpm/internal/types"
)

// ActionsFileName is looked up at the root of every installed package.
const ActionsFileName = "wpm-actions.yaml"

type ActionsFileAdapter struct{}

func NewActionsFileAdapter() ActionsFileAdapter {
	return ActionsFileAdapter{}
}

func (a ActionsFileAdapter) LoadActions(installPath string) (types.PackageActions, bool, error) {
	path := filepath.Join(installPath, ActionsFileName)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return types.PackageActions{}, false, nil
	}
	if err != nil {
		return types.PackageActions{}, false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read actions file").
			WithCause(err)
	}
	var actions types.PackageActions
	if err := yaml.Unmarshal(data, &actions); err != nil {
		return types.PackageActions{}, false, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse actions yaml " + path).
			WithCause(err)
	}
	return actions, true, nil
}

var _ ports.ActionsPort = ActionsFileAdapter{}
