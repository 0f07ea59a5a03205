package ports

import "wpm/internal/types"

// ActionsPort loads the post-install actions of an installed package.
// The boolean is false when the package ships no actions file.
type ActionsPort interface {
	LoadActions(installPath string) (types.PackageActions, bool, error)
}
