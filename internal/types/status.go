package types

type PackageStatus struct {
	Marker    StatusMarker
	Status    string
	Info      string
	Updatable bool
}

// GitState is the raw repository state the status is derived from. Hash
// and Delta stay empty in fast mode.
type GitState struct {
	Branch string
	Hash   string
	Dirty  bool
	Delta  string
	Fast   bool
}
