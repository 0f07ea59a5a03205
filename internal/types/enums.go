package types

type EntryKind string

const (
	EntryKindGit   EntryKind = "git"
	EntryKindLocal EntryKind = "local"
	EntryKindZip   EntryKind = "zip"
)

// StatusMarker is the single character shown in front of a package in
// status listings.
type StatusMarker string

const (
	MarkerClean     StatusMarker = " "
	MarkerDirty     StatusMarker = "*"
	MarkerDiverged  StatusMarker = "!"
	MarkerUntracked StatusMarker = "?"
)

const (
	StatusLabelOK    = "ok"
	StatusLabelDirty = "DIRTY"
	StatusLabelView  = "VIEW"
)

const DefaultBranch = "master"
