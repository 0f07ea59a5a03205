package types

// GitModel holds the fields of a git backed package. URL is a template
// that is expanded against the owning bucket before use.
type GitModel struct {
	URL          string
	ActiveBranch string
	Locked       string
	WithLFS      bool
	UserName     string
	UserEmail    string
}

// CheckoutRef returns the reference that install and update move to.
func (m GitModel) CheckoutRef() string {
	if m.Locked != "" {
		return m.Locked
	}
	return m.ActiveBranch
}

type ArchiveModel struct {
	URL string
}

// GitRecord is the structured form of a git definition, shared by JSON
// definitions and YAML scripts.
type GitRecord struct {
	Class  string `json:"class" yaml:"class"`
	URL    string `json:"url" yaml:"url"`
	Branch string `json:"active-branch" yaml:"active-branch"`
	Locked string `json:"locked" yaml:"locked"`
	LFS    bool   `json:"lfs" yaml:"lfs"`
	User   string `json:"user" yaml:"user"`
	Email  string `json:"email" yaml:"email"`
}
