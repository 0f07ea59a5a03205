package types

// PackageActions is the optional post-install description shipped inside
// an installed package.
type PackageActions struct {
	Dependencies []string `yaml:"dependencies"`
	Install      []string `yaml:"install"`
}
