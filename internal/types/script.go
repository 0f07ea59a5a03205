package types

// ScriptStep is one builder call of a YAML definition script. Exactly one
// field is set per step.
type ScriptStep struct {
	Set          map[string]any `yaml:"set,omitempty"`
	Git          *ScriptEntry   `yaml:"git,omitempty"`
	Zip          *ScriptEntry   `yaml:"zip,omitempty"`
	Local        *ScriptEntry   `yaml:"local,omitempty"`
	Bucket       string         `yaml:"bucket,omitempty"`
	RemoteBucket *ScriptRemote  `yaml:"remote-bucket,omitempty"`
}

type ScriptEntry struct {
	Name   string `yaml:"name"`
	URL    string `yaml:"url"`
	Branch string `yaml:"branch,omitempty"`
	Freeze string `yaml:"freeze,omitempty"`
	User   string `yaml:"user,omitempty"`
	Email  string `yaml:"email,omitempty"`
	LFS    bool   `yaml:"lfs,omitempty"`
}

type ScriptRemote struct {
	Name   string `yaml:"name"`
	URL    string `yaml:"url"`
	Path   string `yaml:"path,omitempty"`
	Unless string `yaml:"unless,omitempty"`
}
