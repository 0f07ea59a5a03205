package types

type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

func (r CommandResult) OK() bool {
	return r.ExitCode == 0
}
