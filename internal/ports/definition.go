package ports

import "context"

// GitEntryBuilder tweaks a git entry right after it was declared.
type GitEntryBuilder interface {
	Branch(name string) GitEntryBuilder
	Freeze(rev string) GitEntryBuilder
	UserName(name string) GitEntryBuilder
	UserEmail(email string) GitEntryBuilder
	LFS(enabled bool) GitEntryBuilder
}

// DefinitionBuilder is handed to scripted definitions. Every call acts on
// the scope of the script being loaded.
type DefinitionBuilder interface {
	Set(ctx context.Context, key string, value any)
	AddGit(ctx context.Context, name string, params any) (GitEntryBuilder, error)
	AddZip(ctx context.Context, name string, params any) error
	AddLocal(ctx context.Context, name string) error
	AddBucket(ctx context.Context, relPath string) error
	AddRemoteBucket(ctx context.Context, propertyCheck string, name string, url string, installPath string) error
}

// DefinitionScript is the body of a scripted definition file.
type DefinitionScript func(ctx context.Context, builder DefinitionBuilder) error

// ScriptLoaderPort compiles a definition file into a script.
type ScriptLoaderPort interface {
	Extensions() []string
	LoadScript(path string) (DefinitionScript, error)
}
