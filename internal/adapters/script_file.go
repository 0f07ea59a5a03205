package adapters

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"wpm/internal/ports"
	"wpm/internal/types"
)

// ScriptFileAdapter compiles YAML definition scripts: ordered lists of
// builder steps.
type ScriptFileAdapter struct{}

func NewScriptFileAdapter() ScriptFileAdapter {
	return ScriptFileAdapter{}
}

func (a ScriptFileAdapter) Extensions() []string {
	return []string{".yaml", ".yml"}
}

func (a ScriptFileAdapter) LoadScript(path string) (ports.DefinitionScript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("definition script not found").
			WithCause(err)
	}
	var steps []types.ScriptStep
	if err := yaml.Unmarshal(data, &steps); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse definition script yaml").
			WithCause(err)
	}
	for i, step := range steps {
		if err := validateStep(step); err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("step %d of %s: %s", i+1, path, err.Error()))
		}
	}
	return func(ctx context.Context, builder ports.DefinitionBuilder) error {
		for _, step := range steps {
			if err := runStep(ctx, builder, step); err != nil {
				return err
			}
		}
		return nil
	}, nil
}

func validateStep(step types.ScriptStep) error {
	count := 0
	if step.Set != nil {
		count++
	}
	for _, entry := range []*types.ScriptEntry{step.Git, step.Zip, step.Local} {
		if entry == nil {
			continue
		}
		count++
		if entry.Name == "" {
			return fmt.Errorf("package name is required")
		}
	}
	if step.Bucket != "" {
		count++
	}
	if step.RemoteBucket != nil {
		count++
		if step.RemoteBucket.Name == "" || step.RemoteBucket.URL == "" {
			return fmt.Errorf("remote-bucket needs name and url")
		}
	}
	if count != 1 {
		return fmt.Errorf("expected exactly one action, got %d", count)
	}
	return nil
}

func runStep(ctx context.Context, builder ports.DefinitionBuilder, step types.ScriptStep) error {
	switch {
	case step.Set != nil:
		keys := make([]string, 0, len(step.Set))
		for key := range step.Set {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			builder.Set(ctx, key, step.Set[key])
		}
		return nil
	case step.Git != nil:
		git, err := builder.AddGit(ctx, step.Git.Name, step.Git.URL)
		if err != nil {
			return err
		}
		if step.Git.Branch != "" {
			git = git.Branch(step.Git.Branch)
		}
		if step.Git.Freeze != "" {
			git = git.Freeze(step.Git.Freeze)
		}
		if step.Git.User != "" {
			git = git.UserName(step.Git.User)
		}
		if step.Git.Email != "" {
			git = git.UserEmail(step.Git.Email)
		}
		if step.Git.LFS {
			git.LFS(true)
		}
		return nil
	case step.Zip != nil:
		return builder.AddZip(ctx, step.Zip.Name, step.Zip.URL)
	case step.Local != nil:
		return builder.AddLocal(ctx, step.Local.Name)
	case step.Bucket != "":
		return builder.AddBucket(ctx, step.Bucket)
	case step.RemoteBucket != nil:
		remote := step.RemoteBucket
		return builder.AddRemoteBucket(ctx, remote.Unless, remote.Name, remote.URL, remote.Path)
	}
	return nil
}

var _ ports.ScriptLoaderPort = ScriptFileAdapter{}
