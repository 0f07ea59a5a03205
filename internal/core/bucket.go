package core

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// PropertySource is the outermost property layer: workspace-wide
// properties plus whatever the secrets capability can resolve.
type PropertySource interface {
	Property(key string) (string, bool)
	Properties() map[string]string
	FetchProperties(keys []string) map[string]string
}

// Bucket is one scope of the definition hierarchy: a bucket directory or
// a definition file. Scopes are owned by the loader's stack; parent is a
// plain back reference.
type Bucket struct {
	folder string
	file   string
	parent *Bucket
	source PropertySource
	props  map[string]string
}

// NewBucket opens a scope for a directory (file empty) or a definition
// file.
func NewBucket(parent *Bucket, source PropertySource, absPath string, isDir bool) *Bucket {
	b := &Bucket{parent: parent, source: source}
	if isDir {
		b.folder = absPath
	} else {
		b.folder = filepath.Dir(absPath)
		b.file = absPath
	}
	return b
}

func (b *Bucket) Folder() string { return b.folder }

func (b *Bucket) SourceFile() string { return b.file }

func (b *Bucket) Parent() *Bucket { return b.parent }

// Location is the file that defined this scope, or its folder for pure
// directory buckets.
func (b *Bucket) Location() string {
	if b.file != "" {
		return b.file
	}
	return b.folder
}

// Get returns the nearest definition of key, walking up the parent chain
// and finally into the workspace properties.
func (b *Bucket) Get(key string) (string, bool) {
	for scope := b; scope != nil; scope = scope.parent {
		if value, ok := scope.props[key]; ok {
			return value, true
		}
	}
	if b.source != nil {
		return b.source.Property(key)
	}
	return "", false
}

func (b *Bucket) Has(key string) bool {
	_, ok := b.Get(key)
	return ok
}

// Set only touches this scope.
func (b *Bucket) Set(key string, value any) {
	if b.props == nil {
		b.props = map[string]string{}
	}
	b.props[key] = stringify(value)
}

// SetAll seeds this scope in bulk, as done by a ".bucket" record.
func (b *Bucket) SetAll(values map[string]any) {
	for key, value := range values {
		b.Set(key, value)
	}
}

// Flatten merges workspace properties, then ancestors from the root down,
// then this scope. Nearer scopes win.
func (b *Bucket) Flatten() map[string]string {
	out := map[string]string{}
	if b.source != nil {
		for k, v := range b.source.Properties() {
			out[k] = v
		}
	}
	var chain []*Bucket
	for scope := b; scope != nil; scope = scope.parent {
		chain = append(chain, scope)
	}
	for i := len(chain) - 1; i >= 0; i-- {
		for k, v := range chain[i].props {
			out[k] = v
		}
	}
	return out
}

// Expand substitutes every {key} in template. Secret values fetched from
// the property source override the flattened view.
func (b *Bucket) Expand(template string) (string, error) {
	props := b.Flatten()
	if b.source != nil {
		keys := referencedKeys(template)
		for k := range props {
			keys = append(keys, k)
		}
		for k, v := range b.source.FetchProperties(uniqueSorted(keys)) {
			props[k] = v
		}
	}
	return ExpandTemplate(template, props)
}

// ExpandTemplate replaces {key} markers with values from props. "{{" and
// "}}" are literal braces; any other unmatched brace is an error.
func ExpandTemplate(template string, props map[string]string) (string, error) {
	parts, err := parseTemplate(template)
	if err != nil {
		return "", err
	}
	var out strings.Builder
	for _, part := range parts {
		if !part.key {
			out.WriteString(part.text)
			continue
		}
		value, ok := props[part.text]
		if !ok {
			return "", &MissingPropertyError{Key: part.text, Template: template}
		}
		out.WriteString(value)
	}
	return out.String(), nil
}

type templatePart struct {
	text string
	key  bool
}

func parseTemplate(template string) ([]templatePart, error) {
	var (
		parts []templatePart
		lit   strings.Builder
	)
	flush := func() {
		if lit.Len() > 0 {
			parts = append(parts, templatePart{text: lit.String()})
			lit.Reset()
		}
	}
	for i := 0; i < len(template); i++ {
		c := template[i]
		doubled := i+1 < len(template) && template[i+1] == c
		switch {
		case (c == '{' || c == '}') && doubled:
			lit.WriteByte(c)
			i++
		case c == '{':
			end := strings.IndexAny(template[i+1:], "{}")
			if end <= 0 || template[i+1+end] != '}' {
				return nil, unbalancedBrace(template, i)
			}
			flush()
			parts = append(parts, templatePart{text: template[i+1 : i+1+end], key: true})
			i += end + 1
		case c == '}':
			return nil, unbalancedBrace(template, i)
		default:
			lit.WriteByte(c)
		}
	}
	flush()
	return parts, nil
}

func unbalancedBrace(template string, offset int) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("unbalanced brace at offset %d in string %q", offset, template))
}

// referencedKeys lists the keys of a well-formed template. Malformed ones
// yield nothing; expansion reports the error.
func referencedKeys(template string) []string {
	parts, err := parseTemplate(template)
	if err != nil {
		return nil
	}
	var keys []string
	for _, part := range parts {
		if part.key {
			keys = append(keys, part.text)
		}
	}
	return keys
}

func uniqueSorted(keys []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
