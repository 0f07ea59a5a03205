package core

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"wpm/internal/ports"
	"wpm/internal/types"
	"wpm/internal/ui"
)

const bucketPropertiesKey = ".bucket"

// Loader walks bucket directories and definition files and fills a
// Database. Traversal is sequential and depth first; the scope stack
// mirrors the nesting of the files currently being processed.
type Loader struct {
	db      *Database
	tools   *Toolkit
	scripts ports.ScriptLoaderPort
	printer *ui.Printer
	stack   []*Bucket
}

func NewLoader(db *Database, tools *Toolkit, scripts ports.ScriptLoaderPort, printer *ui.Printer) *Loader {
	return &Loader{db: db, tools: tools, scripts: scripts, printer: printer}
}

func (l *Loader) Database() *Database {
	return l.db
}

// Active is the innermost open scope, nil at the root.
func (l *Loader) Active() *Bucket {
	if len(l.stack) == 0 {
		return nil
	}
	return l.stack[len(l.stack)-1]
}

// enter opens a scope for path. It reports false when the path was
// already processed during this load.
func (l *Loader) enter(path string, isDir bool) bool {
	if !l.db.AddDefinition(path) {
		return false
	}
	l.stack = append(l.stack, NewBucket(l.Active(), l.db, path, isDir))
	return true
}

func (l *Loader) leave() {
	if len(l.stack) > 0 {
		l.stack = l.stack[:len(l.stack)-1]
	}
}

// LoadBucketList loads every search location in order. Missing locations
// are reported and skipped.
func (l *Loader) LoadBucketList(ctx context.Context, paths []string) error {
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("invalid search location %s", path)).
				WithCause(err)
		}
		info, err := os.Stat(abs)
		if err != nil || !info.IsDir() {
			l.printer.Warn("-- search location not found: %s", abs)
			log.Ctx(ctx).Warn().Str("path", abs).Msg("search location is not a directory")
			continue
		}
		start := time.Now()
		l.printer.Step("loading", abs, "")
		before := l.db.Len()
		if err := l.LoadBucket(ctx, abs); err != nil {
			l.printer.Failed(start, err)
			return err
		}
		l.printer.Linef("   %s", l.printer.F(ui.StyleBucket, fmt.Sprintf("%d package(s) found", l.db.Len()-before)))
		l.printer.Done(start)
	}
	return nil
}

func isIgnoredName(name string) bool {
	return strings.HasPrefix(name, ".") || name == "__pycache__"
}

// LoadBucket processes a bucket directory. Sub-directories are only
// entered through explicit bucket references.
func (l *Loader) LoadBucket(ctx context.Context, path string) error {
	if !l.enter(path, true) {
		log.Ctx(ctx).Debug().Str("path", path).Msg("bucket already loaded")
		return nil
	}
	defer l.leave()

	items, err := os.ReadDir(path)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("failed to read bucket %s", path)).
			WithCause(err)
	}
	for _, item := range items {
		if isIgnoredName(item.Name()) || item.IsDir() {
			continue
		}
		if err := l.loadFile(ctx, filepath.Join(path, item.Name())); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) loadFile(ctx context.Context, path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".json" {
		return l.LoadJSON(ctx, path)
	}
	if l.scripts != nil {
		for _, scriptExt := range l.scripts.Extensions() {
			if ext == scriptExt {
				return l.LoadScript(ctx, path)
			}
		}
	}
	log.Ctx(ctx).Debug().Str("path", path).Msg("skipping non definition file")
	return nil
}

// LoadJSON reads a JSON definition: ".bucket" seeds the scope, every other
// key declares one package.
func (l *Loader) LoadJSON(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("failed to read definition %s", path)).
			WithCause(err)
	}
	var record map[string]any
	if err := json.Unmarshal(data, &record); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("malformed definition %s", path)).
			WithCause(err)
	}
	if !l.enter(path, false) {
		log.Ctx(ctx).Debug().Str("path", path).Msg("definition already loaded")
		return nil
	}
	defer l.leave()

	if props, ok := record[bucketPropertiesKey].(map[string]any); ok {
		l.Active().SetAll(props)
	}
	names := make([]string, 0, len(record))
	for name := range record {
		if strings.HasPrefix(name, ".") {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := l.addRecord(ctx, name, record[name]); err != nil {
			return err
		}
	}
	return nil
}

// addRecord turns one JSON value into an entry. A bare string is a git
// URL; records pick their kind through "class".
func (l *Loader) addRecord(ctx context.Context, name string, raw any) (*Entry, error) {
	kind := types.EntryKindGit
	if record, ok := raw.(map[string]any); ok {
		class, _ := record["class"].(string)
		if class == "" {
			l.discard(ctx, name, "missing class")
			return nil, nil
		}
		kind = types.EntryKind(class)
	}
	return l.AddEntry(ctx, kind, name, raw)
}

// AddEntry declares a package in the active scope. Entries that fail to
// deserialize are dropped with a warning; duplicates are fatal.
func (l *Loader) AddEntry(ctx context.Context, kind types.EntryKind, name string, raw any) (*Entry, error) {
	entry, err := NewEntry(ctx, kind, name, l.Active(), l.tools)
	if err != nil {
		l.discard(ctx, name, err.Error())
		return nil, nil
	}
	if !entry.Deserialize(raw) {
		l.discard(ctx, name, "invalid "+string(kind)+" record")
		return nil, nil
	}
	if err := l.db.AddPackage(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (l *Loader) discard(ctx context.Context, name string, reason string) {
	location := ""
	if active := l.Active(); active != nil {
		location = active.Location()
	}
	l.printer.Warn("-- dropped package %s (%s) in %s", name, reason, location)
	log.Ctx(ctx).Warn().Str("package", name).Str("definition", location).Str("reason", reason).Msg("dropped package")
}

// LoadScript compiles a scripted definition and runs it in its own scope.
func (l *Loader) LoadScript(ctx context.Context, path string) error {
	script, err := l.scripts.LoadScript(path)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid definition script %s", path)).
			WithCause(err)
	}
	return l.LoadScriptFunc(ctx, path, script)
}

// LoadScriptFunc runs script as if it had been read from path.
func (l *Loader) LoadScriptFunc(ctx context.Context, path string, script ports.DefinitionScript) error {
	if !l.enter(path, false) {
		log.Ctx(ctx).Debug().Str("path", path).Msg("definition already loaded")
		return nil
	}
	defer l.leave()
	return script(ctx, l)
}

func (l *Loader) Set(ctx context.Context, key string, value any) {
	if active := l.Active(); active != nil {
		active.Set(key, value)
		log.Ctx(ctx).Debug().Str("key", key).Str("definition", active.Location()).Msg("property set")
	}
}

func (l *Loader) AddGit(ctx context.Context, name string, params any) (ports.GitEntryBuilder, error) {
	entry, err := l.AddEntry(ctx, types.EntryKindGit, name, params)
	if err != nil {
		return nil, err
	}
	return gitEntryBuilder{entry: entry}, nil
}

func (l *Loader) AddZip(ctx context.Context, name string, params any) error {
	_, err := l.AddEntry(ctx, types.EntryKindZip, name, params)
	return err
}

func (l *Loader) AddLocal(ctx context.Context, name string) error {
	_, err := l.AddEntry(ctx, types.EntryKindLocal, name, name)
	return err
}

// AddBucket loads relPath, relative to the active scope's folder, as a
// bucket directory or a single definition file.
func (l *Loader) AddBucket(ctx context.Context, relPath string) error {
	path := l.resolve(relPath)
	info, err := os.Stat(path)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("bucket %s not found", path)).
			WithCause(err)
	}
	if info.IsDir() {
		return l.LoadBucket(ctx, path)
	}
	return l.loadFile(ctx, path)
}

// AddRemoteBucket clones a bucket repository next to the active scope
// unless propertyCheck names a defined property, then loads it. The clone
// is not registered as a package.
func (l *Loader) AddRemoteBucket(ctx context.Context, propertyCheck string, name string, url string, installPath string) error {
	active := l.Active()
	if propertyCheck != "" && active != nil && active.Has(propertyCheck) {
		log.Ctx(ctx).Debug().Str("bucket", name).Str("property", propertyCheck).Msg("remote bucket disabled by property")
		return nil
	}
	parent := l.resolve(installPath)
	entry, err := NewEntry(ctx, types.EntryKindGit, name, active, l.tools)
	if err != nil {
		return err
	}
	if !entry.Deserialize(url) {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid remote bucket %s", name))
	}
	entry.SetBranch("main")

	target := entry.InstallPath(parent)
	if _, err := os.Stat(target); err != nil {
		start := time.Now()
		l.printer.Step("fetching bucket", name, target)
		if err := entry.Install(ctx, parent); err != nil {
			l.printer.Failed(start, err)
			return err
		}
		l.printer.Done(start)
	}
	return l.LoadBucket(ctx, target)
}

func (l *Loader) resolve(relPath string) string {
	if filepath.IsAbs(relPath) {
		return filepath.Clean(relPath)
	}
	base := "."
	if active := l.Active(); active != nil {
		base = active.Folder()
	}
	return filepath.Join(base, relPath)
}

var _ ports.DefinitionBuilder = (*Loader)(nil)

// gitEntryBuilder applies script tweaks to a freshly declared entry. A
// dropped entry yields a builder that does nothing.
type gitEntryBuilder struct {
	entry *Entry
}

func (b gitEntryBuilder) Branch(name string) ports.GitEntryBuilder {
	if b.entry != nil {
		b.entry.SetBranch(name)
	}
	return b
}

func (b gitEntryBuilder) Freeze(rev string) ports.GitEntryBuilder {
	if b.entry != nil {
		b.entry.Freeze(rev)
	}
	return b
}

func (b gitEntryBuilder) UserName(name string) ports.GitEntryBuilder {
	if b.entry != nil {
		b.entry.SetUserName(name)
	}
	return b
}

func (b gitEntryBuilder) UserEmail(email string) ports.GitEntryBuilder {
	if b.entry != nil {
		b.entry.SetUserEmail(email)
	}
	return b
}

func (b gitEntryBuilder) LFS(enabled bool) ports.GitEntryBuilder {
	if b.entry != nil {
		b.entry.SetLFS(enabled)
	}
	return b
}

// LoadAllPackages builds a fresh database from the workspace properties
// and the given search locations.
func LoadAllPackages(ctx context.Context, props map[string]string, secrets ports.SecretsPort, tools *Toolkit, scripts ports.ScriptLoaderPort, printer *ui.Printer, bucketPaths []string) (*Database, error) {
	db := NewDatabase(secrets)
	db.SetProperties(props)
	loader := NewLoader(db, tools, scripts, printer)
	if err := loader.LoadBucketList(ctx, bucketPaths); err != nil {
		return nil, err
	}
	return db, nil
}
