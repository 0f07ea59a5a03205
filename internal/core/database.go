package core

import (
	"fmt"
	"sort"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"wpm/internal/ports"
)

// Database is the flat registry of every declared package plus the
// workspace-wide properties.
type Database struct {
	entries     map[string]*Entry
	definitions map[string]struct{}
	properties  map[string]string
	secrets     ports.SecretsPort
}

func NewDatabase(secrets ports.SecretsPort) *Database {
	return &Database{
		entries:     map[string]*Entry{},
		definitions: map[string]struct{}{},
		properties:  map[string]string{},
		secrets:     secrets,
	}
}

// AddPackage registers entry under its name. A second definition of the
// same name is a configuration error naming both locations.
func (d *Database) AddPackage(entry *Entry) error {
	if existing, ok := d.entries[entry.Name()]; ok {
		return errbuilder.New().
			WithCode(errbuilder.CodeAlreadyExists).
			WithMsg(fmt.Sprintf("duplicate package found: %s\n\t -> %s\n\t -> %s",
				entry.Name(), existing.DefinitionLocation(), entry.DefinitionLocation()))
	}
	d.entries[entry.Name()] = entry
	return nil
}

// AddDefinition returns false when path was already processed.
func (d *Database) AddDefinition(path string) bool {
	if _, ok := d.definitions[path]; ok {
		return false
	}
	d.definitions[path] = struct{}{}
	return true
}

func (d *Database) Find(name string) (*Entry, bool) {
	entry, ok := d.entries[name]
	return entry, ok
}

// Get is the unchecked lookup; callers must know name exists.
func (d *Database) Get(name string) *Entry {
	return d.entries[name]
}

func (d *Database) Len() int {
	return len(d.entries)
}

func (d *Database) AllNames() []string {
	names := make([]string, 0, len(d.entries))
	for name := range d.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns the entries ordered by name.
func (d *Database) All() []*Entry {
	out := make([]*Entry, 0, len(d.entries))
	for _, name := range d.AllNames() {
		out = append(out, d.entries[name])
	}
	return out
}

func (d *Database) SetProperties(props map[string]string) {
	for k, v := range props {
		d.properties[k] = v
	}
}

func (d *Database) Property(key string) (string, bool) {
	value, ok := d.properties[key]
	return value, ok
}

func (d *Database) Properties() map[string]string {
	out := make(map[string]string, len(d.properties))
	for k, v := range d.properties {
		out[k] = v
	}
	return out
}

// FetchProperties asks the secrets capability for keys. Lookup failures
// are logged and treated as "nothing resolved".
func (d *Database) FetchProperties(keys []string) map[string]string {
	if d.secrets == nil || len(keys) == 0 {
		return nil
	}
	values, err := d.secrets.Query(keys)
	if err != nil {
		log.Warn().Err(err).Msg("secret lookup failed")
		return nil
	}
	return values
}

var _ PropertySource = (*Database)(nil)
