package contract

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
)

// ErrContractNotFound is returned when a saved function is not found.
var ErrContractNotFound = errors.New("contract not found")

// Source formats a saved function can be written in.
const (
	FormatABI       = "abi"
	FormatSignature = "signature"
)

// Entry is a saved function description bound to a deployed address.
type Entry struct {
	Name    string `json:"name"`
	Network string `json:"network"`
	Address string `json:"address"`
	Format  string `json:"format"`
	Source  string `json:"source"`
}

// Parse parses the entry's source text with the parser matching its format.
func (e *Entry) Parse() (*Descriptor, error) {
	return Parse(e.Format, e.Source)
}

// Parse dispatches to ParseABI or ParseSignature.
func Parse(format, source string) (*Descriptor, error) {
	switch format {
	case FormatABI:
		return ParseABI([]byte(source))
	case FormatSignature:
		return ParseSignature(source)
	}
	return nil, fmt.Errorf("unknown source format %q", format)
}

// DetectFormat guesses the format of source: text starting with '{' or '['
// is ABI JSON, anything else a signature.
func DetectFormat(source string) string {
	s := strings.TrimSpace(source)
	if strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[") {
		return FormatABI
	}
	return FormatSignature
}

// Registry stores saved functions in a JSON file, keyed by name and network.
type Registry struct {
	path    string
	entries map[string]*Entry // key: "name@network"
}

// NewRegistry creates a Registry backed by a JSON file.
func NewRegistry(path string) *Registry {
	return &Registry{
		path:    path,
		entries: make(map[string]*Entry),
	}
}

// Load reads saved functions from disk. A missing file is an empty registry.
func (r *Registry) Load() error {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("reading %s: %w", r.path, err)
	}
	for i := range entries {
		e := &entries[i]
		r.entries[key(e.Name, e.Network)] = e
	}
	return nil
}

// Save writes all entries to disk.
func (r *Registry) Save() error {
	data, err := json.MarshalIndent(r.All(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(r.path, data, 0o600)
}

// Add validates the entry's source and adds or replaces it.
func (r *Registry) Add(e *Entry) error {
	if e.Name == "" {
		return errors.New("name is required")
	}
	if e.Format == "" {
		e.Format = DetectFormat(e.Source)
	}
	if _, err := e.Parse(); err != nil {
		return err
	}
	r.entries[key(e.Name, e.Network)] = e
	return nil
}

// Get returns a saved function by name and network.
func (r *Registry) Get(name, network string) (*Entry, error) {
	e, ok := r.entries[key(name, network)]
	if !ok {
		return nil, fmt.Errorf("%w: %s on %s", ErrContractNotFound, name, network)
	}
	return e, nil
}

// All returns every entry sorted by network, then name.
func (r *Registry) All() []*Entry {
	out := make([]*Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Network != out[j].Network {
			return out[i].Network < out[j].Network
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Remove deletes an entry.
func (r *Registry) Remove(name, network string) error {
	k := key(name, network)
	if _, ok := r.entries[k]; !ok {
		return fmt.Errorf("%w: %s on %s", ErrContractNotFound, name, network)
	}
	delete(r.entries, k)
	return nil
}

func key(name, network string) string {
	return name + "@" + network
}
