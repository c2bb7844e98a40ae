// Package sig provides an explicit registry of scalar function signatures.
//
// The registry is an ordinary object constructed at process start and queried
// thereafter; generated function modules populate the package-level default
// registry from their init functions. A msgpack manifest lets hosts enumerate
// registered functions across the boundary without decoding Arrow schemas.
package sig

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	udf "github.com/hugr-lab/udf-go"
)

var (
	// ErrEmptyName is returned when registering a signature without a name.
	ErrEmptyName = errors.New("function name cannot be empty")
	// ErrNilFunction is returned when registering a nil function.
	ErrNilFunction = errors.New("function cannot be nil")
	// ErrDuplicateName is returned when a name is registered twice.
	ErrDuplicateName = errors.New("function name already registered")
)

// Sig describes a registered scalar function: its name, the Arrow type names
// of its arguments, and the Arrow type name of its result. Type names are
// informational; the call path itself is type-agnostic.
type Sig struct {
	Name       string   `msgpack:"name"`
	ArgTypes   []string `msgpack:"arg_types"`
	ReturnType string   `msgpack:"return_type"`
}

type entry struct {
	sig Sig
	fn  udf.ScalarFunction
}

// Registry maps function names to scalar functions.
// All methods are goroutine-safe.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		funcs: make(map[string]entry),
	}
}

// Register adds a function under its signature name.
// Registering a duplicate name is an error rather than a silent replace.
func (r *Registry) Register(s Sig, fn udf.ScalarFunction) error {
	if s.Name == "" {
		return ErrEmptyName
	}
	if fn == nil {
		return ErrNilFunction
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.funcs[s.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateName, s.Name)
	}
	r.funcs[s.Name] = entry{sig: s, fn: fn}
	return nil
}

// Lookup returns the function registered under name.
func (r *Registry) Lookup(name string) (udf.ScalarFunction, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.funcs[name]
	if !ok {
		return nil, false
	}
	return e.fn, true
}

// Signature returns the signature registered under name.
func (r *Registry) Signature(name string) (Sig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.funcs[name]
	return e.sig, ok
}

// Names returns all registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sigs returns all registered signatures sorted by name.
func (r *Registry) Sigs() []Sig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sigs := make([]Sig, 0, len(r.funcs))
	for _, e := range r.funcs {
		sigs = append(sigs, e.sig)
	}
	sort.Slice(sigs, func(i, j int) bool { return sigs[i].Name < sigs[j].Name })
	return sigs
}

// Manifest encodes the registered signatures as a msgpack payload.
// Hosts decode it with DecodeManifest to enumerate functions across the
// boundary.
func (r *Registry) Manifest() ([]byte, error) {
	data, err := msgpack.Marshal(r.Sigs())
	if err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	return data, nil
}

// DecodeManifest decodes a payload produced by Manifest.
func DecodeManifest(data []byte) ([]Sig, error) {
	var sigs []Sig
	if err := msgpack.Unmarshal(data, &sigs); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}
	return sigs, nil
}

// defaultRegistry serves generated code that registers at init time.
var defaultRegistry = NewRegistry()

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry
}
