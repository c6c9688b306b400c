package filter

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// ErrPresetNotFound is returned when a named preset is not registered
var ErrPresetNotFound = errors.New("filter preset not found")

// Preset is a named filter expression with a human readable description
type Preset struct {
	Expression  string
	Description string
}

// Manager keeps named, pre-compiled filter presets
type Manager struct {
	compiler     Compiler
	filters      map[string]CompiledFilter
	descriptions map[string]string
	mu           sync.RWMutex
}

// ManagerOption configures a filter manager
type ManagerOption func(*Manager)

// WithCompiler sets a custom compiler
func WithCompiler(compiler Compiler) ManagerOption {
	return func(m *Manager) {
		m.compiler = compiler
	}
}

// NewManager creates a new filter manager
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		compiler:     NewExprCompiler(WithCache(100)),
		filters:      make(map[string]CompiledFilter),
		descriptions: make(map[string]string),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Compile compiles an ad-hoc expression with the manager's compiler
func (m *Manager) Compile(expression string) (CompiledFilter, error) {
	return m.compiler.Compile(expression)
}

// RegisterPresets compiles all presets and registers them only if every one compiles
func (m *Manager) RegisterPresets(presets map[string]Preset) error {
	compiled := make(map[string]CompiledFilter, len(presets))

	for name, p := range presets {
		f, err := m.compiler.Compile(p.Expression)
		if err != nil {
			return fmt.Errorf("failed to compile preset '%s': %w", name, err)
		}
		compiled[name] = f
	}

	m.mu.Lock()
	maps.Copy(m.filters, compiled)
	for name, p := range presets {
		m.descriptions[name] = p.Description
	}
	m.mu.Unlock()

	return nil
}

// Preset returns a compiled preset by name
func (m *Manager) Preset(name string) (CompiledFilter, error) {
	m.mu.RLock()
	f, ok := m.filters[name]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPresetNotFound, name)
	}
	return f, nil
}

// Description returns the description of a registered preset
func (m *Manager) Description(name string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.descriptions[name]
}

// Names returns the registered preset names in sorted order
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Sorted(maps.Keys(m.filters))
}
