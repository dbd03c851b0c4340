// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package registry indexes engines by name so front ends can pick one by name.
package registry

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/engines/internal/config"
	"github.com/matt-FFFFFF/engines/internal/engine"
)

var (
	// ErrUnknownEngine is returned when no engine has the requested name.
	ErrUnknownEngine = errors.New("unknown engine")
	// ErrDuplicateEngine is returned when an engine with the same name is already registered.
	ErrDuplicateEngine = errors.New("duplicate engine name")
	// ErrNilEngine is returned when a nil engine is added.
	ErrNilEngine = errors.New("nil engine")
)

// Registry holds engines by name. Like Engine it has no internal locking:
// populate it first, then share it read-only.
type Registry struct {
	engines map[string]*engine.Engine
}

// New creates a registry holding the given engines.
func New(engines ...*engine.Engine) (*Registry, error) {
	r := &Registry{
		engines: make(map[string]*engine.Engine, len(engines)),
	}

	var result error

	for _, e := range engines {
		if err := r.Add(e); err != nil {
			result = multierror.Append(result, err)
		}
	}

	return r, result
}

// Load builds a registry from the engines directory root.
// Engines that fail to load or clash by name are reported in the error,
// the registry still holds every engine that did load.
func Load(ctx context.Context, root string, opts ...engine.Option) (*Registry, error) {
	engines, loadErr := config.LoadDir(ctx, root, opts...)

	r, addErr := New(engines...)

	if errors.Is(loadErr, config.ErrReadDir) {
		return r, loadErr
	}

	var result *multierror.Error
	if loadErr != nil {
		result = multierror.Append(result, loadErr)
	}

	if addErr != nil {
		result = multierror.Append(result, addErr)
	}

	return r, result.ErrorOrNil()
}

// Add registers e under its name. The first engine registered under a name is kept.
func (r *Registry) Add(e *engine.Engine) error {
	if e == nil {
		return ErrNilEngine
	}

	if _, exists := r.engines[e.Name()]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateEngine, e.Name())
	}

	r.engines[e.Name()] = e

	return nil
}

// Lookup returns the engine called name.
func (r *Registry) Lookup(name string) (*engine.Engine, error) {
	e, ok := r.engines[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEngine, name)
	}

	return e, nil
}

// Names returns the sorted engine names.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.engines))
}

// Engines returns the engines sorted by name.
func (r *Registry) Engines() []*engine.Engine {
	engines := make([]*engine.Engine, 0, len(r.engines))
	for _, name := range r.Names() {
		engines = append(engines, r.engines[name])
	}

	return engines
}

// Len returns the number of registered engines.
func (r *Registry) Len() int {
	return len(r.engines)
}

// Search runs command on the engine called engineName with query and returns its output.
func (r *Registry) Search(ctx context.Context, engineName, command, query string) (string, error) {
	e, err := r.Lookup(engineName)
	if err != nil {
		return "", err
	}

	return e.Execute(ctx, command, query)
}
