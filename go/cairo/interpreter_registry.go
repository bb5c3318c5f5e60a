// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package cairo

import (
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const (
	ErrInterpreterNotFound   = ConstError("interpreter not found")
	ErrDuplicateInterpreter  = ConstError("interpreter registered twice")
	ErrInvalidInterpreterCfg = ConstError("invalid interpreter configuration")
)

// InterpreterFactory creates an Interpreter from an implementation specific
// configuration. A nil configuration selects the default configuration.
type InterpreterFactory func(config any) (Interpreter, error)

// interpreterRegistry maps lower-case names to factories. Implementations
// register themselves in init functions; runs and the driver look them up
// by name.
type interpreterRegistry struct {
	mu        sync.Mutex
	factories map[string]InterpreterFactory
}

var interpreters = &interpreterRegistry{factories: map[string]InterpreterFactory{}}

func (r *interpreterRegistry) register(name string, factory InterpreterFactory) error {
	key := strings.ToLower(name)
	if factory == nil {
		return errors.Wrapf(ErrInvalidInterpreterCfg, "nil factory for %q", key)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, found := r.factories[key]; found {
		return errors.Wrapf(ErrDuplicateInterpreter, "%q", key)
	}
	r.factories[key] = factory
	return nil
}

func (r *interpreterRegistry) lookup(name string) (InterpreterFactory, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	factory, found := r.factories[strings.ToLower(name)]
	return factory, found
}

func (r *interpreterRegistry) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := maps.Keys(r.factories)
	slices.Sort(res)
	return res
}

// NewInterpreter creates an instance of the interpreter registered under the
// given (case-insensitive) name, using at most one optional configuration.
func NewInterpreter(name string, config ...any) (Interpreter, error) {
	if len(config) > 1 {
		return nil, errors.Wrapf(ErrInvalidInterpreterCfg, "%d configurations given", len(config))
	}
	factory, found := interpreters.lookup(name)
	if !found {
		return nil, errors.Wrapf(ErrInterpreterNotFound, "%q", name)
	}
	var c any
	if len(config) == 1 {
		c = config[0]
	}
	return factory(c)
}

// RegisteredInterpreters lists the names of all registered interpreters in
// lexicographic order.
func RegisteredInterpreters() []string {
	return interpreters.names()
}

func RegisterInterpreterFactory(name string, factory InterpreterFactory) error {
	return interpreters.register(name, factory)
}

// MustRegisterInterpreterFactory is RegisterInterpreterFactory for init
// functions; it panics on failure.
func MustRegisterInterpreterFactory(name string, factory InterpreterFactory) {
	if err := RegisterInterpreterFactory(name, factory); err != nil {
		panic(err)
	}
}
