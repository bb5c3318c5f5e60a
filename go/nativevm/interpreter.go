// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package nativevm provides an interpreter running contract classes written
// in Go. Every entry point is a Go function interacting with its host
// through the same hints a compiled contract would use.
package nativevm

import (
	"fmt"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/foundry-rs/starknet-foundry-sub002/go/cairo"
	"golang.org/x/crypto/sha3"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

func init() {
	cairo.MustRegisterInterpreterFactory("native", func(config any) (cairo.Interpreter, error) {
		if config == nil {
			return NewInterpreter(), nil
		}
		classes, ok := config.([]*Class)
		if !ok {
			return nil, fmt.Errorf("unsupported configuration type %T", config)
		}
		res := NewInterpreter()
		for _, class := range classes {
			res.Register(class)
		}
		return res, nil
	})
}

// Function is the implementation of an entry point.
type Function func(rt *Runtime) ([]cairo.Felt, error)

// Class is a contract class implemented in Go.
type Class struct {
	Name        string
	Functions   map[string]Function
	Constructor Function
	// L1Handlers are entry points triggered by messages from L1.
	L1Handlers map[string]Function
}

const constructorName = "constructor"

// Hash derives the class hash from the name and the entry points of the
// class.
func (c *Class) Hash() cairo.ClassHash {
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write([]byte(c.Name))
	for _, name := range c.sortedNames(c.Functions) {
		hasher.Write([]byte{0})
		hasher.Write([]byte(name))
	}
	for _, name := range c.sortedNames(c.L1Handlers) {
		hasher.Write([]byte{1})
		hasher.Write([]byte(name))
	}
	if c.Constructor != nil {
		hasher.Write([]byte{2})
	}
	var res cairo.ClassHash
	hasher.Sum(res[0:0])
	res[0] &= 0x03
	return res
}

func (c *Class) sortedNames(functions map[string]Function) []string {
	res := maps.Keys(functions)
	slices.Sort(res)
	return res
}

// Compile produces the class description the host works with.
func (c *Class) Compile() cairo.CompiledClass {
	res := cairo.CompiledClass{Hash: c.Hash(), Program: []byte(c.Name)}
	for i, name := range c.sortedNames(c.Functions) {
		res.EntryPoints = append(res.EntryPoints, cairo.EntryPoint{
			Type:     cairo.EntryPointExternal,
			Selector: cairo.SelectorFromName(name),
			Offset:   i,
		})
	}
	for i, name := range c.sortedNames(c.L1Handlers) {
		res.EntryPoints = append(res.EntryPoints, cairo.EntryPoint{
			Type:     cairo.EntryPointL1Handler,
			Selector: cairo.SelectorFromName(name),
			Offset:   i,
		})
	}
	if c.Constructor != nil {
		res.EntryPoints = append(res.EntryPoints, cairo.EntryPoint{
			Type:     cairo.EntryPointConstructor,
			Selector: cairo.SelectorFromName(constructorName),
		})
	}
	return res
}

func (c *Class) lookup(kind cairo.EntryPointType, selector cairo.Selector) (Function, bool) {
	var functions map[string]Function
	switch kind {
	case cairo.EntryPointConstructor:
		if c.Constructor != nil && selector == cairo.SelectorFromName(constructorName) {
			return c.Constructor, true
		}
		return nil, false
	case cairo.EntryPointL1Handler:
		functions = c.L1Handlers
	default:
		functions = c.Functions
	}
	for name, function := range functions {
		if cairo.SelectorFromName(name) == selector {
			return function, true
		}
	}
	return nil, false
}

// Interpreter runs registered classes. It is safe for concurrent use.
type Interpreter struct {
	mutex   sync.Mutex
	classes map[cairo.ClassHash]*Class
}

var _ cairo.Interpreter = &Interpreter{}

func NewInterpreter() *Interpreter {
	return &Interpreter{classes: map[cairo.ClassHash]*Class{}}
}

// Register makes a class executable by this interpreter and returns its
// compiled form.
func (i *Interpreter) Register(class *Class) cairo.CompiledClass {
	compiled := class.Compile()
	i.mutex.Lock()
	defer i.mutex.Unlock()
	i.classes[compiled.Hash] = class
	return compiled
}

func (i *Interpreter) Run(params cairo.Parameters) (cairo.Result, error) {
	i.mutex.Lock()
	class, found := i.classes[params.Class.Hash]
	i.mutex.Unlock()
	if !found {
		return cairo.Result{}, errors.Wrapf(cairo.ErrHostFatal, "class %v is not a native class", params.Class.Hash)
	}
	function, found := class.lookup(params.Entry.Type, params.Entry.Selector)
	if !found {
		return cairo.Result{}, errors.Wrapf(cairo.ErrHostFatal, "class %s has no %v entry point %v",
			class.Name, params.Entry.Type, params.Entry.Selector)
	}

	rt := newRuntime(params)
	rt.step(entryCost)
	retdata, err := function(rt)
	if err != nil {
		var revert *RevertError
		if !errors.As(err, &revert) {
			return cairo.Result{}, err
		}
		return rt.result(false, revert.Data), nil
	}
	return rt.result(true, retdata), nil
}
