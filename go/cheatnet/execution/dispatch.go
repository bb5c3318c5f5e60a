// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package execution

import (
	"github.com/cockroachdb/errors"
	"github.com/foundry-rs/starknet-foundry-sub002/go/cairo"
	"github.com/foundry-rs/starknet-foundry-sub002/go/cheatnet/cheats"
	"github.com/foundry-rs/starknet-foundry-sub002/go/cheatnet/trace"

	// geth dependencies
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	ErrContractNotDeployed     = errors.Mark(errors.New("contract not deployed"), cairo.ErrStateAccess)
	ErrContractAlreadyDeployed = errors.Mark(errors.New("contract already deployed"), cairo.ErrStateAccess)
)

var (
	reasonEntryPointNotFound = cairo.MustShortString("ENTRYPOINT_NOT_FOUND")
	reasonCallDepthExceeded  = cairo.MustShortString("CALL_DEPTH_EXCEEDED")
	reasonInvalidCalldata    = cairo.MustShortString("INVALID_CALLDATA_LENGTH")
)

// CallOutcome is the result of a call as seen by the calling contract.
type CallOutcome struct {
	Success bool
	Retdata []cairo.Felt
	Node    trace.NodeID // < NoNode if the call was rejected before entering
}

// ExecuteCall dispatches a call to the interpreter. External calls observe
// the cheats of the called contract and may be answered by a mock; library
// calls run with the snapshot of their caller. A revert is reported through
// the outcome. Errors marked with cairo.ErrStateAccess signal an unknown
// contract or class; all other errors abort the run.
func (c *Context) ExecuteCall(entry cairo.CallEntryPoint) (CallOutcome, error) {
	if c.Trace.Depth() >= MaxCallDepth {
		return CallOutcome{Retdata: []cairo.Felt{reasonCallDepthExceeded}, Node: trace.NoNode}, nil
	}

	var snapshot cheats.Snapshot
	if entry.Kind == cairo.Library {
		snapshot = c.CurrentSnapshot()
	} else {
		if retdata, found := c.Cheats.GetMock(entry.StorageAddress, entry.Selector); found {
			c.Log.Debugf("mocked call to %v, selector %v", entry.StorageAddress, entry.Selector)
			id := c.Trace.AddMockedCall(entry, c.Cheats.Resolve(entry.StorageAddress), retdata)
			return CallOutcome{Success: true, Retdata: retdata, Node: id}, nil
		}
		classHash, err := c.classHashAt(entry.StorageAddress)
		if err != nil {
			return CallOutcome{Node: trace.NoNode}, err
		}
		entry.ClassHash = classHash
		snapshot = c.Cheats.Observe(entry.StorageAddress)
	}

	class, err := c.compiledClass(entry.ClassHash)
	if err != nil {
		return CallOutcome{Node: trace.NoNode}, err
	}
	return c.run(entry, class, snapshot)
}

func (c *Context) run(entry cairo.CallEntryPoint, class cairo.CompiledClass, snapshot cheats.Snapshot) (CallOutcome, error) {
	id := c.Trace.Enter(entry, snapshot, c.resources)
	c.Log.Debugf("enter %v %v of %v, depth %d", entry.Kind, entry.Selector, entry.StorageAddress, c.Trace.Depth())

	if !class.HasEntryPoint(entry.Type, entry.Selector) {
		retdata := []cairo.Felt{reasonEntryPointNotFound}
		c.Trace.Exit(trace.ExitParams{
			ResourcesAfter: c.resources,
			Result:         trace.CallResult{Status: trace.StatusReverted, Retdata: retdata},
		})
		return CallOutcome{Retdata: retdata, Node: id}, nil
	}

	stateSnapshot := c.State.CreateSnapshot()
	result, err := c.Interpreter.Run(cairo.Parameters{
		Hints:      c.Hints,
		Entry:      entry,
		Class:      class,
		TraceSteps: c.TraceSteps,
	})
	if err != nil {
		c.State.RestoreSnapshot(stateSnapshot)
		c.Trace.Exit(trace.ExitParams{
			ResourcesAfter: c.resources,
			Result:         trace.CallResult{Status: trace.StatusHostError, Error: err.Error()},
		})
		return CallOutcome{Node: id}, err
	}

	c.resources = c.resources.Add(result.Resources)
	status := trace.StatusSuccess
	if !result.Success {
		c.State.RestoreSnapshot(stateSnapshot)
		status = trace.StatusReverted
	}
	c.Trace.Exit(trace.ExitParams{
		ResourcesAfter: c.resources,
		Result:         trace.CallResult{Status: status, Retdata: result.Retdata},
		StepTrace:      result.Trace,
	})
	c.Log.Debugf("exit %v of %v: %v", entry.Selector, entry.StorageAddress, status)
	return CallOutcome{Success: result.Success, Retdata: result.Retdata, Node: id}, nil
}

// DeployOutcome is the result of a deployment as seen by the deploying
// contract.
type DeployOutcome struct {
	Address cairo.Address
	CallOutcome
}

// Deploy creates a contract of the given class and runs its constructor. A
// reverting constructor undoes the deployment.
func (c *Context) Deploy(class cairo.ClassHash, salt cairo.Felt, calldata []cairo.Felt, deployer cairo.Address) (DeployOutcome, error) {
	compiled, err := c.compiledClass(class)
	if err != nil {
		return DeployOutcome{}, err
	}
	address := ComputeAddress(deployer, salt, class, calldata)
	current, err := c.State.GetClassHashAt(address)
	if err != nil {
		return DeployOutcome{}, errors.Mark(errors.Wrapf(err, "deploy to %v", address), cairo.ErrStateAccess)
	}
	if current != (cairo.ClassHash{}) {
		return DeployOutcome{}, errors.Wrapf(ErrContractAlreadyDeployed, "%v", address)
	}

	stateSnapshot := c.State.CreateSnapshot()
	if err := c.State.SetClassHashAt(address, class); err != nil {
		return DeployOutcome{}, errors.Mark(errors.Wrapf(err, "deploy to %v", address), cairo.ErrStateAccess)
	}
	c.Log.Debugf("deployed class %v at %v", class, address)

	constructor, found := compiled.Constructor()
	if !found {
		if len(calldata) > 0 {
			c.State.RestoreSnapshot(stateSnapshot)
			return DeployOutcome{Address: address, CallOutcome: CallOutcome{Retdata: []cairo.Felt{reasonInvalidCalldata}, Node: trace.NoNode}}, nil
		}
		c.Trace.AddDeployWithoutConstructor(class, address)
		return DeployOutcome{Address: address, CallOutcome: CallOutcome{Success: true, Node: trace.NoNode}}, nil
	}

	if c.Trace.Depth() >= MaxCallDepth {
		c.State.RestoreSnapshot(stateSnapshot)
		return DeployOutcome{Address: address, CallOutcome: CallOutcome{Retdata: []cairo.Felt{reasonCallDepthExceeded}, Node: trace.NoNode}}, nil
	}
	entry := cairo.CallEntryPoint{
		Kind:           cairo.External,
		Type:           cairo.EntryPointConstructor,
		ClassHash:      class,
		StorageAddress: address,
		CallerAddress:  deployer,
		Selector:       constructor,
		Calldata:       calldata,
	}
	outcome, err := c.run(entry, compiled, c.Cheats.Observe(address))
	if err != nil || !outcome.Success {
		c.State.RestoreSnapshot(stateSnapshot)
	}
	return DeployOutcome{Address: address, CallOutcome: outcome}, err
}

func (c *Context) classHashAt(address cairo.Address) (cairo.ClassHash, error) {
	hash, err := c.State.GetClassHashAt(address)
	if err != nil {
		return cairo.ClassHash{}, errors.Mark(errors.Wrapf(err, "class hash of %v", address), cairo.ErrStateAccess)
	}
	if hash == (cairo.ClassHash{}) {
		return cairo.ClassHash{}, errors.Wrapf(ErrContractNotDeployed, "%v", address)
	}
	return hash, nil
}

func (c *Context) compiledClass(hash cairo.ClassHash) (cairo.CompiledClass, error) {
	class, err := c.State.GetCompiledClass(hash)
	if err != nil {
		return cairo.CompiledClass{}, errors.Mark(errors.Wrapf(err, "class %v", hash), cairo.ErrStateAccess)
	}
	return class, nil
}

var contractAddressPrefix = []byte("STARKNET_CONTRACT_ADDRESS")

// ComputeAddress derives the address of a deployed contract from the
// deployer, the salt, the class and the constructor calldata. The result is
// a Keccak-256 hash truncated to 251 bits and thus always a valid felt.
func ComputeAddress(deployer cairo.Address, salt cairo.Felt, class cairo.ClassHash, calldata []cairo.Felt) cairo.Address {
	data := make([]byte, 0, len(calldata)*32)
	for _, felt := range calldata {
		data = append(data, felt[:]...)
	}
	hash := crypto.Keccak256(contractAddressPrefix, deployer[:], salt[:], class[:], crypto.Keccak256(data))
	var res cairo.Address
	copy(res[:], hash)
	res[0] &= 0x07
	return res
}
