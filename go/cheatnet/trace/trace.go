// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package trace

import (
	"encoding/json"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/foundry-rs/starknet-foundry-sub002/go/cairo"
	"github.com/foundry-rs/starknet-foundry-sub002/go/cheatnet/cheats"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// NodeID addresses a node in the arena of a CallTrace.
type NodeID int

const (
	// RootID is the ID of the synthetic root node representing the test.
	RootID NodeID = 0
	// NoNode is used as parent of the root and for children without a node.
	NoNode NodeID = -1
)

// ErrUnbalancedExit is raised (as a panic) when exiting the root frame.
var ErrUnbalancedExit = errors.Mark(errors.New("exit without matching enter"), cairo.ErrHostFatal)

type Status int

const (
	StatusSuccess Status = iota
	StatusReverted
	StatusHostError
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusReverted:
		return "reverted"
	case StatusHostError:
		return "host_error"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

type CallResult struct {
	Status  Status       `json:"status"`
	Retdata []cairo.Felt `json:"retdata,omitempty"`
	Error   string       `json:"error,omitempty"` // < only set for host errors
}

type ChildKind int

const (
	ChildCall ChildKind = iota
	// ChildDeployWithoutConstructor is a leaf recording the deployment of a
	// class that has no constructor. It has no node of its own.
	ChildDeployWithoutConstructor
)

func (k ChildKind) String() string {
	switch k {
	case ChildCall:
		return "call"
	case ChildDeployWithoutConstructor:
		return "deploy_without_constructor"
	default:
		return fmt.Sprintf("ChildKind(%d)", int(k))
	}
}

func (k ChildKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

type Child struct {
	Kind      ChildKind       `json:"kind"`
	Node      NodeID          `json:"node"`
	ClassHash cairo.ClassHash `json:"class_hash,omitempty"`
	Address   cairo.Address   `json:"address,omitempty"`
}

// Node is the record of a single call. Resources are the resources consumed
// by the call including all nested calls.
type Node struct {
	Parent       NodeID                        `json:"parent"`
	Entry        cairo.CallEntryPoint          `json:"entry"`
	Resources    cairo.Resources               `json:"resources"`
	UsedSyscalls map[cairo.SyscallSelector]int `json:"used_syscalls,omitempty"`
	Result       CallResult                    `json:"result"`
	Children     []Child                       `json:"children,omitempty"`
	Events       []cairo.Event                 `json:"events,omitempty"`
	Messages     []cairo.L2ToL1Message         `json:"messages,omitempty"`
	StepTrace    []cairo.StepEntry             `json:"step_trace,omitempty"`
	Mocked       bool                          `json:"mocked,omitempty"`
}

// Frame is an entry of the stack of active calls.
type Frame struct {
	Node            NodeID
	ResourcesBefore cairo.Resources
	// Snapshot is the cheat snapshot resolved when entering the call. It is
	// nil for the root frame.
	Snapshot *cheats.Snapshot

	syscalls map[cairo.SyscallSelector]int
	// events emitted by this call, delivered when it returns successfully
	events []cairo.Event
}

// EventSink receives events of calls that returned successfully. Events
// of a reverted call are never delivered.
type EventSink interface {
	Record(cairo.Event)
}

// CallTrace is the tree of calls of a single run together with the stack of
// currently active calls. The stack is never empty; its bottom frame belongs
// to the root node.
type CallTrace struct {
	nodes  []Node
	stack  []Frame
	sink   EventSink
	enters int
	exits  int
}

// New creates a call trace whose root represents the given test entry point.
// Events of successful calls are forwarded to the given sink, which may be nil.
func New(root cairo.CallEntryPoint, sink EventSink) *CallTrace {
	return &CallTrace{
		nodes: []Node{{Parent: NoNode, Entry: root}},
		stack: []Frame{{Node: RootID}},
		sink:  sink,
	}
}

// Enter starts a new call as a child of the current call.
func (t *CallTrace) Enter(entry cairo.CallEntryPoint, snapshot cheats.Snapshot, resourcesBefore cairo.Resources) NodeID {
	parent := t.top()
	id := NodeID(len(t.nodes))
	entry.Calldata = slices.Clone(entry.Calldata)
	t.nodes = append(t.nodes, Node{Parent: parent.Node, Entry: entry})
	t.nodes[parent.Node].Children = append(t.nodes[parent.Node].Children, Child{Kind: ChildCall, Node: id})
	t.stack = append(t.stack, Frame{
		Node:            id,
		ResourcesBefore: resourcesBefore.Clone(),
		Snapshot:        &snapshot,
	})
	t.enters++
	return id
}

type ExitParams struct {
	ResourcesAfter cairo.Resources
	Result         CallResult
	StepTrace      []cairo.StepEntry
}

// Exit completes the current call. Exiting while only the root frame is
// left violates the balance of the trace and panics with ErrUnbalancedExit.
func (t *CallTrace) Exit(params ExitParams) NodeID {
	if len(t.stack) <= 1 {
		panic(ErrUnbalancedExit)
	}
	frame := t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]
	t.exits++

	node := &t.nodes[frame.Node]
	node.Resources = params.ResourcesAfter.Sub(frame.ResourcesBefore)
	node.UsedSyscalls = frame.syscalls
	node.Result = params.Result
	node.StepTrace = params.StepTrace

	if params.Result.Status == StatusSuccess {
		t.deliver(frame.events)
	}
	return frame.Node
}

// AddMockedCall records a call answered from a mock. The resulting leaf
// counts as one enter and one exit and consumes no resources.
func (t *CallTrace) AddMockedCall(entry cairo.CallEntryPoint, snapshot cheats.Snapshot, retdata []cairo.Felt) NodeID {
	id := t.Enter(entry, snapshot, cairo.Resources{})
	t.nodes[id].Mocked = true
	return t.Exit(ExitParams{Result: CallResult{Status: StatusSuccess, Retdata: slices.Clone(retdata)}})
}

// AddDeployWithoutConstructor records the deployment of a class without a
// constructor as a leaf of the current call.
func (t *CallTrace) AddDeployWithoutConstructor(class cairo.ClassHash, address cairo.Address) {
	cur := t.top().Node
	t.nodes[cur].Children = append(t.nodes[cur].Children, Child{
		Kind:      ChildDeployWithoutConstructor,
		Node:      NoNode,
		ClassHash: class,
		Address:   address,
	})
}

// RecordSyscall counts a syscall issued by the current call.
func (t *CallTrace) RecordSyscall(selector cairo.SyscallSelector) {
	frame := t.top()
	if frame.syscalls == nil {
		frame.syscalls = map[cairo.SyscallSelector]int{}
	}
	frame.syscalls[selector]++
}

// EmitEvent records an event of the current call. Events of the root are
// delivered immediately, all others once their emitting call succeeded.
func (t *CallTrace) EmitEvent(event cairo.Event) {
	event = cairo.Event{From: event.From, Keys: slices.Clone(event.Keys), Data: slices.Clone(event.Data)}
	frame := t.top()
	node := &t.nodes[frame.Node]
	node.Events = append(node.Events, event)
	if len(t.stack) == 1 {
		t.deliver([]cairo.Event{event})
		return
	}
	frame.events = append(frame.events, event)
}

// SendMessage records an L2 to L1 message of the current call.
func (t *CallTrace) SendMessage(message cairo.L2ToL1Message) {
	node := &t.nodes[t.top().Node]
	message.Payload = slices.Clone(message.Payload)
	node.Messages = append(node.Messages, message)
}

// Finish records the outcome of the root call. It does not pop the root.
func (t *CallTrace) Finish(resources cairo.Resources, result CallResult) {
	root := &t.nodes[RootID]
	root.Resources = resources.Clone()
	root.Result = result
	root.UsedSyscalls = t.stack[0].syscalls
}

func (t *CallTrace) deliver(events []cairo.Event) {
	if t.sink == nil {
		return
	}
	for _, event := range events {
		t.sink.Record(event)
	}
}

func (t *CallTrace) top() *Frame {
	return &t.stack[len(t.stack)-1]
}

// Top returns the frame of the currently active call.
func (t *CallTrace) Top() Frame {
	return *t.top()
}

// Depth is the number of active calls, not counting the root.
func (t *CallTrace) Depth() int {
	return len(t.stack) - 1
}

func (t *CallTrace) Root() *Node {
	return &t.nodes[RootID]
}

func (t *CallTrace) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(t.nodes) {
		return nil
	}
	return &t.nodes[id]
}

// Len is the number of nodes including the root.
func (t *CallTrace) Len() int {
	return len(t.nodes)
}

func (t *CallTrace) Enters() int {
	return t.enters
}

func (t *CallTrace) Exits() int {
	return t.exits
}

// IsBalanced reports whether every entered call has been exited.
func (t *CallTrace) IsBalanced() bool {
	return t.enters == t.exits && len(t.stack) == 1
}

// Walk visits all nodes in depth first order, parents before children.
func (t *CallTrace) Walk(visit func(id NodeID, node *Node, depth int)) {
	t.walk(RootID, 0, visit)
}

func (t *CallTrace) walk(id NodeID, depth int, visit func(NodeID, *Node, int)) {
	visit(id, &t.nodes[id], depth)
	for _, child := range t.nodes[id].Children {
		if child.Kind == ChildCall {
			t.walk(child.Node, depth+1, visit)
		}
	}
}

// SyscallCounts returns the syscalls used by a node in a stable order.
func (n *Node) SyscallCounts() []SyscallCount {
	keys := maps.Keys(n.UsedSyscalls)
	slices.Sort(keys)
	res := make([]SyscallCount, 0, len(keys))
	for _, key := range keys {
		res = append(res, SyscallCount{Selector: key, Count: n.UsedSyscalls[key]})
	}
	return res
}

type SyscallCount struct {
	Selector cairo.SyscallSelector
	Count    int
}

func (t *CallTrace) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.nodes)
}
