package history

import (
	"fmt"

	"github.com/voxelforge/voxelforge/vox/store"
)

// History executes commands against one store and keeps the undo and redo
// stacks. A non-zero limit bounds the undo stack; the oldest entry is
// evicted first.
type History struct {
	st    *store.Store
	limit int

	undo []Command
	redo []Command

	groupDepth int
	groupLabel string
	group      []Command
}

func New(st *store.Store, limit int) *History {
	return &History{st: st, limit: limit}
}

// Execute applies cmd and records it for undo. A failed apply is not
// recorded and leaves the stacks untouched. Executing a new command
// discards the redo stack.
func (h *History) Execute(cmd Command) error {
	if err := cmd.Apply(h.st); err != nil {
		return err
	}
	if h.groupDepth > 0 {
		h.group = append(h.group, cmd)
		return nil
	}
	h.push(cmd)
	return nil
}

// Undo reverts the most recent command and moves it to the redo stack.
// A revert failure means the store is torn; that is a defect, not a
// recoverable condition, and it aborts.
func (h *History) Undo() error {
	if len(h.undo) == 0 {
		return ErrNothingToUndo
	}
	cmd := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	if err := cmd.Revert(h.st); err != nil {
		panic(fmt.Sprintf("history: undo of %q left the store torn: %v", cmd.Label(), err))
	}
	h.redo = append(h.redo, cmd)
	return nil
}

// Redo re-applies the most recently undone command.
func (h *History) Redo() error {
	if len(h.redo) == 0 {
		return ErrNothingToRedo
	}
	cmd := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	if err := cmd.Apply(h.st); err != nil {
		h.redo = append(h.redo, cmd)
		return err
	}
	h.undo = append(h.undo, cmd)
	return nil
}

func (h *History) CanUndo() bool { return len(h.undo) > 0 }
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// BeginGroup starts collecting executed commands into a single undo unit.
// Nested groups coalesce into the outermost one.
func (h *History) BeginGroup(label string) {
	if h.groupDepth == 0 {
		h.groupLabel = label
		h.group = nil
	}
	h.groupDepth++
}

// EndGroup closes the current group and pushes the collected commands as
// one Batch. A group of one pushes the command directly; an empty group
// pushes nothing.
func (h *History) EndGroup() {
	if h.groupDepth == 0 {
		return
	}
	h.groupDepth--
	if h.groupDepth > 0 {
		return
	}
	switch len(h.group) {
	case 0:
	case 1:
		h.push(h.group[0])
	default:
		h.push(&Batch{Name: h.groupLabel, Cmds: h.group})
	}
	h.group = nil
}

// Clear drops both stacks and any open group.
func (h *History) Clear() {
	h.undo = nil
	h.redo = nil
	h.group = nil
	h.groupDepth = 0
}

func (h *History) push(cmd Command) {
	h.undo = append(h.undo, cmd)
	if h.limit > 0 && len(h.undo) > h.limit {
		n := copy(h.undo, h.undo[len(h.undo)-h.limit:])
		h.undo = h.undo[:n]
	}
	h.redo = h.redo[:0]
}
