//go:build amd64

// Package swap implements the low-level callee-saved-register stack
// swap the scheduler uses to move an OS thread between process
// contexts without unwinding (spec §4.7.1). One file per target ISA,
// the same split the teacher's own runtime uses for its syscall
// wrappers (std/runtime/runtime_<os>_<arch>.go).
package swap

// Context holds one process's callee-saved register set for the
// amd64 System V ABI: rbx, rsp, rbp, r12..r15.
type Context struct {
	Slots [7]uintptr
}

const (
	slotRBX = 0
	slotRSP = 1
	slotRBP = 2
	slotR12 = 3
	slotR13 = 4
	slotR14 = 5
	slotR15 = 6

	// StackPointerSlot/FramePointerSlot are written by Runnable to seed
	// a process's initial execution context.
	StackPointerSlot = slotRSP
	FramePointerSlot = slotRBP
	// EnvSlot/SentinelSlot/EntrySlot are the three fixed callee-save
	// slots the first-swap setup path reads (spec §4.7.1): closure env,
	// the first-swap sentinel, and the entry function pointer.
	EnvSlot      = slotR12
	SentinelSlot = slotR13
	EntrySlot    = slotR14
)

// Sentinel marks a context that has never been swapped into.
const Sentinel = ^uintptr(0)

// Stack saves the current callee-saved register set into prev, loads
// new_, and resumes. If new_'s SentinelSlot equals Sentinel, the
// assembly instead performs one-time entry setup: read EntrySlot and
// EnvSlot, zero the sentinel, load the stack and frame pointers, and
// jump to the entry function with env in the first argument register.
// No synthetic caller frame is linked on this path.
//
//go:noescape
func Stack(prev, new_ *Context, firstSwapTag uintptr)
