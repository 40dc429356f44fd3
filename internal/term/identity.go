package term

import "github.com/google/uuid"

// Pid identifies a process: which scheduler spawned it and a
// per-scheduler monotonic index. Pids are weak references (spec "Cyclic
// references" design note) — holding one never keeps the process
// alive; the pid registry does that.
type Pid struct {
	Scheduler uint16
	Index     uint64
}

func (*Pid) Kind() Kind     { return KindPid }
func (*Pid) String() string { return "pid" }

// NewPid constructs a Pid for the given scheduler and local index.
func NewPid(scheduler uint16, index uint64) *Pid {
	return &Pid{Scheduler: scheduler, Index: index}
}

// Reference is a unique term, produced by erlang:make_ref/0 and used
// internally for monitor identities. Unique combines the scheduler's
// fast atomic counter with a UUID suffix so references stay globally
// unique even across independently started runtimes sharing no atomic
// state (spec §3 "Configuration"/"Identifiers" ambient addition).
type Reference struct {
	Scheduler uint16
	Unique    uint64
	Suffix    uuid.UUID
}

func (*Reference) Kind() Kind     { return KindReference }
func (*Reference) String() string { return "reference" }

// NewReference constructs a Reference using scheduler-local unique as
// the fast-path ordering key and a fresh UUID as the collision-free
// suffix.
func NewReference(scheduler uint16, unique uint64) *Reference {
	return &Reference{Scheduler: scheduler, Unique: unique, Suffix: uuid.New()}
}
