// Package bif holds the built-in-function contract table the
// Kernel→SSA lowering pass consults to decide how a Bif node's call
// results are wired (spec §4.3.6): how many SSA results it produces,
// whether it can fail, and whether it's safe to call from a Guard fail
// context.
package bif

// Class mirrors kernel.BifClass, kept independent so internal/bif has
// no dependency on internal/kernel.
type Class int

const (
	Safe Class = iota
	Fallible
	Primop
)

// Entry describes one built-in's calling contract.
type Entry struct {
	Name        string
	Arity       int
	Class       Class
	NumResults  int  // 0, 1, or 2 (the fallible {is_err, value} pair)
	GuardSafe   bool // callable from a Guard fail context
}

var table = map[string]Entry{
	"erlang:is_atom/1":    {Name: "erlang:is_atom/1", Arity: 1, Class: Safe, NumResults: 1, GuardSafe: true},
	"erlang:is_integer/1": {Name: "erlang:is_integer/1", Arity: 1, Class: Safe, NumResults: 1, GuardSafe: true},
	"erlang:is_float/1":   {Name: "erlang:is_float/1", Arity: 1, Class: Safe, NumResults: 1, GuardSafe: true},
	"erlang:is_number/1":  {Name: "erlang:is_number/1", Arity: 1, Class: Safe, NumResults: 1, GuardSafe: true},
	"erlang:is_tuple/1":   {Name: "erlang:is_tuple/1", Arity: 1, Class: Safe, NumResults: 1, GuardSafe: true},
	"erlang:is_list/1":    {Name: "erlang:is_list/1", Arity: 1, Class: Safe, NumResults: 1, GuardSafe: true},
	"erlang:is_map/1":     {Name: "erlang:is_map/1", Arity: 1, Class: Safe, NumResults: 1, GuardSafe: true},
	"erlang:is_binary/1":  {Name: "erlang:is_binary/1", Arity: 1, Class: Safe, NumResults: 1, GuardSafe: true},
	"erlang:is_pid/1":     {Name: "erlang:is_pid/1", Arity: 1, Class: Safe, NumResults: 1, GuardSafe: true},
	"erlang:is_reference/1": {Name: "erlang:is_reference/1", Arity: 1, Class: Safe, NumResults: 1, GuardSafe: true},
	"erlang:is_function/1": {Name: "erlang:is_function/1", Arity: 1, Class: Safe, NumResults: 1, GuardSafe: true},

	"erlang:+/2":  {Name: "erlang:+/2", Arity: 2, Class: Fallible, NumResults: 2, GuardSafe: true},
	"erlang:-/2":  {Name: "erlang:-/2", Arity: 2, Class: Fallible, NumResults: 2, GuardSafe: true},
	"erlang:*/2":  {Name: "erlang:*/2", Arity: 2, Class: Fallible, NumResults: 2, GuardSafe: true},
	"erlang://2":  {Name: "erlang://2", Arity: 2, Class: Fallible, NumResults: 2, GuardSafe: true},
	"erlang:div/2": {Name: "erlang:div/2", Arity: 2, Class: Fallible, NumResults: 2, GuardSafe: true},
	"erlang:rem/2": {Name: "erlang:rem/2", Arity: 2, Class: Fallible, NumResults: 2, GuardSafe: true},

	"erlang:==/2": {Name: "erlang:==/2", Arity: 2, Class: Safe, NumResults: 1, GuardSafe: true},
	"erlang:=:=/2": {Name: "erlang:=:=/2", Arity: 2, Class: Safe, NumResults: 1, GuardSafe: true},
	"erlang:</2":  {Name: "erlang:</2", Arity: 2, Class: Safe, NumResults: 1, GuardSafe: true},
	"erlang:>/2":  {Name: "erlang:>/2", Arity: 2, Class: Safe, NumResults: 1, GuardSafe: true},

	"erlang:element/2": {Name: "erlang:element/2", Arity: 2, Class: Fallible, NumResults: 2, GuardSafe: false},
	"erlang:hd/1":       {Name: "erlang:hd/1", Arity: 1, Class: Fallible, NumResults: 2, GuardSafe: false},
	"erlang:tl/1":       {Name: "erlang:tl/1", Arity: 1, Class: Fallible, NumResults: 2, GuardSafe: false},
	"erlang:length/1":   {Name: "erlang:length/1", Arity: 1, Class: Fallible, NumResults: 2, GuardSafe: false},
	"erlang:map_get/2":  {Name: "erlang:map_get/2", Arity: 2, Class: Fallible, NumResults: 2, GuardSafe: false},

	"erlang:self/0":     {Name: "erlang:self/0", Arity: 0, Class: Safe, NumResults: 1, GuardSafe: false},
	"erlang:send/2":     {Name: "erlang:send/2", Arity: 2, Class: Fallible, NumResults: 1, GuardSafe: false},
	"erlang:spawn/1":    {Name: "erlang:spawn/1", Arity: 1, Class: Safe, NumResults: 1, GuardSafe: false},
	"erlang:spawn/3":    {Name: "erlang:spawn/3", Arity: 3, Class: Safe, NumResults: 1, GuardSafe: false},
	"erlang:error/1":    {Name: "erlang:error/1", Arity: 1, Class: Fallible, NumResults: 0, GuardSafe: false},
	"erlang:error/2":    {Name: "erlang:error/2", Arity: 2, Class: Fallible, NumResults: 0, GuardSafe: false},

	"apply/2": {Name: "apply/2", Arity: 2, Class: Fallible, NumResults: 2, GuardSafe: false},
	"apply/3": {Name: "apply/3", Arity: 3, Class: Fallible, NumResults: 2, GuardSafe: false},

	"make_fun":            {Name: "make_fun", Arity: -1, Class: Primop, NumResults: 2, GuardSafe: false},
	"unpack_env":          {Name: "unpack_env", Arity: 2, Class: Primop, NumResults: 1, GuardSafe: false},
	"remove_message":      {Name: "remove_message", Arity: 0, Class: Primop, NumResults: 0, GuardSafe: false},
	"recv_next":           {Name: "recv_next", Arity: 0, Class: Primop, NumResults: 0, GuardSafe: false},
	"recv_peek_message":   {Name: "recv_peek_message", Arity: 0, Class: Primop, NumResults: 2, GuardSafe: false},
	"recv_wait_timeout":   {Name: "recv_wait_timeout", Arity: 1, Class: Primop, NumResults: 2, GuardSafe: false},
	"build_stacktrace":    {Name: "build_stacktrace", Arity: 0, Class: Primop, NumResults: 1, GuardSafe: false},
	"nif_start":           {Name: "nif_start", Arity: 0, Class: Primop, NumResults: 0, GuardSafe: false},
	"match_fail":          {Name: "match_fail", Arity: -1, Class: Primop, NumResults: 0, GuardSafe: true},
	"is_record":           {Name: "is_record", Arity: 3, Class: Primop, NumResults: 1, GuardSafe: true},
}

// Lookup returns the contract entry for a built-in name, and false if
// it is unknown (a lowering bug, since the front end should never
// reference an undeclared Bif).
func Lookup(name string) (Entry, bool) {
	e, ok := table[name]
	return e, ok
}

// IsGuardSafe reports whether name may be called from a Guard fail
// context, per spec §4.3.5 ("Calls inside a Guard fail context are
// forbidden except for the erlang:error/1,2 family implied by
// match_fail").
func IsGuardSafe(name string) bool {
	e, ok := table[name]
	return ok && e.GuardSafe
}
