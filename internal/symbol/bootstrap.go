package symbol

// Bootstrap categories, ported in order from the original compiler's
// autogenerated intern table so that well-known symbols keep stable,
// low-numbered ids across builds. Order within a category is otherwise
// arbitrary but must never change once released.

// keywords are the reserved words of the surface language.
var keywords = []string{
	"after", "and", "andalso", "band", "begin", "bnot", "bor", "bsl", "bsr",
	"bxor", "case", "catch", "div", "end", "fun", "if", "not", "of", "or",
	"orelse", "receive", "rem", "try", "when", "xor",
}

// attributes are module-attribute names; is_reserved treats these (and
// keywords) as reserved identifiers.
var attributes = []string{
	"behaviour", "callback", "compile", "deprecated", "export", "import",
	"module", "nifs", "on_load", "spec", "vsn",
}

// directives are preprocessor directive names.
var directives = []string{
	"define", "elif", "else", "endif", "error", "file", "ifdef", "ifndef",
	"include", "include_lib", "line", "undef", "warning",
}

// operators are lexical operator tokens interned so generated code and
// the lexer can compare against stable ids instead of strings.
var operators = []string{
	"!", "*", "+", "++", "-", "--", "/", "/=", "<", "=/=", "=:=", "=<",
	"==", ">", ">=", "_",
}

// guardPredicates are the built-in guard-safe predicate and function
// names the lowering pass recognizes for specialized dispatch (e.g.
// is_record) or for classifying a call as guard-legal.
var guardPredicates = []string{
	"is_atom", "is_binary", "is_bitstring", "is_boolean", "is_float",
	"is_function", "is_integer", "is_list", "is_map", "is_number", "is_pid",
	"is_port", "is_record", "is_reference", "is_tuple",
	"abs", "apply", "binary_part", "bit_size", "build_stacktrace",
	"byte_size", "ceil", "element", "float", "floor", "hd", "is_map_key",
	"length", "make_fun", "map_get", "map_size", "match_fail", "node",
	"raise", "recv_peek_message", "recv_wait_timeout", "remove_message",
	"round", "self", "setelement", "size", "throw", "tl", "trunc",
	"tuple_size",
}

// commonAtoms are atoms constructed routinely enough by generated code
// that interning them once at bootstrap avoids interner contention on
// the hot path.
var commonAtoms = []string{
	"false", "true", "ok", "error", "undefined", "infinity", "EXIT",
	"badarg", "badarith", "badmatch", "badmap", "badrecord", "badfun",
	"case_clause", "function_clause", "if_clause", "try_clause",
	"nocatch", "timeout", "normal", "kill", "killed", "shutdown",
	"nif_error", "compiler_generated", "module_info", "ok_or_error",
}

// bootstrapCategory records which category a pre-registered symbol
// belongs to, for the is_keyword/is_reserved/is_directive predicates.
type bootstrapCategory uint8

const (
	catNone bootstrapCategory = iota
	catKeyword
	catAttribute
	catDirective
	catOperator
	catGuardPredicate
	catCommonAtom
)
