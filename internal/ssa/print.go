package ssa

import (
	"fmt"
	"strings"
)

// Print renders fn as the textual IR form that `glowc lower` prints:
// one line per block header, one line per
// instruction, matching the teacher's disassembly style of a label
// followed by indented mnemonic lines.
func Print(fn *Function) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "func %s/%d {\n", fn.Sig.Name, fn.Sig.Arity)
	for _, blk := range fn.blocks {
		if blk == nil {
			continue
		}
		fmt.Fprintf(&sb, "  block%d(%s):\n", blk.ID, printParams(blk.Params))
		for _, ins := range blk.Instrs {
			fmt.Fprintf(&sb, "    %s\n", printInstr(ins))
		}
	}
	sb.WriteString("}\n")
	return sb.String()
}

func printParams(params []ValueID) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = fmt.Sprintf("v%d", p)
	}
	return strings.Join(parts, ", ")
}

func printInstr(ins Instr) string {
	var results string
	if len(ins.Results) > 0 {
		parts := make([]string, len(ins.Results))
		for i, r := range ins.Results {
			parts[i] = fmt.Sprintf("v%d", r)
		}
		results = strings.Join(parts, ", ") + " = "
	}
	args := make([]string, len(ins.Args))
	for i, a := range ins.Args {
		args[i] = fmt.Sprintf("v%d", a)
	}
	line := fmt.Sprintf("%s%s %s", results, ins.Op, strings.Join(args, ", "))
	if len(ins.Targets) > 0 {
		targets := make([]string, len(ins.Targets))
		for i, e := range ins.Targets {
			targets[i] = printEdge(e)
		}
		line += " -> " + strings.Join(targets, ", ")
	}
	if len(ins.Switch) > 0 {
		arms := make([]string, len(ins.Switch))
		for i, a := range ins.Switch {
			arms[i] = fmt.Sprintf("%d: %s", a.Value, printEdge(a.Edge))
		}
		line += " [" + strings.Join(arms, "; ") + "]"
		if ins.Default != nil {
			line += " default " + printEdge(*ins.Default)
		}
	}
	return strings.TrimRight(line, " ")
}

func printEdge(e Edge) string {
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = fmt.Sprintf("v%d", a)
	}
	if len(args) == 0 {
		return fmt.Sprintf("block%d", e.Target)
	}
	return fmt.Sprintf("block%d(%s)", e.Target, strings.Join(args, ", "))
}
