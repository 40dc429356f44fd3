package scheduler

import (
	"github.com/glow-lang/glow/internal/term"
	"go.uber.org/zap"
)

func zapPid(pid *term.Pid) zap.Field {
	if pid == nil {
		return zap.Skip()
	}
	return zap.Uint64("pid", pid.Index)
}

func zapParent(pid *term.Pid) zap.Field {
	if pid == nil {
		return zap.Skip()
	}
	return zap.Uint64("parent_pid", pid.Index)
}
