package lift

import (
	"path/filepath"

	"github.com/spf13/afero"
)

// dumpDebug best-effort writes module to the configured debug dump path, if one was set via
// WithDebugDumpPath. Failures are logged (when a logger is configured) and otherwise swallowed:
// the debug dump is a convenience for a human inspecting a fuzzer crash, never a condition Lift
// itself depends on.
func (lf *Lifter) dumpDebug(module []byte) {
	if lf.debugDumpPath == "" {
		return
	}
	if err := lf.debugFs.MkdirAll(filepath.Dir(lf.debugDumpPath), 0o755); err != nil {
		lf.logf("wasmlift: debug dump mkdir failed: %v", err)
		return
	}
	if err := afero.WriteFile(lf.debugFs, lf.debugDumpPath, module, 0o644); err != nil {
		lf.logf("wasmlift: debug dump write failed: %v", err)
	}
}
