package corebench

import (
	"fmt"
	"time"
)

// SetupError reports a resource or worker-context creation failure. It is
// fatal and occurs strictly before any timing.
type SetupError struct {
	Stage string
	Err   error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("setup %s: %v", e.Stage, e.Err)
}

func (e *SetupError) Unwrap() error { return e.Err }

// OperationError reports a timed primitive call that did not succeed when it
// was expected to succeed unconditionally. It invalidates the run; no
// partial average is reported for the affected core.
type OperationError struct {
	Name  string // primitive that failed, e.g. "queue send"
	Core  int
	Round int
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s failed on core %d, round %d", e.Name, e.Core, e.Round)
}

// SyncError reports a fan-in wait that did not complete within the
// configured bound.
type SyncError struct {
	Round  int
	Waited time.Duration
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("round %d: completion wait timed out after %s", e.Round, e.Waited)
}
