package runtime

import "errors"

// Runtime lifecycle errors
var (
	ErrRuntimeClosed         = errors.New("runtime is closed")
	ErrRuntimeNotRunning     = errors.New("runtime is not running")
	ErrRuntimeAlreadyRunning = errors.New("runtime is already running")
)
