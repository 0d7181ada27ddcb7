// Package process terminates browser process trees.
package process

import "errors"

// ErrInvalidPID is returned for pids that cannot lead a process group.
var ErrInvalidPID = errors.New("invalid pid")
