package model

import (
	"strings"
	"time"
)

// CommandLine is a fully built test runner invocation.
type CommandLine struct {
	Path string
	Args []string
	Dir  string
	Env  []string
	// Files are written (path -> content) before the command runs.
	Files map[string][]byte
}

func (c CommandLine) String() string {
	return strings.TrimSpace(c.Path + " " + strings.Join(c.Args, " "))
}

// Outcome is the raw result of one supervised test process.
type Outcome struct {
	Output       string
	ExitCode     int
	Elapsed      time.Duration
	PeakMemoryMB float64
	TimedOut     bool
	Err          error
}
