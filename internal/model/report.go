package model

import (
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of a mutant.
type Status int

const (
	// Pending mutants are selected but not yet executed.
	Pending Status = iota
	// Running mutants have a test process in flight.
	Running
	// Killed indicates the mutation was detected by tests.
	Killed
	// Escaped indicates the tests still passed against the mutant.
	Escaped
	// Timeout indicates the test run exceeded its wall-clock bound.
	Timeout
	// Error indicates the mutant could not be generated or the run crashed.
	Error
	// NotCovered indicates no test exercises the mutated line.
	NotCovered
	// Ignored indicates the mutant was never judged, e.g. the budget ran out.
	Ignored
)

var statusNames = map[Status]string{
	Pending:    "pending",
	Running:    "running",
	Killed:     "killed",
	Escaped:    "escaped",
	Timeout:    "timeout",
	Error:      "error",
	NotCovered: "not_covered",
	Ignored:    "ignored",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}

	return "unknown"
}

// ParseStatus converts a status name back into a Status.
func ParseStatus(name string) (Status, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for status, n := range statusNames {
		if n == name {
			return status, nil
		}
	}

	return Pending, fmt.Errorf("unknown status %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}

	*s = parsed

	return nil
}

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return s != Pending && s != Running
}

// CanBecome reports whether the lifecycle allows moving from s to next.
//
//	Pending -> Running -> {Killed, Escaped, Timeout, Error, Ignored}
//	Pending -> {NotCovered, Ignored, Error}
func (s Status) CanBecome(next Status) bool {
	switch s {
	case Pending:
		return next == Running || next == NotCovered || next == Ignored || next == Error
	case Running:
		return next == Killed || next == Escaped || next == Timeout || next == Error || next == Ignored
	default:
		return false
	}
}

// Result is the classification of one mutant.
type Result struct {
	SiteID   string        `json:"id" yaml:"id"`
	File     Path          `json:"file" yaml:"file"`
	Line     int           `json:"line" yaml:"line"`
	Column   int           `json:"column" yaml:"column"`
	Mutator  string        `json:"mutator" yaml:"mutator"`
	Category Category      `json:"category" yaml:"category"`
	Original string        `json:"original" yaml:"original"`
	Mutated  string        `json:"mutated,omitempty" yaml:"mutated,omitempty"`
	Diff     string        `json:"diff,omitempty" yaml:"diff,omitempty"`
	Status   Status        `json:"status" yaml:"status"`
	Output   string        `json:"output,omitempty" yaml:"output,omitempty"`
	MemoryMB float64       `json:"memory_mb" yaml:"memory_mb"`
	Elapsed  time.Duration `json:"elapsed" yaml:"elapsed"`
	Error    string        `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewResult creates a result for site with the given status.
func NewResult(site Site, status Status) Result {
	result := Result{
		SiteID:   site.ID,
		Line:     site.Line,
		Column:   site.Column,
		Mutator:  site.Mutator,
		Category: site.Category,
		Original: site.Original,
		Status:   status,
		MemoryMB: -1,
	}

	if site.Source.Origin != nil {
		result.File = site.Source.Origin.ShortPath
		if result.File == "" {
			result.File = site.Source.Origin.FullPath
		}
	}

	return result
}

// Score aggregates result counts into the mutation score.
type Score struct {
	// Value is Killed / denominator, in [0, 1]. It is 0 when Defined is false.
	Value float64 `json:"value" yaml:"value"`
	// Defined is false when the denominator was zero.
	Defined bool `json:"defined" yaml:"defined"`
	// CoveredRatio is the share of non-ignored sites that tests exercise.
	CoveredRatio float64 `json:"covered_ratio" yaml:"covered_ratio"`

	Killed     int `json:"killed" yaml:"killed"`
	Escaped    int `json:"escaped" yaml:"escaped"`
	Timeout    int `json:"timeout" yaml:"timeout"`
	Errors     int `json:"errors" yaml:"errors"`
	NotCovered int `json:"not_covered" yaml:"not_covered"`
	Ignored    int `json:"ignored" yaml:"ignored"`
	Total      int `json:"total" yaml:"total"`
}

// Report is the outcome of one run (or one shard of a run).
type Report struct {
	RunID      string    `json:"run_id" yaml:"run_id"`
	Framework  string    `json:"framework" yaml:"framework"`
	Started    time.Time `json:"started" yaml:"started"`
	Finished   time.Time `json:"finished" yaml:"finished"`
	ShardIndex int       `json:"shard_index" yaml:"shard_index"`
	ShardCount int       `json:"shard_count" yaml:"shard_count"`
	Results    []Result  `json:"results" yaml:"results"`
	Score      Score     `json:"score" yaml:"score"`
}
