package adapter

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// JUnitReport is the subset of a JUnit XML report mutest reads.
type JUnitReport struct {
	XMLName xml.Name     `xml:"testsuites"`
	Suites  []JUnitSuite `xml:"testsuite"`
}

// JUnitSuite is one <testsuite> element; PHPUnit nests suites.
type JUnitSuite struct {
	Name   string          `xml:"name,attr"`
	Cases  []JUnitTestCase `xml:"testcase"`
	Suites []JUnitSuite    `xml:"testsuite"`
}

// JUnitTestCase is one <testcase> element.
type JUnitTestCase struct {
	Name      string    `xml:"name,attr"`
	Classname string    `xml:"classname,attr"`
	Time      string    `xml:"time,attr"`
	Failure   *struct{} `xml:"failure"`
	Error     *struct{} `xml:"error"`
	Skipped   *struct{} `xml:"skipped"`
}

// Duration parses the time attribute, in seconds.
func (tc JUnitTestCase) Duration() time.Duration {
	seconds, err := strconv.ParseFloat(tc.Time, 64)
	if err != nil || seconds < 0 {
		return 0
	}

	return time.Duration(seconds * float64(time.Second))
}

// Failed reports whether the case recorded a failure or an error.
func (tc JUnitTestCase) Failed() bool {
	return tc.Failure != nil || tc.Error != nil
}

// Cases returns every test case, flattening nested suites.
func (r JUnitReport) Cases() []JUnitTestCase {
	var cases []JUnitTestCase

	var walk func(suites []JUnitSuite)
	walk = func(suites []JUnitSuite) {
		for _, s := range suites {
			cases = append(cases, s.Cases...)
			walk(s.Suites)
		}
	}

	walk(r.Suites)

	return cases
}

// Timings sums the duration of each test name across suites.
func (r JUnitReport) Timings() map[string]time.Duration {
	timings := make(map[string]time.Duration)
	for _, tc := range r.Cases() {
		timings[tc.Name] += tc.Duration()
	}

	return timings
}

// ParseJUnitReport decodes a JUnit XML document.
func ParseJUnitReport(r io.Reader) (JUnitReport, error) {
	var report JUnitReport
	if err := xml.NewDecoder(r).Decode(&report); err != nil {
		return JUnitReport{}, fmt.Errorf("decode junit report: %w", err)
	}

	return report, nil
}

// ReadJUnitReport parses the JUnit XML file at path.
func ReadJUnitReport(path string) (JUnitReport, error) {
	// #nosec G304 - path is the report written by the baseline run
	f, err := os.Open(path)
	if err != nil {
		return JUnitReport{}, err
	}

	defer func() { _ = f.Close() }()

	return ParseJUnitReport(f)
}
