//go:build !unix

package adapter

import (
	"os"
	"os/exec"
)

func configureProcessGroup(*exec.Cmd) {}

func peakMemoryMB(*os.ProcessState) float64 {
	return -1
}
