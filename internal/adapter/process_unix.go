//go:build unix

package adapter

import (
	"os"
	"os/exec"
	"runtime"
	"syscall"
)

// configureProcessGroup starts cmd in its own process group so a timeout kills
// the test binary together with the go tool that spawned it.
func configureProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}

		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}

func peakMemoryMB(state *os.ProcessState) float64 {
	if state == nil {
		return -1
	}

	usage, ok := state.SysUsage().(*syscall.Rusage)
	if !ok || usage == nil {
		return -1
	}

	maxRSS := float64(usage.Maxrss)
	if runtime.GOOS == "darwin" {
		return maxRSS / (1024 * 1024)
	}

	return maxRSS / 1024
}
