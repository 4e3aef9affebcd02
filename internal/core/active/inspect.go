package active

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

// SystemProcessLister inspects processes via pgrep and /proc.
type SystemProcessLister struct{}

// Instances lists running pids of program by exact name match.
func (SystemProcessLister) Instances(ctx context.Context, program string) ([]int, error) {
	out, err := exec.CommandContext(ctx, "pgrep", "-x", program).Output()
	if err != nil {
		// pgrep exits 1 when nothing matches; treat as empty.
		return nil, err
	}

	var pids []int
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		if line == "" {
			continue
		}
		pid, err := strconv.Atoi(line)
		if err != nil {
			continue
		}
		pids = append(pids, pid)
	}
	return pids, nil
}

// WorkingDir reads a process's working directory from /proc.
func (SystemProcessLister) WorkingDir(pid int) (string, error) {
	return os.Readlink(fmt.Sprintf("/proc/%d/cwd", pid))
}

// Command reads a process's short command name from /proc.
func (SystemProcessLister) Command(pid int) (string, error) {
	data, err := os.ReadFile(fmt.Sprintf("/proc/%d/comm", pid))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// WmctrlWindowLister inspects windows via wmctrl and process trees via
// pstree. Both tools are optional; callers treat any failure as "no
// windows".
type WmctrlWindowLister struct{}

// Windows lists on-screen windows with their owning pids.
// wmctrl -l -p lines look like: 0xWINID DESKTOP PID HOSTNAME TITLE...
func (WmctrlWindowLister) Windows(ctx context.Context) ([]Window, error) {
	out, err := exec.CommandContext(ctx, "wmctrl", "-l", "-p").Output()
	if err != nil {
		return nil, err
	}

	var windows []Window
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 5 {
			continue
		}
		pid, err := strconv.Atoi(fields[2])
		if err != nil {
			continue
		}
		title := strings.Join(fields[4:], " ")
		windows = append(windows, Window{Title: title, PID: pid})
	}
	return windows, nil
}

var pstreePID = regexp.MustCompile(`\((\d+)\)`)

// Descendants returns all pids in the process subtree rooted at pid, parsed
// out of pstree output like "kitty(123)---bash(124)---claude(125)".
func (WmctrlWindowLister) Descendants(ctx context.Context, pid int) ([]int, error) {
	out, err := exec.CommandContext(ctx, "pstree", "-p", strconv.Itoa(pid)).Output()
	if err != nil {
		return nil, err
	}

	var pids []int
	for _, match := range pstreePID.FindAllStringSubmatch(string(out), -1) {
		p, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		pids = append(pids, p)
	}
	return pids, nil
}
