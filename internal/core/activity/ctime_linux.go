//go:build linux

package activity

import (
	"os"
	"syscall"
	"time"
)

// changeTime returns the inode change time, the closest thing Linux offers
// to a creation timestamp.
func changeTime(info os.FileInfo) time.Time {
	if stat, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(stat.Ctim.Sec, stat.Ctim.Nsec)
	}
	return info.ModTime()
}
