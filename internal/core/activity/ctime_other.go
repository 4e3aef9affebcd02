//go:build !linux

package activity

import (
	"os"
	"time"
)

// changeTime falls back to mtime on platforms without a portable creation
// timestamp.
func changeTime(info os.FileInfo) time.Time {
	return info.ModTime()
}
