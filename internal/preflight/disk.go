package preflight

import (
	"fmt"
	"syscall"
)

// MinDiskSpaceBytes is the free space required where indexes are written.
// A full-wordlist index is roughly the dictionary size times the digest
// width, so 100MB covers common wordlists at every hash type.
const MinDiskSpaceBytes = 100 * 1024 * 1024

// CheckDiskSpace reports the free space on the filesystem holding dir. A
// directory that does not exist yet is measured at its nearest existing
// parent.
func (c *Checker) CheckDiskSpace(dir string) CheckResult {
	free, measured, err := freeSpace(dir)
	if err != nil {
		return CheckResult{
			Name:     "disk_space",
			Status:   StatusFail,
			Message:  "cannot measure free space",
			Details:  err.Error(),
			Required: true,
		}
	}

	status := StatusPass
	if free < MinDiskSpaceBytes {
		status = StatusFail
	}
	return CheckResult{
		Name:     "disk_space",
		Status:   status,
		Message:  fmt.Sprintf("%s free at %s (minimum: %s)", formatBytes(free), measured, formatBytes(MinDiskSpaceBytes)),
		Required: true,
	}
}

// freeSpace returns the bytes available to unprivileged users on the
// filesystem of dir, and the directory actually measured.
func freeSpace(dir string) (uint64, string, error) {
	measured, err := nearestExisting(dir)
	if err != nil {
		return 0, "", err
	}
	var st syscall.Statfs_t
	if err := syscall.Statfs(measured, &st); err != nil {
		return 0, measured, fmt.Errorf("statfs %s: %w", measured, err)
	}
	return st.Bavail * uint64(st.Bsize), measured, nil
}

var byteUnits = []string{"KB", "MB", "GB", "TB"}

// formatBytes renders n with one decimal in the largest unit not exceeding it.
func formatBytes(n uint64) string {
	if n < 1024 {
		return fmt.Sprintf("%d bytes", n)
	}
	value := float64(n) / 1024
	unit := 0
	for value >= 1024 && unit < len(byteUnits)-1 {
		value /= 1024
		unit++
	}
	return fmt.Sprintf("%.1f %s", value, byteUnits[unit])
}
