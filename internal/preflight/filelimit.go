package preflight

import (
	"fmt"
	"syscall"
)

// MinFileDescriptors covers one run: the dictionary, the log, an index file
// with its lock or the index database, plus the hash file in batch mode.
const MinFileDescriptors = 64

// CheckFileDescriptors compares the soft open-file limit with
// MinFileDescriptors. When the hard limit allows it, the suggestion names
// the value to raise the soft limit to.
func (c *Checker) CheckFileDescriptors() CheckResult {
	soft, hard, err := openFileLimits()
	if err != nil {
		return CheckResult{
			Name:     "file_descriptors",
			Status:   StatusFail,
			Message:  "cannot read open file limit",
			Details:  err.Error(),
			Required: true,
		}
	}

	result := CheckResult{
		Name:     "file_descriptors",
		Status:   StatusPass,
		Message:  fmt.Sprintf("soft limit %d (minimum: %d)", soft, MinFileDescriptors),
		Required: true,
	}
	if soft >= MinFileDescriptors {
		return result
	}

	result.Status = StatusFail
	if hard >= MinFileDescriptors {
		result.Details = fmt.Sprintf("Raise it with 'ulimit -n %d'", min(hard, 1024))
	} else {
		result.Details = fmt.Sprintf("Hard limit is %d; raise it in the system limits configuration", hard)
	}
	return result
}

func openFileLimits() (soft, hard uint64, err error) {
	var lim syscall.Rlimit
	if err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &lim); err != nil {
		return 0, 0, fmt.Errorf("getrlimit: %w", err)
	}
	return lim.Cur, lim.Max, nil
}
