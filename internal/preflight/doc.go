// Package preflight checks that a crack run can do its work before it
// starts: that the index and log locations are writable with room to spare,
// that the process may open enough files, and optionally that a dictionary
// is readable and how complete its index is.
//
// Use the Checker type to run all validations:
//
//	checker := preflight.New(preflight.WithStore(store, digest.MD5))
//	results := checker.RunAll(ctx, preflight.Target{IndexDir: dir, LogDir: logs})
//	if checker.HasCriticalFailures(results) {
//	    // Handle failures
//	}
package preflight
