// Package logging writes structured JSON logs to a size-rotated file.
//
// Every crack run gets a run_id so the events of one invocation can be
// grouped when reading the file back with the logs command.
package logging
