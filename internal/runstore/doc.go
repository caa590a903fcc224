// Package runstore persists pipeline run state in SQLite. Each processed
// video is one run row that advances through the stage statuses; the table is
// the source of truth for `talktrack runs list` and for resuming cleanup
// after failures.
package runstore
