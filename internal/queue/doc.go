// Package queue persists the processing state of files moving through the
// organize pipeline, backed by SQLite.
//
// A queue item records workflow state only: which stage a file is in, its
// progress, and the outcome. Identification decisions are never reused
// between runs; retrying an item re-queries the metadata provider from
// scratch.
package queue
