// Package hclplan loads scheduling plans from HCL files.
//
// A plan lives in one or more .hcl files. Each task is a labelled block;
// run-wide settings sit in an optional plan block:
//
//	plan {
//	  start_time = "2025-11-03 09:00"
//	}
//
//	task "ingest" {
//	  duration   = 30
//	  priority   = 8
//	  depends_on = ["fetch"]
//	  deadline   = "2025-11-03 11:00"
//	}
//
// Load accepts a single file or a directory tree; tasks from multiple files
// merge into one plan in file name order, and at most one plan block may
// appear across all of them. Timestamps accept RFC 3339 or the compact
// "2006-01-02 15:04" form. A duration is either a bare number of minutes or
// a Go duration string such as "1h30m" that resolves to whole minutes.
package hclplan
