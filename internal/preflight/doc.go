// Package preflight provides readiness checks for the filesystem paths and
// reference data a filter run depends on.
//
// The "paperfilter check" command runs RunAll and prints each Result. The
// checks only read; nothing is created or modified.
package preflight
