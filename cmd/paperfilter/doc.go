// Package main hosts the paperfilter CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once per invocation, applies
// flag overrides, and hands off to the internal packages: pipeline for runs,
// preflight for readiness checks, reference for inspecting the ranking table,
// and history for the run ledger.
package main
