// Package driving provides interfaces for actor-facing adapters
// (primary/inbound ports). The CLI and TUI depend on these, never on
// the concrete services.
package driving
