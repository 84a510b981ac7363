// Package component defines lifecycle interfaces for long-lived parts of a
// process and a Registry that starts them in order and stops them in
// reverse.
//
// # Interfaces
//
//   - Component: Start/Stop/Health lifecycle
//   - Describable: startup summary descriptions
package component
