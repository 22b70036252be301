// Package events models the message stream emitted during a test run and
// provides the broadcaster formatters subscribe to.
//
// It provides functionality for:
//   - Envelope types for sources, pickles, step definitions and run lifecycle
//   - A synchronous, thread-safe event broadcaster
//   - Decoding and encoding newline-delimited JSON message streams
package events
