// Package cmd implements the cukefmt CLI commands using Cobra.
//
// Available commands:
//   - format: Replay a message stream through one or more formatters
//   - init: Write a starter config file
//   - list: Display the built-in formatter types
//   - validate: Check message streams and the config file
//   - version: Show cukefmt version information
//   - completion: Generate shell completion scripts
//
// The format command supports several --format flags, formatter options
// from a config file or JSON, and a watch mode that replays the stream
// whenever it changes.
package cmd
