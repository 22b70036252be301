// Package formatter provides the formatters that render a test run.
//
// Built-in formatters:
//   - message: the raw message stream as NDJSON
//   - json: Cucumber JSON report
//   - html: standalone HTML report
//   - progress: one character per step, then a summary
//   - progress-bar: live progress bar with issues printed as they occur
//   - rerun: locations of scenarios that did not pass
//   - snippets: step definition snippets for undefined steps
//   - summary: issues and counts at the end of the run
//   - usage, usage-json: step definition usage and durations
//
// Every formatter is created by a Constructor from Options and subscribes to
// the run's event broadcaster. Finished is called once the run is over.
package formatter
