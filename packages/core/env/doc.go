// Package env expands environment references in configuration values.
//
// Values may refer to variables as ${NAME} or ${NAME:-fallback}. Lookups
// consult the process environment first and then any variables read from
// a .env file.
package env
