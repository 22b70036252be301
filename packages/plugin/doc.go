// Package plugin loads externally supplied modules by specifier and
// normalizes what they export into a single callable.
//
// Specifiers starting with "." are resolved against a working directory and
// imported through their file:// URL. Every other specifier is a bare
// reference handed to the importer as-is. Importers are composed with Chain:
//   - Modules: named modules registered in-process
//   - SharedObjects: Go plugins built with -buildmode=plugin
//
// Resolve accepts either a bare function or a module value exposing the
// function through a Default field (or a "default" map key).
package plugin
