// Package types defines the Store interface, the attribute and row shapes
// used to build statements, configuration, and the standard errors for the
// taskboard storage layer.
package types
