// Package internal contains the core infrastructure for the manicotti
// navigation engine. This includes structured logging setup and shared
// utilities. Types and functions in this package are not part of the
// public API.
package internal
