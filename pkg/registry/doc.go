// Package registry maps every section type to a label, an "allowed" flag for
// the add-section menu and a factory producing a complete default instance.
// The built-in table is assembled once and never mutated.
package registry
