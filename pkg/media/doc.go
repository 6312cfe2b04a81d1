// Package media covers the collaborator side of media handling: resolving
// stored keys to URLs, the single-shot picker future editors await, and the
// client for the object store that backs the picker.
package media
