// Package section defines the page document: a SiteConfig holding theme,
// metadata and an ordered list of typed sections. Sections form a closed union;
// every variant embeds Base and is identified by its Type tag on the wire.
//
// The package holds data and codecs only. Creation defaults live in the
// registry package, presentation in render, and editing in editor.
package section
