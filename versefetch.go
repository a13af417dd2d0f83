// Package versefetch extracts Sanskrit verse text from the HTML pages of a
// legacy document archive. It handles both modern single-page layouts and
// the older frameset layouts still served for early chapters, and can
// process either a single page or an entire multi-chapter collection.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., http/, goquery/, robotstxt/).
package versefetch
