// Package urlbuilder maps a reflection tree to output pages and in-page
// anchors.
//
// A Build walks the tree once, depth-first in child order, and returns a
// Result: the ordered list of pages to render and a side table holding the
// URL, anchor and page ownership of every placed reflection. The tree is not
// modified and a Builder keeps no state between builds, so one Builder may
// serve several projects, including concurrently.
//
// Page URLs are unique ignoring case. A URL that matches an earlier one gets
// "-<n>" before its extension, with n counting up from 1 until it is free.
// Anchors within one page follow the same numbering.
package urlbuilder
