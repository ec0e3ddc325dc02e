// Package render turns the pages of a URL build into Markdown files.
//
// A Theme renders one page body; the Renderer adds frontmatter, renders every
// page and writes the results below an output directory. Path decisions all
// come from the URL build: nothing here computes a location.
package render
