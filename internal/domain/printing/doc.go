// Package printing contains the invoice template model: the per-user styling
// (colors, fonts, layout, logo placement, custom CSS) applied when documents
// are rendered to HTML and PDF.
package printing
