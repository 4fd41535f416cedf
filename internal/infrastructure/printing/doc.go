// Package printing turns joined document views into HTML and PDF.
//
// TemplateEngine is the pure HTML renderer: one embedded html/template
// styled by an invoice template. ChromedpRenderer prints that HTML to PDF
// with a shared headless Chrome, bounded by a fixed number of tabs.
package printing
