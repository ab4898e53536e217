// Package pdfgen writes PDF documents with github.com/go-pdf/fpdf.
//
// [Canvas] implements render.Canvas in points with a top-left origin. By
// default text is set in the built-in Helvetica faces through the cp1252
// translator; supplying a TrueType font in [Options] switches to UTF-8 text
// and [UTF8Metrics] measures with that font's widths.
//
// Output is deterministic: creation and modification dates are fixed and the
// catalog is sorted, so identical drawing calls produce identical bytes.
//
// [Images] lays raster images out one per page.
package pdfgen
