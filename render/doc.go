// Package render draws planned content onto a page canvas.
//
// The renderers here make no layout decisions. [Table] walks a
// [layout.Plan] column band by column band and row band by row band, one
// page per pair, redrawing the header on every page. [Document] flows the
// blocks of a [model.Document] down fixed-size pages.
//
// Drawing goes through the narrow [Canvas] interface. The PDF
// implementation lives in package pdfgen; tests use a recording fake.
package render
