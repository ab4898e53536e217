// Package model holds the in-memory representations shared by every
// conversion: the rectangular [Table] fed to the layout planner, the block
// oriented [Document] produced by the text-bearing readers, page geometry
// and the error taxonomy.
//
// # Tables
//
// A [Table] is built once per request with [NewTable] and never mutated:
//
//	t, err := model.NewTable(rows, true)
//	if err != nil {
//		// *model.MalformedInputError
//	}
//	for i := 0; i < t.RowCount(); i++ {
//		fmt.Println(t.Row(i))
//	}
//
// Every row of a table has exactly [Table.ColumnCount] cells. Short rows are
// padded with empty strings and long rows are truncated at construction.
//
// # Documents
//
// Readers for Word, PowerPoint, HTML and PDF produce a [Document], an ordered
// list of [Block] values:
//
//   - [Heading] - headings (levels 1-6)
//   - [Paragraph] - plain paragraphs
//   - [ListItem] - bulleted or numbered list entries
//   - [TableBlock] - an embedded [Table]
//   - [PageBreak] - an explicit page or slide boundary
//
// # Errors
//
// Failures are reported with typed errors so callers can use errors.As:
// [MalformedInputError], [EncodingError], [GeometryError],
// [CollaboratorError] and [UnsupportedConversionError].
package model
