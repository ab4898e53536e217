// Package csvdoc reads and writes comma-separated values.
//
// [ReadTable] decodes the source with the first encoding in an ordered
// candidate list that accepts it (utf-8, gbk, gb2312, latin-1, iso-8859-1 by
// default), sniffs the delimiter among comma, semicolon, tab and pipe, and
// returns a normalized [model.Table]:
//
//	t, enc, err := csvdoc.ReadTable(data, csvdoc.Options{})
//	if err != nil {
//		// *model.MalformedInputError, *model.EncodingError
//	}
//
// [Write] emits a table as UTF-8 CSV.
package csvdoc
