package xlsx

import (
	"strings"
	"unicode/utf8"
)

// MaxSheetName is the longest sheet name Excel accepts, in characters.
const MaxSheetName = 31

var (
	sheetNameStripper = strings.NewReplacer(`\`, "", "/", "", "?", "", "*", "", "[", "", "]", "", ":", "")
	fileNameReplacer  = strings.NewReplacer(`\`, "_", "/", "_", ":", "_", "*", "_", "?", "_", `"`, "_", "<", "_", ">", "_", "|", "_")
)

// SanitizeSheetName removes characters Excel rejects in sheet names and
// truncates to MaxSheetName characters. An empty result becomes "Sheet1".
func SanitizeSheetName(name string) string {
	name = strings.TrimSpace(sheetNameStripper.Replace(name))
	if utf8.RuneCountInString(name) > MaxSheetName {
		name = string([]rune(name)[:MaxSheetName])
	}
	name = strings.Trim(name, "'")
	if name == "" {
		return "Sheet1"
	}
	return name
}

// SanitizeFileName makes name safe as a file name component on common file
// systems. An empty result becomes "sheet".
func SanitizeFileName(name string) string {
	name = strings.Trim(fileNameReplacer.Replace(name), " .")
	if name == "" {
		return "sheet"
	}
	return name
}

// CSVName returns the file name for one sheet exported from the workbook
// base: "base.csv" when the sheet is named after the workbook, otherwise
// "base_sheet.csv".
func CSVName(base, sheet string) string {
	if strings.EqualFold(strings.TrimSpace(base), strings.TrimSpace(sheet)) {
		return SanitizeFileName(base) + ".csv"
	}
	return SanitizeFileName(base) + "_" + SanitizeFileName(sheet) + ".csv"
}
