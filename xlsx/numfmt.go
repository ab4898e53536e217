package xlsx

import (
	"math"
	"strconv"
	"strings"
	"time"
)

type valueKind int

const (
	kindGeneral valueKind = iota
	kindFixed
	kindGrouped
	kindPercent
	kindScientific
	kindDate
	kindTime
	kindDateTime
)

// numberFormat describes how a numeric cell is displayed.
type numberFormat struct {
	kind     valueKind
	decimals int
	ampm     bool // 12-hour clock
}

// builtinFormats covers the implicit number format IDs that carry meaning
// for display. IDs not listed render as General.
var builtinFormats = map[int]numberFormat{
	1:  {kind: kindFixed, decimals: 0},
	2:  {kind: kindFixed, decimals: 2},
	3:  {kind: kindGrouped, decimals: 0},
	4:  {kind: kindGrouped, decimals: 2},
	9:  {kind: kindPercent, decimals: 0},
	10: {kind: kindPercent, decimals: 2},
	11: {kind: kindScientific, decimals: 2},
	14: {kind: kindDate},
	15: {kind: kindDate},
	16: {kind: kindDate},
	17: {kind: kindDate},
	18: {kind: kindTime, ampm: true},
	19: {kind: kindTime, ampm: true},
	20: {kind: kindTime},
	21: {kind: kindTime},
	22: {kind: kindDateTime},
	37: {kind: kindGrouped, decimals: 0},
	38: {kind: kindGrouped, decimals: 0},
	39: {kind: kindGrouped, decimals: 2},
	40: {kind: kindGrouped, decimals: 2},
	41: {kind: kindGrouped, decimals: 0},
	42: {kind: kindGrouped, decimals: 0},
	43: {kind: kindGrouped, decimals: 2},
	44: {kind: kindGrouped, decimals: 2},
	45: {kind: kindTime},
	46: {kind: kindTime},
	47: {kind: kindTime},
	48: {kind: kindScientific, decimals: 1},
}

var (
	epoch1900 = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
	epoch1904 = time.Date(1904, 1, 1, 0, 0, 0, 0, time.UTC)
)

// parseFormatCode classifies a custom format code. Quoted literals,
// bracketed sections and escaped characters are ignored so that "[Red]" or
// "\d" do not read as date tokens.
func parseFormatCode(code string) numberFormat {
	if i := strings.IndexByte(code, ';'); i >= 0 {
		code = code[:i]
	}
	var b strings.Builder
	for i := 0; i < len(code); i++ {
		switch c := code[i]; c {
		case '"':
			for i++; i < len(code) && code[i] != '"'; i++ {
			}
		case '[':
			end := strings.IndexByte(code[i:], ']')
			if end < 0 {
				i = len(code)
				break
			}
			// elapsed time such as [h]
			if inner := strings.ToLower(code[i+1 : i+end]); inner == "h" || inner == "hh" || inner == "m" || inner == "mm" || inner == "s" || inner == "ss" {
				b.WriteString(inner)
			}
			i += end
		case '\\', '_', '*':
			i++
		default:
			b.WriteByte(c)
		}
	}

	c := strings.ToLower(b.String())
	ampm := strings.Contains(c, "am/pm") || strings.Contains(c, "a/p")
	c = strings.NewReplacer("am/pm", "", "a/p", "").Replace(c)
	hasDate := strings.ContainsAny(c, "yd")
	hasTime := strings.ContainsAny(c, "hs")
	if !hasDate && !hasTime && strings.Contains(c, "m") && !strings.ContainsAny(c, "0#?") {
		hasDate = true
	}
	switch {
	case hasDate && hasTime:
		return numberFormat{kind: kindDateTime, ampm: ampm}
	case hasDate:
		return numberFormat{kind: kindDate}
	case hasTime:
		return numberFormat{kind: kindTime, ampm: ampm}
	}

	decimals := 0
	if dot := strings.IndexByte(c, '.'); dot >= 0 {
		for _, r := range c[dot+1:] {
			if r != '0' && r != '#' {
				break
			}
			decimals++
		}
	}
	switch {
	case strings.Contains(c, "e+") || strings.Contains(c, "e-"):
		return numberFormat{kind: kindScientific, decimals: decimals}
	case strings.Contains(c, "%"):
		return numberFormat{kind: kindPercent, decimals: decimals}
	case strings.Contains(c, ","):
		return numberFormat{kind: kindGrouped, decimals: decimals}
	case strings.ContainsAny(c, "0#"):
		return numberFormat{kind: kindFixed, decimals: decimals}
	}
	return numberFormat{}
}

// format renders a raw numeric cell value. Values that do not parse are
// returned unchanged.
func (f numberFormat) format(raw string, date1904 bool) string {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return raw
	}

	switch f.kind {
	case kindFixed:
		return strconv.FormatFloat(v, 'f', f.decimals, 64)
	case kindGrouped:
		return group(strconv.FormatFloat(v, 'f', f.decimals, 64))
	case kindPercent:
		return strconv.FormatFloat(v*100, 'f', f.decimals, 64) + "%"
	case kindScientific:
		return strconv.FormatFloat(v, 'E', f.decimals, 64)
	case kindDate, kindTime, kindDateTime:
		return f.formatSerial(v, date1904)
	}
	return strconv.FormatFloat(v, 'g', 15, 64)
}

func (f numberFormat) formatSerial(serial float64, date1904 bool) string {
	if serial < 0 {
		return strconv.FormatFloat(serial, 'g', 15, 64)
	}
	epoch := epoch1900
	if date1904 {
		epoch = epoch1904
	}
	ts := epoch.Add(time.Duration(math.Round(serial*86400)) * time.Second)

	clock := "15:04:05"
	if f.ampm {
		clock = "3:04:05 PM"
	}
	switch f.kind {
	case kindDate:
		return ts.Format("2006-01-02")
	case kindTime:
		return ts.Format(clock)
	}
	return ts.Format("2006-01-02 " + clock)
}

// group inserts thousands separators into a formatted decimal number.
func group(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac, hasFrac := strings.Cut(s, ".")
	if len(whole) <= 3 {
		return sign + s
	}

	var b strings.Builder
	b.WriteString(sign)
	lead := len(whole) % 3
	if lead > 0 {
		b.WriteString(whole[:lead])
	}
	for i := lead; i < len(whole); i += 3 {
		if b.Len() > len(sign) {
			b.WriteByte(',')
		}
		b.WriteString(whole[i : i+3])
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}
