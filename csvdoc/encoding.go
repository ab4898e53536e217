package csvdoc

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"

	"github.com/quirelabs/quire/model"
)

// DefaultEncodings is the order in which source encodings are attempted.
var DefaultEncodings = []string{"utf-8", "gbk", "gb2312", "latin-1", "iso-8859-1"}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decoder turns raw bytes into text, failing when the bytes are not valid
// in its encoding.
type decoder func([]byte) (string, bool)

// decoders maps normalized encoding names to decoders. x/text decoders
// substitute U+FFFD for invalid input instead of failing, so each one checks
// validity itself.
var decoders = map[string]decoder{
	"utf-8":      decodeUTF8,
	"utf8":       decodeUTF8,
	"gbk":        decodeGBK,
	"cp936":      decodeGBK,
	"gb2312":     decodeGB2312,
	"euc-cn":     decodeGB2312,
	"latin-1":    decodeLatin1,
	"latin1":     decodeLatin1,
	"iso-8859-1": decodeLatin1,
	"cp1252":     decodeWindows1252,
}

// Supported reports whether name is a known encoding.
func Supported(name string) bool {
	_, ok := decoders[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// Decode tries each encoding in order and returns the text decoded by the
// first one that accepts data, along with that encoding's name. A UTF-8
// byte order mark is removed. When every candidate fails the error is a
// *model.EncodingError listing them.
func Decode(data []byte, encodings []string) (string, string, error) {
	if len(encodings) == 0 {
		encodings = DefaultEncodings
	}
	for _, name := range encodings {
		dec, ok := decoders[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			continue
		}
		if text, ok := dec(data); ok {
			return text, name, nil
		}
	}
	return "", "", &model.EncodingError{Attempted: append([]string(nil), encodings...)}
}

func decodeUTF8(b []byte) (string, bool) {
	b = bytes.TrimPrefix(b, utf8BOM)
	if !utf8.Valid(b) {
		return "", false
	}
	return string(b), true
}

func decodeWith(enc encoding.Encoding, b []byte) (string, bool) {
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil || bytes.ContainsRune(out, utf8.RuneError) {
		return "", false
	}
	return string(out), true
}

func decodeGBK(b []byte) (string, bool) {
	return decodeWith(simplifiedchinese.GBK, b)
}

// decodeGB2312 accepts only the EUC-CN subset of GBK: ASCII plus double-byte
// sequences with both bytes in 0xA1-0xFE and a lead byte no higher than 0xF7.
func decodeGB2312(b []byte) (string, bool) {
	for i := 0; i < len(b); i++ {
		c := b[i]
		if c < 0x80 {
			continue
		}
		if c < 0xA1 || c > 0xF7 || i+1 >= len(b) || b[i+1] < 0xA1 || b[i+1] > 0xFE {
			return "", false
		}
		i++
	}
	return decodeWith(simplifiedchinese.GBK, b)
}

func decodeLatin1(b []byte) (string, bool) {
	return decodeWith(charmap.ISO8859_1, b)
}

func decodeWindows1252(b []byte) (string, bool) {
	return decodeWith(charmap.Windows1252, b)
}
