package csvdoc

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"golang.org/x/text/encoding/simplifiedchinese"

	"github.com/quirelabs/quire/model"
)

func gbk(t *testing.T, s string) []byte {
	t.Helper()
	b, err := simplifiedchinese.GBK.NewEncoder().Bytes([]byte(s))
	if err != nil {
		t.Fatalf("encode gbk: %v", err)
	}
	return b
}

func TestReadTable(t *testing.T) {
	data := []byte("name,qty,note\napple,3,fresh\npear,10\n")
	tbl, enc, err := ReadTable(data, Options{})
	if err != nil {
		t.Fatalf("ReadTable() error = %v", err)
	}
	if enc != "utf-8" {
		t.Errorf("encoding = %q, want utf-8", enc)
	}
	if !tbl.HasHeader() || tbl.RowCount() != 3 || tbl.ColumnCount() != 3 {
		t.Errorf("table = %d rows x %d cols, header %v", tbl.RowCount(), tbl.ColumnCount(), tbl.HasHeader())
	}
	if tbl.Cell(2, 2) != "" {
		t.Errorf("short row not padded: %q", tbl.Cell(2, 2))
	}
}

func TestReadTableEncodingFallback(t *testing.T) {
	data := gbk(t, "名字,年龄\n张三,30\n")

	tests := []struct {
		name      string
		encodings []string
		want      string
	}{
		{"default order picks gbk", nil, "gbk"},
		{"gb2312 when listed first", []string{"utf-8", "gb2312", "gbk"}, "gb2312"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, enc, err := ReadTable(data, Options{Encodings: tt.encodings})
			if err != nil {
				t.Fatalf("ReadTable() error = %v", err)
			}
			if enc != tt.want {
				t.Errorf("encoding = %q, want %q", enc, tt.want)
			}
			if tbl.Cell(0, 0) != "名字" || tbl.Cell(1, 0) != "张三" {
				t.Errorf("decoded cells = %v", tbl.Rows())
			}
		})
	}
}

func TestReadTableLatin1(t *testing.T) {
	tbl, enc, err := ReadTable([]byte("caf\xe9,prix\nth\xe9,2\n"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if enc != "latin-1" || tbl.Cell(0, 0) != "café" {
		t.Errorf("got %q decoded as %q", tbl.Cell(0, 0), enc)
	}
}

func TestReadTableEncodingError(t *testing.T) {
	_, _, err := ReadTable([]byte{0xff, 0xff, ',', 0xff}, Options{Encodings: []string{"utf-8", "gbk"}})
	var ee *model.EncodingError
	if !errors.As(err, &ee) {
		t.Fatalf("error = %v, want *model.EncodingError", err)
	}
	if strings.Join(ee.Attempted, ",") != "utf-8,gbk" {
		t.Errorf("Attempted = %v", ee.Attempted)
	}
}

func TestReadTableMalformed(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		opts Options
	}{
		{"empty", nil, Options{}},
		{"blank lines", []byte("\n\n  \n"), Options{}},
		{"over limit", []byte("a,b\n1,2\n"), Options{MaxBytes: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, _, err := ReadTable(tt.data, tt.opts)
			if tbl != nil {
				t.Error("expected no table")
			}
			var me *model.MalformedInputError
			if !errors.As(err, &me) {
				t.Errorf("error = %v, want *model.MalformedInputError", err)
			}
		})
	}
}

func TestReadTableOptions(t *testing.T) {
	data := []byte("\xef\xbb\xbfa|b\n1|2\n")
	tbl, _, err := ReadTable(data, Options{NoHeader: true})
	if err != nil {
		t.Fatal(err)
	}
	if tbl.HasHeader() || tbl.Cell(0, 0) != "a" || tbl.Cell(1, 1) != "2" {
		t.Errorf("rows = %v header = %v", tbl.Rows(), tbl.HasHeader())
	}

	tbl, _, err = ReadTable([]byte("a;b,c\n"), Options{Delimiter: ','})
	if err != nil {
		t.Fatal(err)
	}
	if tbl.ColumnCount() != 2 || tbl.Cell(0, 0) != "a;b" {
		t.Errorf("forced delimiter rows = %v", tbl.Rows())
	}
}

func TestSniffDelimiter(t *testing.T) {
	tests := []struct {
		text string
		want rune
	}{
		{"a,b,c\n1,2,3\n", ','},
		{"a;b;c\n1;2;3\n", ';'},
		{"a\tb\n1\t2\n", '\t'},
		{"a|b\n1|2\n", '|'},
		{"single\ncolumn\n", ','},
		{"a;b\n1,5;2,5\n3,1;4,2\n", ';'},
	}

	for _, tt := range tests {
		if got := SniffDelimiter(tt.text); got != tt.want {
			t.Errorf("SniffDelimiter(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
	if LooksLikeCSV("no separators here") {
		t.Error("LooksLikeCSV() = true for plain text")
	}
}

func TestWrite(t *testing.T) {
	tbl, _ := model.NewTable([][]string{{"id", "Unnamed: 1"}, {"1", "a,b"}}, true)
	var buf bytes.Buffer
	if err := Write(&buf, tbl); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "id,\n1,\"a,b\"\n" {
		t.Errorf("Write() = %q", got)
	}
}

func TestDecodeUnknownEncoding(t *testing.T) {
	if Supported("klingon") || !Supported(" UTF-8 ") {
		t.Error("Supported() mismatch")
	}
	text, enc, err := Decode([]byte("ok"), []string{"klingon", "latin1"})
	if err != nil || enc != "latin1" || text != "ok" {
		t.Errorf("Decode() = %q, %q, %v", text, enc, err)
	}
}
