package convert

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"

	"github.com/quirelabs/quire/docx"
	"github.com/quirelabs/quire/format"
	"github.com/quirelabs/quire/layout"
	"github.com/quirelabs/quire/model"
	"github.com/quirelabs/quire/ocr"
	"github.com/quirelabs/quire/raster"
	"github.com/quirelabs/quire/xlsx"
)

func table(t *testing.T, rows ...[]string) *model.Table {
	t.Helper()
	tbl, err := model.NewTable(rows, true)
	require.NoError(t, err)
	return tbl
}

func workbook(t *testing.T, sheets ...xlsx.Sheet) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, xlsx.Write(&buf, sheets...))
	return buf.Bytes()
}

func pngImage(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.Black)
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// presentation builds a one-slide deck holding a title and a body line.
func presentation(t *testing.T, title, body string) []byte {
	t.Helper()
	const (
		nsA   = "http://schemas.openxmlformats.org/drawingml/2006/main"
		nsP   = "http://schemas.openxmlformats.org/presentationml/2006/main"
		nsR   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
		rels  = `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`
		shape = `<p:sp><p:nvSpPr><p:cNvPr id="1" name="%s"/><p:cNvSpPr/><p:nvPr>%s</p:nvPr></p:nvSpPr><p:spPr/>` +
			`<p:txBody><a:bodyPr/><a:p><a:r><a:t>%s</a:t></a:r></a:p></p:txBody></p:sp>`
	)
	files := map[string]string{
		"_rels/.rels": rels + `<Relationship Id="rId1" Type="` + nsR + `/officeDocument" Target="ppt/presentation.xml"/></Relationships>`,
		"ppt/presentation.xml": `<p:presentation xmlns:p="` + nsP + `" xmlns:r="` + nsR + `">` +
			`<p:sldIdLst><p:sldId id="256" r:id="rId1"/></p:sldIdLst><p:sldSz cx="9144000" cy="6858000"/></p:presentation>`,
		"ppt/_rels/presentation.xml.rels": rels + `<Relationship Id="rId1" Type="` + nsR + `/slide" Target="slides/slide1.xml"/></Relationships>`,
		"ppt/slides/slide1.xml": `<p:sld xmlns:a="` + nsA + `" xmlns:p="` + nsP + `"><p:cSld><p:spTree>` +
			sprintf(shape, "Title 1", `<p:ph type="title"/>`, title) +
			sprintf(shape, "Body 2", `<p:ph idx="1"/>`, body) +
			`</p:spTree></p:cSld></p:sld>`,
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range []string{"_rels/.rels", "ppt/presentation.xml", "ppt/_rels/presentation.xml.rels", "ppt/slides/slide1.xml"} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(files[name]))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func sprintf(format string, args ...string) string {
	for _, a := range args {
		format = strings.Replace(format, "%s", a, 1)
	}
	return format
}

func convert(t *testing.T, name string, data []byte, to format.Kind) *Result {
	t.Helper()
	res, err := Convert(context.Background(), name, data, to, DefaultOptions())
	require.NoError(t, err)
	require.NotEmpty(t, res.Artifacts)
	return res
}

type recordingObserver struct {
	conversions []string
	plans       []layout.Stats
	failed      int
}

func (o *recordingObserver) ObserveConversion(from, to format.Kind, _ time.Duration, _ int, err error) {
	o.conversions = append(o.conversions, from.String()+">"+to.String())
	if err != nil {
		o.failed++
	}
}

func (o *recordingObserver) ObservePlan(st layout.Stats) {
	o.plans = append(o.plans, st)
}

func TestDefaultRegistryPairs(t *testing.T) {
	r := DefaultRegistry()
	pairs := r.Pairs()
	assert.Len(t, pairs, 18)

	for _, p := range []Pair{
		{format.CSV, format.PDF},
		{format.CSV, format.Excel},
		{format.Excel, format.CSV},
		{format.PDF, format.Text},
		{format.PDF, format.Image},
		{format.Image, format.PDF},
	} {
		_, ok := r.Lookup(p)
		assert.True(t, ok, p.String())
	}

	assert.Equal(t, []format.Kind{format.PDF, format.Excel}, r.Targets(format.CSV))
	for i := 1; i < len(pairs); i++ {
		prev, cur := pairs[i-1], pairs[i]
		assert.True(t, prev.From < cur.From || (prev.From == cur.From && prev.To < cur.To), "pairs out of order at %d", i)
	}
}

func TestConvertCSVToPDF(t *testing.T) {
	res := convert(t, "reports/sales.csv", []byte("Region,Total\nNorth,5\nSouth,7\n"), format.PDF)

	require.Len(t, res.Artifacts, 1)
	a := res.Artifacts[0]
	assert.Equal(t, "sales.pdf", a.Name)
	assert.Equal(t, "application/pdf", a.MIME)
	assert.True(t, bytes.HasPrefix(a.Data, []byte("%PDF-")))

	require.Len(t, res.Plans, 1)
	assert.Equal(t, "sales", res.Plans[0].Name)
	assert.Equal(t, model.Portrait, res.Plans[0].Plan.Orientation)
	assert.True(t, res.Plans[0].Plan.Fits)
	assert.Equal(t, format.CSV, res.Detection.Kind)
	assert.Empty(t, res.Warnings)

	_, err := uuid.Parse(res.RequestID)
	assert.NoError(t, err)
}

func TestConvertIsDeterministic(t *testing.T) {
	data := []byte("a,b,c\n1,2,3\n4,5,6\n")
	first := convert(t, "t.csv", data, format.PDF)
	second := convert(t, "t.csv", data, format.PDF)
	assert.Equal(t, first.Artifacts[0].Data, second.Artifacts[0].Data)
	assert.NotEqual(t, first.RequestID, second.RequestID)
}

func TestConvertCSVEncodingWarning(t *testing.T) {
	gbk, err := simplifiedchinese.GBK.NewEncoder().Bytes([]byte("名字,数量\n苹果,3\n"))
	require.NoError(t, err)

	res := convert(t, "fruit.csv", gbk, format.PDF)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "fruit.csv", res.Warnings[0].Source)
	assert.Contains(t, res.Warnings[0].Message, "gbk")
}

func TestConvertCSVExcelRoundTrip(t *testing.T) {
	res := convert(t, "sales.csv", []byte("Name,Qty\nApple,3\nPear,4\n"), format.Excel)
	require.Len(t, res.Artifacts, 1)
	assert.Equal(t, "sales.xlsx", res.Artifacts[0].Name)

	back := convert(t, "sales.xlsx", res.Artifacts[0].Data, format.CSV)
	require.Len(t, back.Artifacts, 1)
	assert.Equal(t, "sales.csv", back.Artifacts[0].Name)
	assert.Equal(t, format.CSV.MIME(), back.Artifacts[0].MIME)
	assert.Equal(t, "Name,Qty\nApple,3\nPear,4\n", string(back.Artifacts[0].Data))
}

func TestConvertExcelSheets(t *testing.T) {
	data := workbook(t,
		xlsx.Sheet{Name: "Summary", Table: table(t, []string{"k", "v"}, []string{"a", "1"})},
		xlsx.Sheet{Name: "Data", Table: table(t, []string{"x"}, []string{"2"}, []string{"3"})},
	)

	csvs := convert(t, "book.xlsx", data, format.CSV)
	var names []string
	for _, a := range csvs.Artifacts {
		names = append(names, a.Name)
	}
	assert.Equal(t, []string{"book_Summary.csv", "book_Data.csv"}, names)

	pdf := convert(t, "book.xlsx", data, format.PDF)
	require.Len(t, pdf.Artifacts, 1)
	require.Len(t, pdf.Plans, 2)
	assert.Equal(t, "Summary", pdf.Plans[0].Name)
	assert.Equal(t, "Data", pdf.Plans[1].Name)
}

func TestConvertLegacyExcel(t *testing.T) {
	data, err := os.ReadFile("../xlsx/testdata/table.xls")
	require.NoError(t, err)

	res := convert(t, "table.xls", data, format.CSV)
	assert.True(t, res.Detection.Legacy)
	require.Len(t, res.Artifacts, 1)
	assert.Equal(t, "table.csv", res.Artifacts[0].Name)
	assert.True(t, strings.HasPrefix(string(res.Artifacts[0].Data), "Code,Name,Description\ncode1,name1,description1\n"))

	res = convert(t, "table.xls", data, format.PDF)
	require.Len(t, res.Plans, 1)
	assert.Equal(t, "Table", res.Plans[0].Name)
	assert.Equal(t, 12, res.Plans[0].Table.RowCount())
}

func TestConvertCanceled(t *testing.T) {
	data := workbook(t, xlsx.Sheet{Name: "S", Table: table(t, []string{"a"}, []string{"1"})})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := DefaultRegistry().Convert(ctx, "s.xlsx", data, format.PDF, DefaultOptions())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConvertTextAndPDF(t *testing.T) {
	text := "Hello there\n\nSecond paragraph\n"
	pdf := convert(t, "notes.txt", []byte(text), format.PDF)
	require.Len(t, pdf.Artifacts, 1)
	assert.Equal(t, "notes.pdf", pdf.Artifacts[0].Name)

	back := convert(t, "notes.pdf", pdf.Artifacts[0].Data, format.Text)
	assert.Equal(t, "notes.txt", back.Artifacts[0].Name)
	assert.Contains(t, string(back.Artifacts[0].Data), "Hello")

	word := convert(t, "notes.pdf", pdf.Artifacts[0].Data, format.Word)
	assert.Equal(t, "notes.docx", word.Artifacts[0].Name)
	doc, err := docx.Read(word.Artifacts[0].Data)
	require.NoError(t, err)
	assert.Contains(t, doc.Text(), "Second")
}

func TestConvertTextToWord(t *testing.T) {
	res := convert(t, "memo.txt", []byte("First\nstill first\n\nSecond"), format.Word)
	doc, err := docx.Read(res.Artifacts[0].Data)
	require.NoError(t, err)

	var paras []string
	for _, b := range doc.Blocks {
		paras = append(paras, b.GetText())
	}
	assert.Equal(t, []string{"First\nstill first", "Second"}, paras)
}

const page = `<!DOCTYPE html><html><head><title>Report</title></head><body>
<h1>Results</h1><p>Body text</p><ul><li>one</li><li>two</li></ul>
<table><tr><th>k</th><th>v</th></tr><tr><td>a</td><td>1</td></tr></table>
</body></html>`

func TestConvertHTML(t *testing.T) {
	text := convert(t, "report.html", []byte(page), format.Text)
	out := string(text.Artifacts[0].Data)
	assert.Contains(t, out, "Results")
	assert.Contains(t, out, "Body text")
	assert.Contains(t, out, "--- Table ---")

	word := convert(t, "report.html", []byte(page), format.Word)
	assert.Equal(t, "report.docx", word.Artifacts[0].Name)

	back := convert(t, "report.docx", word.Artifacts[0].Data, format.Text)
	assert.Contains(t, string(back.Artifacts[0].Data), "Body text")
	assert.Contains(t, string(back.Artifacts[0].Data), "a | 1")

	pdf := convert(t, "report.docx", word.Artifacts[0].Data, format.PDF)
	assert.True(t, bytes.HasPrefix(pdf.Artifacts[0].Data, []byte("%PDF-")))

	pdf = convert(t, "report.html", []byte(page), format.PDF)
	assert.Equal(t, "report.pdf", pdf.Artifacts[0].Name)
}

func TestConvertPowerPoint(t *testing.T) {
	deck := presentation(t, "Roadmap", "Ship it")

	text := convert(t, "deck.pptx", deck, format.Text)
	assert.Contains(t, string(text.Artifacts[0].Data), "Roadmap")
	assert.Contains(t, string(text.Artifacts[0].Data), "Ship it")

	pdf := convert(t, "deck.pptx", deck, format.PDF)
	assert.Equal(t, "deck.pdf", pdf.Artifacts[0].Name)
	assert.True(t, bytes.HasPrefix(pdf.Artifacts[0].Data, []byte("%PDF-")))
}

func TestConvertImage(t *testing.T) {
	res := convert(t, "scan.png", pngImage(t, 40, 20), format.PDF)
	assert.Equal(t, "scan.pdf", res.Artifacts[0].Name)
	assert.True(t, bytes.HasPrefix(res.Artifacts[0].Data, []byte("%PDF-")))
}

func TestConvertImageToTextWithoutOCR(t *testing.T) {
	if ocr.Enabled {
		t.Skip("built with OCR")
	}
	_, err := DefaultRegistry().Convert(context.Background(), "scan.png", pngImage(t, 4, 4), format.Text, DefaultOptions())
	assert.ErrorIs(t, err, ocr.ErrOCRNotEnabled)
}

func TestConvertPDFToImageWithoutRasterizer(t *testing.T) {
	if raster.Enabled {
		t.Skip("built with fitz")
	}
	pdf := convert(t, "x.txt", []byte("x"), format.PDF).Artifacts[0].Data
	res, err := DefaultRegistry().Convert(context.Background(), "x.pdf", pdf, format.Image, DefaultOptions())
	assert.ErrorIs(t, err, raster.ErrRasterNotEnabled)
	assert.Nil(t, res)
}

func TestConvertErrors(t *testing.T) {
	small := DefaultOptions()
	small.MaxInputBytes = 4

	badLayout := DefaultOptions()
	badLayout.Layout.FontLadder = nil

	tests := []struct {
		name string
		file string
		data []byte
		to   format.Kind
		opts Options
		want interface{}
	}{
		{"empty", "a.csv", nil, format.PDF, DefaultOptions(), &model.MalformedInputError{}},
		{"too large", "a.csv", []byte("a,b\n1,2\n"), format.PDF, small, &model.MalformedInputError{}},
		{"unknown", "blob.bin", []byte{0, 1, 2, 3}, format.PDF, DefaultOptions(), &model.UnsupportedConversionError{}},
		{"legacy word", "old.doc", []byte("not really"), format.PDF, DefaultOptions(), &model.UnsupportedConversionError{}},
		{"bad xls", "old.xls", []byte("not really"), format.CSV, DefaultOptions(), &model.MalformedInputError{}},
		{"no strategy", "a.csv", []byte("a,b\n1,2\n"), format.Word, DefaultOptions(), &model.UnsupportedConversionError{}},
		{"bad layout", "a.csv", []byte("a,b\n1,2\n"), format.PDF, badLayout, &model.GeometryError{}},
		{"bad xlsx", "a.xlsx", []byte("PK\x03\x04broken"), format.CSV, DefaultOptions(), &model.MalformedInputError{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := &recordingObserver{}
			tt.opts.Observer = obs
			res, err := DefaultRegistry().Convert(context.Background(), tt.file, tt.data, tt.to, tt.opts)
			require.Error(t, err)
			assert.Nil(t, res)

			switch want := tt.want.(type) {
			case *model.MalformedInputError:
				assert.True(t, errors.As(err, &want), "got %T: %v", err, err)
			case *model.UnsupportedConversionError:
				assert.True(t, errors.As(err, &want), "got %T: %v", err, err)
			case *model.GeometryError:
				assert.True(t, errors.As(err, &want), "got %T: %v", err, err)
			}
		})
	}
}

func TestConvertObserver(t *testing.T) {
	obs := &recordingObserver{}
	opts := DefaultOptions()
	opts.Observer = obs

	_, err := DefaultRegistry().Convert(context.Background(), "a.csv", []byte("a,b\n1,2\n"), format.PDF, opts)
	require.NoError(t, err)
	_, err = DefaultRegistry().Convert(context.Background(), "a.csv", []byte("a,b\n1,2\n"), format.Word, opts)
	require.Error(t, err)

	assert.Equal(t, []string{"csv>pdf", "csv>word"}, obs.conversions)
	assert.Equal(t, 1, obs.failed)
	require.Len(t, obs.plans, 1)
	assert.Equal(t, 2, obs.plans[0].Columns)
}

func TestConvertLogsWithoutCellContents(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetLevel(logrus.DebugLevel)
	logger.SetFormatter(&logrus.JSONFormatter{})

	opts := DefaultOptions()
	opts.Logger = logger
	res, err := DefaultRegistry().Convert(context.Background(), "secret.csv", []byte("name,password\nann,hunter2\n"), format.PDF, opts)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"request_id":"`+res.RequestID+`"`)
	assert.Contains(t, out, `"from":"csv"`)
	assert.Contains(t, out, `"to":"pdf"`)
	assert.Contains(t, out, `"font_size":10`)
	assert.Contains(t, out, "Conversion finished.")
	assert.NotContains(t, out, "hunter2")
}

func TestTables(t *testing.T) {
	tables, warnings, err := Tables(context.Background(), "a.csv", []byte("a,b\n1,2\n"), DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, tables, 1)
	assert.Equal(t, "a", tables[0].Name)
	assert.Equal(t, [][]string{{"a", "b"}, {"1", "2"}}, tables[0].Table.Rows())

	tables, _, err = Tables(context.Background(), "report.html", []byte(page), DefaultOptions())
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, "report table 1", tables[0].Name)
	assert.True(t, tables[0].Table.HasHeader())

	opts := DefaultOptions()
	opts.NoHeader = true
	tables, _, err = Tables(context.Background(), "report.html", []byte(page), opts)
	require.NoError(t, err)
	assert.False(t, tables[0].Table.HasHeader())

	_, _, err = Tables(context.Background(), "notes.txt", []byte("just words"), DefaultOptions())
	var unsupported *model.UnsupportedConversionError
	assert.ErrorAs(t, err, &unsupported)

	_, _, err = Tables(context.Background(), "plain.html", []byte("<html><body><p>no tables</p></body></html>"), DefaultOptions())
	var malformed *model.MalformedInputError
	assert.ErrorAs(t, err, &malformed)
}

func TestPlan(t *testing.T) {
	header := make([]string, 40)
	row := make([]string, 40)
	for i := range header {
		header[i] = "column heading"
		row[i] = "a fairly long cell value"
	}
	var csv strings.Builder
	csv.WriteString(strings.Join(header, ",") + "\n")
	csv.WriteString(strings.Join(row, ",") + "\n")

	plans, warnings, err := Plan(context.Background(), "wide.csv", []byte(csv.String()), DefaultOptions())
	require.NoError(t, err)
	require.Len(t, plans, 1)

	p := plans[0].Plan
	assert.Equal(t, model.Landscape, p.Orientation)
	assert.False(t, p.Fits)
	assert.Greater(t, len(p.ColumnBands), 1)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Message, "column bands")
}

func TestPlanNarrowedColumnsWarning(t *testing.T) {
	long := strings.Repeat("W", 60)
	csv := "a,b,c,d,e\n" + strings.Repeat(long+",", 4) + long + "\n"

	plans, warnings, err := Plan(context.Background(), "narrow.csv", []byte(csv), DefaultOptions())
	require.NoError(t, err)
	require.Len(t, plans, 1)

	p := plans[0].Plan
	assert.False(t, p.Fits)
	assert.Len(t, p.ColumnBands, 1)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Message, "columns narrowed to fit")
	assert.NotContains(t, warnings[0].Message, "column bands")
}

func TestOptionsClone(t *testing.T) {
	o := DefaultOptions()
	c := o.Clone()
	c.Layout.FontLadder[0] = 99
	c.Encodings[0] = "latin-1"
	assert.Equal(t, 10.0, o.Layout.FontLadder[0])
	assert.Equal(t, "utf-8", o.Encodings[0])
}

func TestInputBase(t *testing.T) {
	tests := map[string]string{
		"dir/report.final.csv": "report.final",
		"report":               "report",
		"":                     "document",
		".csv":                 "document",
	}
	for name, want := range tests {
		assert.Equal(t, want, Input{Name: name}.Base(), name)
	}
}

func TestPreview(t *testing.T) {
	tbl := table(t,
		[]string{"Name", "Note"},
		[]string{"Ann", "short"},
		[]string{"Bob", strings.Repeat("long ", 20)},
		[]string{"Cy", "x"},
	)
	var buf bytes.Buffer
	Preview(&buf, tbl, 2, 12)
	out := buf.String()

	assert.Contains(t, out, "Name")
	assert.Contains(t, out, "Ann")
	assert.Contains(t, out, "…")
	assert.NotContains(t, out, "Cy")
	assert.Contains(t, out, "1 more rows")
}
