package convert

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/quirelabs/quire/csvdoc"
	"github.com/quirelabs/quire/docx"
	"github.com/quirelabs/quire/format"
	"github.com/quirelabs/quire/htmldoc"
	"github.com/quirelabs/quire/layout"
	"github.com/quirelabs/quire/model"
	"github.com/quirelabs/quire/pdfgen"
	"github.com/quirelabs/quire/pptx"
	"github.com/quirelabs/quire/render"
	"github.com/quirelabs/quire/xlsx"
)

// NamedTable is a table with the name of the sheet or file it came from.
type NamedTable struct {
	Name  string
	Table *model.Table
}

// SheetPlan is the layout plan of one named table.
type SheetPlan struct {
	Name  string       `json:"name" yaml:"name"`
	Table *model.Table `json:"-" yaml:"-"`
	Plan  *layout.Plan `json:"plan" yaml:"plan"`
}

// Tables reads every table held in data. CSV and Excel inputs give their
// sheets; Word, HTML and PowerPoint inputs give their embedded tables.
func Tables(ctx context.Context, name string, data []byte, opts Options) ([]NamedTable, []Warning, error) {
	s, in, err := open(name, data, opts)
	if err != nil {
		return nil, nil, err
	}
	tables, err := readTables(ctx, s, in)
	if err != nil {
		return nil, s.Warnings(), err
	}
	return tables, s.Warnings(), nil
}

// Plan lays out every table held in data without rendering it.
func Plan(ctx context.Context, name string, data []byte, opts Options) ([]SheetPlan, []Warning, error) {
	s, in, err := open(name, data, opts)
	if err != nil {
		return nil, nil, err
	}
	tables, err := readTables(ctx, s, in)
	if err != nil {
		return nil, s.Warnings(), err
	}
	if err := planTables(ctx, s, tables); err != nil {
		return nil, s.Warnings(), err
	}
	return s.Plans(), s.Warnings(), nil
}

func open(name string, data []byte, opts Options) (*Session, Input, error) {
	s, err := NewSession(opts)
	if err != nil {
		return nil, Input{}, err
	}
	det := format.Detect(name, data)
	if err := checkInput(name, data, det, format.Unknown, s.Options); err != nil {
		return nil, Input{}, err
	}
	s.Log = s.Log.WithField("from", det.Kind.String())
	return s, Input{Name: name, Data: data, Kind: det.Kind}, nil
}

func readTables(ctx context.Context, s *Session, in Input) ([]NamedTable, error) {
	switch in.Kind {
	case format.CSV:
		t, err := readCSV(s, in)
		if err != nil {
			return nil, err
		}
		return []NamedTable{{Name: in.Base(), Table: t}}, nil
	case format.Excel:
		return readSheets(ctx, s, in)
	case format.Word, format.HTML, format.PowerPoint:
		doc, err := readDocument(s, in)
		if err != nil {
			return nil, err
		}
		var out []NamedTable
		for i, t := range doc.Tables() {
			if s.Options.NoHeader {
				if t, err = t.WithHeader(false); err != nil {
					return nil, err
				}
			}
			out = append(out, NamedTable{Name: fmt.Sprintf("%s table %d", in.Base(), i+1), Table: t})
		}
		if len(out) == 0 {
			return nil, &model.MalformedInputError{Source: in.Name, Reason: "document has no tables"}
		}
		return out, nil
	default:
		return nil, &model.UnsupportedConversionError{From: in.Kind.String(), To: "table"}
	}
}

func readCSV(s *Session, in Input) (*model.Table, error) {
	t, enc, err := csvdoc.ReadTable(in.Data, csvdoc.Options{
		Encodings: s.Options.Encodings,
		Delimiter: s.Options.Delimiter,
		NoHeader:  s.Options.NoHeader,
		MaxBytes:  -1,
	})
	if err != nil {
		return nil, err
	}
	s.Log.WithField("encoding", enc).Debug("Decoded CSV.")
	if !strings.EqualFold(enc, "utf-8") {
		s.Warn(in.Name, "decoded as %s", enc)
	}
	return t, nil
}

func readSheets(ctx context.Context, s *Session, in Input) ([]NamedTable, error) {
	sheets, err := xlsx.ReadWorksheets(in.Data)
	if err != nil {
		return nil, err
	}
	out := make([]NamedTable, 0, len(sheets))
	for _, ws := range sheets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t := ws.Table
		if s.Options.NoHeader {
			if t, err = t.WithHeader(false); err != nil {
				return nil, err
			}
		}
		out = append(out, NamedTable{Name: ws.Name, Table: t})
	}
	return out, nil
}

func planTables(ctx context.Context, s *Session, tables []NamedTable) error {
	planner, err := s.Planner()
	if err != nil {
		return err
	}
	for _, nt := range tables {
		if err := ctx.Err(); err != nil {
			return err
		}
		p, err := planner.Plan(nt.Table)
		if err != nil {
			return fmt.Errorf("plan %s: %w", nt.Name, err)
		}
		s.recordPlan(nt.Name, nt.Table, p)
	}
	return nil
}

// renderTables plans every table and draws them one after another into a
// single PDF. Page labels carry the table name when there is more than one.
func renderTables(ctx context.Context, s *Session, title string, tables []NamedTable) ([]byte, error) {
	first := len(s.plans)
	if err := planTables(ctx, s, tables); err != nil {
		return nil, err
	}

	c, err := pdfgen.NewCanvas(s.canvasOptions(title))
	if err != nil {
		return nil, err
	}
	for _, sp := range s.plans[first:] {
		opts := render.TableOptions{PageLabels: s.Options.PageLabels, HeaderFill: true}
		if len(tables) > 1 {
			opts.Title = sp.Name
		}
		if err := render.Table(ctx, c, sp.Table, sp.Plan, s.Metrics, opts); err != nil {
			return nil, fmt.Errorf("render %s: %w", sp.Name, err)
		}
	}
	return c.Finish()
}

func csvToPDF(ctx context.Context, s *Session, in Input) ([]Artifact, error) {
	t, err := readCSV(s, in)
	if err != nil {
		return nil, err
	}
	data, err := renderTables(ctx, s, in.Base(), []NamedTable{{Name: in.Base(), Table: t}})
	if err != nil {
		return nil, err
	}
	return []Artifact{artifact(in.Base(), format.PDF, data)}, nil
}

func excelToPDF(ctx context.Context, s *Session, in Input) ([]Artifact, error) {
	tables, err := readSheets(ctx, s, in)
	if err != nil {
		return nil, err
	}
	data, err := renderTables(ctx, s, in.Base(), tables)
	if err != nil {
		return nil, err
	}
	return []Artifact{artifact(in.Base(), format.PDF, data)}, nil
}

func csvToExcel(_ context.Context, s *Session, in Input) ([]Artifact, error) {
	t, err := readCSV(s, in)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := xlsx.Write(&buf, xlsx.Sheet{Name: in.Base(), Table: t}); err != nil {
		return nil, err
	}
	return []Artifact{artifact(in.Base(), format.Excel, buf.Bytes())}, nil
}

func excelToCSV(ctx context.Context, s *Session, in Input) ([]Artifact, error) {
	tables, err := readSheets(ctx, s, in)
	if err != nil {
		return nil, err
	}
	out := make([]Artifact, 0, len(tables))
	for _, nt := range tables {
		var buf bytes.Buffer
		if err := csvdoc.Write(&buf, nt.Table); err != nil {
			return nil, fmt.Errorf("write %s: %w", nt.Name, err)
		}
		out = append(out, Artifact{
			Name: xlsx.CSVName(in.Base(), nt.Name),
			MIME: format.CSV.MIME(),
			Data: buf.Bytes(),
		})
	}
	return out, nil
}

// readDocument parses the text-bearing inputs into a block stream.
func readDocument(s *Session, in Input) (*model.Document, error) {
	switch in.Kind {
	case format.Word:
		return docx.Read(in.Data)
	case format.HTML:
		return htmldoc.Read(in.Data, s.Options.HTML)
	case format.PowerPoint:
		p, err := pptx.Read(in.Data)
		if err != nil {
			return nil, err
		}
		return p.Document(), nil
	default:
		return nil, &model.UnsupportedConversionError{From: in.Kind.String(), To: "document"}
	}
}

func artifact(base string, k format.Kind, data []byte) Artifact {
	return Artifact{Name: base + k.Extension(), MIME: k.MIME(), Data: data}
}
