package opc

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"time"
)

// modTime stamps every written part so identical content gives identical
// archives.
var modTime = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// Writer builds a package. Parts are written in the order they are added.
type Writer struct {
	zw        *zip.Writer
	overrides []override
	rels      map[string][]rel
	relOrder  []string
}

type override struct {
	part, contentType string
}

type rel struct {
	typ, target string
}

// NewWriter starts a package on w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{zw: zip.NewWriter(w), rels: make(map[string][]rel)}
}

// WriteXML marshals v as the named part, registering its content type.
func (w *Writer) WriteXML(name, contentType string, v any) error {
	w.overrides = append(w.overrides, override{"/" + name, contentType})
	if err := w.put(name, v); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

// Relate records a relationship from source ("" for the package) to
// target, which is relative to the source's directory. It returns the
// relationship ID.
func (w *Writer) Relate(source, typ, target string) string {
	if _, ok := w.rels[source]; !ok {
		w.relOrder = append(w.relOrder, source)
	}
	w.rels[source] = append(w.rels[source], rel{typ, target})
	return fmt.Sprintf("rId%d", len(w.rels[source]))
}

// Close writes the relationship parts and the content types, then finishes
// the archive.
func (w *Writer) Close() error {
	for _, source := range w.relOrder {
		out := relationshipsOut{Xmlns: nsPackageRels}
		for i, r := range w.rels[source] {
			out.Rels = append(out.Rels, relationshipOut{ID: fmt.Sprintf("rId%d", i+1), Type: r.typ, Target: r.target})
		}
		if err := w.put(relsPart(source), out); err != nil {
			return err
		}
	}

	ct := contentTypesOut{
		Xmlns: nsContentTypes,
		Defaults: []defaultOut{
			{Extension: "rels", ContentType: "application/vnd.openxmlformats-package.relationships+xml"},
			{Extension: "xml", ContentType: "application/xml"},
		},
	}
	for _, o := range w.overrides {
		ct.Overrides = append(ct.Overrides, overrideOut{PartName: o.part, ContentType: o.contentType})
	}
	if err := w.put("[Content_Types].xml", ct); err != nil {
		return err
	}
	return w.zw.Close()
}

func (w *Writer) put(name string, v any) error {
	fw, err := w.zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: modTime})
	if err != nil {
		return err
	}
	if _, err := io.WriteString(fw, xml.Header); err != nil {
		return err
	}
	return xml.NewEncoder(fw).Encode(v)
}

func relsPart(source string) string {
	if source == "" {
		return "_rels/.rels"
	}
	dir, file := path.Split(source)
	return dir + "_rels/" + file + ".rels"
}

type contentTypesOut struct {
	XMLName   xml.Name      `xml:"Types"`
	Xmlns     string        `xml:"xmlns,attr"`
	Defaults  []defaultOut  `xml:"Default"`
	Overrides []overrideOut `xml:"Override"`
}

type defaultOut struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type overrideOut struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type relationshipsOut struct {
	XMLName xml.Name          `xml:"Relationships"`
	Xmlns   string            `xml:"xmlns,attr"`
	Rels    []relationshipOut `xml:"Relationship"`
}

type relationshipOut struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}
