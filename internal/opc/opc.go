// Package opc reads and writes Open Packaging Convention containers, the
// zip layout shared by xlsx, docx and pptx files.
package opc

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
)

// Relationship types used across the office formats.
const (
	RelOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	RelCoreProperties = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"

	nsPackageRels  = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsContentTypes = "http://schemas.openxmlformats.org/package/2006/content-types"
)

// ErrNotPackage is returned by Open for data that is not a zip archive.
var ErrNotPackage = errors.New("not a zip package")

// ErrMissingPart is wrapped by Read when a part does not exist.
var ErrMissingPart = errors.New("missing part")

// Package is a read-only view of a package held in memory.
type Package struct {
	files map[string]*zip.File
}

// Open indexes the parts of a package.
func Open(data []byte) (*Package, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, ErrNotPackage
	}
	p := &Package{files: make(map[string]*zip.File, len(zr.File))}
	for _, f := range zr.File {
		p.files[strings.TrimPrefix(f.Name, "/")] = f
	}
	return p, nil
}

// Has reports whether the package contains the named part.
func (p *Package) Has(name string) bool {
	_, ok := p.files[name]
	return ok
}

// Names lists every part, sorted.
func (p *Package) Names() []string {
	names := make([]string, 0, len(p.files))
	for n := range p.files {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Read returns the bytes of a part.
func (p *Package) Read(name string) ([]byte, error) {
	f, ok := p.files[name]
	if !ok {
		return nil, fmt.Errorf("%w %s", ErrMissingPart, name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Decode unmarshals an XML part into v.
func (p *Package) Decode(name string, v any) error {
	data, err := p.Read(name)
	if err != nil {
		return err
	}
	if err := xml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	return nil
}

// Relationship is one entry of a .rels part with Target resolved to a part
// name. External targets are left as written.
type Relationship struct {
	ID       string
	Type     string
	Target   string
	External bool
}

type relationshipsXML struct {
	Relationship []struct {
		ID         string `xml:"Id,attr"`
		Type       string `xml:"Type,attr"`
		Target     string `xml:"Target,attr"`
		TargetMode string `xml:"TargetMode,attr"`
	} `xml:"Relationship"`
}

// Rels returns the relationships of part, keyed by ID. Use "" for the
// package-level relationships. A missing .rels part yields an empty map.
func (p *Package) Rels(part string) map[string]Relationship {
	dir, file := path.Split(part)
	out := make(map[string]Relationship)
	var rels relationshipsXML
	if p.Decode(dir+"_rels/"+file+".rels", &rels) != nil {
		return out
	}
	for _, r := range rels.Relationship {
		rel := Relationship{ID: r.ID, Type: r.Type, Target: r.Target, External: r.TargetMode == "External"}
		if !rel.External {
			rel.Target = ResolveTarget(dir, r.Target)
		}
		out[r.ID] = rel
	}
	return out
}

// MainPart returns the package's officeDocument part, or fallback when the
// package relationships do not name one.
func (p *Package) MainPart(fallback string) string {
	for _, r := range p.Rels("") {
		if r.Type == RelOfficeDocument && p.Has(r.Target) {
			return r.Target
		}
	}
	return fallback
}

// ResolveTarget resolves a relationship target against the directory of
// its source part.
func ResolveTarget(dir, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join(dir, target)
}
