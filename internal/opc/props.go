package opc

import (
	"encoding/xml"
	"strings"
	"time"

	"github.com/quirelabs/quire/model"
)

const (
	relExtendedProperties = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"

	ctCoreProperties = "application/vnd.openxmlformats-package.core-properties+xml"
	nsCoreProperties = "http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
	nsDublinCore     = "http://purl.org/dc/elements/1.1/"
)

type corePropertiesXML struct {
	Title    string `xml:"title"`
	Subject  string `xml:"subject"`
	Creator  string `xml:"creator"`
	Keywords string `xml:"keywords"`
	Created  string `xml:"created"`
	Modified string `xml:"modified"`
}

type appPropertiesXML struct {
	Application string `xml:"Application"`
}

// Metadata reads the optional core and extended document properties.
// Missing or damaged property parts leave the fields empty.
func (p *Package) Metadata() model.Metadata {
	corePart, appPart := "docProps/core.xml", "docProps/app.xml"
	for _, r := range p.Rels("") {
		switch r.Type {
		case RelCoreProperties:
			corePart = r.Target
		case relExtendedProperties:
			appPart = r.Target
		}
	}

	var meta model.Metadata
	var core corePropertiesXML
	if p.Decode(corePart, &core) == nil {
		meta.Title = strings.TrimSpace(core.Title)
		meta.Author = strings.TrimSpace(core.Creator)
		meta.Subject = strings.TrimSpace(core.Subject)
		for _, kw := range strings.Split(core.Keywords, ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				meta.Keywords = append(meta.Keywords, kw)
			}
		}
		meta.Created, _ = time.Parse(time.RFC3339, strings.TrimSpace(core.Created))
		meta.Modified, _ = time.Parse(time.RFC3339, strings.TrimSpace(core.Modified))
	}
	var app appPropertiesXML
	if p.Decode(appPart, &app) == nil {
		meta.Creator = strings.TrimSpace(app.Application)
	}
	return meta
}

// WriteCore writes docProps/core.xml and relates it to the package.
// Dates are omitted so output does not depend on the clock.
func (w *Writer) WriteCore(meta model.Metadata) error {
	w.Relate("", RelCoreProperties, "docProps/core.xml")
	return w.WriteXML("docProps/core.xml", ctCoreProperties, coreOut{
		XmlnsCP:  nsCoreProperties,
		XmlnsDC:  nsDublinCore,
		Title:    meta.Title,
		Subject:  meta.Subject,
		Creator:  meta.Author,
		Keywords: strings.Join(meta.Keywords, ", "),
	})
}

type coreOut struct {
	XMLName  xml.Name `xml:"cp:coreProperties"`
	XmlnsCP  string   `xml:"xmlns:cp,attr"`
	XmlnsDC  string   `xml:"xmlns:dc,attr"`
	Title    string   `xml:"dc:title,omitempty"`
	Subject  string   `xml:"dc:subject,omitempty"`
	Creator  string   `xml:"dc:creator,omitempty"`
	Keywords string   `xml:"cp:keywords,omitempty"`
}
