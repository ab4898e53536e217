package format

import (
	"bytes"
	"strings"

	"github.com/richardlehane/mscfb"
	"github.com/richardlehane/msoleps"

	"github.com/quirelabs/quire/model"
)

// OLEInfo describes a legacy Office compound file.
type OLEInfo struct {
	Kind    Kind
	Streams []string

	// Properties holds every readable summary property by name.
	Properties map[string]string

	// Metadata is taken from the summary information stream.
	Metadata model.Metadata
}

// oleKinds maps the main stream of each legacy Office format to its kind.
var oleKinds = map[string]Kind{
	"WordDocument":        Word,
	"Workbook":            Excel,
	"Book":                Excel,
	"PowerPoint Document": PowerPoint,
}

func fromOLE2(data []byte) Kind {
	doc, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		return Unknown
	}
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		if k, ok := oleKinds[entry.Name]; ok && len(entry.Path) == 0 {
			return k
		}
	}
	return Unknown
}

// Inspect lists the streams of an OLE2 compound file and decodes its
// summary property sets.
func Inspect(data []byte) (*OLEInfo, error) {
	if !bytes.HasPrefix(data, magicOLE2) {
		return nil, &model.MalformedInputError{Source: "ole2", Reason: "not a compound file"}
	}
	doc, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		return nil, &model.MalformedInputError{Source: "ole2", Reason: err.Error()}
	}

	info := &OLEInfo{Properties: make(map[string]string)}
	props := msoleps.New()
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		name := strings.Join(append(append([]string(nil), entry.Path...), entry.Name), "/")
		info.Streams = append(info.Streams, name)
		if k, ok := oleKinds[entry.Name]; ok && len(entry.Path) == 0 && info.Kind == Unknown {
			info.Kind = k
		}
		if !msoleps.IsMSOLEPS(entry.Initial) {
			continue
		}
		// property sets the library cannot decode are skipped
		if err := props.Reset(doc); err != nil {
			continue
		}
		for _, p := range props.Property {
			if p == nil || p.T == nil || p.Name == "" {
				continue
			}
			if v := propertyString(p); v != "" {
				info.Properties[p.Name] = v
			}
		}
	}

	info.Metadata = model.Metadata{
		Title:   info.Properties["Title"],
		Author:  info.Properties["Author"],
		Subject: info.Properties["Subject"],
		Creator: info.Properties["AppName"],
	}
	for _, kw := range strings.FieldsFunc(info.Properties["Keywords"], func(r rune) bool { return r == ',' || r == ';' }) {
		if kw = strings.TrimSpace(kw); kw != "" {
			info.Metadata.Keywords = append(info.Metadata.Keywords, kw)
		}
	}
	return info, nil
}

// propertyString formats a property value. The decoder panics on strings
// without a terminating NUL.
func propertyString(p *msoleps.Property) (s string) {
	defer func() {
		if recover() != nil {
			s = ""
		}
	}()
	return strings.TrimSpace(p.String())
}
