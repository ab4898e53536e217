// Package convert dispatches file conversions to strategies keyed by source
// and target format.
//
// Every request runs in its own Session. Inputs and outputs are held in
// memory and nothing is kept once Convert returns.
package convert

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/quirelabs/quire/format"
	"github.com/quirelabs/quire/model"
)

// Pair names a conversion.
type Pair struct {
	From, To format.Kind
}

func (p Pair) String() string { return p.From.String() + " -> " + p.To.String() }

// Artifact is one produced file.
type Artifact struct {
	Name string
	MIME string
	Data []byte
}

// Strategy converts one input into complete artifacts or fails without
// producing any.
type Strategy func(ctx context.Context, s *Session, in Input) ([]Artifact, error)

// Result is the outcome of a successful conversion.
type Result struct {
	RequestID string
	Detection format.Detection
	Artifacts []Artifact
	Plans     []SheetPlan
	Warnings  []Warning
}

// Registry maps conversion pairs to strategies.
type Registry struct {
	strategies map[Pair]Strategy
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{strategies: make(map[Pair]Strategy)}
}

// Register adds or replaces the strategy for p.
func (r *Registry) Register(p Pair, s Strategy) {
	r.strategies[p] = s
}

// Lookup returns the strategy for p.
func (r *Registry) Lookup(p Pair) (Strategy, bool) {
	s, ok := r.strategies[p]
	return s, ok
}

// Pairs returns the registered pairs ordered by source, then target.
func (r *Registry) Pairs() []Pair {
	out := make([]Pair, 0, len(r.strategies))
	for p := range r.strategies {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}

// Targets returns the kinds a source kind converts to.
func (r *Registry) Targets(from format.Kind) []format.Kind {
	var out []format.Kind
	for _, p := range r.Pairs() {
		if p.From == from {
			out = append(out, p.To)
		}
	}
	return out
}

// DefaultRegistry returns a registry holding every built-in conversion.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register(Pair{format.CSV, format.PDF}, csvToPDF)
	r.Register(Pair{format.CSV, format.Excel}, csvToExcel)

	r.Register(Pair{format.Excel, format.PDF}, excelToPDF)
	r.Register(Pair{format.Excel, format.CSV}, excelToCSV)

	r.Register(Pair{format.Text, format.PDF}, textToPDF)
	r.Register(Pair{format.Text, format.Word}, textToWord)

	r.Register(Pair{format.Word, format.PDF}, wordToPDF)
	r.Register(Pair{format.Word, format.Text}, wordToText)

	r.Register(Pair{format.PowerPoint, format.PDF}, powerPointToPDF)
	r.Register(Pair{format.PowerPoint, format.Text}, powerPointToText)

	r.Register(Pair{format.HTML, format.PDF}, htmlToPDF)
	r.Register(Pair{format.HTML, format.Text}, htmlToText)
	r.Register(Pair{format.HTML, format.Word}, htmlToWord)

	r.Register(Pair{format.PDF, format.Text}, pdfToText)
	r.Register(Pair{format.PDF, format.Word}, pdfToWord)
	r.Register(Pair{format.PDF, format.Image}, pdfToImage)

	r.Register(Pair{format.Image, format.PDF}, imageToPDF)
	r.Register(Pair{format.Image, format.Text}, imageToText)

	return r
}

// Convert converts data with the built-in conversions of DefaultRegistry.
func Convert(ctx context.Context, name string, data []byte, to format.Kind, opts Options) (*Result, error) {
	return DefaultRegistry().Convert(ctx, name, data, to, opts)
}

// Convert detects the format of data and converts it to the target kind.
func (r *Registry) Convert(ctx context.Context, name string, data []byte, to format.Kind, opts Options) (res *Result, err error) {
	s, err := NewSession(opts)
	if err != nil {
		return nil, err
	}

	det := format.Detect(name, data)
	log := s.Log.WithFields(logrus.Fields{
		"from":  det.Kind.String(),
		"to":    to.String(),
		"bytes": len(data),
	})
	s.Log = log

	start := time.Now()
	var artifacts []Artifact
	defer func() {
		if s.Options.Observer != nil {
			s.Options.Observer.ObserveConversion(det.Kind, to, time.Since(start), len(artifacts), err)
		}
		if err != nil {
			log.WithError(err).Error("Conversion failed.")
			return
		}
		log.WithFields(logrus.Fields{
			"artifacts": len(artifacts),
			"elapsed":   time.Since(start).String(),
		}).Info("Conversion finished.")
	}()

	strategy, err := r.resolve(name, data, det, to, s.Options)
	if err != nil {
		return nil, err
	}

	log.Debug("Converting.")
	artifacts, err = strategy(ctx, s, Input{Name: name, Data: data, Kind: det.Kind})
	if err != nil {
		return nil, err
	}
	if len(artifacts) == 0 {
		return nil, &model.MalformedInputError{Source: name, Reason: "conversion produced no output"}
	}

	return &Result{
		RequestID: s.ID,
		Detection: det,
		Artifacts: artifacts,
		Plans:     s.Plans(),
		Warnings:  s.Warnings(),
	}, nil
}

func (r *Registry) resolve(name string, data []byte, det format.Detection, to format.Kind, opts Options) (Strategy, error) {
	if err := checkInput(name, data, det, to, opts); err != nil {
		return nil, err
	}
	strategy, ok := r.Lookup(Pair{det.Kind, to})
	if !ok {
		return nil, &model.UnsupportedConversionError{From: det.Kind.String(), To: to.String()}
	}
	return strategy, nil
}

// checkInput rejects inputs no strategy should see. A target of Unknown
// skips the target checks.
func checkInput(name string, data []byte, det format.Detection, to format.Kind, opts Options) error {
	if len(data) == 0 {
		return &model.MalformedInputError{Source: name, Reason: "input is empty"}
	}
	if limit := opts.maxInputBytes(); limit > 0 && int64(len(data)) > limit {
		return &model.MalformedInputError{
			Source: name,
			Reason: fmt.Sprintf("input is %d bytes, larger than the %d byte limit", len(data), limit),
		}
	}

	unsupported := &model.UnsupportedConversionError{From: det.Kind.String(), To: to.String()}
	switch {
	case det.Kind == format.Unknown:
		unsupported.Reason = "unrecognized input format"
		return unsupported
	case det.Legacy && det.Kind != format.Excel:
		unsupported.Reason = "legacy binary Word and PowerPoint formats are not supported"
		return unsupported
	}
	return nil
}
