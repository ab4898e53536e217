package convert

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/quirelabs/quire/font"
	"github.com/quirelabs/quire/format"
	"github.com/quirelabs/quire/layout"
	"github.com/quirelabs/quire/model"
	"github.com/quirelabs/quire/pdfgen"
)

// Warning is a non-fatal problem met while converting.
type Warning struct {
	Source  string
	Message string
}

func (w Warning) String() string {
	if w.Source == "" {
		return w.Message
	}
	return w.Source + ": " + w.Message
}

// Input is one file handed to a strategy.
type Input struct {
	// Name is the file name as given; only its base is used.
	Name string
	Data []byte
	Kind format.Kind
}

// Base returns the input file name without directory or extension.
func (in Input) Base() string {
	base := filepath.Base(in.Name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "document"
	}
	return base
}

// Session holds the state of a single request. Nothing in it outlives the
// request.
type Session struct {
	ID      string
	Options Options
	Metrics *font.Metrics
	Log     *logrus.Entry

	warnings []Warning
	plans    []SheetPlan
}

// NewSession validates opts and prepares the per-request measurement cache.
func NewSession(opts Options) (*Session, error) {
	opts = opts.Clone()
	if err := opts.Layout.Validate(); err != nil {
		return nil, err
	}
	if err := opts.Flow.Validate(); err != nil {
		return nil, err
	}

	m := font.NewMetrics()
	if len(opts.FontTTF) > 0 {
		var err error
		if m, err = pdfgen.UTF8Metrics(opts.FontTTF); err != nil {
			return nil, err
		}
	}

	id := uuid.NewString()
	return &Session{
		ID:      id,
		Options: opts,
		Metrics: m,
		Log:     opts.logger().WithField("request_id", id),
	}, nil
}

// Warn records a warning and logs it.
func (s *Session) Warn(source, msg string, args ...interface{}) {
	w := Warning{Source: source, Message: fmt.Sprintf(msg, args...)}
	s.warnings = append(s.warnings, w)
	s.Log.WithField("source", source).Warn(w.Message)
}

// Warnings returns the warnings recorded so far.
func (s *Session) Warnings() []Warning {
	return append([]Warning(nil), s.warnings...)
}

// Plans returns the table plans made so far.
func (s *Session) Plans() []SheetPlan {
	return append([]SheetPlan(nil), s.plans...)
}

// Planner returns a planner for the session's layout.
func (s *Session) Planner() (*layout.Planner, error) {
	return layout.NewPlanner(s.Options.Layout, s.Metrics)
}

func (s *Session) recordPlan(name string, t *model.Table, p *layout.Plan) {
	st := p.Stats()
	s.plans = append(s.plans, SheetPlan{Name: name, Table: t, Plan: p})
	s.Log.WithFields(logrus.Fields{
		"sheet":        name,
		"rows":         t.RowCount(),
		"orientation":  st.Orientation.String(),
		"font_size":    st.FontSize,
		"column_bands": st.ColumnBands,
		"pages":        st.Pages,
		"fits":         st.Fits,
	}).Debug("Planned table.")
	switch {
	case st.Fits:
	case st.ColumnBands > 1:
		s.Warn(name, "table is wider than the page at %gpt; split into %d column bands", st.FontSize, st.ColumnBands)
	default:
		s.Warn(name, "table is wider than the page at %gpt; columns narrowed to fit", st.FontSize)
	}
	if s.Options.Observer != nil {
		s.Options.Observer.ObservePlan(st)
	}
}

func (s *Session) canvasOptions(title string) pdfgen.Options {
	return pdfgen.Options{
		Title:   title,
		Creator: "quire",
		FontTTF: s.Options.FontTTF,
	}
}
