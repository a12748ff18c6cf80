package roles

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// Classifier proposes roles for a list of field names, optionally guided by
// date hierarchy hints. Any error puts the engine in degraded mode for that
// request; it never aborts a resolution.
type Classifier interface {
	Classify(ctx context.Context, fieldNames, hierarchyHints []string) (SignalMap, error)
}

type ClassifierStatus string

const (
	ClassifierSkipped ClassifierStatus = "skipped"
	ClassifierOK      ClassifierStatus = "ok"
	ClassifierFailed  ClassifierStatus = "failed"
)

// ClassifierOutcome records what the classifier contributed to one request.
type ClassifierOutcome struct {
	Status  ClassifierStatus
	Signals SignalMap
	Err     error
}

// Degraded reports whether the request ran without a classifier signal.
func (o ClassifierOutcome) Degraded() bool {
	return o.Status != ClassifierOK
}

// Request is the input snapshot for one resolution.
type Request struct {
	Fields         []Field
	Schema         TypeLookup
	HierarchyHints []string
}

// StageResult tracks how many roles were still missing around each stage.
type StageResult struct {
	Stage         string
	Proposed      int
	MissingBefore int
	MissingAfter  int
}

// Resolution is the full record of one request.
type Resolution struct {
	Fields        *FieldSet
	SchemaSignals SignalMap
	NameSignals   SignalMap
	Classifier    ClassifierOutcome
	Merged        Assignment
	Assignment    Assignment
	Unresolved    []RoleKind
	Projection    Projection
	Stages        []StageResult
}

// Empty reports the input-missing case: no fields were supplied.
func (r *Resolution) Empty() bool {
	return r == nil || r.Fields.Len() == 0
}

type Engine struct {
	classifier Classifier
	timeout    time.Duration
	logger     *slog.Logger
}

type Option func(*Engine)

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithClassifierTimeout bounds each classifier call. Zero means no bound.
func WithClassifierTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// NewEngine builds an engine. A nil classifier is allowed; requests then rely
// on schema and naming signals only.
func NewEngine(c Classifier, opts ...Option) *Engine {
	e := &Engine{
		classifier: c,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Resolve runs signals, merge, fallback and projection for one request.
func (e *Engine) Resolve(ctx context.Context, req Request) *Resolution {
	fields := NewFieldSet(req.Fields...)
	res := &Resolution{
		Fields:        fields,
		SchemaSignals: SignalMap{},
		NameSignals:   SignalMap{},
		Classifier:    ClassifierOutcome{Status: ClassifierSkipped, Signals: SignalMap{}},
		Merged:        Assignment{},
	}

	if fields.Len() == 0 {
		e.logger.Warn("no fields to resolve")
		res.Assignment = Assignment{}
		res.Unresolved = All()
		res.Projection = Project(res.Assignment, fields, req.HierarchyHints)
		return res
	}

	res.SchemaSignals = InferFromSchema(fields, req.Schema)
	res.NameSignals = InferFromNames(fields)
	res.Classifier = e.classify(ctx, fields.Names(), req.HierarchyHints)

	sources := []struct {
		stage   string
		signals SignalMap
	}{
		{"classifier", res.Classifier.Signals},
		{"schema", res.SchemaSignals},
		{"naming", res.NameSignals},
	}

	var applied []SignalMap
	missing := len(allRoles)
	for _, src := range sources {
		applied = append(applied, src.signals)
		res.Merged = Merge(fields, applied...)
		after := len(res.Merged.Missing())
		res.Stages = append(res.Stages, StageResult{
			Stage:         src.stage,
			Proposed:      len(src.signals),
			MissingBefore: missing,
			MissingAfter:  after,
		})
		missing = after
	}

	res.Assignment, res.Unresolved = Complete(res.Merged, fields)
	res.Stages = append(res.Stages, StageResult{
		Stage:         "fallback",
		MissingBefore: missing,
		MissingAfter:  len(res.Unresolved),
	})
	res.Projection = Project(res.Assignment, fields, req.HierarchyHints)

	for _, st := range res.Stages {
		e.logger.Debug("role stage",
			slog.String("stage", st.Stage),
			slog.Int("proposed", st.Proposed),
			slog.Int("missing_before", st.MissingBefore),
			slog.Int("missing_after", st.MissingAfter),
		)
	}
	if len(res.Unresolved) > 0 {
		e.logger.Warn("roles left unresolved", slog.Any("roles", res.Unresolved))
	}
	return res
}

func (e *Engine) classify(ctx context.Context, names, hints []string) ClassifierOutcome {
	if e.classifier == nil {
		return ClassifierOutcome{Status: ClassifierSkipped, Signals: SignalMap{}}
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	start := time.Now()
	signals, err := e.classifier.Classify(ctx, names, hints)
	if err != nil {
		e.logger.Warn("classifier failed, continuing with schema and naming signals",
			slog.String("error", err.Error()),
			slog.Duration("duration", time.Since(start)),
		)
		return ClassifierOutcome{Status: ClassifierFailed, Signals: SignalMap{}, Err: err}
	}
	// detached from the classifier's own map
	signals = signals.Clone()
	e.logger.Debug("classifier responded",
		slog.Int("roles", len(signals)),
		slog.Duration("duration", time.Since(start)),
	)
	return ClassifierOutcome{Status: ClassifierOK, Signals: signals}
}
