package extraction

import "time"

// Engine runs the four field extractors and confidence scorers over raw OCR
// text and assembles a Result. It holds no per-extraction state, performs no
// I/O, and never fails: malformed input degrades to empty fields.
type Engine struct {
	now func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the wall clock used for date validation. Tests pin it.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExternalField is a value+confidence pair supplied by a remote OCR backend
// that ran its own parser server-side.
type ExternalField struct {
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
}

// ExternalScores carries whatever pre-scored fields the remote backend
// returned. Nil members fall back to local extraction and scoring, so the
// merge in ExtractWith is a total decision per field, never an implicit
// fallback chain.
type ExternalScores struct {
	Merchant *ExternalField
	Amount   *ExternalField
	Date     *ExternalField
}

// Extract runs the full local pipeline over rawText.
func (e *Engine) Extract(rawText string) Result {
	return e.ExtractWith(rawText, nil)
}

// ExtractWith runs the pipeline, preferring externally scored fields where
// the backend supplied them.
func (e *Engine) ExtractWith(rawText string, ext *ExternalScores) Result {
	lines := SplitLines(rawText)
	now := e.now()

	var extMerchant, extAmount, extDate *ExternalField
	if ext != nil {
		extMerchant, extAmount, extDate = ext.Merchant, ext.Amount, ext.Date
	}

	merchant := resolveField(extMerchant, func() Field {
		v := ExtractMerchant(lines)
		return localField(v, scoreMerchant(v))
	})
	amount := resolveField(extAmount, func() Field {
		v := ExtractTotal(lines)
		return localField(v, scoreAmount(v))
	})
	date := resolveField(extDate, func() Field {
		v := ExtractDate(lines, now)
		return localField(v, scoreDate(v, now))
	})

	taxValue := ExtractTax(lines)
	tax := localField(taxValue, scoreTax(taxValue))

	return Result{
		Merchant: merchant,
		Amount:   amount,
		Date:     date,
		Tax:      tax,
		Lines:    lines,
	}
}

func resolveField(ext *ExternalField, local func() Field) Field {
	if ext == nil {
		return local()
	}
	return Field{
		Value:      ext.Value,
		Confidence: ext.Confidence,
		Source:     SourceExternal,
		Treatment:  TreatmentFor(ext.Confidence),
	}
}

func localField(value string, confidence float64) Field {
	return Field{
		Value:      value,
		Confidence: confidence,
		Source:     SourceLocal,
		Treatment:  TreatmentFor(confidence),
	}
}
