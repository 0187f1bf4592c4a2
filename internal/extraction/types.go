package extraction

// FieldKind identifies one of the four structured attributes the engine
// recovers from receipt text.
type FieldKind string

const (
	FieldMerchant FieldKind = "merchant"
	FieldAmount   FieldKind = "amount"
	FieldDate     FieldKind = "date"
	FieldTax      FieldKind = "tax"
)

// ConfidenceSource says who produced a field's confidence number.
type ConfidenceSource string

const (
	// SourceLocal means the confidence was computed by this engine's scorers.
	SourceLocal ConfidenceSource = "local"
	// SourceExternal means a remote OCR backend supplied its own confidence
	// and the orchestrator trusted it as-is.
	SourceExternal ConfidenceSource = "external"
)

// Treatment is the presentation contract for a field: how the caller should
// surface the extracted value to a human reviewer.
type Treatment string

const (
	// TreatmentAutoFilled: confidence >= 0.85, pre-fill with no warning.
	TreatmentAutoFilled Treatment = "auto_filled"
	// TreatmentAutoFilledReview: confidence in [0.5, 0.85), pre-fill but
	// mark "needs review, low confidence".
	TreatmentAutoFilledReview Treatment = "auto_filled_needs_review"
	// TreatmentNeedsReview: confidence in (0, 0.5), mark for review without
	// auto-fill styling.
	TreatmentNeedsReview Treatment = "needs_review"
	// TreatmentBlank: confidence 0, leave the field empty with no styling.
	TreatmentBlank Treatment = "blank"
)

// Field is a value+confidence pair for one structured attribute.
// An empty Value means "not found".
type Field struct {
	Value      string           `json:"value"`
	Confidence float64          `json:"confidence"`
	Source     ConfidenceSource `json:"source"`
	Treatment  Treatment        `json:"treatment"`
}

// Result aggregates the four extracted fields for one receipt image.
// It is created fresh per extraction and never mutated afterwards.
type Result struct {
	Merchant Field    `json:"merchant"`
	Amount   Field    `json:"amount"`
	Date     Field    `json:"date"`
	Tax      Field    `json:"tax"`
	Lines    []string `json:"lines,omitempty"` // kept for diagnostics
}

// Fields returns the result's fields keyed by kind.
func (r Result) Fields() map[FieldKind]Field {
	return map[FieldKind]Field{
		FieldMerchant: r.Merchant,
		FieldAmount:   r.Amount,
		FieldDate:     r.Date,
		FieldTax:      r.Tax,
	}
}

// TreatmentFor maps a confidence value to its presentation treatment.
func TreatmentFor(confidence float64) Treatment {
	switch {
	case confidence >= 0.85:
		return TreatmentAutoFilled
	case confidence >= 0.5:
		return TreatmentAutoFilledReview
	case confidence > 0:
		return TreatmentNeedsReview
	default:
		return TreatmentBlank
	}
}
