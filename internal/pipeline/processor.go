package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/reciptera/reciptera/internal/common"
	"github.com/reciptera/reciptera/internal/currency"
	"github.com/reciptera/reciptera/internal/entity"
	"github.com/reciptera/reciptera/internal/extraction"
	"github.com/reciptera/reciptera/internal/ocr"
	"github.com/reciptera/reciptera/internal/repository"
)

// Backends holds the OCR backends the processor can route to.
type Backends struct {
	Tesseract ocr.Backend
	Vision    ocr.Backend
}

// Outcome is the result of one processed receipt image: the extraction
// result, whether any field needs human review, and the draft receipt that
// was persisted (nil when the amount or date could not be recovered).
type Outcome struct {
	Result      extraction.Result
	NeedsReview bool
	Receipt     *entity.Receipt
}

// Processor runs the full image-to-draft pipeline: pick a backend for the
// profile, recognize, extract fields, persist a draft receipt.
type Processor struct {
	engine   *extraction.Engine
	backends Backends
	receipts repository.ReceiptRepository
	profiles repository.ProfileRepository
	logger   *slog.Logger
}

func NewProcessor(engine *extraction.Engine, backends Backends, receipts repository.ReceiptRepository, profiles repository.ProfileRepository, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		engine:   engine,
		backends: backends,
		receipts: receipts,
		profiles: profiles,
		logger:   logger,
	}
}

// ProcessImage OCRs the image at path for the given profile and persists a
// draft receipt from whatever the engine recovered.
func (p *Processor) ProcessImage(ctx context.Context, profileID uuid.UUID, path string) (*Outcome, error) {
	profile, err := p.profiles.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	backend, err := p.selectBackend(profile)
	if err != nil {
		return nil, err
	}

	doc, err := backend.Recognize(ctx, path)
	if err != nil {
		p.logger.Error("processor.ocr.failed",
			"profile_id", profileID, "backend", backend.Name(), "path", path, "error", err)
		return nil, err
	}
	p.logger.Info("processor.ocr.ok",
		"profile_id", profileID, "backend", backend.Name(), "text_bytes", len(doc.Text))

	if backend.Name() == entity.EngineGoogleVision {
		if err := p.profiles.IncrementUploadCount(ctx, profileID); err != nil {
			// Quota accounting failure should not lose the user's extraction.
			p.logger.Error("processor.quota.increment_failed", "profile_id", profileID, "error", err)
		}
	}

	res := p.engine.ExtractWith(doc.Text, doc.Scores)
	out := &Outcome{Result: res, NeedsReview: needsReview(res)}

	rec, ok := draftReceipt(profileID, path, res)
	if ok {
		saved, err := p.receipts.Create(ctx, rec)
		if err != nil {
			return nil, err
		}
		out.Receipt = saved
	}

	p.logger.Info("processor.extract.ok",
		"profile_id", profileID,
		"merchant", res.Merchant.Value,
		"amount", res.Amount.Value,
		"date", res.Date.Value,
		"needs_review", out.NeedsReview,
		"persisted", out.Receipt != nil,
	)
	return out, nil
}

func (p *Processor) selectBackend(profile *entity.Profile) (ocr.Backend, error) {
	if profile.OCREngine != entity.EngineGoogleVision {
		return p.backends.Tesseract, nil
	}
	if profile.SubscriptionTier != entity.TierPro && profile.SubscriptionTier != entity.TierPremium {
		return nil, common.NewAppError("TIER_ERROR",
			"google-vision requires a pro or premium subscription", common.ErrUnauthorized)
	}
	if !profile.CanUseRemoteOCR() {
		return nil, common.NewAppError("QUOTA_ERROR",
			"monthly upload limit reached", common.ErrQuotaExceeded)
	}
	return p.backends.Vision, nil
}

// needsReview is true when any non-blank field falls below the auto-fill
// threshold.
func needsReview(res extraction.Result) bool {
	for _, f := range res.Fields() {
		switch f.Treatment {
		case extraction.TreatmentAutoFilledReview, extraction.TreatmentNeedsReview:
			return true
		}
	}
	return false
}

// draftReceipt builds a persistable draft. Amount and date are the minimum
// a receipt row needs; without them the outcome stays extraction-only.
func draftReceipt(profileID uuid.UUID, path string, res extraction.Result) (*entity.Receipt, bool) {
	amount, err := currency.Parse(res.Amount.Value)
	if err != nil || amount <= 0 {
		return nil, false
	}
	date, err := time.Parse("2006-01-02", res.Date.Value)
	if err != nil {
		return nil, false
	}

	rec := &entity.Receipt{
		ProfileID:    profileID,
		MerchantName: res.Merchant.Value,
		Amount:       amount,
		ReceiptDate:  date,
		FilePath:     path,
	}
	if tax, err := currency.Parse(res.Tax.Value); err == nil && tax > 0 {
		rec.Tax = &tax
	}
	return rec, true
}
