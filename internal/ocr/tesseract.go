package ocr

import (
	"context"
	"log/slog"

	"github.com/reciptera/reciptera/internal/common"
)

// TesseractBackend runs the local tesseract binary. Output is locally
// scored: the Document never carries external scores.
type TesseractBackend struct {
	bin      string
	lang     string
	tessdata string
	runner   Runner
	logger   *slog.Logger
}

func NewTesseractBackend(cfg common.OCRConfig, runner Runner, logger *slog.Logger) *TesseractBackend {
	if runner == nil {
		runner = NewExecRunner()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TesseractBackend{
		bin:      cfg.TesseractBin,
		lang:     cfg.TesseractLang,
		tessdata: cfg.TessdataDir,
		runner:   runner,
		logger:   logger,
	}
}

func (b *TesseractBackend) Name() string { return "tesseract" }

func (b *TesseractBackend) Recognize(ctx context.Context, imagePath string) (*Document, error) {
	args := []string{imagePath, "stdout", "-l", b.lang}
	if b.tessdata != "" {
		args = append(args, "--tessdata-dir", b.tessdata)
	}

	stdout, _, err := b.runner.Run(ctx, b.bin, b.logger, args...)
	if err != nil {
		return nil, common.NewAppError("OCR_ERROR", "tesseract failed", err)
	}

	return &Document{Text: Normalize(string(stdout))}, nil
}
