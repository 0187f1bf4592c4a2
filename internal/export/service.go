package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/reciptera/reciptera/internal/common"
	"github.com/reciptera/reciptera/internal/repository"
)

// Service is a tiny façade over the receipt repository that produces CSV and
// XLSX bytes for exports.
type Service struct {
	receipts repository.ReceiptRepository
	logger   *slog.Logger
}

func NewService(receipts repository.ReceiptRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{receipts: receipts, logger: logger}
}

// ReceiptsCSV returns the business-expense report: business receipts only,
// one row per receipt, headers Date,Merchant,Amount,Notes.
func (s *Service) ReceiptsCSV(ctx context.Context, profileID uuid.UUID, filter repository.ReceiptFilter) ([]byte, error) {
	recs, err := s.receipts.ListByProfile(ctx, profileID, filter)
	if err != nil {
		return nil, common.WrapError(err, "query receipts")
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Date", "Merchant", "Amount", "Notes"}); err != nil {
		return nil, fmt.Errorf("csv write: %w", err)
	}
	rows := 0
	for _, r := range recs {
		if !r.IsBusiness {
			continue
		}
		rec := []string{
			r.ReceiptDate.Format("2006-01-02"),
			r.MerchantName,
			fmt.Sprintf("%.2f", r.Amount),
			r.Notes,
		}
		if err := w.Write(rec); err != nil {
			return nil, fmt.Errorf("csv write: %w", err)
		}
		rows++
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv flush: %w", err)
	}

	s.logger.Info("export.csv.ok", "profile_id", profileID.String(), "rows", rows)
	return buf.Bytes(), nil
}

// ReceiptsXLSX returns an XLSX workbook (as bytes) with all of the profile's
// receipts matching the filter.
func (s *Service) ReceiptsXLSX(ctx context.Context, profileID uuid.UUID, filter repository.ReceiptFilter) ([]byte, error) {
	start := time.Now()

	recs, err := s.receipts.ListByProfile(ctx, profileID, filter)
	if err != nil {
		return nil, common.WrapError(err, "query receipts")
	}

	f := excelize.NewFile()
	const sheet = "Receipts"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{"Date", "Merchant", "Amount", "Tax", "Business", "Notes", "File Path"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, r := range recs {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		if !r.ReceiptDate.IsZero() {
			write(1, r.ReceiptDate.Format("2006-01-02"))
		} else {
			write(1, "")
		}
		write(2, r.MerchantName)
		write(3, fmt.Sprintf("%.2f", r.Amount))
		if r.Tax != nil {
			write(4, fmt.Sprintf("%.2f", *r.Tax))
		} else {
			write(4, "")
		}
		if r.IsBusiness {
			write(5, "yes")
		} else {
			write(5, "no")
		}
		write(6, truncate(r.Notes, 140))
		write(7, r.FilePath)

		row++
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "A", 14) // date
	_ = f.SetColWidth(sheet, "B", "B", 28) // merchant
	_ = f.SetColWidth(sheet, "C", "D", 12) // amounts
	_ = f.SetColWidth(sheet, "E", "E", 10) // business flag
	_ = f.SetColWidth(sheet, "F", "F", 48) // notes
	_ = f.SetColWidth(sheet, "G", "G", 60) // path

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"profile_id", profileID.String(),
		"rows", len(recs),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// truncate caps s at n runes so a cut never lands inside a multi-byte
// character.
func truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	if n == 1 {
		return string(r[:1])
	}
	return string(r[:n-1]) + "…"
}
