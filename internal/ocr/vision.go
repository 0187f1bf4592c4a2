package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/reciptera/reciptera/internal/common"
	"github.com/reciptera/reciptera/internal/extraction"
)

// VisionBackend posts the image to the Google Vision annotate endpoint with
// DOCUMENT_TEXT_DETECTION. Some deployments front the endpoint with a proxy
// that appends a parsedReceipt payload; when present it becomes externally
// scored fields.
type VisionBackend struct {
	apiKey   string
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

func NewVisionBackend(cfg common.VisionConfig, client *http.Client, logger *slog.Logger) *VisionBackend {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &VisionBackend{
		apiKey:   cfg.APIKey,
		endpoint: cfg.Endpoint,
		client:   client,
		logger:   logger,
	}
}

func (b *VisionBackend) Name() string { return "google-vision" }

type annotateRequest struct {
	Requests []annotateEntry `json:"requests"`
}

type annotateEntry struct {
	Image    annotateImage     `json:"image"`
	Features []annotateFeature `json:"features"`
}

type annotateImage struct {
	Content string `json:"content"`
}

type annotateFeature struct {
	Type string `json:"type"`
}

type scoredValue struct {
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
}

type annotateResponse struct {
	Responses []struct {
		FullTextAnnotation *struct {
			Text string `json:"text"`
		} `json:"fullTextAnnotation"`
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
		ParsedReceipt *struct {
			Merchant *scoredValue `json:"merchant"`
			Amount   *scoredValue `json:"amount"`
			Date     *scoredValue `json:"date"`
		} `json:"parsedReceipt"`
	} `json:"responses"`
}

func (b *VisionBackend) Recognize(ctx context.Context, imagePath string) (*Document, error) {
	img, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, common.NewAppError("OCR_ERROR", "read image", err)
	}

	body, err := json.Marshal(annotateRequest{
		Requests: []annotateEntry{{
			Image:    annotateImage{Content: base64.StdEncoding.EncodeToString(img)},
			Features: []annotateFeature{{Type: "DOCUMENT_TEXT_DETECTION"}},
		}},
	})
	if err != nil {
		return nil, common.NewAppError("OCR_ERROR", "marshal request", err)
	}

	url := b.endpoint
	if b.apiKey != "" {
		url += "?key=" + b.apiKey
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, common.NewAppError("OCR_ERROR", "build request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(httpReq)
	if err != nil {
		b.logger.Error("vision request failed", "error", err)
		return nil, common.NewAppError("OCR_ERROR", "vision request", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, common.NewAppError("OCR_ERROR", "read response", err)
	}
	if resp.StatusCode != http.StatusOK {
		b.logger.Error("vision returned non-200", "status", resp.StatusCode)
		return nil, common.InternalErrorf("vision status %d", resp.StatusCode)
	}

	if err := ValidateJSONAgainstSchema(BuildVisionResponseSchema(), payload); err != nil {
		b.logger.Error("vision response failed schema validation", "error", err)
		return nil, common.NewAppError("OCR_ERROR", "invalid vision response", err)
	}

	var ar annotateResponse
	if err := json.Unmarshal(payload, &ar); err != nil {
		return nil, common.NewAppError("OCR_ERROR", "decode response", err)
	}
	first := ar.Responses[0]
	if first.Error != nil {
		return nil, common.NewAppError("OCR_ERROR", first.Error.Message, common.ErrInternal)
	}

	doc := &Document{}
	if first.FullTextAnnotation != nil {
		doc.Text = Normalize(first.FullTextAnnotation.Text)
	}
	if pr := first.ParsedReceipt; pr != nil {
		scores := &extraction.ExternalScores{}
		if pr.Merchant != nil {
			scores.Merchant = &extraction.ExternalField{Value: pr.Merchant.Value, Confidence: pr.Merchant.Confidence}
		}
		if pr.Amount != nil {
			scores.Amount = &extraction.ExternalField{Value: pr.Amount.Value, Confidence: pr.Amount.Confidence}
		}
		if pr.Date != nil {
			scores.Date = &extraction.ExternalField{Value: pr.Date.Value, Confidence: pr.Date.Confidence}
		}
		doc.Scores = scores
	}
	return doc, nil
}
