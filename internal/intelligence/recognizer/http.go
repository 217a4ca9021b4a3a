package recognizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/turtacn/GeneHighlighter/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/GeneHighlighter/internal/intelligence/highlight"
	"github.com/turtacn/GeneHighlighter/pkg/errors"
)

const maxErrorBody = 512

// HTTPConfig configures an HTTPRecognizer.
type HTTPConfig struct {
	// Endpoint is the base URL of the recognizer service; requests go to
	// <Endpoint>/recognize.
	Endpoint string
	// Model is passed through to the service untouched.
	Model string
	// Timeout bounds a single HTTP round trip. The engine applies its own
	// per-call deadline on top.
	Timeout time.Duration
}

type recognizeRequest struct {
	Text  string `json:"text"`
	Model string `json:"model,omitempty"`
}

type wireEntity struct {
	Text       string   `json:"text"`
	Label      string   `json:"label"`
	Start      int      `json:"start"`
	End        int      `json:"end"`
	Confidence *float64 `json:"confidence"`
}

type recognizeResponse struct {
	Entities []wireEntity `json:"entities"`
}

// HTTPRecognizer calls a remote NER service that speaks the
// {"text","model"} → {"entities":[...]} protocol. Offsets in the response are
// rune offsets into the posted text.
type HTTPRecognizer struct {
	url    string
	model  string
	client *http.Client
	logger logging.Logger
}

// HTTPOption customizes an HTTPRecognizer.
type HTTPOption func(*HTTPRecognizer)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(r *HTTPRecognizer) { r.client = c }
}

// NewHTTPRecognizer validates cfg and returns a ready recognizer.
func NewHTTPRecognizer(cfg HTTPConfig, logger logging.Logger, opts ...HTTPOption) (*HTTPRecognizer, error) {
	if cfg.Endpoint == "" {
		return nil, errors.InvalidParam("recognizer endpoint is required")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	r := &HTTPRecognizer{
		url:    strings.TrimRight(cfg.Endpoint, "/") + "/recognize",
		model:  cfg.Model,
		client: &http.Client{Timeout: timeout},
		logger: logger.Named("recognizer"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Name returns the configured model, or "http" when none is set.
func (r *HTTPRecognizer) Name() string {
	if r.model == "" {
		return "http"
	}
	return r.model
}

// Recognize posts text and decodes the entity list. A missing confidence is
// reported as 0.
func (r *HTTPRecognizer) Recognize(ctx context.Context, text string) ([]highlight.RawEntity, error) {
	body, err := json.Marshal(recognizeRequest{Text: text, Model: r.model})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "encode recognizer request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeRecognition, "build recognizer request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, errors.New(errors.ErrCodeRecognition, "recognizer returned an error status").
			WithDetail(fmt.Sprintf("status=%d body=%q", resp.StatusCode, strings.TrimSpace(string(snippet))))
	}

	var out recognizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeRecognition, "decode recognizer response")
	}

	entities := make([]highlight.RawEntity, 0, len(out.Entities))
	for _, w := range out.Entities {
		conf := 0.0
		if w.Confidence != nil {
			conf = *w.Confidence
		}
		entities = append(entities, highlight.RawEntity{
			Text:       w.Text,
			Label:      w.Label,
			Span:       highlight.Span{Start: w.Start, End: w.End},
			Confidence: conf,
		})
	}
	r.logger.Debug("recognized", logging.Int("entities", len(entities)), logging.Int("chars", len(text)))
	return entities, nil
}

//Personal.AI order the ending
