// Package oci implements the InvoiceExtractor port against the OCI Document
// Understanding analyzeDocument REST endpoint.
package oci

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"invparser/internal/config"
	"invparser/internal/extractor"
	"invparser/internal/port"
)

const analyzePath = "/20221109/actions/analyzeDocument"

func init() {
	extractor.RegisterProvider("oci", func(cfg *config.ExtractorConfig) (port.InvoiceExtractor, error) {
		if cfg.Endpoint == "" {
			return nil, fmt.Errorf("oci extractor requires an endpoint")
		}
		return NewExtractor(cfg), nil
	})
}

// Extractor calls the OCI Document AI service over HTTP.
type Extractor struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewExtractor creates an OCI-backed invoice extractor from config.
func NewExtractor(cfg *config.ExtractorConfig) *Extractor {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Extractor{
		endpoint: strings.TrimSuffix(cfg.Endpoint, "/"),
		apiKey:   cfg.APIKey,
		client:   &http.Client{Timeout: timeout},
	}
}

type analyzeRequest struct {
	Document documentDetails  `json:"document"`
	Features []featureRequest `json:"features"`
}

type documentDetails struct {
	Source string `json:"source"`
	Data   string `json:"data"`
}

type featureRequest struct {
	FeatureType string `json:"featureType"`
	MaxResults  int    `json:"maxResults,omitempty"`
}

type analyzeResponse struct {
	Pages                 []page         `json:"pages"`
	DetectedDocumentTypes []documentType `json:"detectedDocumentTypes"`
}

type documentType struct {
	DocumentType string  `json:"documentType"`
	Confidence   float64 `json:"confidence"`
}

type page struct {
	DocumentFields []documentField `json:"documentFields"`
}

type documentField struct {
	FieldType  string      `json:"fieldType"`
	FieldLabel *fieldLabel `json:"fieldLabel"`
	FieldValue *fieldValue `json:"fieldValue"`
}

type fieldLabel struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

type fieldValue struct {
	Value string          `json:"value"`
	Text  string          `json:"text"`
	Items []documentField `json:"items"`
}

// Extract sends the document inline (base64) with key/value extraction and
// document classification features, and flattens the per-page field output
// into a RawExtraction.
func (e *Extractor) Extract(ctx context.Context, input port.ExtractInput) (*port.RawExtraction, error) {
	reqBody := analyzeRequest{
		Document: documentDetails{
			Source: "INLINE",
			Data:   base64.StdEncoding.EncodeToString(input.FileBytes),
		},
		Features: []featureRequest{
			{FeatureType: "KEY_VALUE_EXTRACTION"},
			{FeatureType: "DOCUMENT_CLASSIFICATION", MaxResults: 5},
		},
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling analyze request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint+analyzePath, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling document AI service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading analyze response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("document AI service returned %d: %s", resp.StatusCode, truncate(respBytes, 512))
	}

	var analyzed analyzeResponse
	if err := json.Unmarshal(respBytes, &analyzed); err != nil {
		return nil, fmt.Errorf("decoding analyze response: %w", err)
	}

	return flatten(&analyzed), nil
}

// flatten walks the per-page document fields: scalar fields land in the
// value and confidence maps keyed by the service's field name; the "Items"
// group becomes the ordered item list.
func flatten(analyzed *analyzeResponse) *port.RawExtraction {
	raw := &port.RawExtraction{
		Fields:      map[string]string{},
		Confidences: map[string]float64{},
	}

	for _, p := range analyzed.Pages {
		for _, field := range p.DocumentFields {
			name := ""
			confidence := 0.0
			if field.FieldLabel != nil {
				name = field.FieldLabel.Name
				confidence = field.FieldLabel.Confidence
			}
			if name == "" {
				continue
			}

			if strings.EqualFold(name, "Items") {
				raw.Items = append(raw.Items, flattenItems(field.FieldValue)...)
				continue
			}

			raw.Fields[name] = cellValue(field.FieldValue)
			raw.Confidences[name] = confidence
		}
	}

	for _, dt := range analyzed.DetectedDocumentTypes {
		raw.DocumentTypes = append(raw.DocumentTypes, port.DetectedDocumentType{
			DocumentType: dt.DocumentType,
			Confidence:   dt.Confidence,
		})
	}
	return raw
}

func flattenItems(value *fieldValue) []map[string]string {
	if value == nil {
		return nil
	}
	items := make([]map[string]string, 0, len(value.Items))
	for _, row := range value.Items {
		if row.FieldValue == nil {
			continue
		}
		item := map[string]string{}
		for _, cell := range row.FieldValue.Items {
			if cell.FieldLabel == nil || cell.FieldLabel.Name == "" {
				continue
			}
			item[cell.FieldLabel.Name] = cellValue(cell.FieldValue)
		}
		items = append(items, item)
	}
	return items
}

// cellValue prefers the typed value, falling back to the raw text span.
func cellValue(value *fieldValue) string {
	if value == nil {
		return ""
	}
	if value.Value != "" {
		return value.Value
	}
	return value.Text
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
