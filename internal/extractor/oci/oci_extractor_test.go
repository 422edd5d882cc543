package oci_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invparser/internal/config"
	"invparser/internal/extractor/oci"
	"invparser/internal/port"
)

const analyzeResponseJSON = `{
	"pages": [
		{
			"documentFields": [
				{
					"fieldType": "KEY_VALUE",
					"fieldLabel": {"name": "InvoiceId", "confidence": 0.99},
					"fieldValue": {"value": "INV-2024-001"}
				},
				{
					"fieldType": "KEY_VALUE",
					"fieldLabel": {"name": "VendorName", "confidence": 0.98},
					"fieldValue": {"text": "Acme Corporation"}
				},
				{
					"fieldType": "KEY_VALUE",
					"fieldLabel": {"name": "InvoiceTotal", "confidence": 0.91},
					"fieldValue": {"value": "$1,300.00"}
				},
				{
					"fieldType": "LINE_ITEM_GROUP",
					"fieldLabel": {"name": "Items"},
					"fieldValue": {
						"items": [
							{
								"fieldValue": {
									"items": [
										{"fieldLabel": {"name": "Name"}, "fieldValue": {"value": "Widget-A"}},
										{"fieldLabel": {"name": "Quantity"}, "fieldValue": {"value": "10"}},
										{"fieldLabel": {"name": "Amount"}, "fieldValue": {"value": "1000.00"}}
									]
								}
							},
							{
								"fieldValue": {
									"items": [
										{"fieldLabel": {"name": "Name"}, "fieldValue": {"value": "Gadget-B"}},
										{"fieldLabel": {"name": "Amount"}, "fieldValue": {"value": "250.00"}}
									]
								}
							}
						]
					}
				}
			]
		}
	],
	"detectedDocumentTypes": [
		{"documentType": "INVOICE", "confidence": 0.97},
		{"documentType": "RECEIPT", "confidence": 0.12}
	]
}`

func newTestExtractor(endpoint string) *oci.Extractor {
	return oci.NewExtractor(&config.ExtractorConfig{
		Provider:    "oci",
		Endpoint:    endpoint,
		APIKey:      "test-key",
		TimeoutSecs: 5,
	})
}

func TestExtract_FlattensFieldsAndItems(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(analyzeResponseJSON))
	}))
	defer server.Close()

	e := newTestExtractor(server.URL)
	raw, err := e.Extract(context.Background(), port.ExtractInput{
		FileBytes:   []byte("%PDF-1.4 test content"),
		ContentType: "application/pdf",
	})
	require.NoError(t, err)

	assert.Equal(t, "/20221109/actions/analyzeDocument", gotPath)
	assert.Equal(t, "Bearer test-key", gotAuth)

	doc, ok := gotBody["document"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "INLINE", doc["source"])
	assert.NotEmpty(t, doc["data"])

	assert.Equal(t, "INV-2024-001", raw.Fields["InvoiceId"])
	assert.Equal(t, "Acme Corporation", raw.Fields["VendorName"])
	assert.Equal(t, "$1,300.00", raw.Fields["InvoiceTotal"])
	assert.Equal(t, 0.99, raw.Confidences["InvoiceId"])
	assert.Equal(t, 0.91, raw.Confidences["InvoiceTotal"])

	require.Len(t, raw.Items, 2)
	assert.Equal(t, "Widget-A", raw.Items[0]["Name"])
	assert.Equal(t, "10", raw.Items[0]["Quantity"])
	assert.Equal(t, "Gadget-B", raw.Items[1]["Name"])

	require.Len(t, raw.DocumentTypes, 2)
	assert.Equal(t, "INVOICE", raw.DocumentTypes[0].DocumentType)
	assert.Equal(t, 0.97, raw.DocumentTypes[0].Confidence)
}

func TestExtract_ServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"code": "InternalError"}`))
	}))
	defer server.Close()

	e := newTestExtractor(server.URL)
	raw, err := e.Extract(context.Background(), port.ExtractInput{FileBytes: []byte("x")})
	assert.Nil(t, raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "returned 500")
}

func TestExtract_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	e := newTestExtractor(server.URL)
	_, err := e.Extract(context.Background(), port.ExtractInput{FileBytes: []byte("x")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding analyze response")
}
