package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/haulbase/freightdocs/internal/core/domain"
)

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generationConfig struct {
	ResponseMimeType string `json:"response_mime_type,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// postGenerate sends prompt plus the document bytes and returns the model's
// raw text reply.
func (c *Client) postGenerate(ctx context.Context, operation, prompt string, in domain.RunInput) (string, error) {
	reqBody := generateRequest{
		Contents: []content{{
			Parts: []part{
				{Text: prompt},
				{InlineData: &inlineData{
					MimeType: mimeTypeFor(in.Format),
					Data:     base64.StdEncoding.EncodeToString(in.Data),
				}},
			},
		}},
		GenerationConfig: &generationConfig{ResponseMimeType: "application/json"},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal %s request: %w", operation, err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create %s request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("vision %s request: %w", operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", &HTTPStatusError{
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(raw),
		}
	}

	var parsed generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode %s response: %w", operation, err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("vision %s response has no candidates", operation)
	}
	return strings.TrimSpace(parsed.Candidates[0].Content.Parts[0].Text), nil
}

func mimeTypeFor(format string) string {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), ".")) {
	case "pdf":
		return "application/pdf"
	case "png":
		return "image/png"
	case "tiff", "tif":
		return "image/tiff"
	default:
		return "image/jpeg"
	}
}
