package httpclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Seeyong/pyowm/pkg/apierr"
)

const maxSnippetLen = 512

var errEmptyBody = errors.New("response body is empty")

// DecodeJSON parses body as a JSON value.
func DecodeJSON(body []byte) (any, error) {
	var out any
	if err := DecodeJSONInto(body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DecodeJSONInto parses body into out.
func DecodeJSONInto(body []byte, out any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return &apierr.ParseError{Err: errEmptyBody}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &apierr.ParseError{Snippet: responseSnippet(body), Err: err}
	}
	return nil
}

// errorMessage extracts a human readable message from an error response body.
// JSON bodies contribute their "message" field, HTML error pages (usually
// served by a proxy) their title or first heading.
func errorMessage(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ""
	}

	if trimmed[0] == '{' {
		var payload struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(trimmed, &payload); err == nil && strings.TrimSpace(payload.Message) != "" {
			return strings.TrimSpace(payload.Message)
		}
	}

	if trimmed[0] == '<' {
		if msg := htmlMessage(trimmed); msg != "" {
			return msg
		}
	}

	return responseSnippet(trimmed)
}

func htmlMessage(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	return firstNonEmpty(
		doc.Find("title").First().Text(),
		doc.Find("h1").First().Text(),
	)
}

func responseSnippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxSnippetLen {
		return s[:maxSnippetLen] + "..."
	}
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
