package httpclient

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/Seeyong/pyowm/pkg/apierr"
)

func TestDecodeJSON(t *testing.T) {
	data, err := DecodeJSON([]byte(`[{"id": 1}, "two", 3.5, true, null]`))
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	want := []any{map[string]any{"id": float64(1)}, "two", 3.5, true, nil}
	if !reflect.DeepEqual(data, want) {
		t.Fatalf("unexpected data %#v", data)
	}
}

func TestDecodeJSONRejectsMalformed(t *testing.T) {
	for _, body := range []string{"", "   ", "{", "0x1F", "not json", `{"a": }`} {
		_, err := DecodeJSON([]byte(body))
		if !errors.Is(err, apierr.ErrParseResponse) {
			t.Fatalf("body %q: expected parse error, got %v", body, err)
		}
	}
}

func TestDecodeJSONIntoTyped(t *testing.T) {
	var out struct {
		Name string `json:"name"`
	}
	if err := DecodeJSONInto([]byte(`{"name": "james bond"}`), &out); err != nil {
		t.Fatalf("DecodeJSONInto: %v", err)
	}
	if out.Name != "james bond" {
		t.Fatalf("unexpected name %q", out.Name)
	}

	err := DecodeJSONInto([]byte(`{"name": 7}`), &out)
	if !errors.Is(err, apierr.ErrParseResponse) {
		t.Fatalf("expected parse error on type mismatch, got %v", err)
	}
}

func TestErrorMessage(t *testing.T) {
	testCases := []struct {
		name string
		body string
		want string
	}{
		{name: "empty", body: "", want: ""},
		{name: "json message", body: `{"cod": 401, "message": " Invalid API key "}`, want: "Invalid API key"},
		{name: "json without message", body: `{"cod": 500}`, want: `{"cod": 500}`},
		{name: "html title", body: "<html><head><title>502 Bad Gateway</title></head><body><h1>nginx</h1></body></html>", want: "502 Bad Gateway"},
		{name: "html heading", body: "<html><body><h1>Service Unavailable</h1></body></html>", want: "Service Unavailable"},
		{name: "plain text", body: "  upstream timed out \n", want: "upstream timed out"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := errorMessage([]byte(tc.body)); got != tc.want {
				t.Fatalf("errorMessage = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestResponseSnippetTruncates(t *testing.T) {
	got := responseSnippet([]byte(strings.Repeat("a", maxSnippetLen+10)))
	if len(got) != maxSnippetLen+3 || !strings.HasSuffix(got, "...") {
		t.Fatalf("unexpected snippet length %d", len(got))
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := firstNonEmpty("", " ", "foo", "bar"); got != "foo" {
		t.Fatalf("firstNonEmpty returned %q", got)
	}
}
