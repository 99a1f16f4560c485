package tags

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
)

func TestFallbackDeterministic(t *testing.T) {
	title := "Black Samsung phone"
	desc := "Lost a black Samsung Galaxy phone near the market. Please help, the phone has a cracked screen."

	first := Fallback(title, desc)
	for i := 0; i < 5; i++ {
		if got := Fallback(title, desc); !reflect.DeepEqual(got, first) {
			t.Fatalf("fallback not deterministic: %v vs %v", got, first)
		}
	}

	if len(first) > MaxTags {
		t.Errorf("expected at most %d tags, got %d", MaxTags, len(first))
	}
	for _, tag := range first {
		if tag != strings.ToLower(tag) {
			t.Errorf("expected lowercase tag, got %q", tag)
		}
	}
}

func TestFallbackFrequencyOrder(t *testing.T) {
	// "phone" appears three times, "samsung" twice, the rest once.
	got := Fallback("Samsung phone", "black phone, samsung charger, phone case")
	if len(got) < 2 {
		t.Fatalf("expected at least 2 tags, got %v", got)
	}
	if got[0] != "phone" {
		t.Errorf("expected most frequent token 'phone' first, got %q", got[0])
	}
	if got[1] != "samsung" {
		t.Errorf("expected 'samsung' second, got %q", got[1])
	}
}

func TestFallbackExcludesStopWordsAndNumbers(t *testing.T) {
	got := Fallback("Lost item", "please help contact 0781234567 found looking the and")
	if len(got) != 0 {
		t.Errorf("expected no tags from stop words and numbers, got %v", got)
	}
}

func TestFallbackDropsShortTokens(t *testing.T) {
	got := Fallback("id no ok", "an id of my tv")
	if len(got) != 0 {
		t.Errorf("expected short tokens dropped, got %v", got)
	}
}

func TestFallbackTieBreakByFirstOccurrence(t *testing.T) {
	got := Fallback("wallet leather brown", "")
	want := []string{"wallet", "leather", "brown"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected first-occurrence order %v, got %v", want, got)
	}
}

func TestExtractUsesAIWhenAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response": "{\"tags\": [\"Samsung\", \"phone\", \"samsung\"]}", "done": true}`))
	}))
	t.Cleanup(server.Close)

	e := &Extractor{AI: NewAIClient(server.URL, "test-model")}
	got := e.Extract(context.Background(), "ignored", "ignored")

	// Lowercased and deduplicated.
	want := []string{"samsung", "phone"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestExtractFallsBackOnBadResponses(t *testing.T) {
	cases := []struct {
		name string
		body string
		code int
	}{
		{"non-json", `{"response": "here are some tags!", "done": true}`, 200},
		{"missing tags array", `{"response": "{\"labels\": [\"a\"]}", "done": true}`, 200},
		{"server error", ``, 500},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.code)
				w.Write([]byte(tc.body))
			}))
			t.Cleanup(server.Close)

			e := &Extractor{AI: NewAIClient(server.URL, "test-model")}
			got := e.Extract(context.Background(), "Brown leather wallet", "")

			want := Fallback("Brown leather wallet", "")
			if !reflect.DeepEqual(got, want) {
				t.Errorf("expected fallback tags %v, got %v", want, got)
			}
		})
	}
}

func TestExtractFallsBackWhenUnreachable(t *testing.T) {
	// Closed port: connection refused.
	e := &Extractor{AI: NewAIClient("http://127.0.0.1:1", "test-model")}
	got := e.Extract(context.Background(), "Brown leather wallet", "")

	want := Fallback("Brown leather wallet", "")
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected fallback tags %v, got %v", want, got)
	}
}

func TestParseTagsStripsFences(t *testing.T) {
	got, err := parseTags("```json\n{\"tags\": [\"wallet\"]}\n```")
	if err != nil {
		t.Fatalf("parseTags: %v", err)
	}
	if len(got) != 1 || got[0] != "wallet" {
		t.Errorf("expected [wallet], got %v", got)
	}
}
