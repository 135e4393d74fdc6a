package image

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"promptart/internal/domain"
)

func TestHuggingFaceSynthesize(t *testing.T) {
	want := testPNG(t)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/models/CompVis/stable-diffusion-v1-4" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer hf_test" {
			t.Errorf("auth header = %q", got)
		}
		var payload huggingFaceRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if payload.Inputs != "a red cube" {
			t.Errorf("inputs = %q", payload.Inputs)
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(want)
	}))
	defer ts.Close()

	client, err := NewHuggingFace(HuggingFaceOptions{Token: "hf_test", BaseURL: ts.URL + "/models/"})
	if err != nil {
		t.Fatalf("NewHuggingFace: %v", err)
	}
	got, err := client.Synthesize(context.Background(), "  a red cube ")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("unexpected image bytes")
	}
	if client.Name() != "huggingface:CompVis/stable-diffusion-v1-4" {
		t.Fatalf("Name() = %q", client.Name())
	}
}

func TestHuggingFaceConvertsJPEG(t *testing.T) {
	jpg := testJPEG(t)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(jpg)
	}))
	defer ts.Close()

	client, _ := NewHuggingFace(HuggingFaceOptions{Token: "hf_test", BaseURL: ts.URL, Model: "org/model"})
	got, err := client.Synthesize(context.Background(), "sunset")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if !IsPNG(got) {
		t.Fatalf("expected PNG output")
	}
}

func TestHuggingFaceErrorResponses(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		wantMsg     string
	}{
		{name: "loading model", status: http.StatusServiceUnavailable, contentType: "application/json", body: `{"error":"Model is currently loading","estimated_time":20}`, wantMsg: "Model is currently loading"},
		{name: "plain text", status: http.StatusBadGateway, contentType: "text/plain", body: "bad gateway", wantMsg: "status 502: bad gateway"},
		{name: "json with ok status", status: http.StatusOK, contentType: "application/json", body: `{"error":"quota"}`, wantMsg: "quota"},
		{name: "garbage image", status: http.StatusOK, contentType: "image/png", body: "nope", wantMsg: "decode"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tc.contentType)
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer ts.Close()

			client, _ := NewHuggingFace(HuggingFaceOptions{Token: "hf_test", BaseURL: ts.URL})
			_, err := client.Synthesize(context.Background(), "prompt")
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantMsg) {
				t.Fatalf("error = %q, want substring %q", err.Error(), tc.wantMsg)
			}
		})
	}
}

func TestHuggingFaceRequiresToken(t *testing.T) {
	_, err := NewHuggingFace(HuggingFaceOptions{Token: " "})
	if !errors.Is(err, domain.ErrMissingCredentials) {
		t.Fatalf("NewHuggingFace error = %v, want ErrMissingCredentials", err)
	}
}

func TestHuggingFaceRejectsEmptyPrompt(t *testing.T) {
	client, _ := NewHuggingFace(HuggingFaceOptions{Token: "hf_test", BaseURL: "http://127.0.0.1:1"})
	_, err := client.Synthesize(context.Background(), "   ")
	if !errors.Is(err, domain.ErrInvalidPrompt) {
		t.Fatalf("Synthesize error = %v, want ErrInvalidPrompt", err)
	}
}

func TestHuggingFaceDefaultClientIsUnbounded(t *testing.T) {
	client, err := NewHuggingFace(HuggingFaceOptions{Token: "hf_test"})
	if err != nil {
		t.Fatalf("NewHuggingFace: %v", err)
	}
	if client.httpClient.Timeout != 0 {
		t.Fatalf("Timeout = %v, want 0 (unbounded)", client.httpClient.Timeout)
	}

	bounded, _ := NewHuggingFace(HuggingFaceOptions{Token: "hf_test", Timeout: 30 * time.Second})
	if bounded.httpClient.Timeout != 30*time.Second {
		t.Fatalf("Timeout = %v, want 30s", bounded.httpClient.Timeout)
	}
}
