package utils

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSanitizeUTF8(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"hello", "hello"},
		{"Hello \xff World", "Hello  World"},
	}

	for _, tt := range tests {
		got := SanitizeUTF8(tt.input)
		if got != tt.expected {
			t.Errorf("SanitizeUTF8(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestBaseDomain(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"http://google.com", "google.com"},
		{"https://blog.google.co.uk/path", "google.co.uk"},
		{"https://www.coindesk.com/markets/1", "coindesk.com"},
		{"http://localhost:8080", "localhost"},
		{"invalid-url", ""},
	}

	for _, tt := range tests {
		if got := BaseDomain(tt.url); got != tt.expected {
			t.Errorf("BaseDomain(%q) = %q, want %q", tt.url, got, tt.expected)
		}
	}
}

func TestHostname(t *testing.T) {
	tests := map[string]string{
		"https://www.coindesk.com/markets/1": "coindesk.com",
		"https://decrypt.co/news":            "decrypt.co",
		"::not a url":                        "",
	}
	for in, want := range tests {
		if got := Hostname(in); got != want {
			t.Errorf("Hostname(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRedactQuery(t *testing.T) {
	got := RedactQuery("https://cryptopanic.com/api/v1/posts/?auth_token=secret&currencies=BTC", "auth_token")
	if strings.Contains(got, "secret") {
		t.Errorf("token leaked into %q", got)
	}
	if !strings.Contains(got, "currencies=BTC") {
		t.Errorf("other params should survive, got %q", got)
	}
}

func TestIsPrivateIP(t *testing.T) {
	tests := []struct {
		ip       string
		expected bool
	}{
		{"127.0.0.1", true},
		{"192.168.1.1", true},
		{"10.0.0.1", true},
		{"172.16.0.1", true},
		{"172.31.255.255", true},
		{"169.254.169.254", true},
		{"8.8.8.8", false},
		{"::1", true},
		{"fc00::1", true},
		{"fdff:ffff:ffff:ffff:ffff:ffff:ffff:ffff", true},
		{"2001:db8::1", false},
	}

	for _, tt := range tests {
		got := IsPrivateIP(net.ParseIP(tt.ip))
		if got != tt.expected {
			t.Errorf("IsPrivateIP(%q) = %v, want %v", tt.ip, got, tt.expected)
		}
	}
}

func TestNewSafeHTTPClient(t *testing.T) {
	cfg := ClientConfig{
		Timeout:       2 * time.Second,
		AllowInternal: false,
	}
	client := NewSafeHTTPClient(cfg)

	if client.Timeout != cfg.Timeout {
		t.Errorf("Expected timeout %v, got %v", cfg.Timeout, client.Timeout)
	}

	_, err := client.Get("http://127.0.0.1")
	if err == nil {
		t.Error("Expected error for private IP access, got nil")
	} else if !strings.Contains(err.Error(), "blocked connection to private IP") {
		t.Errorf("Expected SSRF protection error, got: %v", err)
	}

	transport := client.Transport.(*http.Transport)
	_, err = transport.DialContext(context.Background(), "tcp", "invalid-addr")
	if err == nil {
		t.Error("Expected error for invalid address, got nil")
	}

	_, err = transport.DialContext(context.Background(), "tcp", "nonexistent.domain.invalid:80")
	if err == nil {
		t.Error("Expected error for nonexistent domain, got nil")
	}
}

func TestNewSafeHTTPClient_AllowInternal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewSafeHTTPClient(ClientConfig{Timeout: time.Second, AllowInternal: true})
	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatalf("internal access should be allowed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("unexpected status %d", resp.StatusCode)
	}
}

func TestAllowCORS(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	corsHandler := AllowCORS(handler)

	req := httptest.NewRequest("OPTIONS", "http://example.com", nil)
	w := httptest.NewRecorder()
	corsHandler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("CORS header not set")
	}

	req = httptest.NewRequest("GET", "http://example.com", nil)
	w = httptest.NewRecorder()
	corsHandler.ServeHTTP(w, req)
	if w.Code != http.StatusTeapot {
		t.Errorf("non-preflight requests must reach the handler, got %d", w.Code)
	}
}
