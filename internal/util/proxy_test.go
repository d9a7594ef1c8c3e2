package util

import (
	"net/http"
	"testing"
)

func TestNewProxyFunc(t *testing.T) {
	fn := NewProxyFunc("http://proxy:3128", "http://secure:3129", "")

	req, _ := http.NewRequest(http.MethodPost, "https://pmi-cancellation-api.onrender.com/pmi-check", nil)
	u, err := fn(req)
	if err != nil {
		t.Fatal(err)
	}
	if u.Host != "secure:3129" {
		t.Errorf("https request should use https proxy, got %s", u.Host)
	}

	req, _ = http.NewRequest(http.MethodPost, "http://localhost:9000/pmi-check", nil)
	u, _ = fn(req)
	if u.Host != "proxy:3128" {
		t.Errorf("http request should use http proxy, got %s", u.Host)
	}
}

func TestNewProxyFunc_NoProxy(t *testing.T) {
	fn := NewProxyFunc("http://proxy:3128", "", "localhost, .internal.example")

	tests := []struct {
		url    string
		direct bool
	}{
		{"http://localhost:9000/pmi-check", true},
		{"http://scoring.internal.example/pmi-check", true},
		{"http://internal.example/pmi-check", true},
		{"http://example.com/pmi-check", false},
	}

	for _, tt := range tests {
		req, _ := http.NewRequest(http.MethodPost, tt.url, nil)
		u, err := fn(req)
		if err != nil {
			t.Fatal(err)
		}
		if (u == nil) != tt.direct {
			t.Errorf("%s: expected direct=%v, got proxy %v", tt.url, tt.direct, u)
		}
	}
}
