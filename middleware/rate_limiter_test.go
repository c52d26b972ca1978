package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestIsEntryWrite(t *testing.T) {
	cases := []struct {
		method string
		path   string
		want   bool
	}{
		{http.MethodPost, "/api/v1/entries", true},
		{http.MethodPost, "/api/v1/entries/periodic", true},
		{http.MethodPost, "/api/v1/entries/onetime", true},
		{http.MethodDelete, "/api/v1/entries/abc/2024-03-01", true},
		{http.MethodGet, "/api/v1/entries/abc/2024-03-01", false},
		{http.MethodPost, "/api/v1/challenges/join", false},
		{http.MethodGet, "/api/v1/challenges/abc/leaderboard", false},
	}

	for _, c := range cases {
		r := httptest.NewRequest(c.method, c.path, nil)
		if got := isEntryWrite(r); got != c.want {
			t.Errorf("isEntryWrite(%s %s) = %v, want %v", c.method, c.path, got, c.want)
		}
	}
}

func TestGetLimiterSeparatesReadAndWriteBuckets(t *testing.T) {
	ip := "203.0.113.7"

	read := getLimiter(ip, false)
	write := getLimiter(ip, true)

	if read == write {
		t.Fatal("read and write traffic must not share a bucket")
	}
	if getLimiter(ip, false) != read {
		t.Error("same IP should keep its read limiter across requests")
	}
	if getLimiter(ip, true) != write {
		t.Error("same IP should keep its write limiter across requests")
	}

	if write.Burst() >= read.Burst() {
		t.Errorf("write burst %d should be tighter than read burst %d", write.Burst(), read.Burst())
	}
	if write.Limit() >= read.Limit() {
		t.Errorf("write rate %v should be tighter than read rate %v", write.Limit(), read.Limit())
	}
}

func TestWriteBucketExhausts(t *testing.T) {
	lim := getLimiter("203.0.113.99", true)

	allowed := 0
	for i := 0; i < 20; i++ {
		if lim.Allow() {
			allowed++
		}
	}
	if allowed >= 20 {
		t.Error("write bucket never refused a burst of 20")
	}
}
