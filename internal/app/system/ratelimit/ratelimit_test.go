package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiter_BurstThenRefill(t *testing.T) {
	l := New("test", 6, 2) // one token every 10s
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	if !l.AllowAt("1.2.3.4", now) || !l.AllowAt("1.2.3.4", now) {
		t.Fatal("burst of 2 should be allowed")
	}
	if l.AllowAt("1.2.3.4", now) {
		t.Error("third request should be rejected")
	}
	if !l.AllowAt("5.6.7.8", now) {
		t.Error("other keys have their own bucket")
	}
	if !l.AllowAt("1.2.3.4", now.Add(11*time.Second)) {
		t.Error("a token should be back after 10s")
	}
}

func TestLimiter_Reset(t *testing.T) {
	l := New("test", 1, 1)
	now := time.Now()
	l.AllowAt("k", now)
	if l.AllowAt("k", now) {
		t.Fatal("expected rejection")
	}
	l.Reset("k")
	if !l.AllowAt("k", now) {
		t.Error("reset key should be allowed again")
	}
}

func TestLimiter_Sweep(t *testing.T) {
	l := New("test", 10, 1)
	now := time.Now()
	l.AllowAt("old", now.Add(-time.Hour))
	l.AllowAt("fresh", now)

	if n := l.Sweep(now); n != 1 {
		t.Errorf("swept %d, want 1", n)
	}
	if _, ok := l.buckets.Load("fresh"); !ok {
		t.Error("fresh bucket should survive")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name   string
		xff    string
		xri    string
		remote string
		want   string
	}{
		{"forwarded", "203.0.113.9, 10.0.0.1", "", "10.0.0.1:1234", "203.0.113.9"},
		{"real ip", "", " 198.51.100.4 ", "10.0.0.1:1234", "198.51.100.4"},
		{"remote addr", "", "", "192.0.2.7:5555", "192.0.2.7"},
		{"no port", "", "", "192.0.2.8", "192.0.2.8"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/contact-us", nil)
			r.RemoteAddr = tc.remote
			if tc.xff != "" {
				r.Header.Set("X-Forwarded-For", tc.xff)
			}
			if tc.xri != "" {
				r.Header.Set("X-Real-IP", tc.xri)
			}
			if got := ClientIP(r); got != tc.want {
				t.Errorf("ClientIP = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestLoginLimiter_PerUsername(t *testing.T) {
	ll := NewLoginLimiter()
	for i := 0; i < 5; i++ {
		r := httptest.NewRequest("POST", "/admin/login", nil)
		r.RemoteAddr = "10.0.0." + string(rune('1'+i)) + ":1"
		if ok, _ := ll.Check(r, "Admin"); !ok {
			t.Fatalf("attempt %d rejected", i+1)
		}
	}
	r := httptest.NewRequest("POST", "/admin/login", nil)
	r.RemoteAddr = "10.0.0.9:1"
	ok, msg := ll.Check(r, " admin ")
	if ok || msg != "msg.rateLimited" {
		t.Errorf("ok=%v msg=%q", ok, msg)
	}

	ll.Succeeded("ADMIN")
	if ok, _ := ll.Check(r, "admin"); !ok {
		t.Error("success should reset the username bucket")
	}
}
