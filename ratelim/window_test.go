package ratelim

import (
	"net/http/httptest"
	"testing"
	"time"

	"vortex/kv"
)

func TestWindowAllowsUpToLimit(t *testing.T) {
	wl := NewWindow(kv.NewMemory(), 3, time.Minute)
	base := time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)
	wl.now = func() time.Time { return base }

	r := httptest.NewRequest("GET", "/api/v1/payments/pix", nil)
	for i := 0; i < 3; i++ {
		if ok, _ := wl.Allow(r, "1.2.3.4"); !ok {
			t.Fatalf("hit %d denied within budget", i+1)
		}
	}
	if ok, _ := wl.Allow(r, "1.2.3.4"); ok {
		t.Error("fourth hit must be denied")
	}
}

func TestWindowResetsAfterInterval(t *testing.T) {
	wl := NewWindow(kv.NewMemory(), 1, time.Minute)
	base := time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)
	now := base
	wl.now = func() time.Time { return now }

	r := httptest.NewRequest("GET", "/api/v1/payments/pix", nil)
	if ok, _ := wl.Allow(r, "1.2.3.4"); !ok {
		t.Fatal("first hit denied")
	}
	if ok, _ := wl.Allow(r, "1.2.3.4"); ok {
		t.Fatal("second hit in the same window must be denied")
	}

	now = base.Add(time.Minute + time.Second)
	if ok, _ := wl.Allow(r, "1.2.3.4"); !ok {
		t.Error("window must reset after the interval")
	}
}

func TestWindowKeysAreIndependent(t *testing.T) {
	wl := NewWindow(kv.NewMemory(), 1, time.Minute)
	r := httptest.NewRequest("GET", "/api/v1/payments/pix", nil)

	if ok, _ := wl.Allow(r, "1.2.3.4"); !ok {
		t.Fatal("first key denied")
	}
	if ok, _ := wl.Allow(r, "5.6.7.8"); !ok {
		t.Error("budget must be tracked per key")
	}
}
