package navidrome

import "testing"

func TestSaltedToken(t *testing.T) {
	// md5("sesame" + "c19b2d")
	got := saltedToken("sesame", "c19b2d")
	if got != "26719a1196d2a940705a59634eb18eab" {
		t.Errorf("unexpected token %q", got)
	}
}

func TestRandomSaltIsHexAndFresh(t *testing.T) {
	a, err := randomSalt()
	if err != nil {
		t.Fatalf("randomSalt failed: %v", err)
	}
	b, err := randomSalt()
	if err != nil {
		t.Fatalf("randomSalt failed: %v", err)
	}
	if len(a) != 16 || len(b) != 16 {
		t.Errorf("expected 16 hex chars, got %q and %q", a, b)
	}
	if a == b {
		t.Error("expected distinct salts")
	}
}

func TestNewClientTrimsTrailingSlash(t *testing.T) {
	client := NewClient("https://music.example.com/", "user", "pass")
	if client.URL != "https://music.example.com" {
		t.Errorf("unexpected URL %q", client.URL)
	}
}
