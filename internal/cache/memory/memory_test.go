package memory

import (
	"testing"
	"time"
)

func TestMemCache(t *testing.T) {
	c := New(time.Minute)

	if _, ok := c.Get("nada"); ok {
		t.Fatal("key inexistente no debería existir")
	}

	c.Set("k", []byte("v"), time.Minute)
	b, ok := c.Get("k")
	if !ok || string(b) != "v" {
		t.Fatalf("Get = (%q, %v)", b, ok)
	}

	c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Fatal("key borrada no debería existir")
	}
}

func TestMemCacheExpiry(t *testing.T) {
	c := New(time.Minute)
	c.Set("k", []byte("v"), 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Fatal("la key debería haber expirado")
	}
}
