package utils

import "testing"

func TestHash(t *testing.T) {
	got := Hash("hello")
	want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if got != want {
		t.Errorf("Hash(hello) = %s, want %s", got, want)
	}

	if Hash("hello") != Hash("hello") {
		t.Error("Hash is not deterministic")
	}
	if Hash("hello") == Hash("hello ") {
		t.Error("distinct inputs should not collide")
	}
}

func TestShortHash(t *testing.T) {
	full := Hash("snapshot")

	if got := ShortHash("snapshot", 8); got != full[:8] {
		t.Errorf("ShortHash(8) = %s, want %s", got, full[:8])
	}
	if got := ShortHash("snapshot", 0); got != full {
		t.Errorf("ShortHash(0) should fall back to the full hash, got %s", got)
	}
	if got := ShortHash("snapshot", 999); got != full {
		t.Errorf("ShortHash(999) should fall back to the full hash, got %s", got)
	}
}
