package cache

import "testing"

func TestSearchKey_NormalizesPrecision(t *testing.T) {
	// 37.7 and 37.70 are the same coordinate and must share one entry.
	a := searchKey(37.7, -122.4, "engineer")
	b := searchKey(37.70, -122.40, "engineer")
	if a != b {
		t.Errorf("keys differ for equal coordinates: %q vs %q", a, b)
	}
}

func TestSearchKey_DistinctCoordinates(t *testing.T) {
	a := searchKey(37.7749, -122.4194, "engineer")
	b := searchKey(37.7750, -122.4194, "engineer")
	if a == b {
		t.Error("distinct coordinates produced the same key")
	}
}

func TestSearchKey_KeywordSentinel(t *testing.T) {
	withKw := searchKey(37.7749, -122.4194, "engineer")
	without := searchKey(37.7749, -122.4194, "")
	if withKw == without {
		t.Error("absent keyword must not collide with a keyword search")
	}
	if got, want := without, "search:lat=37.7749&lon=-122.4194&keyword=none"; got != want {
		t.Errorf("keywordless key = %q, want %q", got, want)
	}
}

func TestFavoritesKey(t *testing.T) {
	if got, want := favoritesKey("john_doe"), "history:userId=john_doe"; got != want {
		t.Errorf("favoritesKey = %q, want %q", got, want)
	}
}
