package randpick

import "testing"

func TestSameSeedSameSequence(t *testing.T) {
	t.Parallel()

	a, b := New(42), New(42)
	for i := 0; i < 32; i++ {
		if x, y := a.IntN(1000), b.IntN(1000); x != y {
			t.Fatalf("step %d: %d != %d", i, x, y)
		}
	}
}

func TestOne(t *testing.T) {
	t.Parallel()

	p := New(7)
	if got := One(p, nil); got != "" {
		t.Fatalf("One(nil)=%q, want empty", got)
	}
	if got := One(p, []string{"a"}); got != "a" {
		t.Fatalf("One([a])=%q", got)
	}

	items := []string{"a", "b", "c"}
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		seen[One(p, items)] = true
	}
	if len(seen) != len(items) {
		t.Fatalf("seen=%v, want every item", seen)
	}
}
