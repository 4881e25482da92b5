package playlist

import "testing"

func TestNext_WrapsAround(t *testing.T) {
	c := NewCursor([]string{"a.mp4", "b.mp4", "c.mp4"})

	want := []string{"b.mp4", "c.mp4", "a.mp4"}
	for i, expected := range want {
		got, ok := c.Next()
		if !ok {
			t.Fatalf("Next() call %d returned ok=false", i)
		}
		if got != expected {
			t.Errorf("Next() call %d = %q, want %q", i, got, expected)
		}
	}
}

func TestPrev_WrapsAround(t *testing.T) {
	c := NewCursor([]string{"a.mp4", "b.mp4", "c.mp4"})

	got, ok := c.Prev()
	if !ok || got != "c.mp4" {
		t.Errorf("Prev() from index 0 = %q, %v; want c.mp4, true", got, ok)
	}
}

func TestNextThenPrev_RoundTrip(t *testing.T) {
	// Round-trip must hold for any list length and starting index.
	for length := 1; length <= 5; length++ {
		files := make([]string, length)
		for i := range files {
			files[i] = string(rune('a'+i)) + ".mp4"
		}

		for start := 0; start < length; start++ {
			c := NewCursor(files)
			for i := 0; i < start; i++ {
				c.Next()
			}
			before, _ := c.Current()

			c.Next()
			c.Prev()
			after, _ := c.Current()
			if before != after {
				t.Errorf("len=%d start=%d: Next/Prev round trip %q -> %q", length, start, before, after)
			}

			c.Prev()
			c.Next()
			after, _ = c.Current()
			if before != after {
				t.Errorf("len=%d start=%d: Prev/Next round trip %q -> %q", length, start, before, after)
			}
		}
	}
}

func TestEmptyList_NeverPanics(t *testing.T) {
	c := NewCursor(nil)

	if _, ok := c.Next(); ok {
		t.Error("Next() on empty list should return ok=false")
	}
	if _, ok := c.Prev(); ok {
		t.Error("Prev() on empty list should return ok=false")
	}
	if _, ok := c.Current(); ok {
		t.Error("Current() on empty list should return ok=false")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}

func TestReplace_ResetsIndex(t *testing.T) {
	c := NewCursor([]string{"a.mp4", "b.mp4", "c.mp4"})
	c.Next()
	c.Next()

	c.Replace([]string{"x.mp4", "y.mp4"})
	got, ok := c.Current()
	if !ok || got != "x.mp4" {
		t.Errorf("Current() after Replace = %q, %v; want x.mp4, true", got, ok)
	}
}

func TestReplace_WithEmptyList(t *testing.T) {
	c := NewCursor([]string{"a.mp4"})
	c.Replace(nil)

	if _, ok := c.Next(); ok {
		t.Error("Next() after replacing with empty list should return ok=false")
	}
}

func TestFiles_IsACopy(t *testing.T) {
	c := NewCursor([]string{"a.mp4", "b.mp4"})

	files := c.Files()
	files[0] = "mutated.mp4"

	got, _ := c.Current()
	if got != "a.mp4" {
		t.Errorf("Cursor mutated through Files(): %q", got)
	}
}
