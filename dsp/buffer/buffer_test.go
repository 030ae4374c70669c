package buffer

import "testing"

func TestNewZeroFilled(t *testing.T) {
	b := New(4)
	if b.Len() != 4 {
		t.Fatalf("Len=%d want=4", b.Len())
	}

	for i, v := range b.Samples() {
		if v != 0 {
			t.Fatalf("sample %d = %f want 0", i, v)
		}
	}

	if New(-1).Len() != 0 {
		t.Fatalf("negative length must yield an empty buffer")
	}
}

func TestFromSliceShares(t *testing.T) {
	s := []float64{1, 2, 3}
	b := FromSlice(s)

	b.Samples()[1] = 9
	if s[1] != 9 {
		t.Fatalf("mutation not visible through the source slice")
	}
}

func TestResize(t *testing.T) {
	b := New(2)
	b.Samples()[0] = 1
	b.Samples()[1] = 2

	b.Resize(4)
	if b.Len() != 4 {
		t.Fatalf("Len=%d want=4", b.Len())
	}

	want := []float64{1, 2, 0, 0}
	for i, v := range b.Samples() {
		if v != want[i] {
			t.Fatalf("sample %d = %f want %f", i, v, want[i])
		}
	}

	// Shrinking and growing within capacity must zero re-exposed tail
	// elements.
	b.Samples()[3] = 7
	b.Resize(2)
	b.Resize(4)
	if b.Samples()[3] != 0 {
		t.Fatalf("stale data after regrow: %f", b.Samples()[3])
	}
}

func TestZero(t *testing.T) {
	b := FromSlice([]float64{1, 2})
	b.Zero()

	for i, v := range b.Samples() {
		if v != 0 {
			t.Fatalf("sample %d = %f want 0", i, v)
		}
	}
}

func TestPoolReuse(t *testing.T) {
	p := NewPool()

	b := p.Get(8)
	if b.Len() != 8 {
		t.Fatalf("Len=%d want=8", b.Len())
	}

	for i := range b.Samples() {
		b.Samples()[i] = 1
	}
	p.Put(b)

	// A fresh Get must always be zeroed, whether or not the buffer is
	// recycled.
	c := p.Get(8)
	for i, v := range c.Samples() {
		if v != 0 {
			t.Fatalf("pooled buffer not zeroed at %d: %f", i, v)
		}
	}

	p.Put(nil) // must not panic
}
