package bitboard

import "testing"

func TestSelectTier(t *testing.T) {
	cases := []struct {
		total int
		want  Tier
	}{
		{16, TierSmall},
		{32, TierSmall},
		{33, TierMedium},
		{128, TierMedium},
		{129, TierLarge},
		{4096, TierLarge},
	}
	for _, c := range cases {
		if got := SelectTier(c.total); got != c.want {
			t.Errorf("SelectTier(%d) = %v, want %v", c.total, got, c.want)
		}
	}
}

func TestSetClearTestAcrossTiers(t *testing.T) {
	for _, total := range []int{16, 64, 1000} {
		bb := New(total)
		for i := 0; i < total; i += 7 {
			bb.Set(i)
		}
		for i := 0; i < total; i++ {
			want := i%7 == 0
			if got := bb.Test(i); got != want {
				t.Fatalf("total=%d index=%d: Test()=%v want %v", total, i, got, want)
			}
		}
		for i := 0; i < total; i += 7 {
			bb.Clear(i)
		}
		if !bb.IsEmpty() {
			t.Fatalf("total=%d: expected empty after clearing all set bits", total)
		}
	}
}

func TestPopCountAndForEach(t *testing.T) {
	bb := New(200)
	indices := []int{0, 5, 63, 64, 127, 199}
	for _, idx := range indices {
		bb.Set(idx)
	}
	if got := bb.PopCount(); got != len(indices) {
		t.Fatalf("PopCount() = %d, want %d", got, len(indices))
	}
	var seen []int
	bb.ForEach(func(idx int) { seen = append(seen, idx) })
	if len(seen) != len(indices) {
		t.Fatalf("ForEach visited %d indices, want %d", len(seen), len(indices))
	}
	for i, idx := range indices {
		if seen[i] != idx {
			t.Fatalf("ForEach order[%d] = %d, want %d", i, seen[i], idx)
		}
	}
}

func TestOrAndWith(t *testing.T) {
	a := New(64)
	b := New(64)
	a.Set(3)
	b.Set(5)
	a.OrWith(b)
	if !a.Test(3) || !a.Test(5) {
		t.Fatal("OrWith did not union bits")
	}
	c := New(64)
	c.Set(3)
	c.Set(5)
	c.Set(9)
	a.AndWith(c)
	if !a.Test(3) || !a.Test(5) || a.Test(9) {
		t.Fatal("AndWith did not intersect correctly")
	}
}

func TestClone(t *testing.T) {
	a := New(200)
	a.Set(150)
	b := a.Clone()
	b.Clear(150)
	if !a.Test(150) {
		t.Fatal("mutating clone affected original")
	}
}
