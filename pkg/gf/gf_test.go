package gf

import "testing"

// mulSlow is the textbook conditional shift-and-add product.
func mulSlow(a, b byte) byte {
	var p byte
	for i := 0; i < 8; i++ {
		if b&1 != 0 {
			p ^= a
		}
		hi := a & 0x80
		a <<= 1
		if hi != 0 {
			a ^= Poly
		}
		b >>= 1
	}
	return p
}

func TestMulKnownValues(t *testing.T) {
	tests := []struct {
		a, b, want byte
	}{
		// FIPS-197 section 4.2
		{0x57, 0x83, 0xc1},
		{0x57, 0x13, 0xfe},
		{0x57, 0x02, 0xae},
		{0x57, 0x04, 0x47},
		{0x00, 0xff, 0x00},
		{0x01, 0xab, 0xab},
	}
	for _, tt := range tests {
		if got := Mul(tt.a, tt.b); got != tt.want {
			t.Errorf("Mul(%#02x, %#02x) = %#02x, want %#02x", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestMulMatchesReference(t *testing.T) {
	for a := 0; a < 256; a++ {
		for b := 0; b < 256; b++ {
			got := Mul(byte(a), byte(b))
			want := mulSlow(byte(a), byte(b))
			if got != want {
				t.Fatalf("Mul(%#02x, %#02x) = %#02x, want %#02x", a, b, got, want)
			}
			if got != Mul(byte(b), byte(a)) {
				t.Fatalf("Mul is not commutative for %#02x, %#02x", a, b)
			}
		}
	}
}

func TestInverse(t *testing.T) {
	if Inverse(0) != 0 {
		t.Fatalf("Inverse(0) = %#02x, want 0", Inverse(0))
	}
	for a := 1; a < 256; a++ {
		inv := Inverse(byte(a))
		if p := Mul(byte(a), inv); p != 1 {
			t.Fatalf("%#02x * Inverse(%#02x)=%#02x = %#02x, want 1", a, a, inv, p)
		}
	}
	// FIPS-197 section 4.4 example
	if got := Inverse(0x53); got != 0xca {
		t.Errorf("Inverse(0x53) = %#02x, want 0xca", got)
	}
}

func TestXtime(t *testing.T) {
	chain := []byte{0x57, 0xae, 0x47, 0x8e, 0x07}
	for i := 0; i < len(chain)-1; i++ {
		if got := Xtime(chain[i]); got != chain[i+1] {
			t.Errorf("Xtime(%#02x) = %#02x, want %#02x", chain[i], got, chain[i+1])
		}
	}
}
