package checksum

import "testing"

func TestSum(t *testing.T) {
	// sha256("abc")
	const want = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got := Sum([]byte("abc")); got != want {
		t.Errorf("Sum = %s, want %s", got, want)
	}
}

func TestMatches(t *testing.T) {
	data := []byte("# Manifold\n")
	if !Matches(data, Sum(data)) {
		t.Error("content should match its own sum")
	}
	if Matches([]byte("# Chart\n"), Sum(data)) {
		t.Error("different content should not match")
	}
	if Matches(nil, "") {
		t.Error("empty sum should never match")
	}
}
