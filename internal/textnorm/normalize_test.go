package textnorm

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in  string
		out string
	}{
		{"What is the capital of France?\n", "What is the capital of France?"},
		{"   Paris   \n", "Paris"},
		{"A  B\tC\r\nD", "A B C D"},
		{"\t mixed \t  inner\t\truns  ", "mixed inner runs"},
		{"", ""},
		{" \t \n", ""},
		{"single", "single"},
	}
	for i, c := range cases {
		got := Normalize(c.in)
		if got != c.out {
			t.Fatalf("case %d: got %q want %q", i, got, c.out)
		}
	}
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	in := "  keep   me  "
	_ = Normalize(in)
	if in != "  keep   me  " {
		t.Fatalf("input changed to %q", in)
	}
}

func TestIsBlank(t *testing.T) {
	if !IsBlank(" \t\r\n") {
		t.Fatalf("expected whitespace-only line to be blank")
	}
	if IsBlank("  x ") {
		t.Fatalf("expected line with text to be non-blank")
	}
}
