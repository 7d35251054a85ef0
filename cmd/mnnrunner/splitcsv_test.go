package main

import "testing"

func TestSplitCSV(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b , c ", []string{"a", "b", "c"}},
		{"a,,c", []string{"a", "c"}},
		{" , ", nil},
		{"", nil},
	}
	for _, c := range cases {
		got := splitCSV(c.in)
		if len(got) != len(c.want) {
			t.Fatalf("%q -> %v, want %v", c.in, got, c.want)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Fatalf("%q -> %v, want %v", c.in, got, c.want)
			}
		}
	}
}

func TestParseDims(t *testing.T) {
	dims, err := parseDims("1, 3,224,224")
	if err != nil {
		t.Fatalf("parseDims: %v", err)
	}
	if len(dims) != 4 || dims[1] != 3 || dims[3] != 224 {
		t.Fatalf("dims = %v", dims)
	}
	if _, err := parseDims("1,x"); err == nil {
		t.Fatalf("expected error for non-numeric dim")
	}
	if _, err := parseDims(""); err == nil {
		t.Fatalf("expected error for empty shape")
	}
}
