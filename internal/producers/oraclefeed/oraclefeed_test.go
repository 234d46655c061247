package oraclefeed

import (
	"testing"
)

func TestScalePrice(t *testing.T) {
	cases := []struct {
		price float64
		want  string
	}{
		{1.0, "1000000000000000000"},
		{2345.6789, "2345678900000000000000"},
		{0.0, "0"},
	}
	for _, c := range cases {
		if got := scalePrice(c.price); got.String() != c.want {
			t.Fatalf("scalePrice(%v) = %s, want %s", c.price, got.String(), c.want)
		}
	}
}
