package common

import "testing"

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{1.005, 1.0}, // 1.005 is stored as 1.00499..., rounds down
		{849.999, 850},
		{87.346, 87.35},
		{-1.255, -1.25},
	}
	for _, tc := range tests {
		if got := Round2(tc.in); got != tc.want {
			t.Fatalf("Round2(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestRound1(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{87.0, 87.0},
		{104.99, 105.0},
		{86.94, 86.9},
	}
	for _, tc := range tests {
		if got := Round1(tc.in); got != tc.want {
			t.Fatalf("Round1(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
