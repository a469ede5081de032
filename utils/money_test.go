package utils

import "testing"

func TestFormatINR(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "0"},
		{500, "500"},
		{2500, "2,500"},
		{50000, "50,000"},
		{123456, "1,23,456"},
		{1234567, "12,34,567"},
		{12345678, "1,23,45,678"},
		{123456789, "12,34,56,789"},
		{123456.78, "1,23,456.78"},
		{2500.5, "2,500.5"},
		{2500.05, "2,500.05"},
		{2500.004, "2,500"},   // rounds away sub-paise noise
		{2500.999, "2,501"},   // rounds up through the paise boundary
		{-123456, "-1,23,456"},
		{-0.5, "-0.5"},
	}
	for _, tt := range tests {
		if got := FormatINR(tt.amount); got != tt.want {
			t.Errorf("FormatINR(%v) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}
