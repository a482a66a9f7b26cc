package model

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestEmployee_HasQualification(t *testing.T) {
	e := &Employee{Qualifications: []int{CategorySkilled, CategoryData}}

	tests := []struct {
		name     string
		category int
		expected bool
	}{
		{"skilled", CategorySkilled, true},
		{"data", CategoryData, true},
		{"sub-skilled", CategorySubSkilled, false},
		{"other", CategoryOther, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := e.HasQualification(tt.category); result != tt.expected {
				t.Errorf("HasQualification(%d) = %v, expected %v", tt.category, result, tt.expected)
			}
		})
	}
}

func TestIsOnePerDay(t *testing.T) {
	tests := []struct {
		category int
		expected bool
	}{
		{CategorySkilled, true},
		{CategorySubSkilled, true},
		{CategoryData, false},
		{CategoryOther, false},
	}

	for _, tt := range tests {
		if result := IsOnePerDay(tt.category); result != tt.expected {
			t.Errorf("IsOnePerDay(%d) = %v, expected %v", tt.category, result, tt.expected)
		}
	}
}

func TestWorkDaysTarget(t *testing.T) {
	if !WorkDaysTarget("max").IsMax() {
		t.Error("expected \"max\" to report IsMax")
	}
	if !WorkDaysTarget("").IsAbsent() {
		t.Error("expected empty target to report IsAbsent")
	}

	n, ok := WorkDaysTarget("20").Numeric()
	if !ok || n != 20 {
		t.Errorf("Numeric() = (%d, %v), expected (20, true)", n, ok)
	}

	if _, ok := WorkDaysTarget("max").Numeric(); ok {
		t.Error("\"max\" should not parse as numeric")
	}
	if _, ok := WorkDaysTarget("24").Numeric(); ok {
		t.Error("24 is out of the 1..23 range and should not parse")
	}
	if _, ok := WorkDaysTarget("0").Numeric(); ok {
		t.Error("0 is out of the 1..23 range and should not parse")
	}
}

func TestISODateRoundTrip(t *testing.T) {
	d, err := ParseISODate("2026-03-02")
	if err != nil {
		t.Fatalf("ParseISODate: %v", err)
	}
	if got := ISODate(d); got != "2026-03-02" {
		t.Errorf("ISODate round trip = %s, expected 2026-03-02", got)
	}
}

func TestDoubledScaling(t *testing.T) {
	tests := []struct {
		value  float64
		scaled int64
	}{
		{0.5, 1},
		{1.0, 2},
		{1.5, 3},
		{2.0, 4},
	}
	for _, tt := range tests {
		d := decimal.NewFromFloat(tt.value)
		if got := Doubled(d); got != tt.scaled {
			t.Errorf("Doubled(%v) = %d, expected %d", tt.value, got, tt.scaled)
		}
		if got := FromDoubled(tt.scaled); !got.Equal(d) {
			t.Errorf("FromDoubled(%d) = %v, expected %v", tt.scaled, got, d)
		}
	}
}
