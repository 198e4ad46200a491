package utils

import (
	"testing"
	"time"
)

func TestFormatMoney(t *testing.T) {
	cases := map[float64]string{
		0:          "0.00",
		999.5:      "999.50",
		1234.5:     "1,234.50",
		-1234567.1: "-1,234,567.10",
	}
	for in, want := range cases {
		if got := FormatMoney(in); got != want {
			t.Fatalf("FormatMoney(%v) = %s, want %s", in, got, want)
		}
	}
}

func TestToAmount(t *testing.T) {
	if v, ok := ToAmount("125.40"); !ok || v != 125.4 {
		t.Fatalf("decimal string: %v %v", v, ok)
	}
	if v, ok := ToAmount(int64(3)); !ok || v != 3 {
		t.Fatalf("int64: %v %v", v, ok)
	}
	if _, ok := ToAmount("n/a"); ok {
		t.Fatalf("garbage should not parse")
	}
	if _, ok := ToAmount(nil); ok {
		t.Fatalf("nil should not parse")
	}
}

func TestTextAndDates(t *testing.T) {
	if got := Text(nil, "-"); got != "-" {
		t.Fatalf("nil: %q", got)
	}
	if got := Text("  two   words ", "-"); got != "two words" {
		t.Fatalf("spaces: %q", got)
	}
	if got := FormatDate("2025-04-01T10:00:00Z"); got != "2025-04-01" {
		t.Fatalf("date string: %q", got)
	}
	if got := FormatDate(time.Date(2025, 4, 1, 23, 0, 0, 0, time.UTC)); got != "2025-04-01" {
		t.Fatalf("date time: %q", got)
	}
	if got := SafeFilenamePart("Q 1/2"); got != "Q_1_2" {
		t.Fatalf("filename: %q", got)
	}
}
