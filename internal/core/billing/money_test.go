package billing

import (
	"encoding/json"
	"math"
	"testing"
)

func TestRound2(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{1.234, 1.23},
		{1.236, 1.24},
		{0.125, 0.13},
		{-0.125, -0.13},
		{100, 100},
		{0, 0},
		{math.NaN(), 0},
		{math.Inf(1), 0},
		{math.Inf(-1), 0},
	}
	for _, tc := range cases {
		if got := Round2(tc.in); got != tc.want {
			t.Errorf("Round2(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestRound2_IdempotentAndTwoPlaces(t *testing.T) {
	inputs := []float64{0.1, 0.2, 0.3, 1.005, 2.675, 33.333333, 99.999, -12.3456, 1e6 / 7}
	for _, x := range inputs {
		once := Round2(x)
		if twice := Round2(once); twice != once {
			t.Errorf("Round2 not idempotent for %v: %v then %v", x, once, twice)
		}
		if frac := math.Abs(once*100 - math.Round(once*100)); frac > 1e-6 {
			t.Errorf("Round2(%v) = %v has more than two decimals", x, once)
		}
	}
}

func TestAmountOf(t *testing.T) {
	cases := []struct {
		in   float64
		want Amount
	}{
		{100, 10000},
		{33.33, 3333},
		{0.29, 29},
		{0.01, 1},
		{-4.5, -450},
		{math.NaN(), 0},
	}
	for _, tc := range cases {
		if got := AmountOf(tc.in); got != tc.want {
			t.Errorf("AmountOf(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestAmount_String(t *testing.T) {
	cases := map[Amount]string{
		0:      "0.00",
		1:      "0.01",
		3334:   "33.34",
		10000:  "100.00",
		-5:     "-0.05",
		-12345: "-123.45",
	}
	for in, want := range cases {
		if got := in.String(); got != want {
			t.Errorf("Amount(%d).String() = %q, want %q", int64(in), got, want)
		}
	}
}

func TestAmount_JSON(t *testing.T) {
	out, err := json.Marshal([]Amount{3334, -5, 0})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != "[33.34,-0.05,0.00]" {
		t.Fatalf("unexpected json: %s", out)
	}

	var payload struct {
		A Amount `json:"a"`
		B Amount `json:"b"`
		C Amount `json:"c"`
	}
	if err := json.Unmarshal([]byte(`{"a":12.3,"b":"7.5","c":null}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.A != 1230 || payload.B != 750 || payload.C != 0 {
		t.Fatalf("unexpected amounts: %+v", payload)
	}

	var bad Amount
	if err := json.Unmarshal([]byte(`"abc"`), &bad); err == nil {
		t.Fatal("expected error for non-numeric amount")
	}
}

func TestDivRound(t *testing.T) {
	cases := []struct {
		num, den, want int64
	}{
		{10000, 3, 3333},
		{5, 2, 3},
		{-5, 2, -3},
		{1, 3, 0},
		{2, 3, 1},
		{0, 7, 0},
	}
	for _, tc := range cases {
		if got := divRound(tc.num, tc.den); got != tc.want {
			t.Errorf("divRound(%d, %d) = %d, want %d", tc.num, tc.den, got, tc.want)
		}
	}
}

func TestAmount_TimesAndPlus(t *testing.T) {
	if got, ok := Amount(2550).Times(4); !ok || got != 10200 {
		t.Errorf("Times: got %s ok=%v", got, ok)
	}
	if got, ok := Amount(0).Times(1 << 40); !ok || got != 0 {
		t.Errorf("zero Times: got %s ok=%v", got, ok)
	}
	if _, ok := (MaxAmount / 2).Times(3); ok {
		t.Error("Times should report overflow")
	}
	if _, ok := Amount(100).Times(-1); ok {
		t.Error("Times should reject negative quantities")
	}

	if got, ok := Amount(10000).Plus(3334); !ok || got != 13334 {
		t.Errorf("Plus: got %s ok=%v", got, ok)
	}
	if _, ok := MaxAmount.Plus(1); ok {
		t.Error("Plus should report overflow")
	}
}
