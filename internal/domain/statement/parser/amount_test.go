package parser

import (
	"testing"

	"github.com/FACorreiaa/statement-engine/internal/domain/statement"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		want       string
		confidence statement.Confidence
		ok         bool
	}{
		{name: "plain decimal", input: "450.00", want: "450", confidence: statement.ConfidenceHigh, ok: true},
		{name: "rupee symbol", input: "₹1,250.50", want: "1250.5", confidence: statement.ConfidenceHigh, ok: true},
		{name: "Rs dot prefix", input: "Rs. 99", want: "99", confidence: statement.ConfidenceHigh, ok: true},
		{name: "INR code", input: "INR 2,00,000.00", want: "200000", confidence: statement.ConfidenceMedium, ok: true},
		{name: "dollar", input: "$12.34", want: "12.34", confidence: statement.ConfidenceHigh, ok: true},
		{name: "zero rejected", input: "0.00", ok: false},
		{name: "negative rejected", input: "-45.00", ok: false},
		{name: "cap rejected", input: "10000000.00", ok: false},
		{name: "just under cap", input: "9,999,999.99", want: "9999999.99", confidence: statement.ConfidenceMedium, ok: true},
		{name: "confidence boundary", input: "100000", want: "100000", confidence: statement.ConfidenceMedium, ok: true},
		{name: "garbage", input: "N/A", ok: false},
		{name: "empty", input: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, confidence, ok := ParseAmount(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseAmount(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if !tt.ok {
				return
			}
			if amount.String() != tt.want {
				t.Errorf("amount = %s, want %s", amount.String(), tt.want)
			}
			if confidence != tt.confidence {
				t.Errorf("confidence = %s, want %s", confidence, tt.confidence)
			}
		})
	}
}
