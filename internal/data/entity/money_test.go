package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaymentBreakdown_Validate(t *testing.T) {
	tests := []struct {
		name      string
		breakdown PaymentBreakdown
		wantErr   bool
	}{
		{
			name:      "consistent",
			breakdown: PaymentBreakdown{TotalBase: 4000, PlatformFee: 200, Discount: 100, TotalPayment: 4100},
			wantErr:   false,
		},
		{
			name:      "no fee or discount",
			breakdown: PaymentBreakdown{TotalBase: 4000, TotalPayment: 4000},
			wantErr:   false,
		},
		{
			name:      "parts do not add up",
			breakdown: PaymentBreakdown{TotalBase: 4000, PlatformFee: 200, TotalPayment: 4000},
			wantErr:   true,
		},
		{
			name:      "negative discount",
			breakdown: PaymentBreakdown{TotalBase: 4000, Discount: -50, TotalPayment: 4050},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.breakdown.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
