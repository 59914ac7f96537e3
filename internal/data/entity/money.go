package entity

import "fmt"

// Money is an amount in minor currency units (e.g. cents).
type Money int64

// PaymentBreakdown is the agreed fee split for a booking. The gateway
// integration that produced it lives outside this service; here it is only
// checked for internal consistency and persisted alongside the booking.
type PaymentBreakdown struct {
	TotalBase    Money `db:"total_base"`
	PlatformFee  Money `db:"platform_fee"`
	Discount     Money `db:"discount"`
	TotalPayment Money `db:"total_payment"`
}

// Validate checks that the named parts add up and nothing is negative.
func (p PaymentBreakdown) Validate() error {
	if p.TotalBase < 0 || p.PlatformFee < 0 || p.Discount < 0 || p.TotalPayment < 0 {
		return fmt.Errorf("payment amounts must not be negative")
	}
	if p.TotalBase+p.PlatformFee-p.Discount != p.TotalPayment {
		return fmt.Errorf("total payment %d does not match base %d + fee %d - discount %d",
			p.TotalPayment, p.TotalBase, p.PlatformFee, p.Discount)
	}
	return nil
}
