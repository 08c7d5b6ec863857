package cashflow

import (
	"errors"
	"fmt"
	"time"

	"github.com/meenmo/swaplib/calendar"
	"github.com/meenmo/swaplib/daycount"
	"github.com/meenmo/swaplib/index"
	"github.com/meenmo/swaplib/schedule"
)

// ErrInvalidLeg is returned by the leg builders for incomplete terms.
var ErrInvalidLeg = errors.New("invalid leg")

// FixedLegParams describes a fixed-rate leg.
type FixedLegParams struct {
	Schedule   *schedule.Schedule
	Nominal    float64
	Rate       float64
	DayCounter daycount.Convention
	// PaymentConvention defaults to the schedule's convention.
	PaymentConvention calendar.BusinessDayConvention
	// PaymentLag is the number of business days between accrual end and payment.
	PaymentLag int
}

// IborLegParams describes a leg of term-index coupons.
type IborLegParams struct {
	Schedule          *schedule.Schedule
	Nominal           float64
	Index             *index.IborIndex
	DayCounter        daycount.Convention
	PaymentConvention calendar.BusinessDayConvention
	PaymentLag        int
	Gearing           float64
	Spread            float64
	InArrears         bool
}

// OvernightLegParams describes a leg of compounded overnight coupons.
type OvernightLegParams struct {
	Schedule          *schedule.Schedule
	Nominal           float64
	Index             index.OvernightIndex
	DayCounter        daycount.Convention
	PaymentConvention calendar.BusinessDayConvention
	PaymentLag        int
	Gearing           float64
	Spread            float64
}

// paymentDate rolls the accrual end with the payment convention and lag.
func paymentDate(s *schedule.Schedule, conv calendar.BusinessDayConvention, lag int, end time.Time) time.Time {
	if conv == "" {
		conv = s.BusinessDayConvention()
	}
	d := calendar.AdjustWith(s.Calendar(), end, conv)
	if lag != 0 {
		d = calendar.AddBusinessDays(s.Calendar(), d, lag)
	}
	return d
}

// FixedLeg builds one fixed coupon per schedule period.
func FixedLeg(p FixedLegParams) (Leg, error) {
	if p.Schedule == nil {
		return nil, fmt.Errorf("FixedLeg: nil schedule: %w", ErrInvalidLeg)
	}
	if p.DayCounter == "" {
		return nil, fmt.Errorf("FixedLeg: missing day counter: %w", ErrInvalidLeg)
	}
	dates := p.Schedule.Dates()
	leg := make(Leg, 0, len(dates)-1)
	for i := 1; i < len(dates); i++ {
		pay := paymentDate(p.Schedule, p.PaymentConvention, p.PaymentLag, dates[i])
		leg = append(leg, NewFixedRateCoupon(pay, p.Nominal, p.Rate, p.DayCounter, dates[i-1], dates[i]))
	}
	return leg, nil
}

// IborLeg builds one term-index coupon per schedule period.
func IborLeg(p IborLegParams) (Leg, error) {
	if p.Schedule == nil || p.Index == nil {
		return nil, fmt.Errorf("IborLeg: nil schedule or index: %w", ErrInvalidLeg)
	}
	if p.DayCounter == "" {
		p.DayCounter = p.Index.DayCounter()
	}
	dates := p.Schedule.Dates()
	leg := make(Leg, 0, len(dates)-1)
	for i := 1; i < len(dates); i++ {
		leg = append(leg, NewIborCoupon(IborCouponParams{
			PaymentDate:  paymentDate(p.Schedule, p.PaymentConvention, p.PaymentLag, dates[i]),
			Nominal:      p.Nominal,
			AccrualStart: dates[i-1],
			AccrualEnd:   dates[i],
			DayCounter:   p.DayCounter,
			Index:        p.Index,
			Gearing:      p.Gearing,
			Spread:       p.Spread,
			InArrears:    p.InArrears,
		}))
	}
	return leg, nil
}

// OvernightLeg builds one compounded overnight coupon per schedule period.
func OvernightLeg(p OvernightLegParams) (Leg, error) {
	if p.Schedule == nil || p.Index.IborIndex == nil {
		return nil, fmt.Errorf("OvernightLeg: nil schedule or index: %w", ErrInvalidLeg)
	}
	if p.DayCounter == "" {
		p.DayCounter = p.Index.DayCounter()
	}
	dates := p.Schedule.Dates()
	leg := make(Leg, 0, len(dates)-1)
	for i := 1; i < len(dates); i++ {
		leg = append(leg, NewOvernightIndexedCoupon(OvernightCouponParams{
			PaymentDate:  paymentDate(p.Schedule, p.PaymentConvention, p.PaymentLag, dates[i]),
			Nominal:      p.Nominal,
			AccrualStart: dates[i-1],
			AccrualEnd:   dates[i],
			DayCounter:   p.DayCounter,
			Index:        p.Index,
			Gearing:      p.Gearing,
			Spread:       p.Spread,
		}))
	}
	return leg, nil
}
