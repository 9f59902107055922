package billing

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidInstallmentCount = errors.New("installment count must be at least 1")
	ErrNegativeAmount          = errors.New("amount cannot be negative")
	ErrInstallmentIndex        = errors.New("installment index out of range")
	ErrInstallmentExceedsTotal = errors.New("installment amount exceeds order total")
	ErrScheduleMismatch        = errors.New("installment schedule does not match order total")
)

// Installment is one dated payment of an order's schedule.
type Installment struct {
	Sequence int       `json:"sequence" bson:"sequence"`
	Amount   Amount    `json:"amount" bson:"amount"`
	DueDate  time.Time `json:"due_date" bson:"due_date"`
}

// Schedule returns the due date of the installment at the 0-based index.
type Schedule func(contractDate time.Time, index int) time.Time

// EveryDays spaces installments a fixed number of days apart, the first one
// falling on the contract date.
func EveryDays(days int) Schedule {
	return func(contractDate time.Time, index int) time.Time {
		return contractDate.AddDate(0, 0, days*index)
	}
}

// MaxInstallments caps how many installments an order or plan may have.
const MaxInstallments = 120

// Monthly is the default cadence: one installment every 30 days.
var Monthly = EveryDays(30)

// Allocate splits total into count installments. The first count-1 receive
// round2(total/count); the last one absorbs the residue so the schedule sums
// to total exactly.
func Allocate(total Amount, count int, contractDate time.Time, schedule Schedule) ([]Installment, error) {
	if count < 1 {
		return nil, ErrInvalidInstallmentCount
	}
	if total < 0 {
		return nil, ErrNegativeAmount
	}
	if schedule == nil {
		schedule = Monthly
	}

	base, last := split(total, count)
	out := make([]Installment, count)
	for i := range out {
		out[i] = Installment{
			Sequence: i + 1,
			Amount:   base,
			DueDate:  schedule(contractDate, i),
		}
	}
	out[count-1].Amount = last
	return out, nil
}

// Redistribute sets the installment at editedIndex to edited and spreads the
// rest of the schedule total evenly over the other installments. The residue
// lands on the last non-edited installment in list order. The input slice is
// left untouched.
func Redistribute(installments []Installment, editedIndex int, edited Amount) ([]Installment, error) {
	n := len(installments)
	if editedIndex < 0 || editedIndex >= n {
		return nil, ErrInstallmentIndex
	}
	if edited < 0 {
		return nil, ErrNegativeAmount
	}

	out := make([]Installment, n)
	copy(out, installments)
	out[editedIndex].Amount = edited
	if n == 1 {
		return out, nil
	}

	total := Sum(installments)
	if edited > total {
		return nil, fmt.Errorf("%w: %s > %s", ErrInstallmentExceedsTotal, edited, total)
	}

	share, last := split(total-edited, n-1)
	lastIdx := -1
	for i := range out {
		if i == editedIndex {
			continue
		}
		out[i].Amount = share
		lastIdx = i
	}
	out[lastIdx].Amount = last
	return out, nil
}

// Sum adds up the installment amounts.
func Sum(installments []Installment) Amount {
	var total Amount
	for _, in := range installments {
		total += in.Amount
	}
	return total
}

// Validate checks that a schedule is numbered 1..N without gaps, holds no
// negative amounts and sums exactly to total.
func Validate(installments []Installment, total Amount) error {
	if len(installments) == 0 {
		return ErrInvalidInstallmentCount
	}
	for i, in := range installments {
		if in.Sequence != i+1 {
			return fmt.Errorf("%w: sequence %d at position %d", ErrScheduleMismatch, in.Sequence, i+1)
		}
		if in.Amount < 0 {
			return ErrNegativeAmount
		}
	}
	if sum := Sum(installments); sum != total {
		return fmt.Errorf("%w: sum %s, total %s", ErrScheduleMismatch, sum, total)
	}
	return nil
}
