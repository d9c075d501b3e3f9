package reconcile

import (
	"CollectPortal/internal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// RatePlaces is the number of decimal places kept on collection rates.
const RatePlaces = 2

// Resolve computes the canonical financial fields of a case.
//
// Primitive amounts take the current value when non-zero, otherwise the prior
// one. Each derived amount (fees, total due, balance, collection rate) is
// resolved in order from:
//  1. the current non-zero value, when it came from an imported column and
//     differs from the formula
//  2. the prior value, when that was itself imported
//  3. the formula over the already resolved fields
//
// Values produced by the formula are never treated as explicit, so a later
// import that changes a primitive moves the computed fields with it. Running
// Resolve on its own output returns the same amounts.
func Resolve(cur models.Financials, prior *models.Financials) models.Financials {
	var p models.Financials
	if prior != nil {
		p = *prior
	}

	out := models.Financials{
		PrincipalAmount:      firstNonZero(cur.PrincipalAmount, p.PrincipalAmount),
		InterestAmount:       firstNonZero(cur.InterestAmount, p.InterestAmount),
		FeesBeforeSubmission: firstNonZero(cur.FeesBeforeSubmission, p.FeesBeforeSubmission),
		FeesAfterSubmission:  firstNonZero(cur.FeesAfterSubmission, p.FeesAfterSubmission),
		CollectedAmount:      firstNonZero(cur.CollectedAmount, p.CollectedAmount),
		LastPaymentAmount:    firstNonZero(cur.LastPaymentAmount, p.LastPaymentAmount),
	}

	out.FeesAmount, out.Explicit.FeesAmount = derive(
		cur.FeesAmount, cur.Explicit.FeesAmount,
		p.FeesAmount, p.Explicit.FeesAmount,
		func() decimal.Decimal {
			return out.FeesBeforeSubmission.Add(out.FeesAfterSubmission)
		})

	out.TotalAmountDue, out.Explicit.TotalAmountDue = derive(
		cur.TotalAmountDue, cur.Explicit.TotalAmountDue,
		p.TotalAmountDue, p.Explicit.TotalAmountDue,
		func() decimal.Decimal {
			return out.PrincipalAmount.Add(out.InterestAmount).Add(out.FeesAmount)
		})

	out.BalanceAmount, out.Explicit.BalanceAmount = derive(
		cur.BalanceAmount, cur.Explicit.BalanceAmount,
		p.BalanceAmount, p.Explicit.BalanceAmount,
		func() decimal.Decimal {
			return out.TotalAmountDue.Sub(out.CollectedAmount)
		})

	out.CollectionRate, out.Explicit.CollectionRate = derive(
		cur.CollectionRate, cur.Explicit.CollectionRate,
		p.CollectionRate, p.Explicit.CollectionRate,
		func() decimal.Decimal {
			return CollectionRate(out.CollectedAmount, out.TotalAmountDue)
		})

	return out
}

// CollectionRate is 100 * collected / total, or zero when nothing is due.
func CollectionRate(collected, total decimal.Decimal) decimal.Decimal {
	if !total.IsPositive() {
		return decimal.Zero
	}
	return collected.Mul(hundred).Div(total).Round(RatePlaces)
}

// derive picks one derived amount. An imported value equal to the formula
// result is not marked explicit.
func derive(cur decimal.Decimal, curExplicit bool, prior decimal.Decimal, priorExplicit bool, formula func() decimal.Decimal) (decimal.Decimal, bool) {
	computed := formula()
	if curExplicit && !cur.IsZero() {
		if cur.Equal(computed) {
			return computed, false
		}
		return cur, true
	}
	if priorExplicit && !prior.IsZero() {
		return prior, true
	}
	return computed, false
}

func firstNonZero(cur, prior decimal.Decimal) decimal.Decimal {
	if !cur.IsZero() {
		return cur
	}
	return prior
}
