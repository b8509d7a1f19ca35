package service

import (
	"fmt"
	"time"

	"github.com/AldairAG/PayGlobal/internal/domain"
	"github.com/AldairAG/PayGlobal/internal/models"

	"github.com/shopspring/decimal"
)

// MergeResult describes what a purchase did to the buyer's license.
type MergeResult struct {
	License *models.License
	// Created is set when no license row existed and a new one must be inserted.
	Created bool
	// Renewal is set when value was merged into a previously purchased license
	// that had reached its cap. Renewals pay the renewal bonus.
	Renewal bool
}

// MergePurchase applies a purchase of value to l, which may be nil.
//
// An unpurchased license (nil, or the zero license every user registers with)
// becomes a fresh one: price=value, cap=2*value. A purchased license must be
// upgraded with at least its current tier; the price accumulates, the cap is
// recomputed from the tier of the new price and accrual restarts from zero.
func MergePurchase(plan Plan, l *models.License, value decimal.Decimal, now time.Time) (MergeResult, error) {
	if !value.IsPositive() {
		return MergeResult{}, fmt.Errorf("license purchase of %s: %w", value, domain.ErrInvalidAmount)
	}

	if l == nil || !l.Purchased() {
		res := MergeResult{License: l}
		if l == nil {
			res.License = &models.License{}
			res.Created = true
		}
		lic := res.License
		lic.Price = value
		lic.Cap = value.Mul(plan.CapMultiplier)
		lic.Accrued = decimal.Zero
		lic.Active = true
		lic.Tier = tierName(plan, value)
		lic.PurchasedAt = &now
		return res, nil
	}

	if current, ok := plan.TierFor(l.Price); ok && value.LessThan(current.Value) {
		return MergeResult{}, fmt.Errorf("purchase of %s below current tier %s: %w", value, current.Name, domain.ErrInvalidUpgrade)
	}

	renewal := !l.Active
	l.Price = l.Price.Add(value)
	if tier, ok := plan.TierFor(l.Price); ok {
		l.Cap = tier.Value.Mul(plan.CapMultiplier)
		l.Tier = tier.Name
	} else {
		l.Cap = l.Price.Mul(plan.CapMultiplier)
		l.Tier = ""
	}
	l.Accrued = decimal.Zero
	l.Active = true
	l.PurchasedAt = &now
	return MergeResult{License: l, Renewal: renewal}, nil
}

func tierName(plan Plan, price decimal.Decimal) string {
	if tier, ok := plan.TierFor(price); ok {
		return tier.Name
	}
	return ""
}

// Accrue applies one day of passive income at rate to an active license and
// returns the earned delta and, when the cap is reached, the overflow
// (accrued minus price, taken before clamping). Inactive licenses are left
// untouched.
func Accrue(l *models.License, rate decimal.Decimal) (delta, overflow decimal.Decimal) {
	if !l.Active {
		return decimal.Zero, decimal.Zero
	}
	delta = l.Price.Mul(rate)
	l.Accrued = l.Accrued.Add(delta)
	if l.Accrued.LessThan(l.Cap) {
		return delta, decimal.Zero
	}
	overflow = l.Accrued.Sub(l.Price)
	if overflow.IsNegative() {
		overflow = decimal.Zero
	}
	l.Accrued = l.Cap
	l.Active = false
	return delta, overflow
}

// addAccrual counts amount towards an active license's cap, deactivating it
// when the cap is reached. It reports whether the license was deactivated.
func addAccrual(l *models.License, amount decimal.Decimal) bool {
	if !l.Active || !amount.IsPositive() {
		return false
	}
	l.Accrued = l.Accrued.Add(amount)
	if l.Accrued.LessThan(l.Cap) {
		return false
	}
	l.Accrued = l.Cap
	l.Active = false
	return true
}
