package service

import (
	"errors"
	"fmt"

	"github.com/AldairAG/PayGlobal/config"

	"github.com/shopspring/decimal"
)

// LicenseTier is a purchasable license package.
type LicenseTier struct {
	Name  string
	Value decimal.Decimal
}

// Rank is a qualification tier. Number doubles as the uninivel depth the
// holder's passive income cascades to.
type Rank struct {
	Number  int
	Name    string
	Capital decimal.Decimal // downline license value required
}

// Plan holds the compensation tables. Treat it as immutable once built.
type Plan struct {
	// InscriptionRates[i] is paid to upline level i+1 on every license purchase.
	InscriptionRates []decimal.Decimal
	RenewalRate      decimal.Decimal
	// UninivelRates[i] is paid to upline level i+1 on every passive income credit.
	UninivelRates    []decimal.Decimal
	PassiveDailyRate decimal.Decimal
	CapMultiplier    decimal.Decimal
	LicenseTiers     []LicenseTier // ascending by Value
	Ranks            []Rank        // ascending by Capital
	// NetworkDepth bounds the downline shown by ComputeUserNetwork.
	NetworkDepth int
}

func rates(values ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i] = decimal.RequireFromString(v)
	}
	return out
}

func DefaultPlan() Plan {
	tier := func(name string, value int64) LicenseTier {
		return LicenseTier{Name: name, Value: decimal.NewFromInt(value)}
	}
	rank := func(number int, name string, capital int64) Rank {
		return Rank{Number: number, Name: name, Capital: decimal.NewFromInt(capital)}
	}
	return Plan{
		InscriptionRates: rates("0.07", "0.03"),
		RenewalRate:      decimal.RequireFromString("0.05"),
		UninivelRates:    rates("0.10", "0.06", "0.03", "0.02", "0.01", "0.01", "0.01", "0.01", "0.02", "0.03"),
		PassiveDailyRate: decimal.RequireFromString("0.005"),
		CapMultiplier:    decimal.NewFromInt(2),
		LicenseTiers: []LicenseTier{
			tier("P10", 10), tier("P25", 25), tier("P50", 50), tier("P100", 100),
			tier("P200", 200), tier("P500", 500), tier("P1000", 1000), tier("P3000", 3000),
			tier("P5000", 5000), tier("P10000", 10000), tier("P15000", 15000),
			tier("P25000", 25000), tier("P50000", 50000),
		},
		Ranks: []Rank{
			rank(0, "SIN_RANGO", 0),
			rank(1, "SENIOR_MANAGER", 5000),
			rank(2, "EXECUTIVE_DIRECTOR", 10000),
			rank(3, "DIAMOND_TEAM", 25000),
			rank(4, "DOUBLE_DIAMOND", 50000),
			rank(5, "TRIPLE_DIAMOND", 80000),
			rank(6, "PRESIDENT_TEAM", 120000),
			rank(7, "PRESIDENT_BLACK_DIAMOND", 240000),
			rank(8, "CROWN_BLACK_DIAMOND", 480000),
			rank(9, "AMBASSADOR", 1000000),
			rank(10, "GLOBAL_AMBASSADOR", 2000000),
		},
		NetworkDepth: 7,
	}
}

// PlanFromConfig applies the configured overrides to DefaultPlan.
func PlanFromConfig(cfg *config.CompensationConfig) (Plan, error) {
	plan := DefaultPlan()
	if cfg.PassiveDailyRate != "" {
		rate, err := decimal.NewFromString(cfg.PassiveDailyRate)
		if err != nil {
			return Plan{}, fmt.Errorf("passive daily rate: %w", err)
		}
		plan.PassiveDailyRate = rate
	}
	if cfg.NetworkDepth > 0 {
		plan.NetworkDepth = cfg.NetworkDepth
	}
	return plan, plan.Validate()
}

// Validate checks table ordering and rate signs.
func (p Plan) Validate() error {
	for _, r := range append(append(append([]decimal.Decimal{}, p.InscriptionRates...), p.UninivelRates...), p.RenewalRate, p.PassiveDailyRate) {
		if r.IsNegative() {
			return fmt.Errorf("negative rate %s", r)
		}
	}
	if !p.CapMultiplier.IsPositive() {
		return errors.New("cap multiplier must be positive")
	}
	if len(p.LicenseTiers) == 0 || len(p.Ranks) == 0 {
		return errors.New("license tiers and ranks are required")
	}
	for i := 1; i < len(p.LicenseTiers); i++ {
		if !p.LicenseTiers[i].Value.GreaterThan(p.LicenseTiers[i-1].Value) {
			return fmt.Errorf("license tier %s out of order", p.LicenseTiers[i].Name)
		}
	}
	for i := 1; i < len(p.Ranks); i++ {
		if p.Ranks[i].Capital.LessThan(p.Ranks[i-1].Capital) {
			return fmt.Errorf("rank %s out of order", p.Ranks[i].Name)
		}
	}
	return nil
}

// TierFor returns the highest tier whose value is <= price.
func (p Plan) TierFor(price decimal.Decimal) (LicenseTier, bool) {
	for i := len(p.LicenseTiers) - 1; i >= 0; i-- {
		if p.LicenseTiers[i].Value.LessThanOrEqual(price) {
			return p.LicenseTiers[i], true
		}
	}
	return LicenseTier{}, false
}

// TierByValue returns the tier sold at exactly value.
func (p Plan) TierByValue(value decimal.Decimal) (LicenseTier, bool) {
	for _, t := range p.LicenseTiers {
		if t.Value.Equal(value) {
			return t, true
		}
	}
	return LicenseTier{}, false
}

// RankFor returns the highest rank whose capital requirement is <= total.
func (p Plan) RankFor(total decimal.Decimal) Rank {
	best := p.Ranks[0]
	for _, r := range p.Ranks {
		if r.Capital.LessThanOrEqual(total) {
			best = r
		}
	}
	return best
}

// UninivelDepth caps a rank's depth at the length of the uninivel table.
func (p Plan) UninivelDepth(rank int) int {
	if rank > len(p.UninivelRates) {
		return len(p.UninivelRates)
	}
	if rank < 0 {
		return 0
	}
	return rank
}
