package risk

import (
	"fmt"
	"strings"
)

// PolicyKind names a stop-loss / take-profit policy
type PolicyKind string

const (
	KindPercentOfPrice PolicyKind = "percent"
	KindFixedBudget    PolicyKind = "budget"
)

// Policy computes risk levels for a single price
type Policy interface {
	Kind() PolicyKind
	Compute(price float64) (Result, error)
}

// PercentOfPrice moves the stop and target by a percentage of the entry price.
type PercentOfPrice struct {
	Leverage         int
	RiskPercentage   float64
	RewardPercentage float64
}

// DefaultPercentOfPrice returns x125 leverage, 0.5% stop and 1% target.
func DefaultPercentOfPrice() PercentOfPrice {
	return PercentOfPrice{Leverage: 125, RiskPercentage: 0.5, RewardPercentage: 1.0}
}

func (p PercentOfPrice) Kind() PolicyKind { return KindPercentOfPrice }

func (p PercentOfPrice) Compute(price float64) (Result, error) {
	return ComputePercentOfPrice(price, p.Leverage, p.RiskPercentage, p.RewardPercentage)
}

// FixedBudget risks a fixed fraction of the account balance per position.
type FixedBudget struct {
	Balance   float64
	RiskPct   float64
	RewardPct float64
	Leverage  int
}

// DefaultFixedBudget returns a 5 USDT balance, 30% risk, 60% reward at x125.
func DefaultFixedBudget() FixedBudget {
	return FixedBudget{Balance: 5, RiskPct: 0.3, RewardPct: 0.6, Leverage: 125}
}

func (p FixedBudget) Kind() PolicyKind { return KindFixedBudget }

func (p FixedBudget) Compute(price float64) (Result, error) {
	return ComputeFixedBudget(price, p.Balance, p.RiskPct, p.RewardPct, p.Leverage)
}

// Params carries the union of both policies' settings.
type Params struct {
	Leverage int

	// percent-of-price, in percent units
	RiskPercentage   float64
	RewardPercentage float64

	// fixed-budget, fractions of Balance
	Balance   float64
	RiskPct   float64
	RewardPct float64
}

// ParseKind accepts the policy names used on the command line and in the environment.
func ParseKind(s string) (PolicyKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "percent", "percent-of-price", "pct":
		return KindPercentOfPrice, nil
	case "budget", "fixed-budget", "fixed":
		return KindFixedBudget, nil
	}
	return "", fmt.Errorf("%w: unknown risk policy %q", ErrInvalidInput, s)
}

// NewPolicy builds the policy variant named by kind.
func NewPolicy(kind PolicyKind, params Params) (Policy, error) {
	var policy Policy
	switch kind {
	case KindPercentOfPrice:
		policy = PercentOfPrice{
			Leverage:         params.Leverage,
			RiskPercentage:   params.RiskPercentage,
			RewardPercentage: params.RewardPercentage,
		}
	case KindFixedBudget:
		policy = FixedBudget{
			Balance:   params.Balance,
			RiskPct:   params.RiskPct,
			RewardPct: params.RewardPct,
			Leverage:  params.Leverage,
		}
	default:
		return nil, fmt.Errorf("%w: unknown risk policy %q", ErrInvalidInput, kind)
	}

	// Reject bad parameters before any price is seen.
	if _, err := policy.Compute(1); err != nil {
		return nil, err
	}
	return policy, nil
}
