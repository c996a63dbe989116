package risk

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput is returned when a price, balance or leverage is out of range.
var ErrInvalidInput = errors.New("invalid input")

// Rounding precision used by the fixed-budget policy
const (
	PricePrecision    = 4
	QuantityPrecision = 3
)

// Result holds stop-loss / take-profit calculation results
type Result struct {
	Policy     PolicyKind `json:"policy"`
	Price      float64    `json:"price"`
	StopLoss   float64    `json:"stop_loss"`
	TakeProfit float64    `json:"take_profit"`

	// Percent-of-price only
	StopLossLeveraged   float64 `json:"stop_loss_leveraged,omitempty"`
	TakeProfitLeveraged float64 `json:"take_profit_leveraged,omitempty"`

	// Fixed-budget only
	Quantity      float64 `json:"quantity,omitempty"`
	PositionValue float64 `json:"position_value,omitempty"`
	MaxLoss       float64 `json:"max_loss,omitempty"`
	TargetProfit  float64 `json:"target_profit,omitempty"`
	LossPerUnit   float64 `json:"loss_per_unit,omitempty"`
	ProfitPerUnit float64 `json:"profit_per_unit,omitempty"`
}

// ComputePercentOfPrice places the stop and target a fixed percentage away from price.
// Percentages are expressed in percent units (0.5 means 0.5%). Nothing is rounded.
func ComputePercentOfPrice(price float64, leverage int, riskPercentage, rewardPercentage float64) (Result, error) {
	if err := checkPrice(price); err != nil {
		return Result{}, err
	}
	if leverage <= 0 {
		return Result{}, fmt.Errorf("%w: leverage must be positive, got %d", ErrInvalidInput, leverage)
	}
	if !isFinite(riskPercentage) || riskPercentage < 0 || riskPercentage >= 100 {
		return Result{}, fmt.Errorf("%w: risk percentage must be in [0, 100), got %v", ErrInvalidInput, riskPercentage)
	}
	if !isFinite(rewardPercentage) || rewardPercentage < 0 {
		return Result{}, fmt.Errorf("%w: reward percentage must be non-negative, got %v", ErrInvalidInput, rewardPercentage)
	}

	stopLoss := price * (1 - riskPercentage/100)
	takeProfit := price * (1 + rewardPercentage/100)

	return Result{
		Policy:              KindPercentOfPrice,
		Price:               price,
		StopLoss:            stopLoss,
		TakeProfit:          takeProfit,
		StopLossLeveraged:   stopLoss * float64(leverage),
		TakeProfitLeveraged: takeProfit * float64(leverage),
	}, nil
}

// ComputeFixedBudget sizes a leveraged position from the account balance and derives
// the price levels at which the loss and profit equal fixed fractions of that balance.
// riskPct and rewardPct are fractions of balance (0.3 means 30%).
func ComputeFixedBudget(price, balance, riskPct, rewardPct float64, leverage int) (Result, error) {
	if err := checkPrice(price); err != nil {
		return Result{}, err
	}
	if !isFinite(balance) || balance <= 0 {
		return Result{}, fmt.Errorf("%w: balance must be positive, got %v", ErrInvalidInput, balance)
	}
	if leverage <= 0 {
		return Result{}, fmt.Errorf("%w: leverage must be positive, got %d", ErrInvalidInput, leverage)
	}
	if !isFinite(riskPct) || riskPct < 0 {
		return Result{}, fmt.Errorf("%w: risk pct must be non-negative, got %v", ErrInvalidInput, riskPct)
	}
	if !isFinite(rewardPct) || rewardPct < 0 {
		return Result{}, fmt.Errorf("%w: reward pct must be non-negative, got %v", ErrInvalidInput, rewardPct)
	}

	maxLoss := balance * riskPct
	targetProfit := balance * rewardPct

	positionValue := balance * float64(leverage)
	quantity := positionValue / price

	lossPerUnit := maxLoss / quantity
	profitPerUnit := targetProfit / quantity

	stopLoss := Round(price-lossPerUnit, PricePrecision)
	takeProfit := Round(price+profitPerUnit, PricePrecision)
	roundedQty := Round(quantity, QuantityPrecision)

	// Levels must bracket the price after rounding, and the stop must stay positive
	if stopLoss <= 0 {
		return Result{}, fmt.Errorf("%w: stop loss %v is not positive (risk %v of balance at leverage %d)",
			ErrInvalidInput, stopLoss, riskPct, leverage)
	}
	if stopLoss >= price || takeProfit <= price {
		return Result{}, fmt.Errorf("%w: levels %v / %v do not bracket price %v at %d decimals",
			ErrInvalidInput, stopLoss, takeProfit, price, PricePrecision)
	}
	if roundedQty <= 0 {
		return Result{}, fmt.Errorf("%w: quantity %v rounds to zero at %d decimals",
			ErrInvalidInput, quantity, QuantityPrecision)
	}

	return Result{
		Policy:        KindFixedBudget,
		Price:         price,
		StopLoss:      stopLoss,
		TakeProfit:    takeProfit,
		Quantity:      roundedQty,
		PositionValue: positionValue,
		MaxLoss:       maxLoss,
		TargetProfit:  targetProfit,
		LossPerUnit:   lossPerUnit,
		ProfitPerUnit: profitPerUnit,
	}, nil
}

// Round rounds half away from zero to the given number of decimal places.
func Round(value float64, places int) float64 {
	if !isFinite(value) {
		return value
	}
	pow := math.Pow(10, float64(places))
	return math.Round(value*pow) / pow
}

func checkPrice(price float64) error {
	if !isFinite(price) || price <= 0 {
		return fmt.Errorf("%w: price must be positive, got %v", ErrInvalidInput, price)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
