package types

import (
	"fmt"

	"cosmossdk.io/math"

	providertypes "github.com/openalpha/lockdeal/x/provider/types"
)

// RateScale is the implicit fixed-point scale of RateToWei (10^21)
var RateScale = math.NewIntWithDecimal(1, 21)

// CollateralRecord is the ledger state kept next to a collateral pool. The
// pool itself holds the main coin; Token is the unit the linked refund pools
// are denominated in.
type CollateralRecord struct {
	PoolID         uint64   `json:"pool_id"`
	RateToWei      math.Int `json:"rate_to_wei"`
	Token          string   `json:"token"`
	RefundedTokens math.Int `json:"refunded_tokens"`
}

// MainCoinFor converts a token amount to main coin at rate, rounding down
func MainCoinFor(tokenAmount, rate math.Int) (math.Int, error) {
	v, err := providertypes.MulDivFloor(tokenAmount, rate, RateScale)
	if err != nil {
		return math.ZeroInt(), ErrInvalidAmount.Wrapf("%s tokens at rate %s", tokenAmount, rate)
	}
	return v, nil
}

// RateFor returns the rate that backs totalTokens with mainCoinAmount
func RateFor(mainCoinAmount, totalTokens math.Int) (math.Int, error) {
	if totalTokens.IsZero() {
		return math.ZeroInt(), nil
	}
	v, err := providertypes.MulDivFloor(mainCoinAmount, RateScale, totalTokens)
	if err != nil {
		return math.ZeroInt(), ErrInvalidRate.Wrapf("%s main coin for %s tokens", mainCoinAmount, totalTokens)
	}
	return v, nil
}

func (r CollateralRecord) String() string {
	return fmt.Sprintf("CollateralRecord{PoolID: %d, RateToWei: %s, Token: %s, RefundedTokens: %s}",
		r.PoolID, r.RateToWei, r.Token, r.RefundedTokens)
}
