package types

import (
	"bytes"
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Allocation is one beneficiary of a batch
type Allocation struct {
	User   sdk.AccAddress
	Amount math.Int
}

func (a Allocation) String() string {
	return fmt.Sprintf("%s:%s", a.User, a.Amount)
}

var zeroAddress = make([]byte, 20)

// IsZeroAddress reports whether addr is empty or all zero bytes
func IsZeroAddress(addr sdk.AccAddress) bool {
	return addr.Empty() || bytes.Equal(addr, zeroAddress)
}

// ValidateAllocations checks a batch against maxBatchSize and returns its total
func ValidateAllocations(allocations []Allocation, maxBatchSize uint32) (math.Int, error) {
	if len(allocations) == 0 {
		return math.ZeroInt(), ErrEmptyInput.Wrap("no allocations")
	}
	if maxBatchSize > 0 && len(allocations) > int(maxBatchSize) {
		return math.ZeroInt(), ErrBatchTooLarge.Wrapf("%d allocations, limit %d", len(allocations), maxBatchSize)
	}
	total := math.ZeroInt()
	for i, a := range allocations {
		if IsZeroAddress(a.User) {
			return math.ZeroInt(), ErrZeroAddress.Wrapf("allocation %d", i)
		}
		if a.Amount.IsNil() || !a.Amount.IsPositive() {
			return math.ZeroInt(), ErrZeroAmount.Wrapf("allocation %d", i)
		}
		sum, err := total.SafeAdd(a.Amount)
		if err != nil {
			return math.ZeroInt(), ErrBatchTooLarge.Wrapf("total exceeds 256 bits at allocation %d", i)
		}
		total = sum
	}
	return total, nil
}
