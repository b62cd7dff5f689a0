package types

import (
	"math/big"

	"cosmossdk.io/math"

	registrytypes "github.com/openalpha/lockdeal/x/registry/types"
)

// ValidateSchedule checks params of kind against the current time
func ValidateSchedule(kind Kind, params []math.Int, now math.Int) error {
	if len(params) != kind.ParamsLen() {
		return ErrInvalidParams.Wrapf("%s pools take %d params, got %d", kind, kind.ParamsLen(), len(params))
	}
	for i, p := range params {
		if p.IsNil() || p.IsNegative() {
			return ErrInvalidParams.Wrapf("param %d must be a non-negative integer", i)
		}
	}
	if !params[ParamAmount].IsPositive() {
		return ErrZeroAmount
	}
	finish := params[ParamFinishTime]
	if finish.LTE(now) {
		return ErrScheduleInvalid.Wrapf("finish time %s is not after %s", finish, now)
	}

	switch kind {
	case KindLock:
		if params[ParamUnlockTime].GT(finish) {
			return ErrScheduleInvalid.Wrapf("unlock time %s after finish time %s", params[ParamUnlockTime], finish)
		}
	case KindTimed:
		if !params[ParamMirror].Equal(finish) {
			return ErrScheduleInvalid.Wrapf("finish time mirror %s != %s", params[ParamMirror], finish)
		}
		if params[ParamStartTime].GTE(finish) {
			return ErrScheduleInvalid.Wrapf("start time %s not before finish time %s", params[ParamStartTime], finish)
		}
	}
	return nil
}

// DealReleasable is the lump-sum rule: everything once finish time is reached
func DealReleasable(params []math.Int, now math.Int) math.Int {
	if len(params) <= ParamFinishTime || now.LT(params[ParamFinishTime]) {
		return math.ZeroInt()
	}
	return params[ParamAmount]
}

// Unlocked reports whether the lock gate at params[2] is open
func Unlocked(params []math.Int, now math.Int) bool {
	if len(params) <= ParamUnlockTime {
		return true
	}
	return now.GTE(params[ParamUnlockTime])
}

// LinearReleasable is the vesting rule of timed pools. startAmount is the
// original deposit; the difference to the current amount has already been
// released.
func LinearReleasable(params []math.Int, startAmount, now math.Int) math.Int {
	amount := params[ParamAmount]
	start, finish := params[ParamStartTime], params[ParamFinishTime]
	if now.LT(start) {
		return math.ZeroInt()
	}
	if now.GTE(finish) {
		return amount
	}
	if startAmount.IsNil() || startAmount.LT(amount) {
		startAmount = amount
	}

	entitled, err := MulDivFloor(startAmount, now.Sub(start), finish.Sub(start))
	if err != nil {
		return amount
	}
	withdrawn := startAmount.Sub(amount)
	if entitled.LTE(withdrawn) {
		return math.ZeroInt()
	}
	return math.MinInt(entitled.Sub(withdrawn), amount)
}

// MulDivFloor returns floor(a * b / c) without bounding the intermediate
// product to 256 bits. The result must fit.
func MulDivFloor(a, b, c math.Int) (math.Int, error) {
	if c.IsZero() {
		return math.ZeroInt(), ErrInvalidParams.Wrap("division by zero")
	}
	product := new(big.Int).Mul(a.BigInt(), b.BigInt())
	product.Quo(product, c.BigInt())
	if product.BitLen() > math.MaxBitLen {
		return math.ZeroInt(), ErrAmountOverflow.Wrapf("%s * %s / %s", a, b, c)
	}
	return math.NewIntFromBigInt(product), nil
}

// SettleWithdraw computes the outcome of withdrawing requested (zero meaning
// all) from pool given what is releasable now. It returns the released value
// and the pool's new params.
func SettleWithdraw(pool registrytypes.Pool, releasable, requested math.Int) (math.Int, []math.Int, error) {
	if pool.IsClosed() {
		return math.ZeroInt(), nil, ErrPoolClosed.Wrapf("pool %d", pool.PoolID)
	}
	if releasable.IsNil() || releasable.IsZero() {
		return math.ZeroInt(), nil, ErrNothingToWithdraw.Wrapf("pool %d", pool.PoolID)
	}
	released := releasable
	if !requested.IsNil() && requested.IsPositive() && requested.LT(releasable) {
		released = requested
	}
	params := registrytypes.CopyParams(pool.Params)
	params[ParamAmount] = params[ParamAmount].Sub(released)
	return released, params, nil
}
