package types

import (
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Pool is the canonical record of a single vesting position.
// Params length and meaning are fixed by the provider at creation.
type Pool struct {
	PoolID   uint64     `json:"pool_id"`
	Provider string     `json:"provider"`
	Owner    string     `json:"owner"`
	Token    string     `json:"token"`
	Params   []math.Int `json:"params"`
}

// NewPool creates a pool record
func NewPool(poolID uint64, provider, owner sdk.AccAddress, token string, params []math.Int) *Pool {
	return &Pool{
		PoolID:   poolID,
		Provider: provider.String(),
		Owner:    owner.String(),
		Token:    token,
		Params:   CopyParams(params),
	}
}

// Amount returns the remaining value of the pool
func (p *Pool) Amount() math.Int {
	if len(p.Params) == 0 {
		return math.ZeroInt()
	}
	return p.Params[0]
}

// IsClosed reports whether the pool has been fully released
func (p *Pool) IsClosed() bool {
	return p.Amount().IsZero()
}

// OwnerAddress returns the owner as an account address
func (p *Pool) OwnerAddress() sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(p.Owner)
	return addr
}

// ProviderAddress returns the provider identity as an account address
func (p *Pool) ProviderAddress() sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(p.Provider)
	return addr
}

// HasProvider reports whether the pool was created by the given provider
func (p *Pool) HasProvider(provider sdk.AccAddress) bool {
	return p.Provider == provider.String()
}

// String implements fmt.Stringer
func (p Pool) String() string {
	return fmt.Sprintf("Pool{ID: %d, Provider: %s, Owner: %s, Token: %s, Params: %v}",
		p.PoolID, p.Provider, p.Owner, p.Token, p.Params)
}

// CopyParams returns a copy of params so callers cannot alias stored slices
func CopyParams(params []math.Int) []math.Int {
	out := make([]math.Int, len(params))
	copy(out, params)
	return out
}

// ValidateParams checks that every param is set and non-negative
func ValidateParams(params []math.Int) error {
	if len(params) == 0 {
		return ErrInvalidParams
	}
	for i, p := range params {
		if p.IsNil() || p.IsNegative() {
			return ErrInvalidParams.Wrapf("param %d must be a non-negative integer", i)
		}
	}
	return nil
}
