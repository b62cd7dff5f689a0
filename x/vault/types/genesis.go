package types

import (
	"encoding/json"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"
)

// Balance is one account's holding of a token
type Balance struct {
	Address string `json:"address"`
	Token   string `json:"token"`
	Amount  string `json:"amount"`
}

// GenesisState is the vault state loaded at height zero
type GenesisState struct {
	// TrustedSigner is a hex address; empty disables signature recovery
	TrustedSigner string    `json:"trusted_signer,omitempty"`
	Balances      []Balance `json:"balances"`
}

// DefaultGenesis returns an empty vault
func DefaultGenesis() *GenesisState {
	return &GenesisState{Balances: []Balance{}}
}

// Validate checks the signer and every balance
func (gs GenesisState) Validate() error {
	if gs.TrustedSigner != "" && !common.IsHexAddress(gs.TrustedSigner) {
		return ErrInvalidGenesis.Wrapf("trusted signer %q is not a hex address", gs.TrustedSigner)
	}
	seen := make(map[string]struct{}, len(gs.Balances))
	for i, b := range gs.Balances {
		if _, err := sdk.AccAddressFromBech32(b.Address); err != nil {
			return ErrInvalidAddress.Wrapf("balance %d: %s", i, err)
		}
		if b.Token == "" {
			return ErrInvalidToken.Wrapf("balance %d", i)
		}
		if amount, ok := math.NewIntFromString(b.Amount); !ok || !amount.IsPositive() {
			return ErrInvalidAmount.Wrapf("balance %d: %q", i, b.Amount)
		}
		key := b.Address + "/" + b.Token
		if _, ok := seen[key]; ok {
			return ErrInvalidGenesis.Wrapf("duplicate balance %s", key)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// ParseGenesis decodes raw genesis JSON; empty input yields the default
func ParseGenesis(bz json.RawMessage) (*GenesisState, error) {
	gs := DefaultGenesis()
	if len(bz) == 0 {
		return gs, nil
	}
	if err := json.Unmarshal(bz, gs); err != nil {
		return nil, ErrInvalidGenesis.Wrap(err.Error())
	}
	return gs, nil
}
