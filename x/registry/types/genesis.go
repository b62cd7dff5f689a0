package types

import (
	"encoding/json"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// GenesisState is the registry configuration loaded at height zero
type GenesisState struct {
	// ApprovedProviders are the module identities allowed to mint pools
	ApprovedProviders []string `json:"approved_providers"`
}

// DefaultGenesis returns an empty allowlist
func DefaultGenesis() *GenesisState {
	return &GenesisState{ApprovedProviders: []string{}}
}

// Validate checks that every provider is a distinct bech32 address
func (gs GenesisState) Validate() error {
	seen := make(map[string]struct{}, len(gs.ApprovedProviders))
	for i, p := range gs.ApprovedProviders {
		if _, err := sdk.AccAddressFromBech32(p); err != nil {
			return ErrInvalidAddress.Wrapf("approved provider %d: %s", i, err)
		}
		if _, ok := seen[p]; ok {
			return ErrInvalidAddress.Wrapf("approved provider %s listed twice", p)
		}
		seen[p] = struct{}{}
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
