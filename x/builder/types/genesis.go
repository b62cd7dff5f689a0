package types

import "encoding/json"

// GenesisState holds the builder params loaded at height zero
type GenesisState struct {
	Params Params `json:"params"`
}

// DefaultGenesis returns the default params
func DefaultGenesis() *GenesisState {
	return &GenesisState{Params: DefaultParams()}
}

// Validate validates the params
func (gs GenesisState) Validate() error {
	return gs.Params.Validate()
}

// ParseGenesis decodes raw genesis JSON; empty input yields the default
func ParseGenesis(bz json.RawMessage) (*GenesisState, error) {
	gs := DefaultGenesis()
	if len(bz) == 0 {
		return gs, nil
	}
	if err := json.Unmarshal(bz, gs); err != nil {
		return nil, ErrInvalidParams.Wrapf("genesis: %s", err)
	}
	return gs, nil
}
