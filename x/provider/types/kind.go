package types

import (
	"fmt"
	"strings"

	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
)

// Kind is the closed set of schedule strategies
type Kind int

const (
	KindDeal Kind = iota
	KindLock
	KindTimed
)

// Param positions shared by all kinds
const (
	ParamAmount     = 0
	ParamFinishTime = 1
	// ParamUnlockTime is the lock gate. Timed pools store their start time here.
	ParamUnlockTime = 2
	ParamStartTime  = 2
	ParamMirror     = 3
)

// String returns the provider name of the kind
func (k Kind) String() string {
	switch k {
	case KindDeal:
		return "deal"
	case KindLock:
		return "lock"
	case KindTimed:
		return "timed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParamsLen returns the fixed params length of the kind
func (k Kind) ParamsLen() int {
	switch k {
	case KindDeal:
		return 2
	case KindLock:
		return 3
	case KindTimed:
		return 4
	default:
		return 0
	}
}

// Address returns the module identity recorded as Pool.Provider
func (k Kind) Address() sdk.AccAddress {
	return authtypes.NewModuleAddress(k.String() + "provider")
}

// ParseKind accepts the provider name ("deal", "lock", "timed")
func ParseKind(s string) (Kind, error) {
	switch strings.TrimSuffix(strings.ToLower(s), "provider") {
	case "deal":
		return KindDeal, nil
	case "lock":
		return KindLock, nil
	case "timed":
		return KindTimed, nil
	default:
		return 0, ErrUnknownKind.Wrapf("%q", s)
	}
}

// Kinds lists every kind in delegation order
func Kinds() []Kind {
	return []Kind{KindDeal, KindLock, KindTimed}
}
