package types

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// DepositDigest is the hash an off-chain signer approves for one deposit:
//
//	keccak256(keccak256(token) || from || amount || nonce)
func DepositDigest(token string, from sdk.AccAddress, amount math.Int, nonce uint64) []byte {
	return ethcrypto.Keccak256(
		ethcrypto.Keccak256([]byte(token)),
		common.LeftPadBytes(from.Bytes(), 32),
		common.LeftPadBytes(amount.BigInt().Bytes(), 32),
		common.LeftPadBytes(sdk.Uint64ToBigEndian(nonce), 32),
	)
}

// RecoverSigner returns the address that produced sig over digest. Both the
// raw {0,1} and the {27,28} recovery byte forms are accepted.
func RecoverSigner(digest, sig []byte) (common.Address, error) {
	if len(sig) != 65 {
		return common.Address{}, ErrInvalidSignature.Wrapf("expected 65 bytes, got %d", len(sig))
	}
	normalized := append([]byte{}, sig...)
	if normalized[64] >= 27 {
		normalized[64] -= 27
	}
	pub, err := ethcrypto.SigToPub(digest, normalized)
	if err != nil {
		return common.Address{}, ErrInvalidSignature.Wrap(err.Error())
	}
	return ethcrypto.PubkeyToAddress(*pub), nil
}
