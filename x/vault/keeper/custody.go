package keeper

import (
	"strconv"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	"github.com/openalpha/lockdeal/x/vault/types"
)

// Mint credits to with amount of token. Authority only.
func (k *Keeper) Mint(ctx sdk.Context, authority string, to sdk.AccAddress, token string, amount math.Int) error {
	if authority != k.authority {
		return types.ErrUnauthorized.Wrapf("expected %s, got %s", k.authority, authority)
	}
	if token == "" {
		return types.ErrInvalidToken
	}
	if amount.IsNil() || !amount.IsPositive() {
		return types.ErrInvalidAmount.Wrap("mint amount must be positive")
	}
	balance, err := k.GetBalance(ctx, to, token).SafeAdd(amount)
	if err != nil {
		return types.ErrInvalidAmount.Wrapf("%s balance of %s: %s", to, token, err)
	}
	k.setBalance(ctx, to, token, balance)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeMint,
			sdk.NewAttribute(types.AttributeKeyAccount, to.String()),
			sdk.NewAttribute(types.AttributeKeyToken, token),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
		),
	)
	return nil
}

// SetTrustedSigner installs the key whose signatures authorize deposits. A
// zero address removes it.
func (k *Keeper) SetTrustedSigner(ctx sdk.Context, authority string, signer common.Address) error {
	if authority != k.authority {
		return types.ErrUnauthorized.Wrapf("expected %s, got %s", k.authority, authority)
	}
	store := k.GetStore(ctx)
	if signer == (common.Address{}) {
		store.Delete(types.TrustedSignerKey)
	} else {
		store.Set(types.TrustedSignerKey, signer.Bytes())
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeSetTrustedSigner,
			sdk.NewAttribute(types.AttributeKeySigner, signer.Hex()),
		),
	)
	k.logger.Info("trusted signer updated", "signer", signer.Hex())
	return nil
}

// DepositFrom moves amount of token from `from` into custody. The signature
// must be non-empty, and when a trusted signer is configured it must be that
// signer's approval of DepositDigest at the depositor's current nonce.
func (k *Keeper) DepositFrom(ctx sdk.Context, from sdk.AccAddress, token string, amount math.Int, sig []byte) error {
	if token == "" {
		return types.ErrInvalidToken
	}
	if amount.IsNil() || !amount.IsPositive() {
		return types.ErrInvalidAmount.Wrap("deposit amount must be positive")
	}
	if len(sig) == 0 {
		return types.ErrInvalidSignature.Wrap("empty signature")
	}
	nonce := k.GetNonce(ctx, from)
	if signer, ok := k.GetTrustedSigner(ctx); ok {
		recovered, err := types.RecoverSigner(types.DepositDigest(token, from, amount, nonce), sig)
		if err != nil {
			return err
		}
		if recovered != signer {
			return types.ErrInvalidSignature.Wrapf("signed by %s", recovered.Hex())
		}
	}

	balance := k.GetBalance(ctx, from, token)
	if balance.LT(amount) {
		return types.ErrInsufficientFunds.Wrapf("%s has %s %s, needs %s", from, balance, token, amount)
	}
	locked, err := k.Locked(ctx, token).SafeAdd(amount)
	if err != nil {
		return types.ErrInvalidAmount.Wrapf("custody of %s: %s", token, err)
	}
	k.setBalance(ctx, from, token, balance.Sub(amount))
	k.setBalance(ctx, k.Address(), token, locked)
	k.incrementNonce(ctx, from)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeDeposit,
			sdk.NewAttribute(types.AttributeKeyAccount, from.String()),
			sdk.NewAttribute(types.AttributeKeyToken, token),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
			sdk.NewAttribute(types.AttributeKeyNonce, strconv.FormatUint(nonce, 10)),
		),
	)
	return nil
}

// Release pays amount of token out of custody to `to`
func (k *Keeper) Release(ctx sdk.Context, to sdk.AccAddress, token string, amount math.Int) error {
	if amount.IsNil() || amount.IsZero() {
		return nil
	}
	if amount.IsNegative() {
		return types.ErrInvalidAmount
	}
	locked := k.Locked(ctx, token)
	if locked.LT(amount) {
		return types.ErrInsufficientFunds.Wrapf("custody holds %s %s, release of %s", locked, token, amount)
	}
	balance, err := k.GetBalance(ctx, to, token).SafeAdd(amount)
	if err != nil {
		return types.ErrInvalidAmount.Wrapf("%s balance of %s: %s", to, token, err)
	}
	k.setBalance(ctx, k.Address(), token, locked.Sub(amount))
	k.setBalance(ctx, to, token, balance)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRelease,
			sdk.NewAttribute(types.AttributeKeyAccount, to.String()),
			sdk.NewAttribute(types.AttributeKeyToken, token),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
		),
	)
	return nil
}
