package types

// Event types
const (
	EventTypeMint             = "vault_mint"
	EventTypeDeposit          = "vault_deposit"
	EventTypeRelease          = "vault_release"
	EventTypeSetTrustedSigner = "vault_trusted_signer"
)

// Event attribute keys
const (
	AttributeKeyAccount = "account"
	AttributeKeyToken   = "token"
	AttributeKeyAmount  = "amount"
	AttributeKeySigner  = "signer"
	AttributeKeyNonce   = "nonce"
)
