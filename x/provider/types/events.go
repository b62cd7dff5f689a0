package types

// Event types
const (
	EventTypeProviderPoolCreated = "provider_pool_created"
	EventTypeProviderWithdraw    = "provider_withdraw"
)

// Event attribute keys
const (
	AttributeKeyKind      = "kind"
	AttributeKeyPoolID    = "pool_id"
	AttributeKeyOwner     = "owner"
	AttributeKeyAmount    = "amount"
	AttributeKeyRemaining = "remaining"
)
