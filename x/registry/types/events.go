package types

// Event types
const (
	EventTypePoolCreated      = "pool_created"
	EventTypePoolUpdated      = "pool_updated"
	EventTypePoolTransferred  = "pool_transferred"
	EventTypePoolWithdrawn    = "pool_withdrawn"
	EventTypeProviderApproved = "provider_approved"
	EventTypePoolApproval     = "pool_approval"
	EventTypeOperatorApproval = "operator_approval"
)

// Event attribute keys
const (
	AttributeKeyPoolID   = "pool_id"
	AttributeKeyProvider = "provider"
	AttributeKeyOwner    = "owner"
	AttributeKeyToken    = "token"
	AttributeKeyParams   = "params"
	AttributeKeyFrom     = "from"
	AttributeKeyTo       = "to"
	AttributeKeyAmount   = "amount"
	AttributeKeyAllowed  = "allowed"
	AttributeKeySpender  = "spender"
	AttributeKeyOperator = "operator"
)
