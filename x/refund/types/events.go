package types

// Event types
const (
	EventTypeRefundPoolCreated = "refund_pool_created"
	EventTypeRefund            = "refund"
	EventTypeRefundWithdraw    = "refund_withdraw"
)

// Event attribute keys
const (
	AttributeKeyPoolID           = "pool_id"
	AttributeKeyCollateralPoolID = "collateral_pool_id"
	AttributeKeyOwner            = "owner"
	AttributeKeyAmount           = "amount"
	AttributeKeyMainCoin         = "main_coin_amount"
	AttributeKeyRemaining        = "remaining"
)
