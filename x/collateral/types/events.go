package types

// Event types
const (
	EventTypeCollateralCreated   = "collateral_created"
	EventTypeCollateralIncreased = "collateral_increased"
	EventTypeCollateralSwapped   = "collateral_swapped"
	EventTypeCollateralWithdraw  = "collateral_withdraw"
	EventTypeRefundClaimed       = "collateral_refund_claimed"
)

// Event attribute keys
const (
	AttributeKeyPoolID       = "pool_id"
	AttributeKeyRate         = "rate_to_wei"
	AttributeKeyToken        = "token"
	AttributeKeyMainCoin     = "main_coin"
	AttributeKeyTokenAmount  = "token_amount"
	AttributeKeyMainCoinDiff = "main_coin_amount"
	AttributeKeyRemaining    = "remaining"
)
