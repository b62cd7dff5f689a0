package types

// Event types
const (
	EventTypeMassPoolsBuilt       = "mass_pools_built"
	EventTypeRefundMassPoolsBuilt = "refund_mass_pools_built"
	EventTypePoolsRebuilt         = "pools_rebuilt"
)

// Event attribute keys
const (
	AttributeKeyToken            = "token"
	AttributeKeyProvider         = "provider"
	AttributeKeyCollateralPoolID = "collateral_pool_id"
	AttributeKeyFirstPoolID      = "first_pool_id"
	AttributeKeyCount            = "count"
	AttributeKeyTotalAmount      = "total_amount"
	AttributeKeyMainCoinAmount   = "main_coin_amount"
	AttributeKeyOperator         = "operator"
)
