package types

// DefaultMaxBatchSize bounds the pools one build may create
const DefaultMaxBatchSize uint32 = 500

// Params defines the builder module parameters
type Params struct {
	MaxBatchSize uint32 `json:"max_batch_size"`
}

// DefaultParams returns default builder parameters
func DefaultParams() Params {
	return Params{MaxBatchSize: DefaultMaxBatchSize}
}

// Validate validates the parameters
func (p Params) Validate() error {
	if p.MaxBatchSize == 0 {
		return ErrInvalidParams.Wrap("max batch size must be positive")
	}
	return nil
}
