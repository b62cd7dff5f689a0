package app

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	lockmetrics "github.com/openalpha/lockdeal/metrics"
	buildertypes "github.com/openalpha/lockdeal/x/builder/types"
)

// TxResult is the outcome of a delivered message
type TxResult struct {
	Height   int64   `json:"height"`
	MsgType  string  `json:"msg_type"`
	Response any     `json:"response"`
	Events   []Event `json:"events"`
}

// Deliver validates msg and executes it through its module's MsgServer
func (app *App) Deliver(msg sdk.Msg) (*TxResult, error) {
	msgType := MsgTypeName(msg)
	timer := lockmetrics.NewTimer()

	var resp any
	events, err := app.Execute(func(ctx sdk.Context) error {
		if v, ok := msg.(sdk.HasValidateBasic); ok {
			if err := v.ValidateBasic(); err != nil {
				return err
			}
		}
		var err error
		resp, err = app.route(ctx, msg)
		return err
	})

	if app.metrics != nil {
		app.metrics.RecordMsg(msgType, err, timer.ElapsedMs())
		switch m := msg.(type) {
		case *buildertypes.MsgBuildMassPools:
			app.metrics.RecordBatch("mass", len(m.Allocations))
		case *buildertypes.MsgBuildRefundMassPools:
			app.metrics.RecordBatch("refund", len(m.Allocations))
		}
	}
	if err != nil {
		app.logger.Debug("message failed", "msg_type", msgType, "error", err)
		return nil, err
	}
	return &TxResult{
		Height:   app.LastHeight(),
		MsgType:  msgType,
		Response: resp,
		Events:   events,
	}, nil
}
