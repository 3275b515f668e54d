package server

import (
	"context"
	"errors"
	"fmt"
	"github.com/ValentinKolb/rpClip/lib/clipboard"
	"github.com/ValentinKolb/rpClip/lib/lineend"
	"github.com/ValentinKolb/rpClip/rpc/common"
)

func NewClipboardServerAdapter() IRPCServerAdapter {
	return &clipboardServerAdapterImpl{}
}

type clipboardServerAdapterImpl struct{}

func (adapter *clipboardServerAdapterImpl) Handle(ctx context.Context, req *common.Message, guard *clipboard.Guard) *common.Message {
	if guard == nil {
		return common.NewErrorResponse(common.ErrKClipboard, "handler: clipboard is nil")
	}

	switch req.MsgType {
	case common.MsgTClipGet:
		// The text is returned as is, the client converts the line endings
		text, err := guard.Read(ctx)
		return common.NewGetClipResponse(text, guardError("read", err))
	case common.MsgTClipSet:
		err := guard.Write(ctx, lineend.ToPlatform(req.Text))
		return common.NewSetClipResponse(guardError("write", err))
	default:
		return common.NewErrorResponse(common.ErrKProtocol,
			fmt.Sprintf("unsupported message type: %s", req.MsgType))
	}
}

// guardError turns the error of a guarded clipboard access into the error sent
// to the client and logs it
func guardError(op string, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		err = common.NewRPCError(common.ErrKClipboard,
			fmt.Sprintf("timed out waiting for the clipboard to %s", op))
	case errors.Is(err, context.Canceled):
		// The client went away, nobody will read the response
		Logger.Debugf("Clipboard %s abandoned: %v", op, err)
		return err
	}

	Logger.Warningf("Clipboard %s failed: %v", op, err)
	return err
}
