package server

import (
	"context"
	"github.com/ValentinKolb/rpClip/lib/clipboard"
	"github.com/ValentinKolb/rpClip/rpc/common"
)

// IRPCServerAdapter maps decoded requests onto clipboard operations.
// Handle always returns a response; failures are reported in its ErrKind
// and Err fields. ctx ends when the session of the caller ends or the
// request times out, an adapter waiting on the guard must give up then.
type IRPCServerAdapter interface {
	Handle(ctx context.Context, req *common.Message, guard *clipboard.Guard) (resp *common.Message)
}
