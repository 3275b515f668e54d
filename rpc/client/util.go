package client

import (
	"context"
	"fmt"
	"github.com/ValentinKolb/rpClip/rpc/common"
	"github.com/ValentinKolb/rpClip/rpc/serializer"
	"github.com/ValentinKolb/rpClip/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
)

var (
	Logger = logger.GetLogger("rpc")
)

// invokeRPCRequest is a helper function used by the RPC client to send requests
// It takes a request message, a transport layer and a serializer as parameters
// It returns a response message and an error if any occurs
// This method also checks if the response is an error response and if the type of the response is the expected type
func invokeRPCRequest(ctx context.Context, req *common.Message, transport transport.IRPCClientTransport, serializer serializer.IRPCSerializer) (*common.Message, error) {
	// Serialize the request
	reqBytes, err := serializer.Serialize(*req)
	if err != nil {
		return nil, common.WrapError(common.ErrKProtocol, fmt.Errorf("failed to serialize request: %w", err))
	}

	// Send the request
	respBytes, err := transport.Send(ctx, reqBytes)
	if err != nil {
		return nil, err
	}

	// Deserialize the response
	resp := &common.Message{}
	if err = serializer.Deserialize(respBytes, resp); err != nil {
		return nil, common.WrapError(common.ErrKProtocol, fmt.Errorf("failed to deserialize response: %w", err))
	}

	// Check if the response is an error response
	if err := resp.AsError(); err != nil {
		return nil, err
	}

	// Check if the type of the response is the expected type
	if resp.MsgType != req.MsgType {
		return nil, common.NewRPCError(common.ErrKProtocol,
			fmt.Sprintf("unexpected message type: %s, expected %s", resp.MsgType, req.MsgType))
	}

	return resp, nil
}
