package clip

import (
	"context"
	"github.com/ValentinKolb/rpClip/cmd/util"
	"github.com/ValentinKolb/rpClip/rpc/client"
	"github.com/ValentinKolb/rpClip/rpc/common"
	"github.com/ValentinKolb/rpClip/rpc/transport/factory"
	"github.com/spf13/cobra"
)

func init() {
	util.SetupClientFlags(GetCmd)
	util.SetupClientFlags(SetCmd)
}

// setup binds the flags of cmd, initializes the loggers and resolves the
// client configuration
func setup(cmd *cobra.Command) (common.ClientConfig, error) {
	if err := util.BindCommandFlags(cmd); err != nil {
		return common.ClientConfig{}, err
	}
	if err := common.InitLoggers(util.GetLogLevel("warn")); err != nil {
		return common.ClientConfig{}, err
	}
	return util.GetClientConfig(cmd)
}

// connect resolves the server address and opens the single connection used
// by one invocation. Nothing is retried.
func connect(cmd *cobra.Command) (*client.RPCClipboard, error) {
	config, err := setup(cmd)
	if err != nil {
		return nil, err
	}
	return dialConfig(config)
}

// dialConfig opens a connection with the resolved client configuration
func dialConfig(config common.ClientConfig) (*client.RPCClipboard, error) {
	s, err := util.GetSerializer()
	if err != nil {
		return nil, err
	}

	t, err := factory.NewClientTransport(config.Address)
	if err != nil {
		return nil, err
	}

	return client.NewRPCClipboard(config, t, s)
}

// commandContext returns the context of cmd, or a background context if
// the command runs without one (tests call RunE directly)
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
