package serve

import (
	"context"
	"fmt"
	cmdUtil "github.com/ValentinKolb/rpClip/cmd/util"
	"github.com/ValentinKolb/rpClip/lib/clipboard"
	"github.com/ValentinKolb/rpClip/rpc/common"
	"github.com/ValentinKolb/rpClip/rpc/server"
	"github.com/ValentinKolb/rpClip/rpc/transport/factory"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"os"
	"os/signal"
	"syscall"
)

var (
	serveCmdConfig = &common.ServerConfig{}
	ServeCmd       = &cobra.Command{
		Use:     "serve",
		Short:   "Start the rpClip server",
		Long:    `Start the rpClip server for the clipboard of this machine. The configuration can be set via command line flags or environment variables. The format of the environment variables is RPCLIP_<flag> (e.g. RPCLIP_MAX_PENDING=20)`,
		Args:    cobra.NoArgs,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// add flags
	key := "address"
	ServeCmd.Flags().String(key, common.DefaultServerEndpoint, cmdUtil.WrapString(fmt.Sprintf("The address on which the server will listen, host:port or the path of a unix socket. If the default is used and the host has no IPv6 loopback, %s is used instead", common.FallbackServerEndpoint)))

	key = "backend"
	ServeCmd.Flags().String(key, "native", cmdUtil.WrapString("Clipboard backend to serve (native, memory). memory keeps the text in the server process, e.g. on hosts without a display"))

	key = "timeout"
	ServeCmd.Flags().Int64(key, common.DefaultTimeoutSecond, cmdUtil.WrapString("Timeout in seconds for reading a request, handling it and writing the response. A negative value disables it"))

	key = "max-pending"
	ServeCmd.Flags().Int(key, common.DefaultMaxPendingSessions, cmdUtil.WrapString("Maximum number of accepted connections being set up at the same time"))

	key = "workers-per-conn"
	ServeCmd.Flags().Int(key, common.DefaultMaxWorkersPerConn, cmdUtil.WrapString("Maximum number of requests handled in parallel on one connection"))

	key = "max-message-size"
	ServeCmd.Flags().Int(key, common.DefaultMaxMessageSize, cmdUtil.WrapString("Largest accepted message in bytes. A larger frame closes the connection"))

	key = "read-buffer"
	ServeCmd.Flags().Int(key, 0, cmdUtil.WrapString("The size of the socket read buffer in KB, 0 keeps the OS default"))

	key = "write-buffer"
	ServeCmd.Flags().Int(key, 0, cmdUtil.WrapString("The size of the socket write buffer in KB, 0 keeps the OS default"))

	key = "tcp-keepalive"
	ServeCmd.Flags().Int(key, 0, cmdUtil.WrapString("The keepalive interval in seconds (tcp only), 0 keeps the OS default"))

	key = "metrics-endpoint"
	ServeCmd.Flags().String(key, "", cmdUtil.WrapString("If set, prometheus metrics are served at http://<endpoint>/metrics (e.g. 127.0.0.1:9667)"))
}

// processConfig reads the configuration from the command line flags and environment variables and converts them to the server configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := cmdUtil.BindCommandFlags(cmd); err != nil {
		return err
	}

	addr, err := common.ParseAddress(viper.GetString("address"))
	if err != nil {
		return err
	}

	backend := viper.GetString("backend")
	switch backend {
	case "native", "memory":
	default:
		return common.NewRPCError(common.ErrKConfig,
			fmt.Sprintf("invalid backend %s (expected one of: native, memory)", backend))
	}

	serveCmdConfig.Address = addr
	serveCmdConfig.Backend = backend
	serveCmdConfig.TimeoutSecond = viper.GetInt64("timeout")
	serveCmdConfig.MaxPendingSessions = viper.GetInt("max-pending")
	serveCmdConfig.MaxWorkersPerConn = viper.GetInt("workers-per-conn")
	serveCmdConfig.MetricsEndpoint = viper.GetString("metrics-endpoint")
	serveCmdConfig.LogLevel = cmdUtil.GetLogLevel("info")
	serveCmdConfig.Transport = common.TransportConfig{
		SocketConf: common.SocketConf{
			ReadBufferSize:  viper.GetInt("read-buffer") * 1024,
			WriteBufferSize: viper.GetInt("write-buffer") * 1024,
		},
		TCPConf: common.TCPConf{
			TCPNoDelay:      true,
			TCPKeepAliveSec: viper.GetInt("tcp-keepalive"),
		},
		MaxMessageSize: viper.GetInt("max-message-size"),
	}

	return common.InitLoggers(serveCmdConfig.LogLevel)
}

// run starts the rpClip server and serves until SIGINT or SIGTERM
func run(cmd *cobra.Command, _ []string) error {
	s, err := cmdUtil.GetSerializer()
	if err != nil {
		return err
	}

	clip, err := newClipboard(serveCmdConfig.Backend)
	if err != nil {
		return err
	}

	t, err := factory.NewServerTransport(serveCmdConfig.Address)
	if err != nil {
		return err
	}

	serv := server.NewRPCServer(
		*serveCmdConfig,
		t,
		s,
		clip,
	)

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return serv.Serve(ctx)
}

// newClipboard opens the clipboard backend with the given name
func newClipboard(backend string) (clipboard.IClipboard, error) {
	switch backend {
	case "memory":
		return clipboard.NewMemoryClipboard(), nil
	default:
		clip, err := clipboard.NewNativeClipboard()
		if err != nil {
			return nil, common.WrapError(common.ErrKClipboard,
				fmt.Errorf("%w (use --backend memory on hosts without a clipboard)", err))
		}
		return clip, nil
	}
}
