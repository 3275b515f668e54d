package util

import (
	"errors"
	"fmt"
	"github.com/ValentinKolb/rpClip/rpc/common"
	"github.com/adrg/xdg"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"io/fs"
	"os"
	"path/filepath"
)

// ServerAddrKey is the key of the server address in a config file
const ServerAddrKey = "server_addr"

// SetupClientFlags adds the connection flags of the client commands
func SetupClientFlags(cmd *cobra.Command) {
	key := "server"
	cmd.Flags().String(key, "", WrapString("Address of the rpClip server, host:port or the path of a unix socket. Overrides every other source"))

	key = "config"
	cmd.Flags().String(key, "", WrapString(fmt.Sprintf("Config file containing the key %q (default %s, if present)", ServerAddrKey, DefaultConfigFile())))

	key = "timeout"
	cmd.Flags().Int(key, common.DefaultTimeoutSecond, WrapString("Timeout in seconds for connecting and for the request, 0 disables it"))
}

// AddressSources holds every place a client may take the server address from.
// Empty fields are skipped.
type AddressSources struct {
	Flag              string // --server
	ConfigFile        string // --config, must exist if set
	DefaultConfigFile string // used only if the file exists
	Env               string // RPCLIP_SERVER
}

// ResolveServerAddress picks the server address by precedence: the --server
// flag, an explicit config file, the default config file, the environment
// and finally common.DefaultClientEndpoint. It returns the address and a
// short description of where it came from.
func ResolveServerAddress(src AddressSources) (common.Address, string, error) {
	if src.Flag != "" {
		addr, err := common.ParseAddress(src.Flag)
		return addr, "flag --server", err
	}

	if src.ConfigFile != "" {
		raw, err := readServerAddr(src.ConfigFile)
		if err != nil {
			return common.Address{}, "", err
		}
		addr, err := common.ParseAddress(raw)
		return addr, "config " + src.ConfigFile, err
	}

	if src.DefaultConfigFile != "" {
		if _, err := os.Stat(src.DefaultConfigFile); err == nil {
			raw, err := readServerAddr(src.DefaultConfigFile)
			if err != nil {
				return common.Address{}, "", err
			}
			addr, err := common.ParseAddress(raw)
			return addr, "config " + src.DefaultConfigFile, err
		} else if !errors.Is(err, fs.ErrNotExist) {
			return common.Address{}, "", common.WrapError(common.ErrKConfig,
				fmt.Errorf("cannot access config file %s: %w", src.DefaultConfigFile, err))
		}
	}

	if src.Env != "" {
		addr, err := common.ParseAddress(src.Env)
		return addr, "environment", err
	}

	return common.MustParseAddress(common.DefaultClientEndpoint), "default", nil
}

// DefaultConfigFile returns the path of the per-user config file
func DefaultConfigFile() string {
	return filepath.Join(xdg.ConfigHome, "rpclip", "config.yaml")
}

// GetClientConfig builds the client configuration from the flags of cmd,
// the config files and the environment
func GetClientConfig(cmd *cobra.Command) (common.ClientConfig, error) {
	var src AddressSources
	if cmd.Flags().Changed("server") {
		src.Flag, _ = cmd.Flags().GetString("server")
	}
	src.ConfigFile = viper.GetString("config")
	src.DefaultConfigFile = DefaultConfigFile()
	src.Env = os.Getenv("RPCLIP_SERVER")

	addr, source, err := ResolveServerAddress(src)
	if err != nil {
		return common.ClientConfig{}, err
	}
	Logger.Debugf("Using server %s (from %s)", addr, source)

	return common.ClientConfig{
		Address:       addr,
		TimeoutSecond: viper.GetInt("timeout"),
		Transport: common.TransportConfig{
			TCPConf: common.TCPConf{TCPNoDelay: true},
		},
	}, nil
}

// readServerAddr reads the server address from a config file. The format is
// taken from the file extension (yaml, json, toml, ...).
func readServerAddr(path string) (string, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if filepath.Ext(path) == "" {
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		return "", common.WrapError(common.ErrKConfig, fmt.Errorf("cannot read config file %s: %w", path, err))
	}
	raw := v.GetString(ServerAddrKey)
	if raw == "" {
		return "", common.NewRPCError(common.ErrKConfig,
			fmt.Sprintf("config file %s has no %s", path, ServerAddrKey))
	}
	return raw, nil
}
