package cmd

import (
	"fmt"
	"github.com/ValentinKolb/rpClip/cmd/clip"
	"github.com/ValentinKolb/rpClip/cmd/serve"
	"github.com/ValentinKolb/rpClip/cmd/util"
	"github.com/spf13/cobra"
	"os"
)

const (
	Version = "1.0.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "rpclip",
		Short: "remote clipboard over a tiny RPC protocol",
		Long: fmt.Sprintf(`rpClip (v%s)

Read or overwrite the clipboard of a remote (or local) machine.
One machine runs 'rpclip serve', every other invocation talks to it
with 'rpclip get' and 'rpclip set'.`, Version),
		SilenceUsage: true,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of rpClip",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("rpClip v%s\n", Version)
		},
	}
)

func init() {
	// Load .env files and RPCLIP_ variables once for every command
	cobra.OnInitialize(util.InitConfig)

	// Add Commands
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(clip.GetCmd)
	RootCmd.AddCommand(clip.SetCmd)
	RootCmd.AddCommand(clip.PerfCmd)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "serializer"
	RootCmd.PersistentFlags().String(key, "binary", util.WrapString("serializer to use (binary, json, gob)"))
	key = "log-level"
	RootCmd.PersistentFlags().String(key, "", util.WrapString("LogLevel is the level at which logs will be output to stderr (debug, info, warn, error). Defaults to info for serve and warn for get and set"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
