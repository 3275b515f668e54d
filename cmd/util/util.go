package util

import (
	"fmt"
	"github.com/ValentinKolb/rpClip/rpc/serializer"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"strings"
	"sync"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50

	// EnvPrefix is the prefix of all environment variables read by rpclip
	EnvPrefix = "rpclip"
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

var initConfigOnce sync.Once

// InitConfig loads the env files and lets viper read RPCLIP_* variables.
// Only the first call has an effect.
func InitConfig() {
	initConfigOnce.Do(func() {
		// load env files, variables already set are not overwritten
		_ = godotenv.Load(".env")
		_ = godotenv.Load(".env.local")

		// initialize viper
		viper.SetEnvPrefix(EnvPrefix)
		viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
		viper.AutomaticEnv() // read in environment variables that match
	})
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// GetSerializer creates a serializer based on configuration
func GetSerializer() (serializer.IRPCSerializer, error) {
	switch name := viper.GetString("serializer"); name {
	case "binary", "":
		return serializer.NewBinarySerializer(), nil
	case "json":
		return serializer.NewJSONSerializer(), nil
	case "gob":
		return serializer.NewGOBSerializer(), nil
	default:
		return nil, fmt.Errorf("invalid serializer %s", name)
	}
}

// GetLogLevel returns the configured log level or fallback if none is set
func GetLogLevel(fallback string) string {
	if level := viper.GetString("log-level"); level != "" {
		return level
	}
	return fallback
}
