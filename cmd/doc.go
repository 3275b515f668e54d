// Package cmd implements the command-line interface of rpClip. It provides
// one binary for running the clipboard server and for talking to it as a client.
//
// The package is organized into several subpackages:
//
//   - serve: Command for starting and configuring the rpClip server
//   - clip: The client commands get and set
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// Every invocation exits with 0 on success and 1 on any failure (connection,
// configuration or rpc error). Diagnostics go to stderr.
//
// See rpclip -help for a list of all commands.
package cmd
