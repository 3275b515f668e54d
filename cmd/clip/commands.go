package clip

import (
	"bufio"
	"fmt"
	"github.com/ValentinKolb/rpClip/lib/lineend"
	"github.com/spf13/cobra"
	"io"
)

var (
	// GetCmd prints the clipboard of the server
	GetCmd = &cobra.Command{
		Use:   "get",
		Short: "Print the clipboard of the server",
		Long:  `Print the clipboard of the server to stdout. The line endings are converted to the ones of this platform, no newline is appended.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := connect(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			text, err := c.GetClip(commandContext(cmd))
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), lineend.ToPlatform(text))
			return err
		},
	}

	// SetCmd replaces the clipboard of the server with stdin
	SetCmd = &cobra.Command{
		Use:   "set",
		Short: "Replace the clipboard of the server with stdin",
		Long:  `Read stdin until EOF and replace the clipboard of the server with it. The lines are sent joined by '\n', the server converts them to its own line ending.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readLines(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}

			c, err := connect(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			return c.SetClip(commandContext(cmd), text)
		},
	}
)

// maxLineSize is the longest single line accepted on stdin
const maxLineSize = 16 * 1024 * 1024

// readLines reads r line by line and joins the lines with "\n".
// A final line without terminator is kept, the terminator itself is not.
func readLines(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return lineend.Join(lines), nil
}
