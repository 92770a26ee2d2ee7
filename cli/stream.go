package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mobile-next/hidsynth/commands"
)

var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Dispatch declarative event streams",
	Long:  `Compile and dispatch declarative event streams described as JSON or property-list documents.`,
}

var streamRunCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run an event stream from a file or stdin",
	Long:  `Reads an event-stream document (JSON or plist, detected automatically) from the given file, or from stdin when the file is '-'.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			raw []byte
			err error
		)
		if args[0] == "-" {
			raw, err = io.ReadAll(os.Stdin)
		} else {
			raw, err = os.ReadFile(args[0])
		}
		if err != nil {
			return respond(commands.NewErrorResponse(fmt.Errorf("cannot read stream: %w", err)))
		}

		return respond(commands.DispatchRaw(raw, streamWait))
	},
}

var streamResultCmd = &cobra.Command{
	Use:   "result [stream-id]",
	Short: "Show the outcome of a previously dispatched stream",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return respond(commands.StreamResultCommand(commands.StreamResultRequest{
			StreamID: args[0],
		}))
	},
}

func init() {
	rootCmd.AddCommand(streamCmd)
	streamCmd.AddCommand(streamRunCmd)
	streamCmd.AddCommand(streamResultCmd)

	streamRunCmd.Flags().BoolVar(&streamWait, "wait", true, "block until the stream has been fully dispatched")
}
