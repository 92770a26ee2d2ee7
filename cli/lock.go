package cli

import (
	"github.com/spf13/cobra"

	"github.com/mobile-next/hidsynth/commands"
)

var lockCmd = &cobra.Command{
	Use:   "lock",
	Short: "Acquire the hardware lock, pausing dispatch",
	Long:  `Pauses all record dispatch before the next step. An in-flight stream stalls at its next sample and resumes on unlock.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return respond(commands.LockCommand())
	},
}

var unlockCmd = &cobra.Command{
	Use:   "unlock",
	Short: "Release the hardware lock",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return respond(commands.UnlockCommand())
	},
}

func init() {
	rootCmd.AddCommand(lockCmd)
	rootCmd.AddCommand(unlockCmd)
}
