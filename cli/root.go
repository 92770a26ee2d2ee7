package cli

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/mobile-next/hidsynth/commands"
	"github.com/mobile-next/hidsynth/hid"
	"github.com/mobile-next/hidsynth/utils"
)

const version = "dev"

// fileConfig holds values from the ini file, merged with flags during
// initConfig.
var fileConfig FileConfig

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "hidsynth",
	Short: "A touch and stylus HID event synthesizer",
	Long:  `Synthesizes precisely-timed multi-touch gestures, stylus strokes and declarative event streams for remote control and UI automation.`,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func initConfig() {
	utils.SetVerbose(verbose)

	fileConfig = loadFileConfig(configPath)

	keepAlive := fileConfig.KeepAlive
	if rootCmd.PersistentFlags().Changed("keepalive") {
		keepAlive = keepAliveInterval
	}
	randomize := fileConfig.Randomize
	if rootCmd.PersistentFlags().Changed("randomize") {
		randomize = randomizeTouches
	}

	commands.Configure(hid.Config{
		Sink:              recordSink(),
		KeepAliveInterval: keepAlive,
		Randomize:         randomize,
	})
}

// recordSink builds the dispatch sink: NDJSON to stdout, or to the
// file given by --out.
func recordSink() hid.Sink {
	if outputPath == "" {
		return hid.NewWriterSink(os.Stdout)
	}
	f, err := os.Create(outputPath)
	if err != nil {
		log.Fatalf("cannot open output file %s: %v", outputPath, err)
	}
	return hid.NewWriterSink(f)
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.hidsynth.ini)")
	rootCmd.PersistentFlags().Float64Var(&keepAliveInterval, "keepalive", 0, "keep-alive heartbeat interval in seconds (0 disables)")
	rootCmd.PersistentFlags().BoolVar(&randomizeTouches, "randomize", false, "jitter pressure and radius to mimic human touch")
	rootCmd.PersistentFlags().StringVar(&outputPath, "out", "", "write dispatched records to file instead of stdout")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// printJson is a helper function to print JSON responses
func printJson(data interface{}) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(jsonData))
}
