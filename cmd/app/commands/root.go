package commands

import (
	"fmt"
	"os"

	"github.com/intothevoid/drishti/pkg/config"
	"github.com/intothevoid/drishti/pkg/logger"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "drishti",
		Short: "drishti - live viewer for network camera streams",
		Long: `drishti shows one live feed picked from a list of RTSP addresses.

The addresses are read from a text file, one per line. Pick a stream in the
menu to play it, pick another to switch, or close it.`,
		Example: `  # Play streams listed in ./rtsp-traffic-ga.txt
  drishti

  # Use another stream list and open the first stream at startup
  drishti --streams cams.txt --autoplay`,
		SilenceUsage: true,
		RunE:         runViewer,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml)")
	rootCmd.PersistentFlags().String("streams", "", "stream list file, one address per line (default rtsp-traffic-ga.txt)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.Flags().Duration("interval", 0, "delay between frame reads (default 10ms)")
	rootCmd.Flags().Bool("autoplay", false, "open the first stream at startup")

	viper.BindPFlag("streams_file", rootCmd.PersistentFlags().Lookup("streams"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("interval", rootCmd.Flags().Lookup("interval"))
	viper.BindPFlag("autoplay", rootCmd.Flags().Lookup("autoplay"))
}

func initConfig() {
	config.SetDefaults(viper.GetViper())
}

// loadConfig resolves the settings and configures logging
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.GetViper(), cfgFile)
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.LogLevel, cfg.LogPretty)
	return cfg, nil
}

// loadStreams reads the stream list named by the config
func loadStreams(cfg *config.Config) ([]string, error) {
	streams, err := config.LoadStreams(afero.NewOsFs(), cfg.StreamsFile)
	if err != nil {
		return nil, err
	}
	logger.WithComponent("config").Info().
		Str("path", cfg.StreamsFile).
		Int("streams", len(streams)).
		Msg("stream list loaded")
	return streams, nil
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
