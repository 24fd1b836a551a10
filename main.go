package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"trackboard/windows"
)

var (
	flagFile     string
	flagTracks   int
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "trackboard",
	Short: "Interactive dashboard for track/intensity time-series data",
	Long: `Trackboard loads track/intensity measurements from a file or a
synthetic generator, maps user-chosen columns onto the canonical
{ID, TIME, MEAS, FOV} schema and feeds the result to the clustering
and outlier-detection views.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(flagLogLevel)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", flagLogLevel, err)
		}
		logrus.SetLevel(level)

		win := windows.CreateMainWindow(windows.Options{
			PreloadFile: flagFile,
			Tracks:      flagTracks,
		})
		win.Run()
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVarP(&flagFile, "file", "f", "", "data file to preload (.csv, .parquet, .json)")
	rootCmd.Flags().IntVarP(&flagTracks, "tracks", "t", 0, "synthetic track count (0 uses the default)")
	rootCmd.Flags().StringVar(&flagLogLevel, "log-level", "info", "log level (trace|debug|info|warn|error)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
