package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/keagan/mpvdeck/internal/config"
	"github.com/keagan/mpvdeck/internal/ffmpeg"
	"github.com/keagan/mpvdeck/internal/gui"
	"github.com/keagan/mpvdeck/internal/icons"
	"github.com/keagan/mpvdeck/internal/logging"
	"github.com/keagan/mpvdeck/internal/plugin"
	"github.com/keagan/mpvdeck/pkg/util"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool

	iconDark bool
	iconOut  string

	keepMs bool

	pluginDir string
)

func main() {
	ctx := context.Background()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mpvdeck",
	Short: "mpvdeck - media player helper toolkit",
	Long:  "Helpers for an mpv based desktop player: themed icons, clock formatting and plugin registration.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(verbose)

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		cmd.SetContext(config.WithConfig(cmd.Context(), cfg))
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	iconCmd.Flags().BoolVar(&iconDark, "dark", false, "emit the inverted variant for dark themes")
	iconCmd.Flags().StringVarP(&iconOut, "out", "o", "", "write PNG to file instead of printing a data URL")
	timeCmd.Flags().BoolVar(&keepMs, "ms", false, "keep milliseconds")
	switchesCmd.Flags().StringVar(&pluginDir, "plugin-dir", "", "directory holding the mpv plugin (overrides config)")

	rootCmd.AddCommand(iconCmd)
	rootCmd.AddCommand(timeCmd)
	rootCmd.AddCommand(switchesCmd)
	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(guiCmd)
}

func newIconCache(cfg *config.Config) *icons.Cache {
	return icons.New(
		log.Logger,
		icons.NewHTTPFetcher(cfg.Icons.Timeout),
		icons.SVGRasterizer{},
		icons.Options{
			Host:   cfg.Icons.Host,
			Width:  cfg.Icons.Width,
			Height: cfg.Icons.Height,
		},
	)
}

var iconCmd = &cobra.Command{
	Use:   "icon [name]",
	Short: "Fetch a Material icon and render it for the light or dark theme",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())
		cache := newIconCache(cfg)

		img, err := cache.Get(cmd.Context(), icons.Key(args[0]), iconDark)
		if err != nil {
			return err
		}

		if iconOut == "" {
			fmt.Fprintln(cmd.OutOrStdout(), img.DataURL())
			return nil
		}

		if err := util.WriteFile(iconOut, img.PNG); err != nil {
			return err
		}
		log.Info().
			Str("icon", args[0]).
			Bool("dark", iconDark).
			Str("out", iconOut).
			Msg("icon written")
		return nil
	},
}

var timeCmd = &cobra.Command{
	Use:   "time [milliseconds|timestamp]",
	Short: "Format a position as a player clock",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ms, err := parsePosition(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), util.MsToTime(ms, keepMs))
		return nil
	},
}

// parsePosition accepts either raw milliseconds or a HH:MM:SS style timestamp
func parsePosition(s string) (float64, error) {
	if !strings.Contains(s, ":") {
		if ms, err := strconv.ParseFloat(s, 64); err == nil {
			return ms, nil
		}
	}
	d, err := util.ParseTimestamp(s)
	if err != nil {
		return 0, err
	}
	return float64(d.Milliseconds()), nil
}

var switchesCmd = &cobra.Command{
	Use:   "switches",
	Short: "Print the host command line switches that register the mpv plugin",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		dir := cfg.Player.PluginDir
		if pluginDir != "" {
			dir = pluginDir
		}

		installer := plugin.NewInstaller(log.Logger, plugin.Options{
			Dir:  dir,
			Name: cfg.Player.PluginName,
			GOOS: cfg.Player.Platform,
			// the host is launched separately, from wherever the caller runs it
			Absolute: true,
		})

		var cl plugin.CommandLine
		if _, err := installer.Install(&cl); err != nil {
			return err
		}

		for _, arg := range cl.Args() {
			fmt.Fprintln(cmd.OutOrStdout(), arg)
		}
		return nil
	},
}

var probeCmd = &cobra.Command{
	Use:   "probe [media file]",
	Short: "Print the duration of a media file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		prober, err := ffmpeg.New(log.Logger, cfg.FFprobe.BinaryPath)
		if err != nil {
			return err
		}

		info, err := prober.Probe(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), util.MsToTime(float64(info.Duration.Milliseconds()), keepMs))
		return nil
	},
}

var guiCmd = &cobra.Command{
	Use:   "gui",
	Short: "Open the player window",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		prober, err := ffmpeg.New(log.Logger, cfg.FFprobe.BinaryPath)
		if err != nil {
			log.Warn().Err(err).Msg("durations unavailable")
			prober = nil
		}

		gui.RunGUI(cmd.Context(), log.Logger, newIconCache(cfg), prober)
		return nil
	},
}

func init() {
	probeCmd.Flags().BoolVar(&keepMs, "ms", false, "keep milliseconds")
}
