package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/CyberJohn04/myfotobooth/pkg/photobooth"
)

var (
	rootCmd = &cobra.Command{
		Use:   "myfotobooth",
		Short: "A retro photobooth for your webcam and browser",
		Long: `myfotobooth captures timed photo sequences from a webcam and composes
them into a classic vertical photo strip with styles, filters and stickers.

Examples:
  # Log in and run a 3-shot capture with the cosmic style
  myfotobooth login ada
  myfotobooth capture --style cosmic --theme star

  # Compose a strip from photos already on disk
  myfotobooth compose -o ./strips --style custom --color '#e0f7fa' a.jpg b.jpg c.jpg

  # Run the browser booth on a synthetic camera
  myfotobooth serve --device none --no-gate`,
	}

	captureCmd = &cobra.Command{
		Use:   "capture",
		Short: "Run a countdown capture sequence and compose the strip",
		Long: fmt.Sprintf(`Run the timed three-shot sequence against the camera and write the
composed strip into the output directory.

Supported filters:
%s
Supported styles:
%s
Supported sticker themes:
%s
Example:
  myfotobooth capture -o ./strips --countdown 5 --filter vintage --style bubblegum --theme heart`,
			formatKeys(photobooth.GetSupportedFilters()),
			formatKeys(photobooth.GetSupportedStyles()),
			formatKeys(photobooth.GetSupportedStickerThemes())),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := &photobooth.CaptureStripOptions{}

			opts.Device, _ = cmd.Flags().GetString("device")
			opts.OutputDir, _ = cmd.Flags().GetString("output")
			opts.Countdown, _ = cmd.Flags().GetInt("countdown")
			opts.Filter, _ = cmd.Flags().GetString("filter")
			opts.Style, _ = cmd.Flags().GetString("style")
			opts.CustomColor, _ = cmd.Flags().GetString("color")
			opts.Theme, _ = cmd.Flags().GetString("theme")
			opts.Caption, _ = cmd.Flags().GetString("caption")
			opts.FontPath, _ = cmd.Flags().GetString("font")
			opts.Seed, _ = cmd.Flags().GetInt64("seed")
			opts.Print, _ = cmd.Flags().GetBool("print")
			opts.NoGate, _ = cmd.Flags().GetBool("no-gate")
			opts.ConfigPath, _ = cmd.Flags().GetString("config")
			opts.Verbose, _ = cmd.Flags().GetBool("verbose")

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			_, err := photobooth.CaptureStrip(ctx, opts)
			return err
		},
	}

	composeCmd = &cobra.Command{
		Use:   "compose [images...]",
		Short: "Compose a strip from image files on disk",
		Long: `Build a photo strip from images that were already captured. Inputs are
stacked in argument order, so the first image becomes the top photo.

Example:
  myfotobooth compose -o ./strips --style noir --theme sparkle a.jpg b.jpg c.jpg`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := &photobooth.ComposeStripOptions{InputPaths: args}

			opts.OutputDir, _ = cmd.Flags().GetString("output")
			opts.Filter, _ = cmd.Flags().GetString("filter")
			opts.Style, _ = cmd.Flags().GetString("style")
			opts.CustomColor, _ = cmd.Flags().GetString("color")
			opts.Theme, _ = cmd.Flags().GetString("theme")
			opts.Caption, _ = cmd.Flags().GetString("caption")
			opts.Label, _ = cmd.Flags().GetString("label")
			opts.FontPath, _ = cmd.Flags().GetString("font")
			opts.Seed, _ = cmd.Flags().GetInt64("seed")
			opts.Verbose, _ = cmd.Flags().GetBool("verbose")

			_, err := photobooth.ComposeStrip(cmd.Context(), opts)
			return err
		},
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the booth web UI",
		Long: `Serve the booth in a browser: live camera preview with filters, the
countdown capture, strip preview and download, and printing.

Example:
  myfotobooth serve --addr 127.0.0.1:8793 --device /dev/video0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := &photobooth.ServeOptions{}

			opts.Addr, _ = cmd.Flags().GetString("addr")
			opts.Device, _ = cmd.Flags().GetString("device")
			opts.OutputDir, _ = cmd.Flags().GetString("output")
			opts.Countdown, _ = cmd.Flags().GetInt("countdown")
			opts.Caption, _ = cmd.Flags().GetString("caption")
			opts.FontPath, _ = cmd.Flags().GetString("font")
			opts.NoGate, _ = cmd.Flags().GetBool("no-gate")
			opts.ConfigPath, _ = cmd.Flags().GetString("config")
			opts.Verbose, _ = cmd.Flags().GetBool("verbose")

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return photobooth.Serve(ctx, opts)
		},
	}

	loginCmd = &cobra.Command{
		Use:   "login [name]",
		Short: "Start a booth session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := photobooth.Login(args[0]); err != nil {
				return err
			}
			fmt.Printf("Session started for %s\n", args[0])
			return nil
		},
	}

	logoutCmd = &cobra.Command{
		Use:   "logout",
		Short: "End the current booth session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := photobooth.Logout(); err != nil {
				return err
			}
			fmt.Println("Session ended")
			return nil
		},
	}
)

func formatKeys(keys []string) string {
	var sb strings.Builder
	for _, key := range keys {
		sb.WriteString(fmt.Sprintf("- %s\n", key))
	}
	return sb.String()
}

func init() {
	// Capture command flags
	captureCmd.Flags().String("device", "", "Camera device, 'none' for the synthetic test pattern (default /dev/video0)")
	captureCmd.Flags().StringP("output", "o", "", "Output directory for the strip (default .)")
	captureCmd.Flags().Int("countdown", 0, "Seconds before each shot: 3, 5 or 10 (default 3)")
	captureCmd.Flags().String("filter", "", fmt.Sprintf("Live filter (%s)", strings.Join(photobooth.GetSupportedFilters(), ", ")))
	captureCmd.Flags().String("style", "", fmt.Sprintf("Strip background style (%s)", strings.Join(photobooth.GetSupportedStyles(), ", ")))
	captureCmd.Flags().String("color", "", "Hex background fill, required by the custom style")
	captureCmd.Flags().String("theme", "", fmt.Sprintf("Sticker theme (%s)", strings.Join(photobooth.GetSupportedStickerThemes(), ", ")))
	captureCmd.Flags().String("caption", "", "Header caption text")
	captureCmd.Flags().String("font", "", "TTF font file for the caption")
	captureCmd.Flags().Int64("seed", 0, "Sticker placement seed, 0 uses the clock")
	captureCmd.Flags().Bool("print", false, "Send the strip to the default printer via lp")
	captureCmd.Flags().Bool("no-gate", false, "Skip the session gate")
	captureCmd.Flags().String("config", "", "Booth YAML configuration file")
	captureCmd.Flags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Compose command flags
	composeCmd.Flags().StringP("output", "o", "", "Output directory for the strip (default .)")
	composeCmd.Flags().String("filter", "", fmt.Sprintf("Photo filter (%s)", strings.Join(photobooth.GetSupportedFilters(), ", ")))
	composeCmd.Flags().String("style", "", fmt.Sprintf("Strip background style (%s)", strings.Join(photobooth.GetSupportedStyles(), ", ")))
	composeCmd.Flags().String("color", "", "Hex background fill, required by the custom style")
	composeCmd.Flags().String("theme", "", fmt.Sprintf("Sticker theme (%s)", strings.Join(photobooth.GetSupportedStickerThemes(), ", ")))
	composeCmd.Flags().String("caption", "", "Header caption text")
	composeCmd.Flags().String("label", "", "Timestamp footer text, empty uses the current time")
	composeCmd.Flags().String("font", "", "TTF font file for the caption")
	composeCmd.Flags().Int64("seed", 0, "Sticker placement seed, 0 uses the clock")
	composeCmd.Flags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Serve command flags
	serveCmd.Flags().String("addr", "", "Listen address (default 127.0.0.1:8793)")
	serveCmd.Flags().String("device", "", "Camera device, 'none' for the synthetic test pattern (default /dev/video0)")
	serveCmd.Flags().StringP("output", "o", "", "Directory where composed strips are saved (default .)")
	serveCmd.Flags().Int("countdown", 0, "Seconds before each shot: 3, 5 or 10 (default 3)")
	serveCmd.Flags().String("caption", "", "Header caption text")
	serveCmd.Flags().String("font", "", "TTF font file for the caption")
	serveCmd.Flags().Bool("no-gate", false, "Skip the session gate")
	serveCmd.Flags().String("config", "", "Booth YAML configuration file")
	serveCmd.Flags().BoolP("verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(captureCmd)
	rootCmd.AddCommand(composeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
