package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kexlie/bobble/internal/message"
)

// The keyboard and resize commands forward boundary signals that would come
// from a platform integration (input-method observer, display server) on a
// full installation.

func newKeyboardCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "keyboard on|off",
		Short: "Forward soft-keyboard visibility",
		Long: `Tells the daemon the soft keyboard was shown or hidden. Every bubble
recomputes its visibility, minimized state and size against its class policy.`,
		Args:    cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE: func(_ *cobra.Command, args []string) error {
			var visible bool
			switch args[0] {
			case "on", "true", "1":
				visible = true
			case "off", "false", "0":
				visible = false
			default:
				return fmt.Errorf("want on|off, got %q", args[0])
			}
			_, err := request(v, &message.Message{Type: message.TypeKeyboard, Visible: visible})
			return err
		},
	}

	addClientFlags(cmd)
	return cmd
}

func newResizeCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:     "resize <width> <height>",
		Short:   "Forward container geometry",
		Long:    `Tells the daemon the overlay container changed size. All visible bubbles are re-laid out.`,
		Args:    cobra.ExactArgs(2),
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE: func(_ *cobra.Command, args []string) error {
			w, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("width: %w", err)
			}
			h, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("height: %w", err)
			}
			_, err = request(v, &message.Message{Type: message.TypeResize, Width: w, Height: h})
			return err
		},
	}

	addClientFlags(cmd)
	return cmd
}

func newModeCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "mode extend|replace",
		Short: "Switch the capture mode",
		Long: `Switches how clipboard captures become bubbles: "extend" adds a bubble
per capture, "replace" swaps the newest paste bubble out for the capture.`,
		Args:    cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE: func(_ *cobra.Command, args []string) error {
			_, err := request(v, &message.Message{Type: message.TypeMode, Mode: args[0]})
			return err
		},
	}

	addClientFlags(cmd)
	return cmd
}
