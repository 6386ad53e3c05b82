package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kexlie/bobble/internal/message"
)

func newMoveCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "move <id> <x> <y>",
		Short: "Report a completed drag",
		Long: `Moves a bubble to container coordinates (x, y). The daemon re-runs the
layout solver, so the final position may differ if the target overlaps a
neighbour or sits outside the container.`,
		Args:    cobra.ExactArgs(3),
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE: func(_ *cobra.Command, args []string) error {
			x, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("x: %w", err)
			}
			y, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("y: %w", err)
			}
			_, err = request(v, &message.Message{Type: message.TypeMove, ID: args[0], X: x, Y: y})
			return err
		},
	}

	addClientFlags(cmd)
	return cmd
}

func newDismissCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:     "dismiss <id>",
		Short:   "Destroy a bubble",
		Args:    cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE: func(_ *cobra.Command, args []string) error {
			_, err := request(v, &message.Message{Type: message.TypeDismiss, ID: args[0]})
			return err
		},
	}

	addClientFlags(cmd)
	return cmd
}
