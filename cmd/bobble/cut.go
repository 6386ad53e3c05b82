package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kexlie/bobble/internal/message"
)

func newCutCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "cut",
		Short: "Capture stdin as a new bubble",
		Long: `Reads stdin and submits it to the daemon as a new bubble.

The default class is "paste" (consumed on tap). Use --class to pin text,
create a quick action, or raise an alert bubble instead:

  echo "+49 30 1234567" | bobble cut --class quick
  git log -1 --format=%H | bobble cut --class pin`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, _ []string) error { return runCut(v) },
	}

	f := cmd.Flags()
	f.String("class", "paste", "bubble class: paste|pin|quick|alert")
	f.String("content-type", "text", "classifier tag for the captured text")
	f.String("source", defaultSource(), "source identifier shown in daemon logs")
	addClientFlags(cmd)

	return cmd
}

func runCut(v *viper.Viper) error {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	msg := message.NewCut(string(data), v.GetString("content-type"), v.GetString("class"), v.GetString("source"))
	resp, err := request(v, msg)
	if err != nil {
		return err
	}
	fmt.Println(resp.ID)
	return nil
}
