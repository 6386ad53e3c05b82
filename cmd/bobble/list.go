package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kexlie/bobble/internal/message"
)

func newListCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show live bubbles",
		Long: `Displays the daemon's current bubble collection in draw order
(bottom of the stack first), with positions and previews.`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, _ []string) error { return runList(v) },
	}

	cmd.Flags().Bool("json", false, "output raw JSON")
	addClientFlags(cmd)

	return cmd
}

func runList(v *viper.Viper) error {
	resp, err := request(v, &message.Message{Type: message.TypeStatus})
	if err != nil {
		return err
	}

	if v.GetBool("json") {
		enc, _ := json.MarshalIndent(resp, "", "  ")
		fmt.Println(string(enc))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 1, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Container:\t%gx%g\n", resp.Width, resp.Height)
	fmt.Fprintf(w, "Keyboard:\t%s\n", onOff(resp.Visible))
	fmt.Fprintf(w, "Mode:\t%s\n", resp.Mode)
	fmt.Fprintln(w)
	_ = w.Flush()

	if len(resp.Bubbles) == 0 {
		fmt.Println("No bubbles.")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 1, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\tCLASS\tPOS\tSIZE\tSTATE\tIDLE\tPREVIEW\n")
	for _, b := range resp.Bubbles {
		fmt.Fprintf(tw, "%s\t%s\t%.0f,%.0f\t%.0f\t%s\t%s\t%s\n",
			shortID(b.ID), b.Class, b.X, b.Y, b.Size,
			stateOf(b), fmtAge(b.LastInteraction), b.Preview,
		)
	}
	return tw.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func stateOf(b message.BubbleInfo) string {
	switch {
	case !b.Visible:
		return "hidden"
	case b.Minimized:
		return "minimized"
	default:
		return "visible"
	}
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func fmtAge(t time.Time) string {
	age := time.Since(t).Round(time.Second)
	if age < time.Minute {
		return fmt.Sprintf("%ds", int(age.Seconds()))
	}
	if age < time.Hour {
		return fmt.Sprintf("%dm", int(age.Minutes()))
	}
	return t.Format("15:04:05")
}
