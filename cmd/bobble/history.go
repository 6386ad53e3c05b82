package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kexlie/bobble/internal/message"
)

func newHistoryCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Query stored clipboard captures",
		Long: `Lists captures from the daemon's history database, newest first.
Search matches case-insensitively and works on encrypted stores too.`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, _ []string) error { return runHistory(v) },
	}

	f := cmd.Flags()
	f.Int("limit", 20, "entries to show")
	f.String("search", "", "only entries containing this text")
	f.Bool("json", false, "output raw JSON")
	addClientFlags(cmd)

	return cmd
}

func runHistory(v *viper.Viper) error {
	resp, err := request(v, &message.Message{
		Type:   message.TypeHistory,
		Limit:  v.GetInt("limit"),
		Search: v.GetString("search"),
	})
	if err != nil {
		return err
	}

	if v.GetBool("json") {
		enc, _ := json.MarshalIndent(resp.Rows, "", "  ")
		fmt.Println(string(enc))
		return nil
	}

	if len(resp.Rows) == 0 {
		fmt.Println("No history.")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 1, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\tCAPTURED\tTYPE\tPREVIEW\n")
	for _, r := range resp.Rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.ContentType, r.Preview,
		)
	}
	return tw.Flush()
}
