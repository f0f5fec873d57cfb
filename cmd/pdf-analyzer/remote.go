package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/IbrahimShadi/pdf-analyzer/internal/server"
)

func createRemoteCmd() *cobra.Command {
	var addr string
	remoteCmd := &cobra.Command{
		Use:   "remote",
		Short: "Talk to a running pdf-analyzerd",
	}
	remoteCmd.PersistentFlags().StringVar(&addr, "addr", "localhost:8080", "daemon address")

	dial := func() (*server.Client, error) { return server.Dial(addr) }

	remoteCmd.AddCommand(&cobra.Command{
		Use:   "analyze PATH",
		Short: "Analyze a file on the daemon host",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := dial()
			if err != nil {
				return err
			}
			defer c.Close()
			res, err := c.AnalyzeFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			newResultWriter(cmd.OutOrStdout()).write(res)
			return nil
		},
	})

	remoteCmd.AddCommand(&cobra.Command{
		Use:   "classify [FILE]",
		Short: "Classify text read from FILE or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				text []byte
				err  error
			)
			if len(args) == 1 && args[0] != "-" {
				text, err = os.ReadFile(args[0])
			} else {
				text, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return err
			}
			c, err := dial()
			if err != nil {
				return err
			}
			defer c.Close()
			cls, err := c.Classify(cmd.Context(), string(text))
			if err != nil {
				return err
			}
			return json.NewEncoder(cmd.OutOrStdout()).Encode(cls)
		},
	})

	var filter server.ListFilter
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored results, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := dial()
			if err != nil {
				return err
			}
			defer c.Close()
			results, err := c.ListResults(cmd.Context(), filter)
			if err != nil {
				return err
			}
			out := newResultWriter(cmd.OutOrStdout())
			for _, r := range results {
				out.write(r)
			}
			return nil
		},
	}
	listCmd.Flags().IntVar(&filter.Limit, "limit", 50, "maximum results")
	listCmd.Flags().StringVar(&filter.TopClass, "class", "", "only this document type (synonyms such as inv or ticket accepted)")
	listCmd.Flags().StringVar(&filter.RunID, "run", "", "only this batch run")
	remoteCmd.AddCommand(listCmd)

	remoteCmd.AddCommand(&cobra.Command{
		Use:   "get ID",
		Short: "Fetch a stored result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := dial()
			if err != nil {
				return err
			}
			defer c.Close()
			res, err := c.GetResult(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			newResultWriter(cmd.OutOrStdout()).write(res)
			return nil
		},
	})
	return remoteCmd
}
