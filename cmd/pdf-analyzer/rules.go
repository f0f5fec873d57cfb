package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/IbrahimShadi/pdf-analyzer/internal/rules"
)

func createRulesCmd() *cobra.Command {
	rulesCmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect classification rules",
	}
	rulesCmd.AddCommand(createRulesValidateCmd())
	rulesCmd.AddCommand(createRulesDumpCmd())
	return rulesCmd
}

func createRulesValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Check a YAML rules file against the rules schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := rules.Load(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s: ok (%s)\n", args[0], strings.Join(set.Classes(), ", "))
			for _, p := range set.InvalidPatterns() {
				fmt.Fprintf(w, "  warning: regex does not compile: %s\n", p)
			}
			return nil
		},
	}
}

func createRulesDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Print the built-in rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := cmd.OutOrStdout().Write(rules.DefaultYAML())
			return err
		},
	}
}
