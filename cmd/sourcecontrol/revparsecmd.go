package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/utkarsh5026/SourceControl/pkg/revparse"
)

func newRevParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rev-parse <rev>",
		Short: "Resolve a revision expression to its object hash",
		Long: `Parse a revision expression (HEAD, a branch or tag name, a full or
abbreviated hash, optionally suffixed with ^[n] or ~n) and print the
commit hash it names.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := findRepository()
			if err != nil {
				return err
			}

			hash, err := revparse.NewResolver(repo).Resolve(args[0])
			if err != nil {
				return fmt.Errorf("failed to resolve %q: %w", args[0], err)
			}

			fmt.Println(hash)
			return nil
		},
	}

	return cmd
}
