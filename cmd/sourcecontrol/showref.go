package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/utkarsh5026/SourceControl/pkg/repository/refs"
)

func newShowRefCmd() *cobra.Command {
	var heads bool
	var tags bool

	cmd := &cobra.Command{
		Use:   "show-ref",
		Short: "List references in the repository",
		Long:  `Print every loose and packed reference together with the object it resolves to.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := findRepository()
			if err != nil {
				return err
			}

			refManager := refs.NewRefManager(repo)
			entries, err := refManager.ListAllRefs()
			if err != nil {
				return fmt.Errorf("failed to list refs: %w", err)
			}

			for _, e := range entries {
				if heads && !e.Ref.IsBranch() {
					continue
				}
				if tags && !e.Ref.IsTag() {
					continue
				}
				fmt.Printf("%s %s\n", e.SHA, e.Ref)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&heads, "heads", false, "Show only branch refs")
	cmd.Flags().BoolVar(&tags, "tags", false, "Show only tag refs")

	return cmd
}
