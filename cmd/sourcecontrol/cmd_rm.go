package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/utkarsh5026/SourceControl/cmd/ui"
	"github.com/utkarsh5026/SourceControl/pkg/index"
)

func newRmCmd() *cobra.Command {
	var cached bool

	cmd := &cobra.Command{
		Use:   "rm [file...]",
		Short: "Remove files from the working directory and the index",
		Long: `Remove files from the index, and by default from the working
directory too. Use --cached to unstage a file while leaving it on disk.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := findRepository()
			if err != nil {
				return err
			}

			indexMgr := index.NewManager(repo.WorkingDirectory())
			if err := indexMgr.Initialize(); err != nil {
				return fmt.Errorf("failed to initialize index: %w", err)
			}

			result, err := indexMgr.Remove(args, !cached)
			if err != nil {
				return fmt.Errorf("failed to remove files: %w", err)
			}

			for _, path := range result.Removed {
				fmt.Printf("%s %s\n", ui.Red("removed:"), path)
			}
			for _, failure := range result.Failed {
				fmt.Printf("%s %s: %s\n", ui.Red("failed:"), failure.Path, failure.Reason)
			}

			if len(result.Failed) > 0 {
				return fmt.Errorf("%d file(s) could not be removed", len(result.Failed))
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&cached, "cached", false, "Only remove from the index, keep the working directory copy")

	return cmd
}
