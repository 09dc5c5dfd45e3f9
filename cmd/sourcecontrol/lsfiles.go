package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/utkarsh5026/SourceControl/pkg/index"
)

func newLsFilesCmd() *cobra.Command {
	var stage bool

	cmd := &cobra.Command{
		Use:   "ls-files",
		Short: "Show files staged in the index",
		Long:  `List every path currently staged in the index, sorted as Git stores them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := findRepository()
			if err != nil {
				return err
			}

			indexMgr := index.NewManager(repo.WorkingDirectory())
			if err := indexMgr.Initialize(); err != nil {
				return fmt.Errorf("failed to initialize index: %w", err)
			}

			for _, entry := range indexMgr.GetIndex().Entries {
				if stage {
					fmt.Printf("%s %s %d\t%s\n", entry.Mode.ToOctalString(), entry.BlobHash, entry.Stage, entry.Path)
				} else {
					fmt.Println(entry.Path)
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVarP(&stage, "stage", "s", false, "Show mode, object hash, and stage number for each file")

	return cmd
}
