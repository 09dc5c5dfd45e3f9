package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/utkarsh5026/SourceControl/cmd/ui"
	"github.com/utkarsh5026/SourceControl/pkg/index"
	"github.com/utkarsh5026/SourceControl/pkg/repository/scpath"
	"github.com/utkarsh5026/SourceControl/pkg/revparse"
	"github.com/utkarsh5026/SourceControl/pkg/workdir"
)

func newRestoreCmd() *cobra.Command {
	var staged bool
	var worktree bool
	var source string

	cmd := &cobra.Command{
		Use:   "restore [--staged] [--worktree] [--source <rev>] <path>...",
		Short: "Restore working tree files or the index",
		Long: `Restore files in the working directory and/or the index to match a
source commit.

With neither flag given, only the working directory is restored from the
current index. --staged resets the index entry to --source (HEAD by
default) without touching the working tree. Passing both restores each
path in both places.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !staged && !worktree {
				worktree = true
			}

			repo, err := findRepository()
			if err != nil {
				return err
			}

			repoRoot := repo.WorkingDirectory()
			indexMgr := index.NewManager(repoRoot)
			if err := indexMgr.Initialize(); err != nil {
				return fmt.Errorf("failed to initialize index: %w", err)
			}

			ctx := context.Background()
			workdirMgr := workdir.NewManager(repo)

			sourceRev := source
			if sourceRev == "" {
				sourceRev = "HEAD"
			}

			var sourceFiles map[scpath.RelativePath]workdir.FileInfo
			sourceSHA, err := revparse.NewResolver(repo).Resolve(sourceRev)
			switch {
			case err != nil && source != "":
				return fmt.Errorf("failed to resolve %q: %w", sourceRev, err)
			case err == nil:
				sourceFiles, err = workdirMgr.ReadCommitFiles(ctx, sourceSHA)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", sourceRev, err)
				}
			}

			idx := indexMgr.GetIndex()
			exitErr := false

			for _, path := range args {
				relPath, err := scpath.NewRelativePath(path)
				if err != nil {
					fmt.Println(ui.ErrorMessage(fmt.Sprintf("error: invalid path %q: %v", path, err)))
					exitErr = true
					continue
				}

				if staged {
					if info, ok := sourceFiles[relPath]; ok {
						if err := indexMgr.SetEntry(relPath, info.SHA, info.Mode); err != nil {
							fmt.Println(ui.ErrorMessage(fmt.Sprintf("error: restore %s to index: %v", relPath, err)))
							exitErr = true
							continue
						}
					} else if err := indexMgr.RemoveEntry(relPath); err != nil {
						fmt.Println(ui.ErrorMessage(fmt.Sprintf("error: unstage %s: %v", relPath, err)))
						exitErr = true
						continue
					}
				}

				if worktree {
					var info workdir.FileInfo
					var ok bool
					if entry, found := idx.Get(relPath); found {
						info, ok = workdir.FileInfo{SHA: entry.BlobHash, Mode: entry.Mode}, true
					} else {
						info, ok = sourceFiles[relPath]
					}

					if !ok {
						fmt.Println(ui.ErrorMessage(fmt.Sprintf("error: pathspec '%s' did not match any tracked files", relPath)))
						exitErr = true
						continue
					}

					if err := workdirMgr.RestoreWorktreeFile(relPath, info); err != nil {
						fmt.Println(ui.ErrorMessage(fmt.Sprintf("error: restore %s: %v", relPath, err)))
						exitErr = true
						continue
					}
				}
			}

			if exitErr {
				return fmt.Errorf("one or more paths failed to restore")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&staged, "staged", "S", false, "Restore the index")
	cmd.Flags().BoolVarP(&worktree, "worktree", "W", false, "Restore the working tree")
	cmd.Flags().StringVar(&source, "source", "", "Restore from this revision instead of HEAD/index")

	return cmd
}
