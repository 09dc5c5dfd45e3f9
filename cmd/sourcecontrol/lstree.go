package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/utkarsh5026/SourceControl/pkg/objects"
	"github.com/utkarsh5026/SourceControl/pkg/repository/scpath"
	"github.com/utkarsh5026/SourceControl/pkg/repository/sourcerepo"
	"github.com/utkarsh5026/SourceControl/pkg/revparse"
)

func newLsTreeCmd() *cobra.Command {
	var recursive bool

	cmd := &cobra.Command{
		Use:   "ls-tree <rev>",
		Short: "List the contents of a tree object",
		Long: `Show the entries of the tree belonging to the given revision.
With -r, recurse into subtrees and show only blobs, with the full path
relative to the tree root.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := findRepository()
			if err != nil {
				return err
			}

			commitSHA, err := revparse.NewResolver(repo).Resolve(args[0])
			if err != nil {
				return fmt.Errorf("failed to resolve %q: %w", args[0], err)
			}

			c, err := repo.ReadCommitObject(commitSHA)
			if err != nil {
				return fmt.Errorf("failed to read commit %s: %w", commitSHA.Short(), err)
			}

			return listTree(repo, c.TreeSHA, scpath.RelativePath(""), recursive)
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Recurse into subtrees")

	return cmd
}

// listTree prints one tree's entries, recursing into subtrees when
// recursive is set. basePath is prepended to every printed path.
func listTree(repo *sourcerepo.SourceRepository, treeSHA objects.ObjectHash, basePath scpath.RelativePath, recursive bool) error {
	t, err := repo.ReadTreeObject(treeSHA)
	if err != nil {
		return fmt.Errorf("failed to read tree %s: %w", treeSHA.Short(), err)
	}

	for _, e := range t.Entries() {
		var fullPath scpath.RelativePath
		if basePath == "" {
			fullPath = scpath.RelativePath(e.Name())
		} else {
			fullPath = basePath.Join(e.Name())
		}

		if e.IsDirectory() {
			if recursive {
				if err := listTree(repo, e.SHA(), fullPath, true); err != nil {
					return err
				}
				continue
			}
			fmt.Printf("%s tree %s\t%s\n", e.Mode().ToOctalString(), e.SHA(), fullPath)
			continue
		}

		objType := "blob"
		fmt.Printf("%s %s %s\t%s\n", e.Mode().ToOctalString(), objType, e.SHA(), fullPath)
	}

	return nil
}
