package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/utkarsh5026/SourceControl/pkg/objects"
	"github.com/utkarsh5026/SourceControl/pkg/objects/blob"
	"github.com/utkarsh5026/SourceControl/pkg/store"
)

func newHashObjectCmd() *cobra.Command {
	var write bool
	var objType string

	cmd := &cobra.Command{
		Use:   "hash-object <path>",
		Short: "Compute the object hash for a file",
		Long: `Read a file from disk, compute the hash it would have as a Git object,
and optionally write it to the object database.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := objects.ParseObjectType(objType); err != nil {
				return err
			}
			if objType != string(objects.BlobType) {
				return fmt.Errorf("only blob objects can be hashed from a working tree file")
			}

			content, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			b := blob.NewBlob(content)

			if write {
				repo, err := findRepository()
				if err != nil {
					return err
				}

				objectStore := store.NewFileObjectStore()
				if err := objectStore.Initialize(repo.WorkingDirectory()); err != nil {
					return fmt.Errorf("failed to initialize object store: %w", err)
				}

				hash, err := objectStore.WriteObject(b)
				if err != nil {
					return fmt.Errorf("failed to write object: %w", err)
				}
				fmt.Println(hash)
				return nil
			}

			hash, err := b.Hash()
			if err != nil {
				return fmt.Errorf("failed to compute hash: %w", err)
			}
			fmt.Println(hash)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "Write the object to the repository's object database")
	cmd.Flags().StringVarP(&objType, "type", "t", "blob", "Object type (only blob is supported)")

	return cmd
}
