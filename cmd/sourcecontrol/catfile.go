package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/utkarsh5026/SourceControl/pkg/revparse"
)

func newCatFileCmd() *cobra.Command {
	var showType bool
	var showSize bool
	var pretty bool

	cmd := &cobra.Command{
		Use:   "cat-file (-t | -s | -p) <object>",
		Short: "Inspect a single object's type, size, or content",
		Long: `Print information about an object in the repository's object database.
<object> may be a full or abbreviated hash, a branch or tag name, or HEAD.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !showType && !showSize && !pretty {
				return fmt.Errorf("exactly one of -t, -s, or -p is required")
			}

			repo, err := findRepository()
			if err != nil {
				return err
			}

			hash, err := revparse.NewResolver(repo).Resolve(args[0])
			if err != nil {
				return fmt.Errorf("failed to resolve %q: %w", args[0], err)
			}

			obj, err := repo.ReadObject(hash)
			if err != nil {
				return fmt.Errorf("failed to read object %s: %w", hash.Short(), err)
			}

			switch {
			case showType:
				fmt.Println(obj.Type())
			case showSize:
				size, err := obj.Size()
				if err != nil {
					return fmt.Errorf("failed to compute size: %w", err)
				}
				fmt.Println(size.Int64())
			case pretty:
				content, err := obj.Content()
				if err != nil {
					return fmt.Errorf("failed to read content: %w", err)
				}
				fmt.Println(content.String())
			}

			return nil
		},
	}

	cmd.Flags().BoolVarP(&showType, "type", "t", false, "Show the object's type")
	cmd.Flags().BoolVarP(&showSize, "size", "s", false, "Show the object's size in bytes")
	cmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "Pretty-print the object's content")

	return cmd
}
