package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/utkarsh5026/SourceControl/cmd/ui"
	"github.com/utkarsh5026/SourceControl/pkg/commitmanager"
	"github.com/utkarsh5026/SourceControl/pkg/objects/tag"
	"github.com/utkarsh5026/SourceControl/pkg/repository/refs"
	"github.com/utkarsh5026/SourceControl/pkg/revparse"
)

func newTagCmd() *cobra.Command {
	var annotate bool
	var message string
	var deleteTag bool
	var list bool

	cmd := &cobra.Command{
		Use:   "tag [<name>] [<object>]",
		Short: "Create, list, or delete tags",
		Long: `Create a tag pointing at HEAD or a given object.

A lightweight tag is a plain ref; -a creates an annotated tag object that
records a tagger and message. With no name, lists every tag in the
repository.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := findRepository()
			if err != nil {
				return err
			}

			refManager := refs.NewRefManager(repo)

			if deleteTag {
				if len(args) != 1 {
					return fmt.Errorf("tag name required with -d")
				}
				tagRef, err := refs.NewTagRef(args[0])
				if err != nil {
					return err
				}
				existed, err := refManager.DeleteRef(tagRef)
				if err != nil {
					return fmt.Errorf("failed to delete tag: %w", err)
				}
				if !existed {
					return fmt.Errorf("tag %q not found", args[0])
				}
				fmt.Println(ui.SuccessMessage("Deleted tag", args[0]))
				return nil
			}

			if list || len(args) == 0 {
				entries, err := refManager.ListAllRefs()
				if err != nil {
					return fmt.Errorf("failed to list refs: %w", err)
				}

				var names []string
				for _, e := range entries {
					if e.Ref.IsTag() {
						names = append(names, e.Ref.ShortName())
					}
				}
				sort.Strings(names)
				for _, name := range names {
					fmt.Println(name)
				}
				return nil
			}

			name := args[0]
			objectRev := "HEAD"
			if len(args) > 1 {
				objectRev = args[1]
			}

			targetSHA, err := revparse.NewResolver(repo).Resolve(objectRev)
			if err != nil {
				return fmt.Errorf("failed to resolve %q: %w", objectRev, err)
			}

			tagRef, err := refs.NewTagRef(name)
			if err != nil {
				return err
			}
			if exists, _ := refManager.Exists(tagRef); exists {
				return fmt.Errorf("tag %q already exists", name)
			}

			pointAt := targetSHA
			if annotate {
				if message == "" {
					return fmt.Errorf("annotated tag requires a message (use -m)")
				}

				obj, err := repo.ReadObject(targetSHA)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", targetSHA.Short(), err)
				}

				ctx := context.Background()
				commitMgr := commitmanager.NewManager(repo)
				if err := commitMgr.Initialize(ctx); err != nil {
					return fmt.Errorf("failed to initialize commit manager: %w", err)
				}
				tagger, err := commitMgr.GetCurrentUser()
				if err != nil {
					return fmt.Errorf("failed to resolve tagger identity: %w", err)
				}

				tagObj := tag.NewTag(targetSHA, obj.Type(), name, tagger, message)
				tagSHA, err := repo.WriteObject(tagObj)
				if err != nil {
					return fmt.Errorf("failed to write tag object: %w", err)
				}
				pointAt = tagSHA
			}

			if err := refManager.UpdateRef(tagRef, pointAt.String()); err != nil {
				return fmt.Errorf("failed to create tag: %w", err)
			}

			fmt.Println(ui.SuccessMessage("Created tag", name, pointAt.Short().String()))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&annotate, "annotate", "a", false, "Create an annotated tag")
	cmd.Flags().StringVarP(&message, "message", "m", "", "Tag message (for annotated tags)")
	cmd.Flags().BoolVarP(&deleteTag, "delete", "d", false, "Delete a tag")
	cmd.Flags().BoolVarP(&list, "list", "l", false, "List tags")

	return cmd
}
