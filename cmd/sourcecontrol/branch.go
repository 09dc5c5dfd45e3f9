package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/utkarsh5026/SourceControl/pkg/refs/branch"
)

func newSwitchCmd() *cobra.Command {
	var createBranch bool
	var force bool
	var orphan bool
	var detach bool

	cmd := &cobra.Command{
		Use:   "switch <branch-name|commit-sha>",
		Short: "Switch branches or move HEAD to a commit",
		Long: `Switch to a different branch or detach HEAD at a specific commit.

Examples:
  # Switch to an existing branch
  srcc switch main

  # Create and switch to a new branch
  srcc switch -c feature-name

  # Create and switch to a new branch from a specific commit
  srcc switch -c new-branch abc123

  # Detach HEAD at a specific commit
  srcc switch --detach abc123

  # Force switch, discarding local changes
  srcc switch -f branch-name

  # Create an orphan branch (no parent commits)
  srcc switch --orphan new-root`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := args[0]

			repo, err := findRepository()
			if err != nil {
				return err
			}

			manager := branch.NewManager(repo)
			ctx := context.Background()

			var opts []branch.CheckoutOption

			if force {
				opts = append(opts, branch.WithForceCheckout())
			}
			if createBranch {
				opts = append(opts, branch.WithCreateBranch())
			}
			if orphan {
				opts = append(opts, branch.WithOrphan())
			}
			if detach {
				opts = append(opts, branch.WithDetach())
			}

			if err := manager.Checkout(ctx, target, opts...); err != nil {
				return fmt.Errorf("switch failed: %w", err)
			}

			switch {
			case orphan:
				fmt.Printf("Switched to a new orphan branch '%s'\n", target)
			case createBranch:
				fmt.Printf("Switched to a new branch '%s'\n", target)
			case detach:
				fmt.Printf("HEAD is now at %s\n", target)
			default:
				detached, _ := manager.IsDetached()
				if detached {
					commitSHA, _ := manager.CurrentCommit()
					fmt.Printf("HEAD is now at %s\n", commitSHA.Short())
				} else {
					fmt.Printf("Switched to branch '%s'\n", target)
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVarP(&createBranch, "create", "c", false, "Create a new branch and switch to it")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Force switch (discard local changes)")
	cmd.Flags().BoolVar(&orphan, "orphan", false, "Create a new orphan branch")
	cmd.Flags().BoolVarP(&detach, "detach", "d", false, "Detach HEAD at the given commit")

	return cmd
}
