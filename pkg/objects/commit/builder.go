package commit

import (
	"fmt"

	"github.com/utkarsh5026/SourceControl/pkg/objects"
)

// CommitBuilder provides a fluent interface for assembling a Commit from its
// parts (tree, parents, identities, message) before validating and freezing it.
type CommitBuilder struct {
	commit *Commit
	errs   []error
}

// NewCommitBuilder creates a new CommitBuilder
func NewCommitBuilder() *CommitBuilder {
	return &CommitBuilder{
		commit: &Commit{
			ParentSHAs: make([]objects.ObjectHash, 0),
		},
		errs: make([]error, 0),
	}
}

// Tree sets the tree hash for the commit
func (b *CommitBuilder) Tree(treeSHA objects.ObjectHash) *CommitBuilder {
	if err := treeSHA.Validate(); err != nil {
		b.errs = append(b.errs, fmt.Errorf("invalid tree SHA: %w", err))
	} else {
		b.commit.TreeSHA = treeSHA
	}
	return b
}

// Parent adds a parent hash to the commit
func (b *CommitBuilder) Parent(parentSHA objects.ObjectHash) *CommitBuilder {
	if err := parentSHA.Validate(); err != nil {
		b.errs = append(b.errs, fmt.Errorf("invalid parent SHA: %w", err))
	} else {
		b.commit.ParentSHAs = append(b.commit.ParentSHAs, parentSHA)
	}
	return b
}

// Parents sets multiple parent hashes for the commit
func (b *CommitBuilder) Parents(parentSHAs ...objects.ObjectHash) *CommitBuilder {
	for _, sha := range parentSHAs {
		b.Parent(sha)
	}
	return b
}

// Author sets the author of the commit
func (b *CommitBuilder) Author(author *CommitPerson) *CommitBuilder {
	if author == nil {
		b.errs = append(b.errs, fmt.Errorf("author cannot be nil"))
	} else {
		b.commit.Author = author
	}
	return b
}

// Committer sets the committer of the commit
func (b *CommitBuilder) Committer(committer *CommitPerson) *CommitBuilder {
	if committer == nil {
		b.errs = append(b.errs, fmt.Errorf("committer cannot be nil"))
	} else {
		b.commit.Committer = committer
	}
	return b
}

// Message sets the commit message
func (b *CommitBuilder) Message(message string) *CommitBuilder {
	b.commit.Message = message
	return b
}

// Build creates the Commit, returning an error if validation fails
func (b *CommitBuilder) Build() (*Commit, error) {
	if len(b.errs) > 0 {
		return nil, fmt.Errorf("commit builder errors: %v", b.errs)
	}

	if err := b.commit.Validate(); err != nil {
		return nil, err
	}

	return b.commit, nil
}
