package workdir

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/utkarsh5026/SourceControl/pkg/index"
	"github.com/utkarsh5026/SourceControl/pkg/objects"
	"github.com/utkarsh5026/SourceControl/pkg/repository/scpath"
)

// StagedKind describes how a path differs between the HEAD tree and the index.
type StagedKind int

const (
	// StagedAdded means the path exists in the index but not in HEAD.
	StagedAdded StagedKind = iota
	// StagedModified means the path exists in both but content or mode differs.
	StagedModified
	// StagedDeleted means the path exists in HEAD but has been removed from the index.
	StagedDeleted
)

// String returns the short label used by status-style command output.
func (k StagedKind) String() string {
	switch k {
	case StagedAdded:
		return "new file"
	case StagedModified:
		return "modified"
	case StagedDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// StagedChange describes a single path's difference between HEAD and the index.
type StagedChange struct {
	Path scpath.RelativePath
	Kind StagedKind
}

// ThreeWayStatus is the full working-directory status: HEAD tree vs index
// (staged changes) and index vs working directory (unstaged changes and
// untracked files).
type ThreeWayStatus struct {
	Staged           []StagedChange
	ModifiedUnstaged []scpath.RelativePath
	DeletedUnstaged  []scpath.RelativePath
	Untracked        []scpath.RelativePath
	Clean            bool
}

// ThreeWayStatus compares the HEAD commit's tree, the index, and the working
// directory, classifying every path into staged and unstaged changes plus
// untracked files. Pass an empty headCommitSHA for an unborn branch (HEAD
// has no commit yet), in which case every indexed path is reported as added.
func (m *Manager) ThreeWayStatus(ctx context.Context, headCommitSHA objects.ObjectHash) (ThreeWayStatus, error) {
	idx, err := index.Read(m.indexPath)
	if err != nil {
		return ThreeWayStatus{}, NewIndexError("read", m.indexPath.String(), err)
	}

	headFiles := map[scpath.RelativePath]FileInfo{}
	if headCommitSHA != "" {
		headFiles, err = m.treeAnalyzer.GetCommitFiles(ctx, headCommitSHA)
		if err != nil {
			return ThreeWayStatus{}, fmt.Errorf("read HEAD tree: %w", err)
		}
	}
	indexFiles := m.treeAnalyzer.GetIndexFiles(idx)

	unstaged, err := m.validator.ValidateCleanState(idx)
	if err != nil {
		return ThreeWayStatus{}, err
	}

	untracked, err := m.findUntrackedFiles(idx)
	if err != nil {
		return ThreeWayStatus{}, err
	}

	staged := diffStaged(headFiles, indexFiles)

	return ThreeWayStatus{
		Staged:           staged,
		ModifiedUnstaged: unstaged.ModifiedFiles,
		DeletedUnstaged:  unstaged.DeletedFiles,
		Untracked:        untracked,
		Clean:            len(staged) == 0 && unstaged.Clean && len(untracked) == 0,
	}, nil
}

// diffStaged compares the HEAD tree's file map against the index's file map.
func diffStaged(head, idx map[scpath.RelativePath]FileInfo) []StagedChange {
	var changes []StagedChange

	for path, indexInfo := range idx {
		headInfo, existed := head[path]
		switch {
		case !existed:
			changes = append(changes, StagedChange{Path: path, Kind: StagedAdded})
		case headInfo.SHA != indexInfo.SHA || headInfo.Mode != indexInfo.Mode:
			changes = append(changes, StagedChange{Path: path, Kind: StagedModified})
		}
	}

	for path := range head {
		if _, exists := idx[path]; !exists {
			changes = append(changes, StagedChange{Path: path, Kind: StagedDeleted})
		}
	}

	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	return changes
}

// findUntrackedFiles walks the working directory looking for files that
// exist on disk but have no corresponding index entry. The .git directory
// is never descended into.
func (m *Manager) findUntrackedFiles(idx *index.Index) ([]scpath.RelativePath, error) {
	workDir := m.repo.WorkingDirectory()
	var untracked []scpath.RelativePath

	err := filepath.Walk(workDir.String(), func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path == workDir.String() {
			return nil
		}

		if info.IsDir() {
			if info.Name() == scpath.SourceDir {
				return filepath.SkipDir
			}
			return nil
		}

		relPath, err := scpath.AbsolutePath(path).RelativeTo(workDir)
		if err != nil {
			return fmt.Errorf("relativize %s: %w", path, err)
		}

		if !idx.Has(relPath) {
			untracked = append(untracked, relPath)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk working directory: %w", err)
	}

	sort.Slice(untracked, func(i, j int) bool { return untracked[i] < untracked[j] })
	return untracked, nil
}
