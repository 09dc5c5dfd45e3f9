package workdir

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	scerr "github.com/utkarsh5026/SourceControl/pkg/common/err"
	"github.com/utkarsh5026/SourceControl/pkg/index"
	"github.com/utkarsh5026/SourceControl/pkg/objects"
	"github.com/utkarsh5026/SourceControl/pkg/repository/refs"
	"github.com/utkarsh5026/SourceControl/pkg/repository/scpath"
	"github.com/utkarsh5026/SourceControl/pkg/repository/sourcerepo"
	"github.com/utkarsh5026/SourceControl/pkg/workdir/internal"
)

// Manager handles updating the working directory when switching between branches or commits.
// It orchestrates file operations, validation, transactions, and index updates.
type Manager struct {
	repo         *sourcerepo.SourceRepository
	fileOps      *internal.FileOps
	treeAnalyzer *internal.Analyzer
	validator    *internal.Validator
	transaction  *internal.Manager
	indexer      *internal.IndexUpdater
	indexPath    scpath.AbsolutePath
	workDir      string
}

// NewManager creates a new working directory manager
func NewManager(repo *sourcerepo.SourceRepository) *Manager {
	workDir := repo.WorkingDirectory().String()
	sourceDir := repo.SourceDirectory()
	indexPath := sourceDir.IndexPath().ToAbsolutePath()

	fileService := internal.NewFileOps(repo)
	treeAnalyzer := internal.NewAnalyzer(repo)
	workDirValidator := internal.NewValidator(repo.WorkingDirectory())
	txnManager := internal.NewManager(fileService, sourceDir)
	indexUpdater := internal.NewUpdater(workDir, indexPath)

	return &Manager{
		repo:         repo,
		fileOps:      fileService,
		treeAnalyzer: treeAnalyzer,
		validator:    workDirValidator,
		transaction:  txnManager,
		indexer:      indexUpdater,
		indexPath:    indexPath,
		workDir:      workDir,
	}
}

// UpdateToCommit updates the working directory to match a specific commit.
// It performs safety checks, analyzes changes, executes operations atomically,
// and updates the index.
func (m *Manager) UpdateToCommit(ctx context.Context, commitSHA objects.ObjectHash, opts ...Option) (UpdateResult, error) {
	config := &updateConfig{}
	for _, opt := range opts {
		opt(config)
	}

	if !config.force {
		if err := m.performSafetyChecks(ctx); err != nil {
			return UpdateResult{
				Success: false,
				Err:     err,
			}, err
		}
	}

	analysis, err := m.analyzeChanges(ctx, commitSHA)
	if err != nil {
		return UpdateResult{
			Success: false,
			Err:     fmt.Errorf("analyze changes: %w", err),
		}, err
	}

	if len(analysis.Operations) == 0 {
		return UpdateResult{
			Success:      true,
			FilesChanged: 0,
			Operations:   []Operation{},
		}, nil
	}

	if config.dryRun {
		return m.performDryRun(analysis.Operations), nil
	}

	txnResult := m.transaction.ExecuteAtomically(ctx, analysis.Operations)
	if !txnResult.Success {
		return UpdateResult{
			Success:      false,
			FilesChanged: txnResult.OperationsApplied,
			Operations:   analysis.Operations,
			Err:          txnResult.Err,
		}, txnResult.Err
	}

	internalResult, err := m.indexer.UpdateToMatch(analysis.TargetFiles)
	if err != nil || !internalResult.Success {
		indexResult := internalResult
		return UpdateResult{
			Success:      true,
			FilesChanged: txnResult.OperationsApplied,
			Operations:   analysis.Operations,
			IndexUpdate:  &indexResult,
			Err:          nil, // Success despite index issue
		}, nil
	}

	indexResult := internalResult
	return UpdateResult{
		Success:      true,
		FilesChanged: txnResult.OperationsApplied,
		Operations:   analysis.Operations,
		IndexUpdate:  &indexResult,
	}, nil
}

// RestoreWorktreeFile overwrites a single working directory file with the
// blob content identified by info, creating parent directories as needed.
func (m *Manager) RestoreWorktreeFile(path scpath.RelativePath, info FileInfo) error {
	return m.fileOps.ApplyOperation(Operation{
		Path:   path,
		Action: ActionModify,
		SHA:    info.SHA,
		Mode:   info.Mode,
	})
}

// ReadCommitFiles returns every file in commitSHA's tree, keyed by its path
// relative to the working directory root.
func (m *Manager) ReadCommitFiles(ctx context.Context, commitSHA objects.ObjectHash) (map[scpath.RelativePath]FileInfo, error) {
	return m.treeAnalyzer.GetCommitFiles(ctx, commitSHA)
}

// IsClean checks if the working directory has uncommitted changes
func (m *Manager) IsClean() (Status, error) {
	idx, err := index.Read(m.indexPath)
	if err != nil {
		return Status{}, NewIndexError("read", m.indexPath.String(), err)
	}

	internalStatus, err := m.validator.ValidateCleanState(idx)
	if err != nil {
		return Status{}, err
	}
	return internalStatus, nil
}

// performSafetyChecks verifies both the HEAD-tree-to-index diff (staged
// changes) and the index-to-working-directory diff (unstaged changes) are
// clean before making changes, refusing with CodeDirty otherwise. Untracked
// files never block: they appear in neither diff.
func (m *Manager) performSafetyChecks(ctx context.Context) error {
	var headSHA objects.ObjectHash
	if sha, err := refs.NewRefManager(m.repo).ResolveToSHA(refs.RefHEAD); err == nil {
		headSHA = objects.ObjectHash(sha)
	}

	status, err := m.ThreeWayStatus(ctx, headSHA)
	if err != nil {
		return fmt.Errorf("check working directory: %w", err)
	}

	if len(status.Staged) == 0 && len(status.ModifiedUnstaged) == 0 && len(status.DeletedUnstaged) == 0 {
		return nil
	}

	stagedPaths := make([]scpath.RelativePath, 0, len(status.Staged))
	for _, change := range status.Staged {
		stagedPaths = append(stagedPaths, change.Path)
	}

	const dirtyMessage = "error: Your local changes to the following files would be overwritten by checkout"
	return scerr.New("workdir", scerr.CodeDirty, "switch", "",
		NewValidationErrorWithStaged(dirtyMessage, stagedPaths, status.ModifiedUnstaged, status.DeletedUnstaged),
	)
}

// analyzeChanges determines what operations are needed to reach the target commit.
// It fetches commit files and reads the index concurrently for better performance.
func (m *Manager) analyzeChanges(ctx context.Context, commitSHA objects.ObjectHash) (ChangeAnalysis, error) {
	var change ChangeAnalysis
	var targetFiles map[scpath.RelativePath]internal.FileInfo
	var idx *index.Index

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		files, err := m.treeAnalyzer.GetCommitFiles(ctx, commitSHA)
		if err != nil {
			return fmt.Errorf("get commit files: %w", err)
		}
		targetFiles = files
		return nil
	})

	g.Go(func() error {
		indexData, err := index.Read(m.indexPath)
		if err != nil {
			return fmt.Errorf("read index: %w", err)
		}
		idx = indexData
		return nil
	})

	if err := g.Wait(); err != nil {
		return change, err
	}

	currentFiles := m.treeAnalyzer.GetIndexFiles(idx)
	return m.treeAnalyzer.AnalyzeChanges(currentFiles, targetFiles), nil
}

// performDryRun analyzes what would change without making actual modifications
func (m *Manager) performDryRun(ops []internal.Operation) UpdateResult {
	dryRunResult := m.transaction.DryRun(ops)

	return UpdateResult{
		Success:      dryRunResult.Valid,
		FilesChanged: 0,
		Operations:   ops,
		Err:          nil,
	}
}

// updateConfig holds configuration for update operations
type updateConfig struct {
	force      bool
	dryRun     bool
	onProgress func(completed, total int, currentFile string)
}

type Option func(*updateConfig)

// WithForce bypasses safety checks for uncommitted changes
func WithForce() Option {
	return func(c *updateConfig) {
		c.force = true
	}
}

// WithDryRun analyzes what would change without making modifications
func WithDryRun() Option {
	return func(c *updateConfig) {
		c.dryRun = true
	}
}

// WithProgress sets a progress callback
func WithProgress(fn func(completed, total int, currentFile string)) Option {
	return func(c *updateConfig) {
		c.onProgress = fn
	}
}
