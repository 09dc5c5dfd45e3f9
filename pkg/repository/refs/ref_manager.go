package refs

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/utkarsh5026/SourceControl/pkg/common/fileops"
	"github.com/utkarsh5026/SourceControl/pkg/repository/scpath"
	"github.com/utkarsh5026/SourceControl/pkg/repository/sourcerepo"
)

const (
	// SymbolicRefPrefix is the prefix for symbolic references
	SymbolicRefPrefix = "ref: "

	// MaxRefDepth is the maximum depth for resolving symbolic references
	MaxRefDepth = 10
)

// RefManager handles Git references (refs) - human-readable names for commits
type RefManager struct {
	refsPath scpath.SourcePath
	headPath scpath.SourcePath
}

// NewRefManager creates a new reference manager for the given repository
func NewRefManager(repo sourcerepo.Repository) *RefManager {
	sourceDir := repo.SourceDirectory()
	return &RefManager{
		refsPath: sourceDir.RefsPath(),
		headPath: sourceDir.HeadPath(),
	}
}

// Init initializes the ref manager by creating the refs directory and HEAD file
func (rm *RefManager) Init() error {
	if err := os.MkdirAll(rm.refsPath.String(), 0755); err != nil {
		return fmt.Errorf("failed to create refs directory: %w", err)
	}

	defaultRef := "ref: refs/heads/main\n"
	if err := fileops.AtomicWrite(rm.headPath.ToAbsolutePath(), []byte(defaultRef), 0644); err != nil {
		return fmt.Errorf("failed to create HEAD file: %w", err)
	}

	return nil
}

// ReadRef reads a reference and returns its content
func (rm *RefManager) ReadRef(ref RefPath) (string, error) {
	fullPath := rm.resolveReferencePath(ref)

	data, err := os.ReadFile(fullPath.String())
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("ref %s not found", ref)
		}
		return "", fmt.Errorf("error reading ref %s: %w", ref, err)
	}

	return strings.TrimSpace(string(data)), nil
}

// UpdateRef updates a reference with a new SHA-1 hash
func (rm *RefManager) UpdateRef(ref RefPath, sha string) error {
	fullPath := rm.resolveReferencePath(ref)

	// Create parent directories if needed
	if err := os.MkdirAll(filepath.Dir(fullPath.String()), 0755); err != nil {
		return fmt.Errorf("failed to create ref directory: %w", err)
	}

	content := sha + "\n"
	if err := fileops.AtomicWrite(fullPath.ToAbsolutePath(), []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write ref %s: %w", ref, err)
	}

	return nil
}

// ResolveToSHA resolves a reference to its final SHA-1 hash, following symbolic refs
func (rm *RefManager) ResolveToSHA(ref RefPath) (string, error) {
	currentRef := ref

	for depth := 0; depth < MaxRefDepth; depth++ {
		content, err := rm.ReadRef(currentRef)
		if err != nil {
			return "", fmt.Errorf("error reading ref %s: %w", currentRef, err)
		}

		// Check if it's a symbolic reference
		if strings.HasPrefix(content, SymbolicRefPrefix) {
			target := strings.TrimPrefix(content, SymbolicRefPrefix)
			currentRef = RefPath(target)
			continue
		}

		// Check if it's a valid SHA-1
		if isSHA1(content) {
			return content, nil
		}

		return "", fmt.Errorf("invalid ref content: %s", content)
	}

	return "", fmt.Errorf("reference depth exceeded for %s", ref)
}

// DeleteRef deletes a reference
func (rm *RefManager) DeleteRef(ref RefPath) (bool, error) {
	fullPath := rm.resolveReferencePath(ref)

	if err := os.Remove(fullPath.String()); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// Exists checks if a reference exists
func (rm *RefManager) Exists(ref RefPath) (bool, error) {
	fullPath := rm.resolveReferencePath(ref)
	_, err := os.Stat(fullPath.String())
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// RefEntry pairs a reference path with the SHA-1 it currently points to.
type RefEntry struct {
	Ref RefPath
	SHA string
}

// ListAllRefs enumerates every ref under refs/heads and refs/tags, loose
// files taking precedence over any matching entry in packed-refs.
func (rm *RefManager) ListAllRefs() ([]RefEntry, error) {
	seen := make(map[RefPath]bool)
	var entries []RefEntry

	for _, sub := range []string{"heads", "tags"} {
		loose, err := rm.listLooseRefs(sub)
		if err != nil {
			return nil, err
		}
		for _, e := range loose {
			seen[e.Ref] = true
			entries = append(entries, e)
		}
	}

	packed, err := rm.readPackedRefs()
	if err != nil {
		return nil, err
	}
	for _, e := range packed {
		if !seen[e.Ref] {
			entries = append(entries, e)
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Ref < entries[j].Ref })
	return entries, nil
}

// listLooseRefs walks refs/<sub> collecting plain-file refs. Nested refs
// (e.g. refs/heads/feature/x) are supported since the directory is walked
// recursively.
func (rm *RefManager) listLooseRefs(sub string) ([]RefEntry, error) {
	base := rm.refsPath.Join(sub)
	var entries []RefEntry

	err := filepath.Walk(base.String(), func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if info.IsDir() {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read ref %s: %w", path, err)
		}

		content := strings.TrimSpace(string(data))
		if !isSHA1(content) {
			return nil
		}

		rel, err := filepath.Rel(rm.refsPath.String(), path)
		if err != nil {
			return err
		}
		refPath := RefPath(scpath.RefsDir + "/" + filepath.ToSlash(rel))
		entries = append(entries, RefEntry{Ref: refPath, SHA: content})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// readPackedRefs parses the optional packed-refs file at the root of the
// source directory. Lines beginning with '#' are comments; lines beginning
// with '^' annotate the peeled SHA of the preceding tag and are skipped.
func (rm *RefManager) readPackedRefs() ([]RefEntry, error) {
	packedPath := rm.refsPath.Dir().Join("packed-refs")

	data, err := os.ReadFile(packedPath.String())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read packed-refs: %w", err)
	}

	var entries []RefEntry
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "^") {
			continue
		}

		parts := strings.SplitN(line, " ", 2)
		if len(parts) != 2 {
			continue
		}
		sha, refName := parts[0], parts[1]
		if !isSHA1(sha) {
			continue
		}
		entries = append(entries, RefEntry{Ref: RefPath(refName), SHA: sha})
	}

	return entries, nil
}

// GetHeadPath returns the full path to the HEAD file
func (rm *RefManager) GetHeadPath() scpath.SourcePath {
	return rm.headPath
}

// GetRefsPath returns the full path to the refs directory
func (rm *RefManager) GetRefsPath() scpath.SourcePath {
	return rm.refsPath
}

// resolveReferencePath resolves a RefPath to its full filesystem path
func (rm *RefManager) resolveReferencePath(ref RefPath) scpath.SourcePath {
	refStr := strings.TrimSpace(ref.String())

	// Handle HEAD reference
	if refStr == scpath.HeadFile {
		return rm.headPath
	}

	// If ref starts with "refs/", don't duplicate the refs root
	if strings.HasPrefix(refStr, scpath.RefsDir+"/") {
		// Remove the "refs/" prefix and join with refsPath
		relPath := strings.TrimPrefix(refStr, scpath.RefsDir+"/")
		return rm.refsPath.Join(relPath)
	}

	// Otherwise, join directly with refsPath
	return rm.refsPath.Join(refStr)
}

// isSHA1 checks if a string is a valid SHA-1 hash
func isSHA1(str string) bool {
	sha1Regex := regexp.MustCompile(`^[0-9a-f]{40}$`)
	return sha1Regex.MatchString(strings.ToLower(str))
}
