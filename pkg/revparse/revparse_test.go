package revparse

import (
	"os"
	"testing"
	"time"

	scerr "github.com/utkarsh5026/SourceControl/pkg/common/err"
	"github.com/utkarsh5026/SourceControl/pkg/objects"
	"github.com/utkarsh5026/SourceControl/pkg/objects/blob"
	"github.com/utkarsh5026/SourceControl/pkg/objects/commit"
	"github.com/utkarsh5026/SourceControl/pkg/objects/tag"
	"github.com/utkarsh5026/SourceControl/pkg/objects/tree"
	"github.com/utkarsh5026/SourceControl/pkg/repository/refs"
	"github.com/utkarsh5026/SourceControl/pkg/repository/scpath"
	"github.com/utkarsh5026/SourceControl/pkg/repository/sourcerepo"
)

// testRepo bundles the pieces needed to build a small commit graph by hand.
type testRepo struct {
	repo       *sourcerepo.SourceRepository
	refManager *refs.RefManager
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()

	dir := t.TempDir()
	repoPath, err := scpath.NewRepositoryPath(dir)
	if err != nil {
		t.Fatalf("repository path: %v", err)
	}

	repo := sourcerepo.NewSourceRepository()
	if err := repo.Initialize(repoPath); err != nil {
		t.Fatalf("initialize repository: %v", err)
	}

	return &testRepo{repo: repo, refManager: refs.NewRefManager(repo)}
}

func (tr *testRepo) commit(t *testing.T, message string, parents ...objects.ObjectHash) objects.ObjectHash {
	t.Helper()

	b := blob.NewBlob([]byte(message))
	blobSHA, err := tr.repo.WriteObject(b)
	if err != nil {
		t.Fatalf("write blob: %v", err)
	}

	entry, err := tree.NewTreeEntry(objects.FileModeRegular, scpath.RelativePath("file.txt"), blobSHA)
	if err != nil {
		t.Fatalf("tree entry: %v", err)
	}
	tr2 := tree.NewTree([]*tree.TreeEntry{entry})
	treeSHA, err := tr.repo.WriteObject(tr2)
	if err != nil {
		t.Fatalf("write tree: %v", err)
	}

	person, err := commit.NewCommitPerson("Test User", "test@example.com", time.Unix(0, 0))
	if err != nil {
		t.Fatalf("commit person: %v", err)
	}

	builder := commit.NewCommitBuilder().
		Tree(treeSHA).
		Author(person).
		Committer(person).
		Message(message).
		Parents(parents...)

	c, err := builder.Build()
	if err != nil {
		t.Fatalf("build commit: %v", err)
	}

	sha, err := tr.repo.WriteObject(c)
	if err != nil {
		t.Fatalf("write commit: %v", err)
	}
	return sha
}

func (tr *testRepo) setBranch(t *testing.T, name string, sha objects.ObjectHash) {
	t.Helper()
	ref, err := refs.NewBranchRef(name)
	if err != nil {
		t.Fatalf("branch ref: %v", err)
	}
	if err := tr.refManager.UpdateRef(ref, sha.String()); err != nil {
		t.Fatalf("update ref: %v", err)
	}
}

func (tr *testRepo) setHead(t *testing.T, branchName string) {
	t.Helper()
	if err := os.WriteFile(
		tr.refManager.GetHeadPath().String(),
		[]byte("ref: refs/heads/"+branchName+"\n"),
		0644,
	); err != nil {
		t.Fatalf("write HEAD: %v", err)
	}
}

func TestResolveHEAD(t *testing.T) {
	tr := newTestRepo(t)
	first := tr.commit(t, "first")
	second := tr.commit(t, "second", first)
	tr.setBranch(t, "main", second)
	tr.setHead(t, "main")

	resolver := NewResolver(tr.repo)

	got, err := resolver.Resolve("HEAD")
	if err != nil {
		t.Fatalf("resolve HEAD: %v", err)
	}
	if got != second {
		t.Errorf("HEAD = %s, want %s", got, second)
	}
}

func TestResolveFullAndShortHash(t *testing.T) {
	tr := newTestRepo(t)
	first := tr.commit(t, "first")

	resolver := NewResolver(tr.repo)

	got, err := resolver.Resolve(first.String())
	if err != nil {
		t.Fatalf("resolve full hash: %v", err)
	}
	if got != first {
		t.Errorf("full hash = %s, want %s", got, first)
	}

	short := string(first.Short())
	got, err = resolver.Resolve(short)
	if err != nil {
		t.Fatalf("resolve short hash: %v", err)
	}
	if got != first {
		t.Errorf("short hash = %s, want %s", got, first)
	}
}

func TestResolveBranchAndTag(t *testing.T) {
	tr := newTestRepo(t)
	first := tr.commit(t, "first")
	tr.setBranch(t, "feature", first)

	person, err := commit.NewCommitPerson("Tagger", "tagger@example.com", time.Unix(0, 0))
	if err != nil {
		t.Fatalf("commit person: %v", err)
	}
	annotated := tag.NewTag(first, objects.CommitType, "v1.0.0", person, "release")
	if err := annotated.Validate(); err != nil {
		t.Fatalf("validate tag: %v", err)
	}
	tagSHA, err := tr.repo.WriteObject(annotated)
	if err != nil {
		t.Fatalf("write tag: %v", err)
	}
	tagRef, err := refs.NewTagRef("v1.0.0")
	if err != nil {
		t.Fatalf("tag ref: %v", err)
	}
	if err := tr.refManager.UpdateRef(tagRef, tagSHA.String()); err != nil {
		t.Fatalf("update tag ref: %v", err)
	}

	resolver := NewResolver(tr.repo)

	got, err := resolver.Resolve("feature")
	if err != nil {
		t.Fatalf("resolve branch: %v", err)
	}
	if got != first {
		t.Errorf("branch = %s, want %s", got, first)
	}

	got, err = resolver.Resolve("v1.0.0")
	if err != nil {
		t.Fatalf("resolve tag: %v", err)
	}
	if got != first {
		t.Errorf("tag = %s (should dereference to commit), want %s", got, first)
	}
}

func TestResolveParentAndAncestorSuffixes(t *testing.T) {
	tr := newTestRepo(t)
	first := tr.commit(t, "first")
	second := tr.commit(t, "second", first)
	third := tr.commit(t, "third", second)
	tr.setBranch(t, "main", third)
	tr.setHead(t, "main")

	resolver := NewResolver(tr.repo)

	got, err := resolver.Resolve("HEAD^")
	if err != nil {
		t.Fatalf("resolve HEAD^: %v", err)
	}
	if got != second {
		t.Errorf("HEAD^ = %s, want %s", got, second)
	}

	got, err = resolver.Resolve("HEAD^1")
	if err != nil {
		t.Fatalf("resolve HEAD^1: %v", err)
	}
	if got != second {
		t.Errorf("HEAD^1 = %s, want %s", got, second)
	}

	got, err = resolver.Resolve("HEAD~2")
	if err != nil {
		t.Fatalf("resolve HEAD~2: %v", err)
	}
	if got != first {
		t.Errorf("HEAD~2 = %s, want %s", got, first)
	}
}

func TestResolveNotFound(t *testing.T) {
	tr := newTestRepo(t)
	tr.commit(t, "first")

	resolver := NewResolver(tr.repo)

	_, err := resolver.Resolve("does-not-exist")
	if !scerr.IsCode(err, scerr.CodeNotFound) {
		t.Errorf("expected NOT_FOUND for unknown ref, got %v", err)
	}

	_, err = resolver.Resolve("HEAD")
	if !scerr.IsCode(err, scerr.CodeNotFound) {
		t.Errorf("expected NOT_FOUND resolving HEAD with no branch checked out, got %v", err)
	}
}

func TestResolveAmbiguousRefAndShortHash(t *testing.T) {
	tr := newTestRepo(t)
	first := tr.commit(t, "first")
	second := tr.commit(t, "second", first)
	tr.setBranch(t, "main", second)
	tr.setHead(t, "main")

	// Name a branch after a short prefix of another object's hash so the
	// same atom resolves both as a ref and as a short object hash.
	prefix := first.String()[:4]
	tr.setBranch(t, prefix, second)

	resolver := NewResolver(tr.repo)
	if _, err := resolver.Resolve(prefix); !scerr.IsCode(err, scerr.CodeAmbiguous) {
		t.Errorf("expected AMBIGUOUS when a ref name and a short hash both match, got %v", err)
	}
}

func TestResolveMissingParent(t *testing.T) {
	tr := newTestRepo(t)
	first := tr.commit(t, "only commit")
	tr.setBranch(t, "main", first)
	tr.setHead(t, "main")

	resolver := NewResolver(tr.repo)

	if _, err := resolver.Resolve("HEAD^"); err == nil {
		t.Error("expected error resolving HEAD^ on a root commit")
	}
}
