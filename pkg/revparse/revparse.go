// Package revparse turns revision expressions like HEAD, a branch name, a
// short or full object hash, or one of those suffixed with ^[n]/~n into the
// commit hash they name.
package revparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	scerr "github.com/utkarsh5026/SourceControl/pkg/common/err"
	"github.com/utkarsh5026/SourceControl/pkg/objects"
	"github.com/utkarsh5026/SourceControl/pkg/objects/tag"
	"github.com/utkarsh5026/SourceControl/pkg/repository/refs"
	"github.com/utkarsh5026/SourceControl/pkg/repository/sourcerepo"
)

const pkgTag = "revparse"

// Resolver resolves revision expressions against a repository's refs and
// object store.
type Resolver struct {
	repo       *sourcerepo.SourceRepository
	refManager *refs.RefManager
}

// NewResolver creates a Resolver bound to repo.
func NewResolver(repo *sourcerepo.SourceRepository) *Resolver {
	return &Resolver{
		repo:       repo,
		refManager: refs.NewRefManager(repo),
	}
}

// suffix is a single "^[n]" or "~n" modifier following the atom.
type suffix struct {
	kind byte // '^' or '~'
	n    int
}

var suffixToken = regexp.MustCompile(`^(\^[0-9]*|~[0-9]+)`)

// Resolve parses expr according to the grammar `rev := atom suffix*` and
// returns the object hash it names. The returned hash is always a commit,
// dereferencing any resolved tag automatically.
func (r *Resolver) Resolve(expr string) (objects.ObjectHash, error) {
	atom, suffixes, err := splitAtomAndSuffixes(expr)
	if err != nil {
		return "", badRevision(expr, err)
	}

	sha, err := r.resolveAtom(atom)
	if err != nil {
		return "", err
	}

	sha, err = r.dereferenceToCommit(sha)
	if err != nil {
		return "", badRevision(expr, err)
	}

	for _, suf := range suffixes {
		sha, err = r.applySuffix(sha, suf)
		if err != nil {
			return "", badRevision(expr, err)
		}
	}

	return sha, nil
}

// splitAtomAndSuffixes separates the leading atom from its trailing
// ^[n]/~n modifiers. The atom itself is never allowed to contain '^' or '~'.
func splitAtomAndSuffixes(expr string) (string, []suffix, error) {
	idx := strings.IndexAny(expr, "^~")
	if idx == -1 {
		return expr, nil, nil
	}

	atom := expr[:idx]
	rest := expr[idx:]
	var suffixes []suffix

	for len(rest) > 0 {
		m := suffixToken.FindString(rest)
		if m == "" {
			return "", nil, fmt.Errorf("invalid suffix %q in %q", rest, expr)
		}

		switch m[0] {
		case '^':
			n := 1
			if len(m) > 1 {
				v, err := strconv.Atoi(m[1:])
				if err != nil {
					return "", nil, fmt.Errorf("invalid parent number in %q", expr)
				}
				n = v
			}
			suffixes = append(suffixes, suffix{kind: '^', n: n})
		case '~':
			v, err := strconv.Atoi(m[1:])
			if err != nil {
				return "", nil, fmt.Errorf("invalid ancestor count in %q", expr)
			}
			suffixes = append(suffixes, suffix{kind: '~', n: v})
		}

		rest = rest[len(m):]
	}

	return atom, suffixes, nil
}

// resolveAtom resolves the bare atom: HEAD, a full hex hash, an abbreviated
// hex hash (minimum 4 characters), or a ref name.
func (r *Resolver) resolveAtom(atom string) (objects.ObjectHash, error) {
	if atom == "" {
		return "", badRevision(atom, fmt.Errorf("empty revision"))
	}

	if atom == "HEAD" {
		sha, err := r.refManager.ResolveToSHA(refs.RefHEAD)
		if err != nil {
			return "", notFound(atom, err)
		}
		return objects.NewObjectHashFromString(sha)
	}

	if isHex(atom) {
		if len(atom) == objects.HashLength {
			hash, err := objects.NewObjectHashFromString(atom)
			if err != nil {
				return "", badRevision(atom, err)
			}
			exists, err := r.repo.ObjectStore().HasObject(hash)
			if err != nil {
				return "", ioErr(atom, err)
			}
			if !exists {
				return "", notFound(atom, fmt.Errorf("object not found"))
			}
			return hash, nil
		}

		if len(atom) >= 4 {
			shortHash, shortErr := r.repo.ObjectStore().ResolveShort(atom)
			if scerr.IsCode(shortErr, scerr.CodeAmbiguous) {
				return "", shortErr
			}
			shortFound := shortErr == nil

			refHash, refErr := r.resolveRefname(atom)
			refFound := refErr == nil

			switch {
			case shortFound && refFound:
				return "", ambiguous(atom, fmt.Errorf("matches both an object prefix and a ref name"))
			case shortFound:
				return shortHash, nil
			case refFound:
				return refHash, nil
			default:
				return "", refErr
			}
		}
	}

	return r.resolveRefname(atom)
}

// resolveRefname looks a name up in refs/heads, refs/tags, then refs/
// verbatim, loose refs and packed-refs alike.
func (r *Resolver) resolveRefname(name string) (objects.ObjectHash, error) {
	entries, err := r.refManager.ListAllRefs()
	if err != nil {
		return "", ioErr(name, err)
	}

	index := make(map[string]string, len(entries))
	for _, e := range entries {
		index[e.Ref.String()] = e.SHA
	}

	for _, candidate := range []string{"refs/heads/" + name, "refs/tags/" + name, "refs/" + name} {
		if sha, ok := index[candidate]; ok {
			return objects.NewObjectHashFromString(sha)
		}
	}

	return "", notFound(name, fmt.Errorf("unknown revision or path not in the working tree"))
}

// dereferenceToCommit follows an annotated tag's object pointer until it
// reaches a commit. Non-tag objects are returned unchanged.
func (r *Resolver) dereferenceToCommit(sha objects.ObjectHash) (objects.ObjectHash, error) {
	for i := 0; i < refs.MaxRefDepth; i++ {
		obj, err := r.repo.ReadObject(sha)
		if err != nil {
			return "", err
		}

		t, ok := obj.(*tag.Tag)
		if !ok {
			return sha, nil
		}
		sha = t.ObjectSHA
	}
	return "", fmt.Errorf("tag dereference depth exceeded for %s", sha.Short())
}

// applySuffix walks one ^[n] or ~n modifier from sha.
func (r *Resolver) applySuffix(sha objects.ObjectHash, suf suffix) (objects.ObjectHash, error) {
	switch suf.kind {
	case '^':
		if suf.n == 0 {
			return sha, nil
		}
		c, err := r.repo.ReadCommitObject(sha)
		if err != nil {
			return "", fmt.Errorf("%s: not a commit: %w", sha.Short(), err)
		}
		if suf.n > len(c.ParentSHAs) {
			return "", fmt.Errorf("%s has no parent %d", sha.Short(), suf.n)
		}
		return c.ParentSHAs[suf.n-1], nil

	case '~':
		current := sha
		for i := 0; i < suf.n; i++ {
			c, err := r.repo.ReadCommitObject(current)
			if err != nil {
				return "", fmt.Errorf("%s: not a commit: %w", current.Short(), err)
			}
			if len(c.ParentSHAs) == 0 {
				return "", fmt.Errorf("%s has no parent", current.Short())
			}
			current = c.ParentSHAs[0]
		}
		return current, nil

	default:
		return "", fmt.Errorf("unknown suffix kind %q", suf.kind)
	}
}

// isHex reports whether s contains only lowercase or uppercase hex digits.
func isHex(s string) bool {
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return len(s) > 0
}

func badRevision(expr string, cause error) error {
	return scerr.New(pkgTag, scerr.CodeBadRevision, "resolve", fmt.Sprintf("bad revision %q", expr), cause)
}

func notFound(expr string, cause error) error {
	return scerr.New(pkgTag, scerr.CodeNotFound, "resolve", fmt.Sprintf("unknown revision %q", expr), cause)
}

func ioErr(expr string, cause error) error {
	return scerr.New(pkgTag, scerr.CodeIoError, "resolve", fmt.Sprintf("failed resolving %q", expr), cause)
}

func ambiguous(expr string, cause error) error {
	return scerr.New(pkgTag, scerr.CodeAmbiguous, "resolve", fmt.Sprintf("ambiguous revision %q", expr), cause)
}
