package refs

// Common reference paths
const (
	// RefHeads is the base path for branch references
	RefHeads RefPath = "refs/heads"

	// RefTags is the base path for tag references
	RefTags RefPath = "refs/tags"

	// RefRemotes is the base path for remote references
	RefRemotes RefPath = "refs/remotes"

	// RefHEAD is the HEAD reference
	RefHEAD RefPath = "HEAD"
)
