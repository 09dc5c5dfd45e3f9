package tag

import (
	"fmt"
	"io"
	"strings"

	"github.com/utkarsh5026/SourceControl/pkg/objects"
	"github.com/utkarsh5026/SourceControl/pkg/objects/commit"
)

// Tag represents an annotated tag object.
//
// Tag Object Structure:
// ┌─────────────────────────────────────────────────────────────────┐
// │ Header: "tag" SPACE size NULL                                    │
// │ "object" SPACE object-sha LF                                     │
// │ "type" SPACE object-type LF                                      │
// │ "tag" SPACE tag-name LF                                          │
// │ "tagger" SPACE name SPACE email SPACE timestamp SPACE tz LF      │
// │ LF                                                               │
// │ tag-message                                                      │
// └─────────────────────────────────────────────────────────────────┘
//
// Lightweight tags are not represented by this type; they are plain refs
// pointing directly at a commit.
type Tag struct {
	ObjectSHA  objects.ObjectHash
	ObjectType objects.ObjectType
	Name       string
	Tagger     *commit.CommitPerson
	Message    string
	hash       *objects.ObjectHash
}

// NewTag creates a new annotated tag object.
func NewTag(objectSHA objects.ObjectHash, objType objects.ObjectType, name string, tagger *commit.CommitPerson, message string) *Tag {
	return &Tag{
		ObjectSHA:  objectSHA,
		ObjectType: objType,
		Name:       name,
		Tagger:     tagger,
		Message:    message,
	}
}

// Validate checks that all required fields are present.
func (t *Tag) Validate() error {
	if t.ObjectSHA == "" {
		return fmt.Errorf("object SHA is required")
	}
	if err := t.ObjectSHA.Validate(); err != nil {
		return fmt.Errorf("invalid object SHA: %w", err)
	}
	if t.ObjectType == "" {
		return fmt.Errorf("object type is required")
	}
	if t.Name == "" {
		return fmt.Errorf("tag name is required")
	}
	if t.Tagger == nil {
		return fmt.Errorf("tagger is required")
	}
	return nil
}

// Type returns the object type.
func (t *Tag) Type() objects.ObjectType {
	return objects.TagType
}

// Content returns the raw content of the tag (without header).
func (t *Tag) Content() (objects.ObjectContent, error) {
	var buf strings.Builder

	buf.WriteString("object ")
	buf.WriteString(t.ObjectSHA.String())
	buf.WriteString("\n")

	buf.WriteString("type ")
	buf.WriteString(string(t.ObjectType))
	buf.WriteString("\n")

	buf.WriteString("tag ")
	buf.WriteString(t.Name)
	buf.WriteString("\n")

	buf.WriteString("tagger ")
	buf.WriteString(t.Tagger.FormatForGit())
	buf.WriteString("\n")

	buf.WriteString("\n")
	buf.WriteString(t.Message)

	return objects.ObjectContent(buf.String()), nil
}

// Hash returns the SHA-1 hash of the tag.
func (t *Tag) Hash() (objects.ObjectHash, error) {
	if t.hash != nil {
		return *t.hash, nil
	}

	content, err := t.Content()
	if err != nil {
		return "", fmt.Errorf("failed to get content: %w", err)
	}

	hash := objects.ComputeObjectHash(objects.TagType, content)
	t.hash = &hash
	return hash, nil
}

// RawHash returns the SHA-1 hash as a 20-byte array.
func (t *Tag) RawHash() (objects.RawHash, error) {
	hash, err := t.Hash()
	if err != nil {
		return objects.RawHash{}, err
	}
	return hash.Raw()
}

// Size returns the size of the content in bytes.
func (t *Tag) Size() (objects.ObjectSize, error) {
	content, err := t.Content()
	if err != nil {
		return 0, err
	}
	return content.Size(), nil
}

// Serialize writes the tag in Git's storage format.
func (t *Tag) Serialize(w io.Writer) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("invalid tag: %w", err)
	}

	content, err := t.Content()
	if err != nil {
		return fmt.Errorf("failed to get content: %w", err)
	}

	serialized := objects.NewSerializedObject(objects.TagType, content)
	if _, err := w.Write(serialized.Bytes()); err != nil {
		return fmt.Errorf("failed to write tag: %w", err)
	}

	return nil
}

// String returns a human-readable representation.
func (t *Tag) String() string {
	hash, err := t.Hash()
	if err != nil {
		return fmt.Sprintf("Tag{name: %s, object: %s, error: %v}", t.Name, t.ObjectSHA.Short(), err)
	}
	return fmt.Sprintf("Tag{hash: %s, name: %s, object: %s}", hash.Short(), t.Name, t.ObjectSHA.Short())
}

// ParseTag parses a tag object from serialized data (with header).
func ParseTag(data []byte) (*Tag, error) {
	content, err := objects.ParseSerializedObject(data, objects.TagType)
	if err != nil {
		return nil, err
	}

	t, err := parseTagContent(content.String())
	if err != nil {
		return nil, err
	}

	hash := objects.NewObjectHash(objects.SerializedObject(data))
	t.hash = &hash
	return t, nil
}

func parseTagContent(content string) (*Tag, error) {
	lines := strings.Split(content, "\n")
	t := &Tag{}

	messageStartIndex := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			messageStartIndex = i + 1
			break
		}
		if err := parseTagLine(t, line); err != nil {
			return nil, err
		}
	}

	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tag: %w", err)
	}

	if messageStartIndex != -1 && messageStartIndex < len(lines) {
		t.Message = strings.Join(lines[messageStartIndex:], "\n")
	}

	return t, nil
}

func parseTagLine(t *Tag, line string) error {
	switch {
	case strings.HasPrefix(line, "object "):
		if t.ObjectSHA != "" {
			return fmt.Errorf("multiple object entries found")
		}
		sha, err := objects.NewObjectHashFromString(strings.TrimPrefix(line, "object "))
		if err != nil {
			return fmt.Errorf("invalid object SHA: %w", err)
		}
		t.ObjectSHA = sha

	case strings.HasPrefix(line, "type "):
		if t.ObjectType != "" {
			return fmt.Errorf("multiple type entries found")
		}
		t.ObjectType = objects.ObjectType(strings.TrimPrefix(line, "type "))

	case strings.HasPrefix(line, "tag "):
		if t.Name != "" {
			return fmt.Errorf("multiple tag entries found")
		}
		t.Name = strings.TrimPrefix(line, "tag ")

	case strings.HasPrefix(line, "tagger "):
		if t.Tagger != nil {
			return fmt.Errorf("multiple tagger entries found")
		}
		tagger, err := commit.ParseCommitPerson(strings.TrimPrefix(line, "tagger "))
		if err != nil {
			return fmt.Errorf("invalid tagger: %w", err)
		}
		t.Tagger = tagger

	default:
		return fmt.Errorf("unknown header line: %s", line)
	}

	return nil
}
