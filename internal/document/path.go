package document

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var ErrInvalidPath = errors.New("invalid field path")

var segmentPattern = regexp.MustCompile(`^\w+$`)

// Path addresses a nested field, e.g. "name.common" is Path{"name", "common"}.
type Path []string

// ParsePath parses a dot joined field path.
func ParsePath(s string) (Path, error) {
	segments := strings.Split(s, ".")
	for _, seg := range segments {
		if !segmentPattern.MatchString(seg) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPath, s)
		}
	}
	return Path(segments), nil
}

// ParsePaths parses a comma separated list of field paths.
// An empty string is an empty list.
func ParsePaths(list string) ([]Path, error) {
	if strings.TrimSpace(list) == "" {
		return nil, nil
	}
	return ParsePathList(strings.Split(list, ","))
}

func ParsePathList(list []string) ([]Path, error) {
	paths := make([]Path, 0, len(list))
	for _, s := range list {
		p, err := ParsePath(strings.TrimSpace(s))
		if err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func (p Path) String() string {
	return strings.Join(p, ".")
}

func (p Path) child(seg string) Path {
	c := make(Path, len(p), len(p)+1)
	copy(c, p)
	return append(c, seg)
}

// Resolve walks doc along p. The boolean is false when any segment is missing
// or the walk reaches a value that is not a map.
func Resolve(doc Value, p Path) (Value, bool) {
	cur := doc
	for _, seg := range p {
		next, ok := cur.Get(seg)
		if !ok {
			return Value{}, false
		}
		cur = next
	}
	return cur, true
}
