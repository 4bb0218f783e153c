package addressable

import (
	"errors"
	"fmt"
	"strings"
)

// Path is a parsed absolute addressable name.
type Path struct {
	Type      string
	Label     string
	Parameter string
	Index     []string
}

// ParsePath parses a path string into a Path.
// Supports: "process[R].r0", "selectivity[Sel].v{3}", "process[R].ycs{1990,1991}".
func ParsePath(path string) (Path, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Path{}, fmt.Errorf("%w: empty path", ErrInvalidSyntax)
	}

	open := strings.IndexByte(path, '[')
	closing := strings.IndexByte(path, ']')

	if open <= 0 || closing < open {
		return Path{}, syntaxError(path, "expected TYPE[LABEL]")
	}

	typ := path[:open]
	label := path[open+1 : closing]
	rest := path[closing+1:]

	if label == "" || strings.ContainsAny(label, "[]{}") {
		return Path{}, syntaxError(path, "invalid label")
	}

	if !strings.HasPrefix(rest, ".") {
		return Path{}, syntaxError(path, "expected '.' after label")
	}

	rest = rest[1:]

	param := rest

	var index []string

	if brace := strings.IndexByte(rest, '{'); brace >= 0 {
		if !strings.HasSuffix(rest, "}") || strings.Count(rest, "{") != 1 || strings.Count(rest, "}") != 1 {
			return Path{}, syntaxError(path, "unbalanced index braces")
		}

		param = rest[:brace]

		var err error

		index, err = splitIndex(rest[brace+1 : len(rest)-1])
		if err != nil {
			return Path{}, syntaxError(path, err.Error())
		}
	} else if strings.ContainsRune(rest, '}') {
		return Path{}, syntaxError(path, "unbalanced index braces")
	}

	if !isValidIdent(typ) {
		return Path{}, syntaxError(path, fmt.Sprintf("invalid type %q", typ))
	}

	if !isValidIdent(param) {
		return Path{}, syntaxError(path, fmt.Sprintf("invalid parameter %q", param))
	}

	return Path{
		Type:      strings.ToLower(typ),
		Label:     label,
		Parameter: strings.ToLower(param),
		Index:     index,
	}, nil
}

// MustParsePath is like ParsePath but panics on error. Intended for tests and
// for paths built by the program itself.
func MustParsePath(path string) Path {
	p, err := ParsePath(path)
	if err != nil {
		panic(err)
	}

	return p
}

// Canonical returns the canonical form of path, or path itself when it cannot be parsed.
func Canonical(path string) string {
	p, err := ParsePath(path)
	if err != nil {
		return path
	}

	return p.String()
}

// Join builds a canonical path from its parts.
func Join(typ, label, parameter string, index ...string) string {
	return Path{Type: strings.ToLower(typ), Label: label, Parameter: strings.ToLower(parameter), Index: index}.String()
}

// String implodes the path back into TYPE[LABEL].PARAMETER{INDEX}.
func (p Path) String() string {
	s := p.Base()
	if len(p.Index) > 0 {
		s += "{" + strings.Join(p.Index, ",") + "}"
	}

	return s
}

// Base returns the path without its index.
func (p Path) Base() string {
	return p.Type + "[" + p.Label + "]." + p.Parameter
}

// Object returns the TYPE[LABEL] part of the path.
func (p Path) Object() string {
	return objectKey(p.Type, p.Label)
}

// HasIndex reports whether an explicit index was given.
func (p Path) HasIndex() bool {
	return len(p.Index) > 0
}

// WithIndex returns a copy addressing the given keys.
func (p Path) WithIndex(keys ...string) Path {
	p.Index = append([]string(nil), keys...)
	return p
}

func objectKey(typ, label string) string {
	return strings.ToLower(typ) + "[" + label + "]"
}

func splitIndex(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, errors.New("empty index")
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, errors.New("empty index token")
		}

		out = append(out, part)
	}

	return out, nil
}

func syntaxError(path, reason string) error {
	return fmt.Errorf("%w: %q: %s; the correct syntax is 'type[label].parameter{index}'", ErrInvalidSyntax, path, reason)
}

// isValidIdent checks a type or parameter name: letters, digits and underscores,
// not starting with a digit.
func isValidIdent(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		if i == 0 {
			if !isLetter(r) && r != '_' {
				return false
			}
		} else if !isLetter(r) && !isDigit(r) && r != '_' {
			return false
		}
	}

	return true
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
