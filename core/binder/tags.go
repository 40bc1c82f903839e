package binder

import (
	"fmt"
	"strings"
)

// bindTag is the origin-independent annotation. On fields it renames or skips;
// on a blank `_` field it declares the record default origin.
const bindTag = "bind"

// annotation is a parsed origin or rename tag.
type annotation struct {
	key  string // lookup key; empty means "use the field name"
	opts string // codec options following the first comma
	skip bool
}

// parseAnnotation parses the recognized literal shapes:
//
//	""            bare marker, lookup key is the field name
//	"id"          literal lookup key
//	"rename=id"   lookup key via rename
//	"rename(id)"  lookup key via rename
//	"-"           field is not bound
//
// Anything after the first comma is kept as codec options.
func parseAnnotation(tag string) (annotation, error) {
	head, opts, hasOpts := strings.Cut(tag, ",")
	head = strings.TrimSpace(head)
	opts = strings.TrimSpace(opts)

	if head == "-" && !hasOpts {
		return annotation{skip: true}, nil
	}
	if head == "" {
		return annotation{opts: opts}, nil
	}

	key, err := parseKeyLiteral(head, "rename")
	if err != nil {
		return annotation{}, err
	}
	return annotation{key: key, opts: opts}, nil
}

// parseKeyLiteral resolves `name=value`, `name(value)` and plain literals.
func parseKeyLiteral(lit, name string) (string, error) {
	rest, isNamed := strings.CutPrefix(lit, name)
	if isNamed {
		rest = strings.TrimSpace(rest)
		switch {
		case strings.HasPrefix(rest, "="):
			return validKey(strings.TrimSpace(rest[1:]), lit)
		case strings.HasPrefix(rest, "("):
			if !strings.HasSuffix(rest, ")") {
				return "", fmt.Errorf("%w: unbalanced parentheses in %q", ErrUnsupportedOrigin, lit)
			}
			return validKey(strings.TrimSpace(rest[1:len(rest)-1]), lit)
		}
	}
	return validKey(lit, lit)
}

func validKey(key, lit string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("%w: empty key in %q", ErrUnsupportedOrigin, lit)
	}
	if strings.ContainsAny(key, "\"'()=, \t\r\n") {
		return "", fmt.Errorf("%w: malformed key in %q", ErrUnsupportedOrigin, lit)
	}
	return key, nil
}

// parseDefaultAnnotation parses a record-level default origin declaration:
//
//	default               JSON
//	default(form)
//	default=form
//	default(format=form)
//	default(format(form))
func parseDefaultAnnotation(tag string) (Origin, error) {
	lit := strings.TrimSpace(tag)
	rest, ok := strings.CutPrefix(lit, "default")
	if !ok {
		return 0, fmt.Errorf("%w: expected default(origin), got %q", ErrUnsupportedOrigin, tag)
	}
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return JSON, nil
	}

	var arg string
	switch {
	case strings.HasPrefix(rest, "="):
		arg = strings.TrimSpace(rest[1:])
	case strings.HasPrefix(rest, "(") && strings.HasSuffix(rest, ")"):
		arg = strings.TrimSpace(rest[1 : len(rest)-1])
	default:
		return 0, fmt.Errorf("%w: malformed default declaration %q", ErrUnsupportedOrigin, tag)
	}

	if strings.HasPrefix(arg, "format") {
		name, err := parseKeyLiteral(arg, "format")
		if err != nil {
			return 0, err
		}
		arg = name
	}
	return ParseOrigin(arg)
}
