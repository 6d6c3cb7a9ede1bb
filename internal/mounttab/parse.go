package mounttab

import (
	"errors"
	"strings"
)

// ErrParse reports a line that does not match the fixed six-field mount
// table format. It deliberately carries no detail about which field
// failed; callers only learn that the line as a whole is malformed.
var ErrParse = errors.New("malformed mount table entry")

// ParseLine parses one mount table line into a Mount. Fields are
// separated by runs of space or tab: device, mount point, filesystem
// type, comma-separated options, then the two literal "0" dump/pass
// placeholders the kernel always writes, then optional trailing
// whitespace. The whole line must match; any leftover input fails.
func ParseLine(line string) (*Mount, error) {
	tok, rest, err := notWhitespace(line)
	if err != nil {
		return nil, err
	}
	device, err := unescape(tok)
	if err != nil {
		return nil, err
	}

	if rest, err = space1(rest); err != nil {
		return nil, err
	}
	if tok, rest, err = notWhitespace(rest); err != nil {
		return nil, err
	}
	mountPoint, err := unescape(tok)
	if err != nil {
		return nil, err
	}

	if rest, err = space1(rest); err != nil {
		return nil, err
	}
	// The kernel never escapes filesystem type names.
	fsType, rest, err := notWhitespace(rest)
	if err != nil {
		return nil, err
	}

	if rest, err = space1(rest); err != nil {
		return nil, err
	}
	options, rest, err := parseOptions(rest)
	if err != nil {
		return nil, err
	}

	// Dump frequency and fsck pass number, always "0 0".
	if rest, err = space1(rest); err != nil {
		return nil, err
	}
	if rest, err = literalZero(rest); err != nil {
		return nil, err
	}
	if rest, err = space1(rest); err != nil {
		return nil, err
	}
	if rest, err = literalZero(rest); err != nil {
		return nil, err
	}
	if rest = strings.TrimLeft(rest, " \t"); rest != "" {
		return nil, ErrParse
	}

	return &Mount{
		Device:     device,
		MountPoint: mountPoint,
		FSType:     fsType,
		Options:    options,
	}, nil
}

// notWhitespace consumes the longest run of characters that are not
// space or tab. The run must be non-empty.
func notWhitespace(s string) (string, string, error) {
	n := strings.IndexAny(s, " \t")
	switch {
	case s == "" || n == 0:
		return "", s, ErrParse
	case n < 0:
		return s, "", nil
	}
	return s[:n], s[n:], nil
}

// space1 consumes one or more space/tab characters.
func space1(s string) (string, error) {
	rest := strings.TrimLeft(s, " \t")
	if len(rest) == len(s) {
		return s, ErrParse
	}
	return rest, nil
}

func literalZero(s string) (string, error) {
	if !strings.HasPrefix(s, "0") {
		return s, ErrParse
	}
	return s[1:], nil
}

// parseOptions consumes the comma-separated options field. Each piece
// is escape-decoded; options may contain escaped spaces but never raw
// commas or whitespace. At least one option is always present in a
// valid line (the kernel emits rw or ro at minimum).
func parseOptions(s string) ([]string, string, error) {
	opt, rest, err := option(s)
	if err != nil {
		return nil, s, err
	}
	options := []string{opt}
	for strings.HasPrefix(rest, ",") {
		opt, rest, err = option(rest[1:])
		if err != nil {
			return nil, s, err
		}
		options = append(options, opt)
	}
	return options, rest, nil
}

// option consumes one options piece, terminated by comma or whitespace.
func option(s string) (string, string, error) {
	n := strings.IndexAny(s, ", \t")
	switch {
	case s == "" || n == 0:
		return "", s, ErrParse
	case n < 0:
		n = len(s)
	}
	opt, err := unescape(s[:n])
	if err != nil {
		return "", s, err
	}
	return opt, s[n:], nil
}

// unescape resolves the backslash escapes the kernel writes into mount
// table fields: \040 becomes a space and \\ becomes a backslash. Any
// other sequence after a backslash, including a trailing lone
// backslash, is an error. The whole token is always consumed.
func unescape(tok string) (string, error) {
	if !strings.Contains(tok, "\\") {
		return tok, nil
	}
	var b strings.Builder
	b.Grow(len(tok))
	for i := 0; i < len(tok); {
		if tok[i] != '\\' {
			b.WriteByte(tok[i])
			i++
			continue
		}
		switch {
		case strings.HasPrefix(tok[i+1:], `\`):
			b.WriteByte('\\')
			i += 2
		case strings.HasPrefix(tok[i+1:], "040"):
			b.WriteByte(' ')
			i += 4
		default:
			return "", ErrParse
		}
	}
	return b.String(), nil
}
