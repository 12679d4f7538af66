package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes.
const (
	CodeRequired    = "required"
	CodeInvalidType = "invalid_type"
	CodeUnknownKey  = "unknown_key"
	CodeNoMatch     = "no_match"
	CodeMismatch    = "mismatch"
)

// Issue is a single field-level validation failure.
type Issue struct {
	// Path is a JSON Pointer to the offending value, e.g. /fields/Name or /records/2/id.
	Path string
	// Field is the key the issue is attached to. Empty for the root value.
	Field   string
	Code    string
	Message string
}

func (i Issue) String() string {
	path := i.Path
	if path == "" {
		path = "/"
	}
	return fmt.Sprintf("%s at %s: %s", i.Code, path, i.Message)
}

// Issues is a collection of validation failures that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := len(iss)
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(iss[i].String())
	}
	if len(iss) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(iss))
	}
	return b.String()
}

// WithCode returns the issues that carry the given code.
func (iss Issues) WithCode(code string) Issues {
	var out Issues
	for _, it := range iss {
		if it.Code == code {
			out = append(out, it)
		}
	}
	return out
}

// Fields returns the field names of the issues in order.
func (iss Issues) Fields() []string {
	out := make([]string, 0, len(iss))
	for _, it := range iss {
		out = append(out, it.Field)
	}
	return out
}

// Prefix returns a copy of the issues with every path prefixed by the given
// JSON Pointer segment.
func (iss Issues) Prefix(segment string) Issues {
	out := make(Issues, len(iss))
	for i, it := range iss {
		it.Path = "/" + escapePointer(segment) + it.Path
		out[i] = it
	}
	return out
}

// AsIssues extracts Issues from an error chain.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// JoinPointer appends a key to a JSON Pointer.
func JoinPointer(base, key string) string {
	return base + "/" + escapePointer(key)
}

func escapePointer(s string) string {
	s = strings.ReplaceAll(s, "~", "~0")
	return strings.ReplaceAll(s, "/", "~1")
}
