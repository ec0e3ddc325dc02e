// Package frontmatter reads and writes the YAML block at the top of a
// rendered page and stamps it with a content fingerprint.
package frontmatter

import (
	"bytes"
	"errors"

	"github.com/inful/mdfp"
	"gopkg.in/yaml.v3"
)

const delimiter = "---\n"

// ErrMissingClosingDelimiter indicates the page started with a frontmatter
// delimiter but never closed it.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Split separates the YAML frontmatter from the Markdown body. When the page
// has no frontmatter, had is false and body is the whole input.
func Split(content []byte) (fm, body []byte, had bool, err error) {
	if !bytes.HasPrefix(content, []byte(delimiter)) {
		return nil, content, false, nil
	}
	rest := content[len(delimiter):]
	if bytes.HasPrefix(rest, []byte(delimiter)) {
		return []byte{}, rest[len(delimiter):], true, nil
	}
	idx := bytes.Index(rest, []byte("\n"+delimiter))
	if idx < 0 {
		return nil, nil, false, ErrMissingClosingDelimiter
	}
	return rest[:idx+1], rest[idx+1+len(delimiter):], true, nil
}

// Parse decodes raw frontmatter (without delimiters) into a map.
func Parse(fm []byte) (map[string]any, error) {
	fields := map[string]any{}
	if len(fm) == 0 {
		return fields, nil
	}
	if err := yaml.Unmarshal(fm, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// Fingerprint hashes fields (minus any existing fingerprint) and body.
func Fingerprint(fields map[string]any, body []byte) (string, error) {
	hashed := make(map[string]any, len(fields))
	for k, v := range fields {
		if k != mdfp.FingerprintField {
			hashed[k] = v
		}
	}
	serialized, err := Serialize(hashed)
	if err != nil {
		return "", err
	}
	return mdfp.CalculateFingerprintFromParts(string(bytes.TrimSuffix(serialized, []byte("\n"))), string(body)), nil
}

// Compose writes fields, stamped with the fingerprint of fields and body, as
// frontmatter in front of body.
func Compose(fields map[string]any, body []byte) ([]byte, error) {
	fp, err := Fingerprint(fields, body)
	if err != nil {
		return nil, err
	}
	stamped := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		stamped[k] = v
	}
	stamped[mdfp.FingerprintField] = fp

	serialized, err := Serialize(stamped)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, 2*len(delimiter)+len(serialized)+len(body))
	out = append(out, delimiter...)
	out = append(out, serialized...)
	out = append(out, delimiter...)
	return append(out, body...), nil
}

// Verify reports whether the fingerprint stored in a composed page still
// matches its content.
func Verify(content []byte) (bool, error) {
	fm, body, had, err := Split(content)
	if err != nil || !had {
		return false, err
	}
	fields, err := Parse(fm)
	if err != nil {
		return false, err
	}
	stored, _ := fields[mdfp.FingerprintField].(string)
	if stored == "" {
		return false, nil
	}
	fp, err := Fingerprint(fields, body)
	if err != nil {
		return false, err
	}
	return fp == stored, nil
}
