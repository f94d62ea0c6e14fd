// Package aboutme holds the state of the "About Me" profile form: the bio, the
// tag lists (skills, endorsements, interests), the invitee emails and the
// controller that submits them to the Interlink collaborator endpoint.
package aboutme

import (
	"errors"
	"regexp"
	"slices"
	"strings"
)

var (
	// ErrEmptyTag is returned when a candidate is empty after trimming.
	ErrEmptyTag = errors.New("aboutme: tag is empty")
	// ErrDuplicateTag is returned when the trimmed candidate is already in the list.
	ErrDuplicateTag = errors.New("aboutme: tag already present")
	// ErrInvalidEmail is returned by the invitee list for values that are not email shaped.
	ErrInvalidEmail = errors.New("aboutme: invalid email address")
)

// Shape check only (local@domain.tld), not RFC 5322. RE2's \s is ASCII only,
// so vertical tab, Unicode separators and BOM are listed explicitly.
const emailChar = `[^\s\x0B\p{Z}\x{FEFF}@]`

var emailPattern = regexp.MustCompile(`^` + emailChar + `+@` + emailChar + `+\.` + emailChar + `+$`)

// IsEmail reports whether s looks like local@domain.tld.
func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// Validator rejects a trimmed, non-empty candidate by returning an error.
type Validator func(value string) error

// ValidateEmail is the Validator used by invitee lists.
func ValidateEmail(value string) error {
	if !IsEmail(value) {
		return ErrInvalidEmail
	}
	return nil
}

// TagList is an ordered set of strings. Values are unique (exact,
// case-sensitive) and keep insertion order, which is also the order they are
// displayed and submitted in.
type TagList struct {
	items    []string
	validate Validator
}

// NewTagList creates an empty list. validate may be nil.
func NewTagList(validate Validator) *TagList {
	return &TagList{validate: validate}
}

// NewEmailList creates an empty list that only accepts email shaped values.
func NewEmailList() *TagList {
	return NewTagList(ValidateEmail)
}

// Add trims candidate and appends it. It returns the stored value, or one of
// ErrEmptyTag, ErrDuplicateTag or the validator's error; the list is left
// untouched on error.
func (l *TagList) Add(candidate string) (string, error) {
	value := strings.TrimSpace(candidate)
	if value == "" {
		return "", ErrEmptyTag
	}
	if l.validate != nil {
		if err := l.validate(value); err != nil {
			return "", err
		}
	}
	if l.Contains(value) {
		return "", ErrDuplicateTag
	}
	l.items = append(l.items, value)
	return value, nil
}

// Remove deletes value and reports whether it was present.
func (l *TagList) Remove(value string) bool {
	i := slices.Index(l.items, value)
	if i < 0 {
		return false
	}
	l.items = slices.Delete(l.items, i, i+1)
	return true
}

// Contains reports whether value is in the list.
func (l *TagList) Contains(value string) bool {
	return slices.Contains(l.items, value)
}

// Items returns a copy of the values in insertion order. Never nil, so an
// empty list serializes as [].
func (l *TagList) Items() []string {
	out := make([]string, len(l.items))
	copy(out, l.items)
	return out
}

func (l *TagList) Len() int {
	return len(l.items)
}

// Clear empties the list.
func (l *TagList) Clear() {
	l.items = nil
}

// Normalize runs values through a fresh list: trimmed, de-duplicated, in
// order. Empty and duplicate values are dropped; the first validator failure
// is returned.
func Normalize(values []string, validate Validator) ([]string, error) {
	l := NewTagList(validate)
	for _, v := range values {
		if _, err := l.Add(v); err != nil {
			if errors.Is(err, ErrEmptyTag) || errors.Is(err, ErrDuplicateTag) {
				continue
			}
			return nil, err
		}
	}
	return l.Items(), nil
}
