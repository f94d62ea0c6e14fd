package aboutme

import (
	"errors"
	"fmt"
	"strings"
)

// FieldKind names one of the tag widgets of the form.
type FieldKind int

const (
	FieldInterests FieldKind = iota
	FieldSkills
	FieldEndorsements
	FieldInvitees
)

func (k FieldKind) String() string {
	switch k {
	case FieldInterests:
		return "interests"
	case FieldSkills:
		return "skills"
	case FieldEndorsements:
		return "endorsements"
	case FieldInvitees:
		return "invitees"
	default:
		return "unknown"
	}
}

// TagField is a tag list plus the input buffer the user is typing into.
type TagField struct {
	list   *TagList
	buffer string
}

func newTagField(list *TagList) *TagField {
	return &TagField{list: list}
}

func (f *TagField) Buffer() string {
	return f.buffer
}

func (f *TagField) SetBuffer(s string) {
	f.buffer = s
}

// Commit moves the buffer into the list. Nothing happens unless the trimmed
// buffer is non-empty (ErrEmptyTag). On success the buffer is cleared; on any
// rejection it is kept so the user can fix the value.
func (f *TagField) Commit() (string, error) {
	if strings.TrimSpace(f.buffer) == "" {
		return "", ErrEmptyTag
	}
	value, err := f.list.Add(f.buffer)
	if err != nil {
		return "", err
	}
	f.buffer = ""
	return value, nil
}

// Add commits candidate directly, bypassing the buffer.
func (f *TagField) Add(candidate string) (string, error) {
	return f.list.Add(candidate)
}

func (f *TagField) Remove(value string) bool {
	return f.list.Remove(value)
}

func (f *TagField) Items() []string {
	return f.list.Items()
}

func (f *TagField) Len() int {
	return f.list.Len()
}

func (f *TagField) Clear() {
	f.list.Clear()
}

// Form is the full state of the About Me card.
type Form struct {
	Bio      string
	Expanded bool

	fields [4]*TagField
}

// NewForm returns an empty, collapsed form.
func NewForm() *Form {
	return &Form{
		fields: [4]*TagField{
			FieldInterests:    newTagField(NewTagList(nil)),
			FieldSkills:       newTagField(NewTagList(nil)),
			FieldEndorsements: newTagField(NewTagList(nil)),
			FieldInvitees:     newTagField(NewEmailList()),
		},
	}
}

// Field returns the widget state for kind. It panics on an unknown kind.
func (f *Form) Field(kind FieldKind) *TagField {
	return f.fields[kind]
}

func (f *Form) Skills() *TagField       { return f.fields[FieldSkills] }
func (f *Form) Endorsements() *TagField { return f.fields[FieldEndorsements] }
func (f *Form) Interests() *TagField    { return f.fields[FieldInterests] }
func (f *Form) Invitees() *TagField     { return f.fields[FieldInvitees] }

// Toggle flips the expanded flag and returns the new value.
func (f *Form) Toggle() bool {
	f.Expanded = !f.Expanded
	return f.Expanded
}

// Draft is an immutable snapshot of the submittable values.
type Draft struct {
	Bio          string   `yaml:"bio"`
	Skills       []string `yaml:"skills"`
	Endorsements []string `yaml:"endorsements"`
	Interests    []string `yaml:"interests"`
	Invitees     []string `yaml:"invitees"`
}

// Draft snapshots the form. Buffers are not part of it.
func (f *Form) Draft() Draft {
	return Draft{
		Bio:          f.Bio,
		Skills:       f.Skills().Items(),
		Endorsements: f.Endorsements().Items(),
		Interests:    f.Interests().Items(),
		Invitees:     f.Invitees().Items(),
	}
}

// Apply loads d into the form through the normal add path, so the list
// invariants hold even for hand-edited drafts. Values rejected for being empty
// or duplicated are skipped; any other rejection is returned with the field.
func (f *Form) Apply(d Draft) error {
	f.Bio = d.Bio
	groups := []struct {
		kind   FieldKind
		values []string
	}{
		{FieldSkills, d.Skills},
		{FieldEndorsements, d.Endorsements},
		{FieldInterests, d.Interests},
		{FieldInvitees, d.Invitees},
	}
	for _, g := range groups {
		field := f.Field(g.kind)
		for _, v := range g.values {
			if _, err := field.Add(v); err != nil {
				if errors.Is(err, ErrEmptyTag) || errors.Is(err, ErrDuplicateTag) {
					continue
				}
				return &FieldError{Field: g.kind, Value: v, Err: err}
			}
		}
	}
	return nil
}

// FieldError reports which value of which field was rejected.
type FieldError struct {
	Field FieldKind
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Field, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
