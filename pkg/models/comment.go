package models

import (
	"github.com/tablekit/airtable.go/pkg/errs"
	"github.com/tablekit/airtable.go/pkg/marshal"
)

// Collaborator is a user as embedded in comments and collaborator fields.
type Collaborator struct {
	ID            string `json:"id"`
	Email         string `json:"email,omitempty"`
	Name          string `json:"name,omitempty"`
	ProfilePicURL string `json:"profilePicUrl,omitempty"`
}

// Comment is a comment on a record. Only its text may be changed; comments
// are created through the record they belong to, never by Save.
type Comment struct {
	*Mutable
}

// ParseComment parses a comment from its wire form.
func ParseComment(raw any, opts ...ParseOption) (*Comment, error) {
	m, err := ParseMutable(mustClass(Default, CommentClass), raw, opts...)
	if err != nil {
		return nil, err
	}
	return &Comment{Mutable: m}, nil
}

func (c *Comment) Text() string {
	s, _ := c.GetString("text")
	return s
}

// SetText changes the text; Save sends it.
func (c *Comment) SetText(text string) error {
	return c.Set("text", text)
}

// LastUpdatedTime returns "" for comments never edited.
func (c *Comment) LastUpdatedTime() string {
	s, _ := c.GetString("lastUpdatedTime")
	return s
}

// Author decodes the author attribute.
func (c *Comment) Author() (Collaborator, error) {
	var out Collaborator
	v, _ := c.Get("author")
	err := marshal.Unmarshal(v, &out)
	return out, err
}

// Mentioned returns the users and groups mentioned in the text, keyed by id.
func (c *Comment) Mentioned() map[string]*Mentioned {
	nested := c.NestedMap("mentioned")
	out := make(map[string]*Mentioned, len(nested))
	for id, o := range nested {
		out[id] = &Mentioned{Object: o}
	}
	return out
}

// MentionedUser returns the mention with the given id.
func (c *Comment) MentionedUser(id string) (*Mentioned, error) {
	if m, ok := c.NestedMap("mentioned")[id]; ok {
		return &Mentioned{Object: m}, nil
	}
	return nil, &errs.UserNotFoundError{ID: id}
}

// Mentioned is a user or user group mentioned in a comment.
type Mentioned struct {
	*Object
}

func (m *Mentioned) Type() string {
	s, _ := m.GetString("type")
	return s
}

func (m *Mentioned) DisplayName() string {
	s, _ := m.GetString("displayName")
	return s
}

func (m *Mentioned) Email() string {
	s, _ := m.GetString("email")
	return s
}
