package models

import (
	"github.com/tablekit/airtable.go/internal/util"
	"github.com/tablekit/airtable.go/pkg/constants"
	"github.com/tablekit/airtable.go/pkg/errs"
	"github.com/tablekit/airtable.go/pkg/marshal"
	"github.com/tablekit/airtable.go/pkg/shapes"
)

// UpsertResult is the response of a batch upsert.
type UpsertResult struct {
	CreatedRecords []string
	UpdatedRecords []string
	Records        []*Object
}

// ParseUpsertResult parses an upsert response. Records are parsed as class,
// which must use the table layout; nil means the generic Record class.
func ParseUpsertResult(class *Class, raw any, opts ...ParseOption) (*UpsertResult, error) {
	if class == nil {
		class = mustClass(Default, RecordClass)
	}
	if class.layout != LayoutTable {
		return nil, &errs.InvalidParameterError{Name: "class", Reason: class.name + " does not use the table layout"}
	}
	s, err := class.catalog.registry.Lookup(shapes.UpsertResult)
	if err != nil {
		return nil, err
	}
	m, err := shapes.Validate(s, raw)
	if err != nil {
		return nil, err
	}

	res := &UpsertResult{}
	if err := marshal.Unmarshal(m[constants.KeyCreatedRecords], &res.CreatedRecords); err != nil {
		return nil, err
	}
	if err := marshal.Unmarshal(m[constants.KeyUpdatedRecords], &res.UpdatedRecords); err != nil {
		return nil, err
	}
	records, _ := util.AsSlice(m[constants.KeyRecords])
	for _, r := range records {
		o, err := Parse(class, r, opts...)
		if err != nil {
			return nil, err
		}
		res.Records = append(res.Records, o)
	}
	return res, nil
}

// Record returns the record with the given id.
func (r *UpsertResult) Record(id string) (*Object, error) {
	for _, o := range r.Records {
		if o.ID() == id {
			return o, nil
		}
	}
	return nil, &errs.RecordNotFoundError{ID: id}
}

// Deletion confirms the removal of a record or comment.
type Deletion struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// ParseDeletion parses a deletion confirmation.
func ParseDeletion(raw any) (*Deletion, error) {
	s, err := shapes.Lookup(shapes.RecordDeleted)
	if err != nil {
		return nil, err
	}
	m, err := shapes.Validate(s, raw)
	if err != nil {
		return nil, err
	}
	out := &Deletion{}
	if err := unmarshalDeclared(s, m, out); err != nil {
		return nil, err
	}
	return out, nil
}

// UserInfo is the user behind the credentials in use and its scopes.
type UserInfo struct {
	ID     string   `json:"id"`
	Email  string   `json:"email,omitempty"`
	Scopes []string `json:"scopes,omitempty"`
}

// ParseUserInfo parses the response of the whoami endpoint.
func ParseUserInfo(raw any) (*UserInfo, error) {
	s, err := shapes.Lookup(shapes.UserAndScopes)
	if err != nil {
		return nil, err
	}
	m, err := shapes.Validate(s, raw)
	if err != nil {
		return nil, err
	}
	out := &UserInfo{}
	if err := unmarshalDeclared(s, m, out); err != nil {
		return nil, err
	}
	return out, nil
}

// unmarshalDeclared loads the declared attributes of a validated mapping into
// v. Undeclared keys kept in lenient mode are skipped; a declared key that v
// has no field for is an error.
func unmarshalDeclared(s *shapes.Shape, m map[string]any, v any) error {
	declared := make(map[string]any, len(m))
	for _, f := range s.Fields() {
		if val, ok := m[f.Name]; ok {
			declared[f.Name] = val
		}
	}
	return marshal.UnmarshalMapToStruct(declared, v)
}

// HasScope reports whether the user granted scope.
func (u *UserInfo) HasScope(scope string) bool {
	return util.ExistsInSlice(scope, u.Scopes)
}
