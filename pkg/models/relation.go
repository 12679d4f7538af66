package models

import (
	"fmt"

	"github.com/tablekit/airtable.go/internal/util"
	"github.com/tablekit/airtable.go/pkg/errs"
)

// Links returns the record ids held by a linked-record attribute. An absent
// or null attribute has no links.
func (o *Object) Links(name string) ([]string, error) {
	v, ok := o.Get(name)
	if !ok || v == nil {
		return nil, nil
	}
	seq, ok := util.AsSlice(v)
	if !ok {
		return nil, &errs.InvalidParameterError{Name: name, Reason: fmt.Sprintf("%s.%s is not a list of links", o.class.name, name)}
	}
	ids := make([]string, 0, len(seq))
	for _, e := range seq {
		switch t := e.(type) {
		case string:
			ids = append(ids, t)
		case *Object:
			ids = append(ids, t.id)
		default:
			return nil, &errs.InvalidParameterError{Name: name, Reason: fmt.Sprintf("%s.%s holds a %T link", o.class.name, name, e)}
		}
	}
	return ids, nil
}

// SingleLink returns the only link of a single-valued relation. Zero links
// fail with *errs.MissingValueError, more than one with
// *errs.MultipleValuesError.
func (o *Object) SingleLink(name string) (string, error) {
	id, err := o.OptionalSingleLink(name)
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", &errs.MissingValueError{Field: o.class.name + "." + name}
	}
	return id, nil
}

// OptionalSingleLink is like SingleLink but returns "" for zero links.
func (o *Object) OptionalSingleLink(name string) (string, error) {
	ids, err := o.Links(name)
	if err != nil {
		return "", err
	}
	switch len(ids) {
	case 0:
		return "", nil
	case 1:
		return ids[0], nil
	}
	return "", &errs.MultipleValuesError{Field: o.class.name + "." + name, Count: len(ids)}
}
