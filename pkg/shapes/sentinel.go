package shapes

import (
	"github.com/tablekit/airtable.go/internal/util"
	"github.com/tablekit/airtable.go/pkg/constants"
)

// LooksLikeRemoteError reports whether candidate is one of the sentinel values
// the remote service puts in place of a field value to signal an error or an
// unrenderable computed value: a mapping whose key set is exactly {"error"}
// or exactly {"specialValue"}.
func LooksLikeRemoteError(candidate any) bool {
	m, ok := util.AsMap(candidate)
	if !ok || len(m) != 1 {
		return false
	}
	if _, ok := m[constants.KeyError]; ok {
		return true
	}
	_, ok = m[constants.KeySpecialValue]
	return ok
}
