package shapes

// WritableFieldValue is the name reported by CheckWritable failures.
const WritableFieldValue = "WritableFieldValue"

// CheckWritable validates that value may be written to a record field. Object
// values are checked strictly: keys the target shape does not declare are
// rejected before they reach the transport.
func CheckWritable(field string, value any) error {
	return Default.CheckValue(WritableFieldValue, field, WritableValue(), value, Strict())
}
