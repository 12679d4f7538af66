package constants

// Wire keys shared by the record envelope and its payloads.
const (
	KeyID             = "id"
	KeyCreatedTime    = "createdTime"
	KeyFields         = "fields"
	KeyDeleted        = "deleted"
	KeyError          = "error"
	KeySpecialValue   = "specialValue"
	KeyCreatedRecords = "createdRecords"
	KeyUpdatedRecords = "updatedRecords"
	KeyRecords        = "records"
)

// Identifier prefixes assigned by the remote service.
const (
	RecordIDPrefix  = "rec"
	CommentIDPrefix = "com"
	// IDLength is the length of a remote identifier including its prefix.
	IDLength = 17
)

// TimestampLayout is the layout of timestamps returned by the remote service.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Error types reported by the remote service in its error envelope.
const (
	RemoteErrorNotFound       = "NOT_FOUND"
	RemoteErrorModelNotFound  = "MODEL_ID_NOT_FOUND"
	RemoteErrorRowNotFound    = "ROW_DOES_NOT_EXIST"
	RemoteErrorInvalidRequest = "INVALID_REQUEST_UNKNOWN"
)
