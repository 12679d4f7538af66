package shapes

// Names of the built-in wire shapes.
const (
	Attachment        = "Attachment"
	CreateAttachment  = "CreateAttachment"
	Barcode           = "Barcode"
	Button            = "Button"
	Collaborator      = "Collaborator"
	CollaboratorEmail = "CollaboratorEmail"
	UserAndScopes     = "UserAndScopes"
	RecordEnvelope    = "RecordEnvelope"
	CreateRecord      = "CreateRecord"
	UpdateRecord      = "UpdateRecord"
	RecordDeleted     = "RecordDeleted"
	UpsertResult      = "UpsertResult"
)

// WritableValue is the union of values that may be written to a record
// field. It is a strict subset of the values the service may return.
func WritableValue() Type {
	return OneOf(
		Null(),
		String(),
		Number(),
		Bool(),
		Ref(Collaborator),
		Ref(CollaboratorEmail),
		Ref(Barcode),
		ArrayOf(String()),
		ArrayOf(Ref(Attachment)),
		ArrayOf(Ref(CreateAttachment)),
		ArrayOf(Ref(Collaborator)),
		ArrayOf(Ref(CollaboratorEmail)),
	)
}

func registerBuiltins(r *Registry) {
	r.MustRegister(Attachment,
		Required("id", String()),
		Required("url", String()),
		Optional("type", String()),
		Optional("filename", String()),
		Optional("size", Integer()),
		Optional("height", Integer()),
		Optional("width", Integer()),
		Optional("thumbnails", MapOf(MapOf(OneOf(String(), Integer())))),
	)
	r.MustRegister(CreateAttachment,
		Required("url", String()),
		Optional("filename", String()),
	)
	r.MustRegister(Barcode,
		Optional("type", String()),
		Required("text", String()),
	)
	r.MustRegister(Button,
		Required("label", String()),
		Required("url", Nullable(String())),
	)
	r.MustRegister(Collaborator,
		Required("id", String()),
		Optional("email", String()),
		Optional("name", String()),
		Optional("profilePicUrl", String()),
	)
	r.MustRegister(CollaboratorEmail,
		Required("email", String()),
	)
	r.MustRegister(UserAndScopes,
		Required("id", String()),
		Optional("email", String()),
		Optional("scopes", ArrayOf(String())),
	)
	r.MustRegister(RecordEnvelope,
		Required("id", String()),
		Required("createdTime", String()),
		Required("fields", MapOf(Any())),
	)
	r.MustRegister(CreateRecord,
		Required("fields", MapOf(WritableValue())),
	)
	r.MustRegister(UpdateRecord,
		Required("id", String()),
		Required("fields", MapOf(WritableValue())),
	)
	r.MustRegister(RecordDeleted,
		Required("id", String()),
		Required("deleted", Bool()),
	)
	r.MustRegister(UpsertResult,
		Required("createdRecords", ArrayOf(String())),
		Required("updatedRecords", ArrayOf(String())),
		Required("records", ArrayOf(Ref(RecordEnvelope))),
	)
}
