package kommo

type customFieldValue struct {
	Value    string `json:"value"`
	EnumCode string `json:"enum_code,omitempty"`
}

type customField struct {
	FieldCode string             `json:"field_code"`
	Values    []customFieldValue `json:"values"`
}

type contactRequest struct {
	Name               string        `json:"name"`
	CustomFieldsValues []customField `json:"custom_fields_values,omitempty"`
}

type tag struct {
	Name string `json:"name"`
}

type contactRef struct {
	ID int `json:"id"`
}

type leadEmbedded struct {
	Tags     []tag        `json:"tags,omitempty"`
	Contacts []contactRef `json:"contacts,omitempty"`
}

type leadRequest struct {
	Name     string       `json:"name"`
	Embedded leadEmbedded `json:"_embedded"`
}

// embeddedIDs matches the `_embedded` envelope of contact and lead responses.
type embeddedIDs struct {
	Embedded struct {
		Contacts []contactRef `json:"contacts"`
		Leads    []contactRef `json:"leads"`
	} `json:"_embedded"`
}
