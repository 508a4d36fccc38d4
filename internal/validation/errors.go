package validation

// FieldError ties a validation message to the input field that caused it.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors collects per-field failures for a single request. Handlers run all
// rules, then short-circuit with a 400 response when any failed.
type Errors []FieldError

func (e *Errors) Add(field, message string) {
	*e = append(*e, FieldError{Field: field, Message: message})
}

// Check runs a validator and records its error under the given field.
func (e *Errors) Check(field string, err error) {
	if err != nil {
		e.Add(field, err.Error())
	}
}

func (e Errors) Empty() bool {
	return len(e) == 0
}
