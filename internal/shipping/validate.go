package shipping

// RequireFields checks every required field in order and reports the first
// one missing from fields.
func RequireFields(operation string, required []Field, fields FieldSet) error {
	for _, f := range required {
		if !fields.Has(f) {
			return &MissingRequiredFieldError{Operation: operation, Field: f}
		}
	}
	return nil
}
