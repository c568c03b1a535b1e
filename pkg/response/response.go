package response

// Response is the body of every non-list reply: {"message": ...} on success and
// {"detail": ...} on failure, where detail is a string or a list of FieldError.
type Response struct {
	Message string      `json:"message,omitempty"`
	Detail  interface{} `json:"detail,omitempty"`
}

// FieldError names one request field that failed validation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Message returns a success body carrying msg
func Message(msg string) Response {
	return Response{Message: msg}
}

// Error returns a failure body carrying msg
func Error(msg string) Response {
	return Response{Detail: msg}
}

// Validation returns a failure body listing every offending field
func Validation(fields []FieldError) Response {
	return Response{Detail: fields}
}
