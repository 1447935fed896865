package apidef

import (
	"encoding/xml"
	"fmt"
)

// Error messages that the service reports in its errorMessages array.
const (
	TooLongTitle       = "Failed Validation: Maximum allowable length exceeded for title - maximum allowed is 50"
	TooLongDescription = "Failed Validation: Maximum allowable length exceeded for description - maximum allowed is 200"
	RequestTooLarge    = "Error: Request body too large, max allowed is 5000 bytes"
	MandatoryTitle     = "title : field is mandatory"
	CreateWithPut      = "Cannot create todo with PUT due to Auto fields id"
	CreateWithID       = "Invalid Creation: Failed Validation: Not allowed to create with id"
	UnrecognisedAccept = "Unrecognised Accept Type"
	TodoLimitReached   = "ERROR: Cannot add instance, maximum limit of 20 reached"
)

func UnknownField(field string) string {
	return fmt.Sprintf("Could not find field: %s", field)
}

// WrongTodoID is reported when amending a todo that does not exist.
func WrongTodoID(id int) string {
	return fmt.Sprintf("No such todo entity instance with id == %d found", id)
}

func AmendID(from, to int) string {
	return fmt.Sprintf("Can not amend id from %d to %d", from, to)
}

// TodoNotFound is reported when reading a todo that does not exist.
func TodoNotFound(id string) string {
	return fmt.Sprintf("Could not find an instance with todos/%s", id)
}

func UnsupportedContentType(contentType string) string {
	return fmt.Sprintf("Unsupported Content Type - %s", contentType)
}

// WrongFieldType is reported when a field has a value of the wrong type. The type names are
// the service's own: BOOLEAN, STRING, INTEGER.
func WrongFieldType(field, expected, actual string) string {
	return fmt.Sprintf("Failed Validation: %s should be %s but was %s", field, expected, actual)
}

// ErrorBody is the shape of every error response.
type ErrorBody struct {
	XMLName       xml.Name `json:"-" xml:"errorMessages"`
	ErrorMessages []string `json:"errorMessages" xml:"errorMessage"`
}
