package audit

import "fmt"

// Field names a record field by its JSON key.
type Field string

const (
	FieldSerialNumber   Field = "serialNumber"
	FieldLocation       Field = "location"
	FieldObservation    Field = "observation"
	FieldImageReference Field = "imageReference"
	FieldPriority       Field = "priority"
	FieldRecommendation Field = "recommendation"
	FieldStatus         Field = "status"
)

// Fields lists every record field in form order.
var Fields = []Field{
	FieldSerialNumber,
	FieldLocation,
	FieldObservation,
	FieldImageReference,
	FieldPriority,
	FieldRecommendation,
	FieldStatus,
}

// ParseField resolves a field name. Legacy names from older payloads
// (slNo, image) are accepted.
func ParseField(name string) (Field, error) {
	switch name {
	case "slNo", "serial":
		return FieldSerialNumber, nil
	case "image":
		return FieldImageReference, nil
	}
	for _, f := range Fields {
		if string(f) == name {
			return f, nil
		}
	}
	return "", &ValidationError{Message: fmt.Sprintf("unknown field %q", name)}
}
