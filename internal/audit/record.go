package audit

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Record is one audit observation.
//
// A committed Record is never mutated in place. Callers that need a
// modified copy take the value and change the copy.
type Record struct {
	SerialNumber   string   `json:"serialNumber" yaml:"serialNumber"`
	Location       string   `json:"location" yaml:"location"`
	Observation    string   `json:"observation" yaml:"observation"`
	ImageReference string   `json:"imageReference" yaml:"imageReference"`
	Priority       Priority `json:"priority" yaml:"priority"`
	Recommendation string   `json:"recommendation" yaml:"recommendation"`
	Status         string   `json:"status" yaml:"status"`
}

// Default returns the empty form state: every text field blank, no image
// and the default priority.
func Default() Record {
	return Record{Priority: DefaultPriority}
}

// HasImage reports whether an image reference is attached.
func (r Record) HasImage() bool {
	return r.ImageReference != ""
}

// Get returns the value of field f.
func (r Record) Get(f Field) string {
	switch f {
	case FieldSerialNumber:
		return r.SerialNumber
	case FieldLocation:
		return r.Location
	case FieldObservation:
		return r.Observation
	case FieldImageReference:
		return r.ImageReference
	case FieldPriority:
		return string(r.Priority)
	case FieldRecommendation:
		return r.Recommendation
	case FieldStatus:
		return r.Status
	}
	return ""
}

// With returns a copy of r with field f set to value.
// Priority values are parsed; an unknown priority is a *ValidationError.
func (r Record) With(f Field, value string) (Record, error) {
	switch f {
	case FieldSerialNumber:
		r.SerialNumber = value
	case FieldLocation:
		r.Location = value
	case FieldObservation:
		r.Observation = value
	case FieldImageReference:
		r.ImageReference = value
	case FieldPriority:
		p, err := ParsePriority(value)
		if err != nil {
			return r, &ValidationError{Fields: []Field{FieldPriority}, Message: err.Error()}
		}
		r.Priority = p
	case FieldRecommendation:
		r.Recommendation = value
	case FieldStatus:
		r.Status = value
	default:
		return r, &ValidationError{Message: fmt.Sprintf("unknown field %q", f)}
	}
	return r, nil
}

// Validate checks the commit rules. SerialNumber and Location must be
// non-empty after trimming; when requirePriority is set the priority must
// be present as well. Every failing field is listed in the returned error.
func (r Record) Validate(requirePriority bool) error {
	var missing []Field
	if strings.TrimSpace(r.SerialNumber) == "" {
		missing = append(missing, FieldSerialNumber)
	}
	if strings.TrimSpace(r.Location) == "" {
		missing = append(missing, FieldLocation)
	}
	if requirePriority && strings.TrimSpace(string(r.Priority)) == "" {
		missing = append(missing, FieldPriority)
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing, Message: "required fields missing"}
	}
	if r.Priority != "" && !r.Priority.Valid() {
		return &ValidationError{
			Fields:  []Field{FieldPriority},
			Message: fmt.Sprintf("invalid priority %q", r.Priority),
		}
	}
	return nil
}

// Normalize returns the stored form of r: text fields trimmed and NFC
// normalized, empty priority replaced by the default.
func (r Record) Normalize() Record {
	r.SerialNumber = normalizeText(r.SerialNumber)
	r.Location = normalizeText(r.Location)
	r.Observation = normalizeText(r.Observation)
	r.ImageReference = strings.TrimSpace(r.ImageReference)
	r.Recommendation = normalizeText(r.Recommendation)
	r.Status = normalizeText(r.Status)
	if r.Priority == "" {
		r.Priority = DefaultPriority
	}
	return r
}

func normalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// wireRecord is the persisted JSON shape. ImageReference is a pointer so
// an absent image serializes as null.
type wireRecord struct {
	SerialNumber   string   `json:"serialNumber"`
	Location       string   `json:"location"`
	Observation    string   `json:"observation"`
	ImageReference *string  `json:"imageReference"`
	Priority       Priority `json:"priority"`
	Recommendation string   `json:"recommendation"`
	Status         string   `json:"status"`
}

// legacyRecord carries the key names written by the first mobile release.
type legacyRecord struct {
	SlNo  *string `json:"slNo"`
	Image *string `json:"image"`
}

// MarshalJSON writes the persisted layout with imageReference null when
// no image is attached.
func (r Record) MarshalJSON() ([]byte, error) {
	w := wireRecord{
		SerialNumber:   r.SerialNumber,
		Location:       r.Location,
		Observation:    r.Observation,
		Priority:       r.Priority,
		Recommendation: r.Recommendation,
		Status:         r.Status,
	}
	if r.ImageReference != "" {
		ref := r.ImageReference
		w.ImageReference = &ref
	}
	return json.Marshal(w)
}

// UnmarshalJSON reads the persisted layout. The legacy keys slNo and image
// are used when serialNumber and imageReference are absent.
func (r *Record) UnmarshalJSON(data []byte) error {
	var w wireRecord
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	var legacy legacyRecord
	if err := json.Unmarshal(data, &legacy); err != nil {
		return err
	}

	out := Record{
		SerialNumber:   w.SerialNumber,
		Location:       w.Location,
		Observation:    w.Observation,
		Priority:       w.Priority,
		Recommendation: w.Recommendation,
		Status:         w.Status,
	}
	if w.ImageReference != nil {
		out.ImageReference = *w.ImageReference
	} else if legacy.Image != nil {
		out.ImageReference = *legacy.Image
	}
	if out.SerialNumber == "" && legacy.SlNo != nil {
		out.SerialNumber = *legacy.SlNo
	}
	if out.Priority == "" {
		out.Priority = DefaultPriority
	}
	*r = out
	return nil
}
