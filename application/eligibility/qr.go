package eligibility

import (
	"errors"
	"fmt"
	"strings"
)

// SessionTicket is the payload carried inside a session QR code. Every field
// is mandatory; a ticket missing any of them never reaches the pipeline.
type SessionTicket struct {
	Faculty      string
	Course       string
	Section      string
	TimeRange    string
	EnrollmentID string
	LocationName string
}

var ErrMalformedTicket = errors.New("malformed session ticket")

const (
	keyFaculty      = "FACULTY"
	keyCourse       = "COURSE"
	keySection      = "SECTION"
	keyTime         = "TIME"
	keyEnrollmentID = "ENROLLMENT_ID"
	keyLocationName = "LOCATION_NAME"
)

// ParseQRPayload decodes the semicolon-delimited key:value ticket format.
// Keys are case-insensitive and surrounding whitespace is ignored. Unknown
// keys are skipped; a missing required key fails the whole parse.
func ParseQRPayload(raw string) (*SessionTicket, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("%w: empty payload", ErrMalformedTicket)
	}

	fields := map[string]string{}
	for _, segment := range strings.Split(raw, ";") {
		if strings.TrimSpace(segment) == "" {
			continue
		}
		parts := strings.SplitN(segment, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("%w: segment %q has no value", ErrMalformedTicket, strings.TrimSpace(segment))
		}
		key := strings.ToUpper(strings.TrimSpace(parts[0]))
		fields[key] = strings.TrimSpace(parts[1])
	}

	ticket := SessionTicket{
		Faculty:      fields[keyFaculty],
		Course:       fields[keyCourse],
		Section:      fields[keySection],
		TimeRange:    fields[keyTime],
		EnrollmentID: fields[keyEnrollmentID],
		LocationName: fields[keyLocationName],
	}

	for key, value := range map[string]string{
		keyFaculty:      ticket.Faculty,
		keyCourse:       ticket.Course,
		keySection:      ticket.Section,
		keyTime:         ticket.TimeRange,
		keyEnrollmentID: ticket.EnrollmentID,
		keyLocationName: ticket.LocationName,
	} {
		if value == "" {
			return nil, fmt.Errorf("%w: missing %s", ErrMalformedTicket, key)
		}
	}
	return &ticket, nil
}

// FormatQRPayload is the inverse of ParseQRPayload. The field order is fixed
// so generated codes are stable across restarts.
func FormatQRPayload(ticket SessionTicket) string {
	return fmt.Sprintf("%s:%s;%s:%s;%s:%s;%s:%s;%s:%s;%s:%s",
		keyFaculty, ticket.Faculty,
		keyCourse, ticket.Course,
		keySection, ticket.Section,
		keyTime, ticket.TimeRange,
		keyEnrollmentID, ticket.EnrollmentID,
		keyLocationName, ticket.LocationName,
	)
}
