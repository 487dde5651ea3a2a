package dto

type ScanAttendanceDTO struct {
	// the raw QR payload as scanned
	Ticket                string   `json:"ticket" validate:"required"`
	VerificationSessionID string   `json:"verificationSessionID" validate:"required"`
	Latitude              *float64 `json:"latitude"`
	Longitude             *float64 `json:"longitude"`
}
