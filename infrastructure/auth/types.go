package auth

type ClaimsData struct {
	StudentID    string
	MatricNumber string
	FullName     string
	DeviceID     string
	TokenType    string
	IssuedAt     int64
	ExpiresAt    int64
}
