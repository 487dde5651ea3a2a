package dto

type CreateClassSessionDTO struct {
	Faculty      string `json:"faculty" validate:"required"`
	Course       string `json:"course" validate:"required"`
	Section      string `json:"section" validate:"required"`
	SessionDate  string `json:"sessionDate" validate:"required,datetime=2006-01-02"`
	StartTime    string `json:"startTime" validate:"required,clock"`
	EndTime      string `json:"endTime" validate:"required,clock"`
	GraceMinutes int    `json:"graceMinutes" validate:"gte=0,lte=120"`
	LocationName string `json:"locationName" validate:"required"`
}
