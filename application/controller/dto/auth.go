package dto

type LoginStudentDTO struct {
	MatricNumber string `json:"matricNumber" validate:"required,matric"`
	Password     string `json:"password" validate:"required"`
}
