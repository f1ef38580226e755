package model

type Doctor struct {
	Base
	Name   string `db:"name" json:"name"`
	Email  string `db:"email" json:"email"`
	Phone  string `db:"phone" json:"phone,omitempty"`
	Status string `db:"status" json:"status"`
}

type CreateDoctorRequest struct {
	Name  string `json:"name" binding:"required,max=200"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone" binding:"omitempty,max=32"`
}

type UpdateDoctorRequest struct {
	Name   *string `json:"name" binding:"omitempty,max=200"`
	Email  *string `json:"email" binding:"omitempty,email"`
	Phone  *string `json:"phone" binding:"omitempty,max=32"`
	Status *string `json:"status" binding:"omitempty,oneof=active inactive"`
}
