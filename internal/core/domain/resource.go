package domain

import "time"

// Employee is a staff-side user listed by /api/Users/employees.
type Employee struct {
	UserID      int64    `json:"userId"`
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	Email       string   `json:"email"`
	PhoneNumber string   `json:"phoneNumber"`
	Roles       []string `json:"roles"`
	DateOfBirth *string  `json:"dateOfBirth,omitempty"`
	Sex         *string  `json:"sex,omitempty"`
}

func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// EmployeeInput is the body for creating or updating an employee account.
type EmployeeInput struct {
	FirstName   string   `json:"firstName,omitempty"   validate:"required"`
	LastName    string   `json:"lastName,omitempty"    validate:"required"`
	Email       string   `json:"email,omitempty"       validate:"required,email"`
	PhoneNumber string   `json:"phoneNumber,omitempty"`
	Roles       []string `json:"roles,omitempty"       validate:"required,min=1"`
	Password    string   `json:"password,omitempty"`
}

// Qualification describes a consultant's credentials. ConsultantID is the
// cross-reference to Employee.UserID.
type Qualification struct {
	QualificationID int64  `json:"qualificationId"`
	ConsultantID    int64  `json:"consultantId"`
	Qualifications  string `json:"qualifications"`
	Experience      string `json:"experience"`
	Specialization  string `json:"specialization"`
}

type QualificationInput struct {
	ConsultantID   int64  `json:"consultantId"   validate:"required,gt=0"`
	Qualifications string `json:"qualifications" validate:"required"`
	Experience     string `json:"experience"`
	Specialization string `json:"specialization"`
}

// Service is a bookable entry of the service catalog.
type Service struct {
	ServiceID         int64   `json:"serviceId"`
	ServiceName       string  `json:"serviceName"`
	Description       string  `json:"description,omitempty"`
	Price             float64 `json:"price"`
	EstimatedDuration int     `json:"estimatedDuration"`
	Category          string  `json:"category,omitempty"`
	IsActive          bool    `json:"isActive"`
}

// FeedbackEntry is a customer's rating of a service.
type FeedbackEntry struct {
	FeedbackID int64     `json:"feedbackId"`
	UserID     int64     `json:"userId"`
	ServiceID  int64     `json:"serviceId"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"createdAt,omitempty"`
}

type FeedbackInput struct {
	UserID    int64  `json:"userId,omitempty"`
	ServiceID int64  `json:"serviceId"         validate:"required,gt=0"`
	Rating    int    `json:"rating"            validate:"required,min=1,max=5"`
	Comment   string `json:"comment"           validate:"max=1000"`
}

// Booking is a scheduled appointment for a catalog service.
type Booking struct {
	BookingID       int64  `json:"bookingId"`
	ServiceID       int64  `json:"serviceId"`
	UserID          int64  `json:"userId,omitempty"`
	AppointmentTime string `json:"appointmentTime"`
	Notes           string `json:"notes,omitempty"`
	Status          string `json:"status,omitempty"`
}

// BookingInput carries the appointment request. AppointmentTime is ISO 8601
// local time, e.g. 2024-06-01T09:00:00.
type BookingInput struct {
	ServiceID       int64  `json:"serviceId"       validate:"required,gt=0"`
	AppointmentTime string `json:"appointmentTime" validate:"required,datetime=2006-01-02T15:04:05"`
	Notes           string `json:"notes,omitempty" validate:"max=500"`
}
