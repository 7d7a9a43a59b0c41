package models

// Request bodies carry validator/v10 tags; utils.ValidateStruct reports
// every field violation at once.

// CreateProgramRequest is the admin payload for creating a program.
type CreateProgramRequest struct {
	Title         string   `json:"title" validate:"required,min=3"`
	Description   string   `json:"description" validate:"required,min=10"`
	Category      string   `json:"category" validate:"required"`
	Level         string   `json:"level" validate:"required,oneof=beginner intermediate advanced"`
	DurationWeeks int      `json:"duration_weeks" validate:"required,min=1"`
	Date          string   `json:"date" validate:"required,datetime=2006-01-02"`
	Time          string   `json:"time" validate:"omitempty"`
	Price         float64  `json:"price" validate:"min=0"`
	Seats         int      `json:"seats" validate:"min=0"`
	Icon          string   `json:"icon" validate:"omitempty"`
	Topics        []string `json:"topics" validate:"omitempty,dive,min=1"`
	Requirements  []string `json:"requirements" validate:"omitempty,dive,min=1"`
}

// UpdateProgramRequest carries optional fields; nil means "leave as is".
type UpdateProgramRequest struct {
	Title         *string   `json:"title" validate:"omitempty,min=3"`
	Description   *string   `json:"description" validate:"omitempty,min=10"`
	Category      *string   `json:"category" validate:"omitempty"`
	Level         *string   `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
	DurationWeeks *int      `json:"duration_weeks" validate:"omitempty,min=1"`
	Date          *string   `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Time          *string   `json:"time"`
	Price         *float64  `json:"price" validate:"omitempty,min=0"`
	Seats         *int      `json:"seats" validate:"omitempty,min=0"`
	Icon          *string   `json:"icon"`
	Topics        *[]string `json:"topics"`
	Requirements  *[]string `json:"requirements"`
}

// IsEmpty reports whether no field was supplied at all.
func (r UpdateProgramRequest) IsEmpty() bool {
	return r.Title == nil && r.Description == nil && r.Category == nil &&
		r.Level == nil && r.DurationWeeks == nil && r.Date == nil &&
		r.Time == nil && r.Price == nil && r.Seats == nil && r.Icon == nil &&
		r.Topics == nil && r.Requirements == nil
}

// CreateSessionRequest is the admin payload for scheduling a session.
type CreateSessionRequest struct {
	ProgramID   string `json:"program_id" validate:"required"`
	StartTime   string `json:"start_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	EndTime     string `json:"end_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	MaxCapacity int    `json:"max_capacity" validate:"required,min=1"`
}

// CheckoutRequest initiates a booking and a Stripe payment intent.
type CheckoutRequest struct {
	ProgramID string `json:"program_id" validate:"required"`
	SessionID string `json:"session_id" validate:"omitempty"`
}

// UpdateProfileRequest is the payload for PUT /users/profile.
type UpdateProfileRequest struct {
	FullName   string `json:"full_name" validate:"required,min=2"`
	Phone      string `json:"phone" validate:"omitempty,min=7"`
	PictureURL string `json:"picture_url" validate:"omitempty,url"`
}

// RegisterRequest is the payload for POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required,min=2"`
}

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordRequest is the payload for PUT /users/password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}
