package models

import "time"

// Program is a course offering. A program owns zero or more sessions and
// materials.
type Program struct {
	ID            string    `bson:"id" json:"id"`
	Title         string    `bson:"title" json:"title"`
	Description   string    `bson:"description" json:"description"`
	Category      string    `bson:"category" json:"category"`
	Level         string    `bson:"level" json:"level"`
	DurationWeeks int       `bson:"duration_weeks" json:"duration_weeks"`
	Date          string    `bson:"date" json:"date"` // "YYYY-MM-DD"
	Time          string    `bson:"time,omitempty" json:"time,omitempty"`
	Price         float64   `bson:"price" json:"price"`
	Seats         int       `bson:"seats" json:"seats"`
	Icon          string    `bson:"icon,omitempty" json:"icon,omitempty"`
	Topics        []string  `bson:"topics,omitempty" json:"topics,omitempty"`
	Requirements  []string  `bson:"requirements,omitempty" json:"requirements,omitempty"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updated_at"`
}

// Session is a scheduled occurrence of a program with a seat counter.
// CurrentCapacity counts occupied seats and is mutated only through the
// session repository's atomic acquire/release operations.
type Session struct {
	ID              string    `bson:"id" json:"id"`
	ProgramID       string    `bson:"program_id" json:"program_id"`
	StartTime       time.Time `bson:"start_time" json:"start_time"`
	EndTime         time.Time `bson:"end_time" json:"end_time"`
	CurrentCapacity int       `bson:"current_capacity" json:"current_capacity"`
	MaxCapacity     int       `bson:"max_capacity" json:"max_capacity"`
	CreatedAt       time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time `bson:"updated_at" json:"updated_at"`
}
