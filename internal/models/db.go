package models

import (
	"time"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type Profile struct {
	ID         int64  `json:"id"`
	UserID     int64  `json:"user_id"`
	Name       string `json:"name"`
	Location   string `json:"location"`
	Skills     string `json:"skills"`
	Experience string `json:"experience"`
	Education  string `json:"education"`
	ResumePath string `json:"resume_path"`
}

// ProfileUpdate is a partial update: nil fields are left untouched.
type ProfileUpdate struct {
	Name       *string
	Location   *string
	Skills     *string
	Experience *string
	Education  *string
	ResumePath *string
}

type Job struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	Title        string    `json:"title"`
	Company      string    `json:"company"`
	Location     string    `json:"location"`
	Description  string    `json:"description"`
	URL          string    `json:"url"`
	Status       string    `json:"status"`
	AppliedDate  string    `json:"applied_date,omitempty"`
	ResponseDate string    `json:"response_date,omitempty"`
	MatchScore   *float64  `json:"match_score,omitempty"`
	Source       string    `json:"source"`
	CreatedAt    time.Time `json:"created_at"`
	Notes        string    `json:"notes,omitempty"`
}

type JobSkill struct {
	ID       int64  `json:"id"`
	JobID    int64  `json:"job_id"`
	Skill    string `json:"skill"`
	Required bool   `json:"required"`
}

type SearchHistoryEntry struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	Query        string    `json:"query"`
	Location     string    `json:"location"`
	Timestamp    time.Time `json:"timestamp"`
	ResultsCount int       `json:"results_count"`
}

type Reminder struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	JobID       *int64    `json:"job_id,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     string    `json:"due_date"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
}
