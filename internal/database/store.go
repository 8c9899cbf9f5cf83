// Storage gateway over a local sqlite file
// No storage fault escapes: writes roll back and return a zero id or false

package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"go-jobsearch-assistant/internal/models"
)

type Store struct {
	db *sql.DB
}

// Open creates the data directory if needed, opens the sqlite file and
// ensures the schema exists. Table creation is idempotent.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return s, nil
}

func (s *Store) Close() {
	if s.db != nil {
		s.db.Close()
	}
}

func (s *Store) createTables() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT UNIQUE NOT NULL,
			email TEXT UNIQUE,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS user_profiles (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			name TEXT,
			location TEXT,
			skills TEXT,
			experience TEXT,
			education TEXT,
			resume_path TEXT,
			FOREIGN KEY (user_id) REFERENCES users (id)
		)`,
		`CREATE TABLE IF NOT EXISTS jobs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			title TEXT NOT NULL,
			company TEXT NOT NULL,
			location TEXT,
			description TEXT,
			url TEXT,
			status TEXT DEFAULT 'discovered',
			applied_date TEXT,
			response_date TEXT,
			match_score REAL,
			source TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			notes TEXT,
			FOREIGN KEY (user_id) REFERENCES users (id)
		)`,
		`CREATE TABLE IF NOT EXISTS job_skills (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			job_id INTEGER NOT NULL,
			skill TEXT NOT NULL,
			required BOOLEAN DEFAULT FALSE,
			FOREIGN KEY (job_id) REFERENCES jobs (id)
		)`,
		`CREATE TABLE IF NOT EXISTS search_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			query TEXT NOT NULL,
			location TEXT,
			timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			results_count INTEGER,
			FOREIGN KEY (user_id) REFERENCES users (id)
		)`,
		`CREATE TABLE IF NOT EXISTS reminders (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			job_id INTEGER,
			title TEXT NOT NULL,
			description TEXT,
			due_date TEXT,
			completed BOOLEAN DEFAULT FALSE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users (id),
			FOREIGN KEY (job_id) REFERENCES jobs (id)
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// insert runs one INSERT inside a transaction and returns the new row id,
// or 0 when the write failed and was rolled back.
func (s *Store) insert(query string, args ...interface{}) int64 {
	tx, err := s.db.Begin()
	if err != nil {
		log.Printf("❌ Error starting transaction: %v", err)
		return 0
	}

	res, err := tx.Exec(query, args...)
	if err != nil {
		tx.Rollback()
		return 0
	}

	id, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return 0
	}

	if err := tx.Commit(); err != nil {
		log.Printf("❌ Error committing write: %v", err)
		return 0
	}
	return id
}

// exec runs one statement inside a transaction; false means rolled back.
func (s *Store) exec(query string, args ...interface{}) bool {
	tx, err := s.db.Begin()
	if err != nil {
		log.Printf("❌ Error starting transaction: %v", err)
		return false
	}
	if _, err := tx.Exec(query, args...); err != nil {
		tx.Rollback()
		log.Printf("⚠️ Write failed: %v", err)
		return false
	}
	if err := tx.Commit(); err != nil {
		log.Printf("❌ Error committing write: %v", err)
		return false
	}
	return true
}

// AddUser returns the new user id, or 0 when the username or email is
// already taken.
func (s *Store) AddUser(username, email, passwordHash string) int64 {
	return s.insert(
		"INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)",
		username, email, passwordHash,
	)
}

// AddJob persists one job for a user and returns its id, 0 on failure.
func (s *Store) AddJob(job models.Job) int64 {
	return s.insert(
		`INSERT INTO jobs (user_id, title, company, location, description, url, source, match_score)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		job.UserID, job.Title, job.Company, job.Location, job.Description, job.URL, job.Source, job.MatchScore,
	)
}

// UpdateJobStatus changes a job's application status. Setting status to
// "applied" together with a date also stamps applied_date.
func (s *Store) UpdateJobStatus(jobID int64, status, appliedDate string) bool {
	if status == "applied" && appliedDate != "" {
		return s.exec("UPDATE jobs SET status = ?, applied_date = ? WHERE id = ?", status, appliedDate, jobID)
	}
	return s.exec("UPDATE jobs SET status = ? WHERE id = ?", status, jobID)
}

// JobsByUser lists a user's jobs newest first, optionally filtered by status.
func (s *Store) JobsByUser(userID int64, status string) []models.Job {
	query := "SELECT id, user_id, title, company, location, description, url, status, applied_date, response_date, match_score, source, created_at, notes FROM jobs WHERE user_id = ?"
	args := []interface{}{userID}
	if status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		log.Printf("❌ Error listing jobs: %v", err)
		return nil
	}
	defer rows.Close()

	var jobs []models.Job
	for rows.Next() {
		var j models.Job
		var location, description, url, appliedDate, responseDate, source, notes sql.NullString
		var matchScore sql.NullFloat64
		if err := rows.Scan(&j.ID, &j.UserID, &j.Title, &j.Company, &location, &description,
			&url, &j.Status, &appliedDate, &responseDate, &matchScore, &source, &j.CreatedAt, &notes); err != nil {
			log.Printf("⚠️ Error scanning job row: %v", err)
			continue
		}
		j.Location = location.String
		j.Description = description.String
		j.URL = url.String
		j.AppliedDate = appliedDate.String
		j.ResponseDate = responseDate.String
		j.Source = source.String
		j.Notes = notes.String
		if matchScore.Valid {
			score := matchScore.Float64
			j.MatchScore = &score
		}
		jobs = append(jobs, j)
	}
	return jobs
}

// AddJobSkill attaches one skill requirement to a job.
func (s *Store) AddJobSkill(jobID int64, skill string, required bool) bool {
	return s.exec("INSERT INTO job_skills (job_id, skill, required) VALUES (?, ?, ?)", jobID, skill, required)
}

// LogSearch records one search run.
func (s *Store) LogSearch(userID int64, query, location string, resultsCount int) bool {
	return s.exec(
		"INSERT INTO search_history (user_id, query, location, results_count) VALUES (?, ?, ?, ?)",
		userID, query, location, resultsCount,
	)
}

// AddReminder creates a reminder, optionally linked to a job.
func (s *Store) AddReminder(userID int64, title, description, dueDate string, jobID *int64) int64 {
	return s.insert(
		"INSERT INTO reminders (user_id, job_id, title, description, due_date) VALUES (?, ?, ?, ?, ?)",
		userID, jobID, title, description, dueDate,
	)
}

// UpdateProfile upserts the user's profile: nil fields in upd are left
// untouched on update and empty on insert.
func (s *Store) UpdateProfile(userID int64, upd models.ProfileUpdate) bool {
	columns := []string{}
	values := []interface{}{}
	appendField := func(name string, v *string) {
		if v != nil {
			columns = append(columns, name)
			values = append(values, *v)
		}
	}
	appendField("name", upd.Name)
	appendField("location", upd.Location)
	appendField("skills", upd.Skills)
	appendField("experience", upd.Experience)
	appendField("education", upd.Education)
	appendField("resume_path", upd.ResumePath)

	var exists bool
	err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM user_profiles WHERE user_id = ?)", userID).Scan(&exists)
	if err != nil {
		log.Printf("❌ Error checking profile: %v", err)
		return false
	}

	if exists {
		if len(columns) == 0 {
			return true
		}
		setClause := strings.Join(columns, " = ?, ") + " = ?"
		return s.exec("UPDATE user_profiles SET "+setClause+" WHERE user_id = ?", append(values, userID)...)
	}

	columns = append(columns, "user_id")
	values = append(values, userID)
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	query := fmt.Sprintf("INSERT INTO user_profiles (%s) VALUES (%s)", strings.Join(columns, ", "), placeholders)
	return s.exec(query, values...)
}

// Profile fetches the user's profile, nil when none exists.
func (s *Store) Profile(userID int64) *models.Profile {
	var p models.Profile
	var name, location, skills, experience, education, resumePath sql.NullString
	err := s.db.QueryRow(
		"SELECT id, user_id, name, location, skills, experience, education, resume_path FROM user_profiles WHERE user_id = ?",
		userID,
	).Scan(&p.ID, &p.UserID, &name, &location, &skills, &experience, &education, &resumePath)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		log.Printf("❌ Error fetching profile: %v", err)
		return nil
	}
	p.Name = name.String
	p.Location = location.String
	p.Skills = skills.String
	p.Experience = experience.String
	p.Education = education.String
	p.ResumePath = resumePath.String
	return &p
}

// UserByUsername fetches a user, nil when unknown.
func (s *Store) UserByUsername(username string) *models.User {
	var u models.User
	var email sql.NullString
	err := s.db.QueryRow(
		"SELECT id, username, email, password_hash, created_at FROM users WHERE username = ?",
		username,
	).Scan(&u.ID, &u.Username, &email, &u.PasswordHash, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		log.Printf("❌ Error fetching user: %v", err)
		return nil
	}
	u.Email = email.String
	return &u
}
