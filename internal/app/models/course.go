package models

import "time"

// CourseLevel is the difficulty tier of a catalogue course
type CourseLevel string

const (
	CourseLevelBeginner     CourseLevel = "beginner"
	CourseLevelIntermediate CourseLevel = "intermediate"
	CourseLevelAdvanced     CourseLevel = "advanced"
)

// IsValid reports whether the level is known
func (l CourseLevel) IsValid() bool {
	switch l {
	case CourseLevelBeginner, CourseLevelIntermediate, CourseLevelAdvanced:
		return true
	}
	return false
}

// Course is a seeded catalogue entry ('courses' table)
type Course struct {
	ID          int64       `json:"id" db:"id"`
	Title       string      `json:"title" db:"title"`
	Description string      `json:"description" db:"description"`
	Level       CourseLevel `json:"level" db:"level"`
	Category    string      `json:"category" db:"category"`
	XPReward    int         `json:"xpReward" db:"xp_reward"`
	URL         string      `json:"url" db:"url"`
	IsActive    bool        `json:"isActive" db:"is_active"`
	CreatedAt   time.Time   `json:"createdAt" db:"created_at"`
}

// CourseFilter narrows course listings; empty fields match everything
type CourseFilter struct {
	Level    string
	Category string
}

// UserCourse records one user's enrollment in one course ('user_courses' table)
type UserCourse struct {
	ID          int64      `json:"id" db:"id"`
	UserID      int64      `json:"userId" db:"user_id"`
	CourseID    int64      `json:"courseId" db:"course_id"`
	Progress    int        `json:"progress" db:"progress"`
	IsCompleted bool       `json:"isCompleted" db:"is_completed"`
	EnrolledAt  time.Time  `json:"enrolledAt" db:"enrolled_at"`
	CompletedAt *time.Time `json:"completedAt,omitempty" db:"completed_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`

	Course *Course `json:"course,omitempty"`
}

// CourseCompletion is the outcome of completing an enrollment
type CourseCompletion struct {
	Enrollment *UserCourse
	Award      PointsAward
}
