package models

import (
	"time"
)

// FilterAll disables the category and level filters
const FilterAll = "All"

// Teacher is the public summary of a course author
type Teacher struct {
	ID        string  `json:"id"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	AvatarURL *string `json:"avatar_url"`
}

// Course represents a row in the courses table plus the fields merged in for responses
type Course struct {
	ID            string     `json:"id"`
	TeacherID     string     `json:"teacher_id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Price         float64    `json:"price"`
	DurationHours float64    `json:"duration_hours"`
	Category      string     `json:"category"`
	Level         string     `json:"level"`
	ThumbnailURL  *string    `json:"thumbnail_url"`
	IsPublished   bool       `json:"is_published"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at"`

	Teacher     *Teacher        `json:"teacher"`
	Rating      float64         `json:"rating"`
	ReviewCount int             `json:"reviewCount"`
	Enrollment  *EnrollmentData `json:"enrollment,omitempty"`
}

// CourseCreate is the body of a new course
type CourseCreate struct {
	Title         string  `json:"title" validate:"required,max=200"`
	Description   string  `json:"description" validate:"required"`
	Price         float64 `json:"price" validate:"gte=0"`
	DurationHours float64 `json:"duration_hours" validate:"gte=0"`
	Category      string  `json:"category" validate:"required,max=100"`
	Level         string  `json:"level" validate:"required,max=50"`
	ThumbnailURL  *string `json:"thumbnail_url" validate:"omitempty,url"`
	IsPublished   bool    `json:"is_published"`
}

// CourseUpdate is a partial course update; nil fields are left unchanged
type CourseUpdate struct {
	Title         *string  `json:"title" validate:"omitempty,max=200"`
	Description   *string  `json:"description"`
	Price         *float64 `json:"price" validate:"omitempty,gte=0"`
	DurationHours *float64 `json:"duration_hours" validate:"omitempty,gte=0"`
	Category      *string  `json:"category" validate:"omitempty,max=100"`
	Level         *string  `json:"level" validate:"omitempty,max=50"`
	ThumbnailURL  *string  `json:"thumbnail_url" validate:"omitempty,url"`
	IsPublished   *bool    `json:"is_published"`
}

// IsEmpty reports whether the update sets no field
func (u *CourseUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Price == nil &&
		u.DurationHours == nil && u.Category == nil && u.Level == nil &&
		u.ThumbnailURL == nil && u.IsPublished == nil
}

// CourseFilter narrows the public catalogue
type CourseFilter struct {
	Search    string
	Category  string
	Level     string
	MinPrice  float64
	MaxPrice  float64
	MinRating float64
}

// DefaultCourseFilter returns the catalogue defaults
func DefaultCourseFilter() CourseFilter {
	return CourseFilter{
		Category: FilterAll,
		Level:    FilterAll,
		MinPrice: 0,
		MaxPrice: 10000,
	}
}

// RatingSummary aggregates course_reviews for one course
type RatingSummary struct {
	Total float64
	Count int
}

// Average returns the mean rating, or zero without reviews
func (r RatingSummary) Average() float64 {
	if r.Count == 0 {
		return 0
	}
	return r.Total / float64(r.Count)
}

// EnrollmentData is the per-student progress attached to an enrolled course
type EnrollmentData struct {
	ID                 string     `json:"id"`
	EnrolledAt         time.Time  `json:"enrolled_at"`
	ProgressPercentage int        `json:"progress_percentage"`
	CompletedAt        *time.Time `json:"completed_at"`
}

// EnrolledCourse pairs an enrollment with its course
type EnrolledCourse struct {
	Enrollment EnrollmentData
	Course     *Course
}
