package models

import (
	"errors"
	"strings"
	"time"
)

// User is keyed by the platform principal. PurchasedCourseIDs has set
// semantics: a course id may appear at most once, enforced at commit time
// by the repository.
type User struct {
	ID                 string    `json:"id"`
	Username           string    `json:"username"`
	Bio                string    `json:"bio"`
	Skills             []string  `json:"skills"`
	EnrolledCourseIDs  []string  `json:"enrolled_course_ids"`
	PurchasedCourseIDs []string  `json:"purchased_course_ids"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (u *User) Validate() error {
	if u.ID == "" {
		return errors.New("principal required")
	}
	if len(strings.TrimSpace(u.Username)) < 3 {
		return errors.New("username too short")
	}
	return nil
}

func (u *User) HasPurchased(courseID string) bool {
	for _, id := range u.PurchasedCourseIDs {
		if id == courseID {
			return true
		}
	}
	return false
}
