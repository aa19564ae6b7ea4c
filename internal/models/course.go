package models

import (
	"errors"
	"strings"
	"time"
)

type Course struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Instructor    string    `json:"instructor"`
	Duration      int64     `json:"duration"` // seconds
	SkillLevel    string    `json:"skill_level"`
	Prerequisites []string  `json:"prerequisites"`
	Price         int64     `json:"price"` // smallest currency unit
	Students      []string  `json:"students"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (c *Course) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return errors.New("title required")
	}
	if c.Price < 0 {
		return errors.New("price must be >= 0")
	}
	if c.Duration < 0 {
		return errors.New("duration must be >= 0")
	}
	return nil
}

func (c *Course) HasStudent(principal string) bool {
	for _, s := range c.Students {
		if s == principal {
			return true
		}
	}
	return false
}
