// ABOUTME: Data models for energy CRM entities
// ABOUTME: Defines User, Company, Contact, Deal, and Activity records and their fixed value sets
package models

import (
	"time"
)

// Location is the city/state/country triple shared by companies, contacts and deals.
type Location struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
}

type User struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      Role       `json:"role"`
	Territory string     `json:"territory"`
	Avatar    string     `json:"avatar,omitempty"`
	Active    bool       `json:"active"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

type Company struct {
	ID                 string             `json:"id"`
	Name               string             `json:"name"`
	Type               CompanyType        `json:"type"`
	IndustrySegment    IndustrySegment    `json:"industrySegment"`
	Location           Location           `json:"location"`
	Territory          string             `json:"territory"`
	Size               CompanySize        `json:"size"`
	Revenue            *float64           `json:"revenue,omitempty"`
	PrimaryContactID   string             `json:"primaryContactId,omitempty"`
	RelationshipStatus RelationshipStatus `json:"relationshipStatus"`
	CreatedDate        time.Time          `json:"createdDate"`
	LastContactDate    *time.Time         `json:"lastContactDate,omitempty"`
}

type Contact struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Title           string        `json:"title"`
	Email           string        `json:"email"`
	Phone           string        `json:"phone"`
	CompanyID       string        `json:"companyId"`
	Location        Location      `json:"location"`
	Territory       string        `json:"territory"`
	AssignedUserID  string        `json:"assignedUserId"`
	Status          ContactStatus `json:"status"`
	CreatedDate     time.Time     `json:"createdDate"`
	LastContactDate *time.Time    `json:"lastContactDate,omitempty"`
	Notes           string        `json:"notes,omitempty"`
}

type Deal struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	CompanyID        string      `json:"companyId"`
	ContactID        string      `json:"contactId"`
	ProjectType      ProjectType `json:"projectType"`
	Capacity         *float64    `json:"capacity,omitempty"` // MW
	Location         Location    `json:"location"`
	Value            float64     `json:"value"`
	Probability      int         `json:"probability"` // 0-100
	Stage            Stage       `json:"stage"`
	CloseDate        time.Time   `json:"closeDate"`
	AssignedUserID   string      `json:"assignedUserId"`
	CreatedDate      time.Time   `json:"createdDate"`
	LastActivityDate *time.Time  `json:"lastActivityDate,omitempty"`
	Notes            string      `json:"notes,omitempty"`
}

type Activity struct {
	ID           string       `json:"id"`
	Type         ActivityType `json:"type"`
	Subject      string       `json:"subject"`
	Description  string       `json:"description"`
	ContactID    string       `json:"contactId,omitempty"`
	DealID       string       `json:"dealId,omitempty"`
	UserID       string       `json:"userId"`
	Date         time.Time    `json:"date"`
	Duration     *int         `json:"duration,omitempty"` // minutes
	Outcome      Outcome      `json:"outcome,omitempty"`
	NextSteps    string       `json:"nextSteps,omitempty"`
	FollowUpDate *time.Time   `json:"followUpDate,omitempty"`
	CreatedDate  time.Time    `json:"createdDate"`
}

// RecordID returns the record key. The store uses it to match updates and deletes.
func (u User) RecordID() string     { return u.ID }
func (c Company) RecordID() string  { return c.ID }
func (c Contact) RecordID() string  { return c.ID }
func (d Deal) RecordID() string     { return d.ID }
func (a Activity) RecordID() string { return a.ID }

// ClampProbability bounds a win probability to [0,100]. Input surfaces call
// it; the store never does.
func ClampProbability(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
