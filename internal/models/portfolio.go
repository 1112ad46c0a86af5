package models

import "strings"

// Link is a social or personal link on a profile.
type Link struct {
	ID       *string `json:"id,omitempty"`
	LinkType string  `json:"link_type"`
	URL      string  `json:"url"`
}

// WorkExperience is one position in a profile's work history.
type WorkExperience struct {
	ID          *string `json:"id,omitempty"`
	CompanyName string  `json:"company_name"`
	Role        string  `json:"role"`
	StartDate   Date    `json:"start_date"`
	EndDate     *Date   `json:"end_date,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Education is one entry in a profile's education history.
type Education struct {
	ID              *string `json:"id,omitempty"`
	InstitutionName string  `json:"institution_name"`
	Degree          string  `json:"degree"`
	FieldOfStudy    string  `json:"field_of_study"`
	StartDate       Date    `json:"start_date"`
	EndDate         *Date   `json:"end_date,omitempty"`
	Description     *string `json:"description,omitempty"`
}

// Media is an uploaded or linked portfolio item.
type Media struct {
	ID          *string `json:"id,omitempty"`
	MediaType   string  `json:"media_type"`
	URL         string  `json:"url"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// CodeSnippet is a code sample shown on a profile.
type CodeSnippet struct {
	ID       *string `json:"id,omitempty"`
	Title    string  `json:"title"`
	Code     string  `json:"code"`
	Language string  `json:"language"`
}

// ProfileData is the editable body of a portfolio profile.
type ProfileData struct {
	FirstName       *string          `json:"first_name,omitempty"`
	LastName        *string          `json:"last_name,omitempty"`
	Bio             *string          `json:"bio,omitempty"`
	ElevatorPitch   *string          `json:"elevator_pitch,omitempty"`
	BusinessEmail   *string          `json:"business_email,omitempty"`
	PhoneNumber     *string          `json:"phone_number,omitempty"`
	Links           []Link           `json:"links"`
	WorkExperiences []WorkExperience `json:"work_experiences"`
	Educations      []Education      `json:"educations"`
	Media           []Media          `json:"media"`
	CodeSnippets    []CodeSnippet    `json:"code_snippets"`
}

// Normalize replaces nil collections with empty slices so they encode as [] rather than null.
func (p *ProfileData) Normalize() {
	if p.Links == nil {
		p.Links = []Link{}
	}
	if p.WorkExperiences == nil {
		p.WorkExperiences = []WorkExperience{}
	}
	if p.Educations == nil {
		p.Educations = []Education{}
	}
	if p.Media == nil {
		p.Media = []Media{}
	}
	if p.CodeSnippets == nil {
		p.CodeSnippets = []CodeSnippet{}
	}
}

// DisplayName joins the first and last names, or returns fallback when both are empty.
func (p ProfileData) DisplayName(fallback string) string {
	return displayName(p.FirstName, p.LastName, fallback)
}

// Profile is a stored portfolio profile.
type Profile struct {
	ProfileData
	ID     string `json:"id"`
	UserID string `json:"user_id"`
}

// PublicProfile is the summary shown in the public profile directory.
type PublicProfile struct {
	UserID        string  `json:"user_id"`
	FirstName     *string `json:"first_name,omitempty"`
	LastName      *string `json:"last_name,omitempty"`
	Bio           *string `json:"bio,omitempty"`
	ElevatorPitch *string `json:"elevator_pitch,omitempty"`
}

// DisplayName joins the first and last names, or returns the user id when both are empty.
func (p PublicProfile) DisplayName() string {
	return displayName(p.FirstName, p.LastName, p.UserID)
}

// ProfileHealth reports whether the caller already has a profile.
type ProfileHealth struct {
	ProfileExists bool `json:"profile_exists"`
}

// Picture is raw image bytes returned by the profile picture endpoint.
type Picture struct {
	ContentType string
	Data        []byte
}

func displayName(first, last *string, fallback string) string {
	var parts []string
	for _, p := range []*string{first, last} {
		if p != nil && strings.TrimSpace(*p) != "" {
			parts = append(parts, strings.TrimSpace(*p))
		}
	}
	if len(parts) == 0 {
		return fallback
	}
	return strings.Join(parts, " ")
}
