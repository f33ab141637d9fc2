// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

// Project is one entry in the snippet catalog.
//
// The three code fields are pointers because each one is independently
// nullable: a nil pointer marshals to JSON null and maps to SQL NULL.
// A pointer to "" is a different thing (an explicitly empty snippet).
//
// JSON field names are camelCase because that's the contract the browser
// client already consumes:
//
//	{"id":1,"name":"Simple 404 Page","category":"html-css","technologies":["HTML","CSS"],...}
type Project struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Category      Category   `json:"category"`
	Technologies  StringList `json:"technologies"`
	Features      StringList `json:"features"`
	SourceCodeURL string     `json:"sourceCodeUrl"`
	LiveDemoURL   string     `json:"liveDemoUrl"`
	HTMLCode      *string    `json:"htmlCode"`
	CSSCode       *string    `json:"cssCode"`
	JSCode        *string    `json:"jsCode"`
}
