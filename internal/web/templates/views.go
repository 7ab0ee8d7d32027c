// Package templates renders the HTML pages of the upload UI as templ
// components.
package templates

// ProfileOption is one entry of the profile select.
type ProfileOption struct {
	Name        string
	Description string
	Selected    bool
}

// IndexData feeds the upload page.
type IndexData struct {
	Profiles    []ProfileOption
	GroupName   string
	MaxFileSize string // Human readable, e.g. "32 MB"
	CSRFToken   string // Empty when CSRF protection is off
	Error       *Alert
}

// Alert is a user-facing error shown above the form.
type Alert struct {
	Message string
	Action  string
	Code    string
}

func optionLabel(p ProfileOption) string {
	if p.Description == "" {
		return p.Name
	}
	return p.Name + " - " + p.Description
}
