package models

// User represents the authenticated account as returned by the backend.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Video is a single catalog entry. Every field is assigned server-side; the
// client only ever supplies a file and a title on upload.
type Video struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	DisplayTitle     string `json:"display_title"`
	OriginalFilename string `json:"original_filename"`
	UploadedAt       string `json:"uploaded_at"`
	Processed        bool   `json:"processed"`
	ManifestURL      string `json:"mpd_file,omitempty"`
}

// Credentials groups the identity and opaque token issued on login or
// registration. The two are persisted together or not at all.
type Credentials struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}
