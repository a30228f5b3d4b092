package domain

import "time"

// OperatorAssignment binds one operator identity to one game.
type OperatorAssignment struct {
	GameNumber     int       `json:"game_number"`
	Identity       string    `json:"identity"`
	Name           string    `json:"name"`
	CredentialHash string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

// OperatorCredential carries a plaintext credential. It is returned once,
// at creation or reset, and never stored.
type OperatorCredential struct {
	GameNumber int    `json:"game_number"`
	Identity   string `json:"identity"`
	Name       string `json:"name"`
	Credential string `json:"credential"`
}

// Caller is the authenticated principal behind a request.
type Caller struct {
	Identity string `json:"identity"`
	IsAdmin  bool   `json:"is_admin"`
}

// Anonymous reports whether no identity was resolved.
func (c Caller) Anonymous() bool {
	return c.Identity == ""
}
