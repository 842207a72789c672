// Package view renders the backend's HTML pages.
package view

// Endpoint is one row of the API table on the home page.
type Endpoint struct {
	Method      string
	Path        string
	Description string
}

// Endpoints lists the API the mock backend serves.
var Endpoints = []Endpoint{
	{"POST", "/api/auth/login", "Exchange email and password for a user and token"},
	{"POST", "/api/auth/register", "Create an account and sign it in"},
	{"POST", "/api/auth/logout", "End the session"},
	{"GET", "/api/auth/me", "Profile behind the bearer token"},
	{"GET", "/healthz", "Liveness probe"},
	{"GET", "/metrics", "Prometheus metrics"},
}
