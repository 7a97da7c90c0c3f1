package common

import "os"

// Getenv returns the value of key or fallback when unset.
func Getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// SiteURL returns the public base URL of the site without a trailing
// slash, used by the sitemap and outbound emails.
func SiteURL() string {
	domain := Getenv("DOMAIN", "http://localhost:8080")
	if domain[len(domain)-1] == '/' {
		domain = domain[:len(domain)-1]
	}
	return domain
}
