package utils

import (
	"net/url"
	"regexp"
)

// ExtractNameFromEmail extracts the username before '@'
func ExtractNameFromEmail(email string) string {
	re := regexp.MustCompile(`^([^@]+)`)
	match := re.FindStringSubmatch(email)
	if len(match) < 2 {
		return email
	}
	return match[1]
}

// AvatarURL returns a deterministic placeholder avatar for a display name
func AvatarURL(name string) string {
	return "https://api.dicebear.com/9.x/adventurer/svg?seed=" + url.QueryEscape(name)
}
