package extract

import (
	"regexp"
	"strings"
)

// rolePrefix matches byline lead-ins that precede the actual name.
var rolePrefix = regexp.MustCompile(`(?i)^(By|Written by|Posted by|Author:|Reported by)\s+`)

// embeddedEmail matches an email address glued into a byline string.
var embeddedEmail = regexp.MustCompile(`\S+@\S+`)

// denylist holds generic/organizational terms that disqualify a candidate
// byline from being a human name.
var denylist = []string{
	"news desk", "editorial", "staff writer", "news team", "bureau",
	"unknown", "anonymous", "correspondent", "wire service",
}

// CleanAuthorName strips byline noise from a candidate name and validates it.
// Returns "" when the candidate is rejected; the extraction cascade treats
// that as "no name from this strategy" and moves on.
func CleanAuthorName(name string) string {
	if name == "" {
		return ""
	}

	name = rolePrefix.ReplaceAllString(name, "")
	name = embeddedEmail.ReplaceAllString(name, "")
	name = strings.Join(strings.Fields(name), " ")

	if len(name) < 3 || len(name) > 50 {
		return ""
	}
	if len(strings.Fields(name)) > 5 {
		return ""
	}

	// Names carry capitalization.
	if strings.ToLower(name) == name {
		return ""
	}

	lower := strings.ToLower(name)
	for _, term := range denylist {
		if strings.Contains(lower, term) {
			return ""
		}
	}

	return name
}
