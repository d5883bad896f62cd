package validation

import "regexp"

// Group name rules:
// - Lowercase only.
// - Start and end with [a-z0-9].
// - Middle chars may include [a-z0-9:_.-].
// - Length 1..64.
// - "public" is valid and reserved; callers decide whether to allow it.
//
// Examples valid: public, acme, acme:research, team_a-b.c
// Examples invalid: ;hack, BAD, bad space, :leader, trailer:, "", 65+ chars.
var groupNameRe = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9:_\.-]{0,62}[a-z0-9])?$`)

// ValidGroupName returns true if the provided group name matches the allowed pattern.
func ValidGroupName(name string) bool {
	return groupNameRe.MatchString(name)
}
