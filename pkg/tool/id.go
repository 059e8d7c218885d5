package tool

import "github.com/google/uuid"

func GenerateUUIDV7() string {
	return uuid.Must(uuid.NewV7()).String()
}

// GenerateID returns a tagged identifier like "plan_0190...".
// UUIDv7 keeps ids roughly sortable by creation time.
func GenerateID(prefix string) string {
	return prefix + "_" + GenerateUUIDV7()
}
