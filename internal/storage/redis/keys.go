package redis

import "fmt"

// Key prefix for all high score data
const keyPrefix = "hscore"

// credentialKey returns the Redis key for the single registered credential
func credentialKey() string {
	return fmt.Sprintf("%s:credential", keyPrefix)
}

// levelScoresKey returns the Redis key for the LIST of score records on a level
func levelScoresKey(level string) string {
	return fmt.Sprintf("%s:scores:level:%s", keyPrefix, level)
}
