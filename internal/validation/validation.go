package validation

import (
	"os"
	"strconv"
	"strings"
)

func NormalizeUsername(username string) string {
	return strings.TrimSpace(username)
}

func NormalizeGroupName(name string) string {
	return strings.TrimSpace(name)
}

func MaxMessageLength() int {
	maxStr := os.Getenv("MAX_MESSAGE_LENGTH")
	if maxStr == "" {
		return 4000
	}
	max, err := strconv.Atoi(maxStr)
	if err != nil || max < 1 {
		return 4000
	}
	return max
}

func TrimAndLimit(s string, max int) string {
	s = strings.TrimSpace(s)
	if max > 0 && len(s) > max {
		return s[:max]
	}
	return s
}
