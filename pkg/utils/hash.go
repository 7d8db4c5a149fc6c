package utils

import (
	"crypto/md5"
	"fmt"
	"sort"
	"strings"
)

func HashString(input string) string {
	hash := md5.Sum([]byte(input))
	return fmt.Sprintf("%x", hash)
}

// Fingerprint hashes a token set independently of its order, so two runs
// that selected the same vocabulary log the same digest.
func Fingerprint(tokens []string) string {
	sorted := make([]string, len(tokens))
	copy(sorted, tokens)
	sort.Strings(sorted)
	return HashString(strings.Join(sorted, "\n"))
}
