package repositories

import "strings"

// escapeLike экранирует % в пользовательском вводе для LIKE-поиска.
func escapeLike(s string) string {
	return strings.ReplaceAll(s, "%", `\%`)
}
