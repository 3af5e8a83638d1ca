package fxmanifest

import (
	"fmt"
	"strconv"
	"strings"
)

var luaEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	"\n", `\n`,
	"\r", `\r`,
)

// Returns s as a single-quoted Lua string literal.
func quote(s string) string {
	return "'" + luaEscaper.Replace(s) + "'"
}

// Converts a manifest scalar to its Lua form. Strings are quoted; booleans
// and numbers are written bare.
func luaValue(v any) string {
	switch v := v.(type) {
	case string:
		return quote(v)
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return quote(fmt.Sprint(v))
	}
}

// Reports whether a manifest scalar counts as set.
func truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case string:
		return v != ""
	case bool:
		return v
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	}
	return true
}
