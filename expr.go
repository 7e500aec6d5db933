package unmeshed

import (
	"os"
	"strings"
	"unicode"
)

const envExprPrefix = "${env."

// expandEnvExpr replaces ${env.KEY} with the value of KEY, unset keys expand to "".
// Expressions with an invalid key are kept literally while their remainder is
// still scanned, so "${env.a b ${env.X}}" expands the nested reference.
func expandEnvExpr(text string) string {
	var b strings.Builder
	for {
		idx := strings.Index(text, envExprPrefix)
		if idx < 0 {
			b.WriteString(text)
			return b.String()
		}
		b.WriteString(text[:idx])
		rest := text[idx+len(envExprPrefix):]
		end := strings.IndexByte(rest, '}')
		if end < 0 {
			b.WriteString(text[idx:])
			return b.String()
		}
		key := rest[:end]
		if !isEnvKey(key) {
			b.WriteString(envExprPrefix)
			text = rest
			continue
		}
		b.WriteString(os.Getenv(key))
		text = rest[end+1:]
	}
}

func isEnvKey(key string) bool {
	for _, r := range key {
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			return false
		}
	}
	return true
}
