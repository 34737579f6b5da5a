package parser

import (
	"os"

	"eggshell/internal/strbuf"
)

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlnum(c byte) bool {
	return isAlpha(c) || (c >= '0' && c <= '9')
}

// expandHereDocLine applies the here-document's restricted expansion rules
// to one input line (which ends in '\n' unless it is a final partial line
// read at end of input), grounded on
// readHereDocLine in the original implementation's parse.c: "$name"
// expands to the named environment variable's value, and a backslash
// elides itself only when escaping '$' or itself.
func expandHereDocLine(line string) string {
	b := strbuf.New()
	i, n := 0, len(line)

	for i < n {
		c := line[i]
		switch c {
		case '$':
			i++
			if i < n && (line[i] == '_' || isAlpha(line[i])) {
				start := i
				i++
				for i < n && (line[i] == '_' || isAlnum(line[i])) {
					i++
				}
				name := line[start:i]
				if val, ok := os.LookupEnv(name); ok {
					b.AppendString(val)
				}
				if i < n {
					b.AppendByte(line[i])
					i++
				}
			} else {
				b.AppendByte('$')
				if i < n {
					b.AppendByte(line[i])
					i++
				}
			}
		case '\\':
			i++
			if i < n && (line[i] == '$' || line[i] == '\\') {
				b.AppendByte(line[i])
				i++
			} else {
				b.AppendByte('\\')
				if i < n {
					b.AppendByte(line[i])
					i++
				}
			}
		default:
			b.AppendByte(c)
			i++
		}
	}

	return b.String()
}
