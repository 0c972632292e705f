package jsonfile

// StripComments removes // line comments and /* */ block comments from
// JSON-with-comments input and returns text that is otherwise unchanged.
//
// The scanner is in exactly one of four states: plain code, inside a
// double-quoted string, inside a line comment, or inside a block comment.
//   - An unescaped " outside any comment toggles the string state.
//   - // outside a string starts a line comment; the terminating newline is kept.
//   - /* outside a string starts a block comment; everything up to and
//     including */ is dropped.
//   - Inside a string a backslash and the byte after it are copied as one
//     unit, so \" never ends the string and "//" or "/*" in a string
//     are never treated as comments.
//
// An unterminated block comment swallows the rest of the input.
func StripComments(data []byte) []byte {
	out := make([]byte, 0, len(data))

	var inString, inLine, inBlock bool

	for i := 0; i < len(data); i++ {
		c := data[i]
		var next byte
		hasNext := i+1 < len(data)
		if hasNext {
			next = data[i+1]
		}

		switch {
		case inLine:
			if c == '\n' {
				inLine = false
				out = append(out, c)
			}

		case inBlock:
			if c == '*' && next == '/' {
				inBlock = false
				i++
			}

		case inString:
			if c == '\\' && hasNext {
				out = append(out, c, next)
				i++
				continue
			}
			if c == '"' {
				inString = false
			}
			out = append(out, c)

		case c == '"':
			inString = true
			out = append(out, c)

		case c == '/' && next == '/':
			inLine = true
			i++

		case c == '/' && next == '*':
			inBlock = true
			i++

		default:
			out = append(out, c)
		}
	}

	return out
}
