package mutate

import (
	"regexp"
	"strings"

	"github.com/kt-tools/css-ts-setup/internal/project"
)

const (
	// pluginImport is the import statement inserted into vite.config.*.
	pluginImport = `import ct from "` + project.PackageName + `";`

	// pluginMarker marks an already registered plugin.
	pluginMarker = "ct.vite"

	// aliasEntry maps the bare package name to its JSR npm name.
	aliasEntry = `"` + project.PackageName + `": "` + project.JSRNPMName + `",`

	// aliasBlock is a complete resolve.alias member for a defineConfig object.
	aliasBlock = "  resolve: {\n    alias: {\n      " + aliasEntry + "\n    },\n  },"
)

var (
	// importLineRe matches a whole line that starts with the import keyword
	// and ends with an optional semicolon.
	importLineRe = regexp.MustCompile(`(?m)^import\b[^;\n]*;?[ \t\r]*$`)

	sveltekitCallRe = regexp.MustCompile(`sveltekit\s*\(\s*\)`)
	pluginsArrayRe  = regexp.MustCompile(`plugins\s*:\s*\[`)
	resolveObjectRe = regexp.MustCompile(`\bresolve\s*:\s*\{`)
	aliasObjectRe   = regexp.MustCompile(`\balias\s*:\s*\{`)
	aliasKeyRe      = regexp.MustCompile(`\balias\s*:`)
	defineConfigRe  = regexp.MustCompile(`defineConfig\(\s*\{`)
)

// insertImport puts statement on its own line after the last import line of
// source, or at the very top when source has no import lines. The file's
// line ending style (LF or CRLF) is kept.
func insertImport(source, statement string) string {
	nl := lineEnding(source)

	matches := importLineRe.FindAllStringIndex(source, -1)
	if len(matches) == 0 {
		return statement + nl + source
	}

	last := matches[len(matches)-1]
	end := importStatementEnd(source, last[0], last[1])
	return source[:end] + nl + statement + source[end:]
}

// importStatementEnd returns where the import statement whose first line is
// source[start:end] ends. A first line that opens more braces than it closes
// belongs to a multi-line named import, which ends on the line holding the
// next closing brace. The position never includes a trailing carriage return.
func importStatementEnd(source string, start, end int) int {
	line := source[start:end]
	if strings.Count(line, "{") > strings.Count(line, "}") {
		if closing := strings.IndexByte(source[end:], '}'); closing >= 0 {
			pos := end + closing
			if nl := strings.IndexByte(source[pos:], '\n'); nl >= 0 {
				end = pos + nl
			} else {
				end = len(source)
			}
		}
	}

	for end > start && source[end-1] == '\r' {
		end--
	}
	return end
}

// registerPlugin adds ct.vite() to the plugin list. The first zero-argument
// sveltekit() call gets ct.vite() placed before it; without one, ct.vite()
// becomes the first element of the first plugins array. Only one location is
// ever rewritten. It returns false when neither pattern is found.
func registerPlugin(source string) (string, bool) {
	if loc := sveltekitCallRe.FindStringIndex(source); loc != nil {
		return source[:loc[0]] + "ct.vite(), sveltekit()" + source[loc[1]:], true
	}
	if loc := pluginsArrayRe.FindStringIndex(source); loc != nil {
		return source[:loc[0]] + "plugins: [ct.vite(), " + source[loc[1]:], true
	}
	return source, false
}

// registerAlias adds the package alias Deno projects need.
//
//   - With a resolve object: the entry goes first into its alias object, or
//     a new alias object is created as the first member of resolve.
//   - Without one: a full resolve.alias block is inserted right after the
//     opening brace of defineConfig({.
//
// It returns false when no insertion point exists, including when resolve
// already has an alias that is not an object literal (an array or a
// variable), where adding a second alias key would shadow the first.
func registerAlias(source string) (string, bool) {
	if loc := resolveObjectRe.FindStringIndex(source); loc != nil {
		bodyStart := loc[1]
		bodyEnd := closingBrace(source, loc[1]-1)
		body := source[bodyStart:bodyEnd]

		if a := aliasObjectRe.FindStringIndex(body); a != nil {
			return source[:bodyStart+a[0]] + "alias: {\n      " + aliasEntry + source[bodyStart+a[1]:], true
		}
		if aliasKeyRe.MatchString(body) {
			return source, false
		}
		return source[:loc[0]] + "resolve: {\n    alias: {\n      " + aliasEntry + "\n    }," + source[loc[1]:], true
	}

	if loc := defineConfigRe.FindStringIndex(source); loc != nil {
		rest := source[loc[1]:]
		block := "\n" + aliasBlock
		if !strings.HasPrefix(rest, "\n") && !strings.HasPrefix(rest, "\r\n") {
			block += "\n"
		}
		return source[:loc[1]] + block + rest, true
	}

	return source, false
}

// closingBrace returns the index of the brace closing the one at open, or
// len(source) when it is never closed. Braces inside quoted strings,
// template literals and comments are not counted. Regular expression
// literals are not recognized, so braces inside them still count.
func closingBrace(source string, open int) int {
	depth := 0
	var quote byte

	for i := open; i < len(source); i++ {
		c := source[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}

		if c == '/' && i+1 < len(source) {
			switch source[i+1] {
			case '/':
				nl := strings.IndexByte(source[i:], '\n')
				if nl < 0 {
					return len(source)
				}
				i += nl
				continue
			case '*':
				end := strings.Index(source[i+2:], "*/")
				if end < 0 {
					return len(source)
				}
				i += end + 3
				continue
			}
		}

		switch c {
		case '"', '\'', '`':
			quote = c
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return len(source)
}

// lineEnding returns "\r\n" for sources that use CRLF line endings and "\n"
// otherwise.
func lineEnding(source string) string {
	if strings.Contains(source, "\r\n") {
		return "\r\n"
	}
	return "\n"
}
