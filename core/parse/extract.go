package parse

// extractJSONCandidates returns the top-level JSON objects and arrays found in
// content, in order of appearance. Values nested inside another candidate are
// never returned on their own. Quoted strings are honoured when matching
// brackets; unterminated or mismatched values are skipped.
//
// Content is scanned once, so the cost is linear in its length.
func extractJSONCandidates(content string) []string {
	var (
		candidates = []string{}
		stack      []byte
		start      int
		inString   bool
		escaped    bool
	)

	for i := 0; i < len(content); i++ {
		c := content[i]

		if len(stack) == 0 {
			// prose between values: only an opening bracket matters
			if c == '{' || c == '[' {
				start = i
				stack = append(stack, closerOf(c))
			}
			continue
		}

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{', '[':
			stack = append(stack, closerOf(c))
		case '}', ']':
			if stack[len(stack)-1] != c {
				// mismatched: drop the value and resume scanning after it
				stack = stack[:0]
				continue
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				candidates = append(candidates, content[start:i+1])
			}
		}
	}
	return candidates
}

func closerOf(open byte) byte {
	if open == '{' {
		return '}'
	}
	return ']'
}
