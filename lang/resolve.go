package lang

import "strings"

// resolve computes the value of a literal. Quoted literals are verbatim.
// An angle literal whose payload is itself a marker, as in <<NAME>>, is
// the escape for the text <NAME>. Any other payload is looked up as a
// variable name and, failing that, interpolated.
func (in *interpreter) resolve(lit *Literal) (string, error) {
	if lit.Form == FormQuoted {
		return lit.Value, nil
	}

	if lit.Value == "" {
		return "", ErrEmptyLiteral.At(lit.Location)
	}

	if lit.Form == FormAngle && isMarker(lit.Value) {
		return lit.Value, nil
	}

	if v, ok := in.vars.Lookup(lit.Value); ok {
		return v, nil
	}

	return interpolate(lit.Value, in.vars), nil
}

// interpolate replaces each <name> marker in s with the value of name, or
// with the bare name when it is undefined. A doubled marker <<name>>
// becomes the text <name>. A '<' without a balancing '>' is copied as is.
func interpolate(s string, vars Context) string {
	if !strings.Contains(s, "<") {
		return s
	}

	var sb strings.Builder

	for i := 0; i < len(s); {
		if s[i] != '<' {
			sb.WriteByte(s[i])
			i++

			continue
		}

		end := closingAngle(s, i)
		if end < 0 {
			sb.WriteString(s[i:])

			break
		}

		inner := s[i+1 : end]

		switch v, ok := vars.Lookup(inner); {
		case isMarker(inner):
			sb.WriteString(inner)
		case ok:
			sb.WriteString(v)
		default:
			sb.WriteString(inner)
		}

		i = end + 1
	}

	return sb.String()
}

// closingAngle returns the index of the '>' balancing the '<' at s[open],
// or -1.
func closingAngle(s string, open int) int {
	depth := 0

	for i := open; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			depth--
			if depth == 0 {
				return i
			}
		}
	}

	return -1
}

// isMarker reports whether s is exactly one balanced <...> marker.
func isMarker(s string) bool {
	return len(s) >= 2 && s[0] == '<' && closingAngle(s, 0) == len(s)-1
}
