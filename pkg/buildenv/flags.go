package buildenv

import "strings"

// MergeFlags sorts compiler/linker command line tokens, as printed by pkg-config
// or similar tools, into the matching lists of the environment.
// Values already present in their destination list are not added again.
func (e *Environment) MergeFlags(tokens []string) {
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]

		switch {
		case tok == "":
			continue
		case tok == "-isystem" || tok == "-include" || tok == "-imacros" || tok == "-idirafter":
			if i+1 < len(tokens) {
				i++
				appendPair(&e.CCFlags, tok, tokens[i])
			}
		case tok == "-pthread":
			e.CCFlags.AppendUnique(tok)
			e.LinkFlags.AppendUnique(tok)
		case strings.HasPrefix(tok, "-I"):
			e.CPPPath.AppendUnique(valueOf(tok, "-I", tokens, &i))
		case strings.HasPrefix(tok, "-L"):
			e.LibPath.AppendUnique(valueOf(tok, "-L", tokens, &i))
		case strings.HasPrefix(tok, "-l"):
			e.Libs.AppendUnique(valueOf(tok, "-l", tokens, &i))
		case strings.HasPrefix(tok, "-D"):
			e.CPPDefines.AppendUnique(valueOf(tok, "-D", tokens, &i))
		case strings.HasPrefix(tok, "-Wl,"), strings.HasPrefix(tok, "-rdynamic"):
			e.LinkFlags.AppendUnique(tok)
		case strings.HasPrefix(tok, "-"):
			e.CCFlags.AppendUnique(tok)
		default:
			e.Libs.AppendUnique(tok)
		}
	}
}

// valueOf returns the value of a flag written either joined ("-Ifoo") or
// separated ("-I foo") from its name, advancing i in the latter case.
func valueOf(tok, flag string, tokens []string, i *int) string {
	if v := tok[len(flag):]; v != "" {
		return v
	}
	if *i+1 < len(tokens) {
		*i++
		return tokens[*i]
	}
	return ""
}

func appendPair(l *List, flag, value string) {
	for j := 0; j+1 < len(*l); j++ {
		if (*l)[j] == flag && (*l)[j+1] == value {
			return
		}
	}
	l.Append(flag, value)
}

// CFlags renders the preprocessor and compiler settings as a gcc command line.
func (e *Environment) CFlags() []string {
	var out []string

	out = append(out, e.CPPFlags...)
	for _, d := range e.CPPDefines {
		out = append(out, "-D"+d)
	}
	for _, p := range e.CPPPath {
		out = append(out, "-I"+p)
	}
	out = append(out, e.CCFlags...)

	return out
}

// LDFlags renders the linker settings as a gcc command line. Libraries come last.
func (e *Environment) LDFlags() []string {
	var out []string

	out = append(out, e.LinkFlags...)
	for _, p := range e.LibPath {
		out = append(out, "-L"+p)
	}
	for _, l := range e.Libs {
		out = append(out, "-l"+l)
	}

	return out
}
