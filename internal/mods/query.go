package mods

// First returns the trimmed text of the first node matching path. The second
// result is false when nothing matches or the match has no text.
func (e Element) First(path string) (string, bool) {
	matches := e.All(path)
	if len(matches) == 0 {
		return "", false
	}
	text := matches[0].Text()
	return text, text != ""
}

// FirstOr returns First(path) or "" when absent.
func (e Element) FirstOr(path string) string {
	text, _ := e.First(path)
	return text
}

// Texts returns the trimmed text of every node matching path, skipping
// empty ones.
func (e Element) Texts(path string) []string {
	var out []string
	for _, m := range e.All(path) {
		if t := m.Text(); t != "" {
			out = append(out, t)
		}
	}
	return out
}
