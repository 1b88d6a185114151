package csvfile

import "strings"

// header maps normalized column names to their positions.
type header struct {
	names []string
	index map[string]int
}

func newHeader(cols []string) header {
	h := header{names: make([]string, len(cols)), index: make(map[string]int, len(cols))}
	for i, c := range cols {
		c = strings.TrimSpace(strings.TrimPrefix(c, "\ufeff"))
		h.names[i] = c
		key := strings.ToLower(c)
		if _, dup := h.index[key]; !dup {
			h.index[key] = i
		}
	}
	return h
}

// find returns the position of the first alias present in the header, or -1.
func (h header) find(aliases ...string) int {
	for _, a := range aliases {
		if i, ok := h.index[a]; ok {
			return i
		}
	}
	return -1
}

func cell(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}
