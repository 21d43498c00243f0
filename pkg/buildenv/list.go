package buildenv

// List is an ordered list of build settings, such as compiler flags or
// library names. Order matters: linkers in particular resolve symbols in the
// order libraries are given.
type List []string

// Prepend inserts values at the front of the list, keeping their relative order.
func (l *List) Prepend(values ...string) {
	if len(values) == 0 {
		return
	}

	out := make(List, 0, len(values)+len(*l))
	out = append(out, values...)
	*l = append(out, *l...)
}

// Append adds values at the end of the list.
func (l *List) Append(values ...string) {
	*l = append(*l, values...)
}

// AppendUnique adds the values that are not already present in the list.
func (l *List) AppendUnique(values ...string) {
	for _, v := range values {
		if !l.Contains(v) {
			*l = append(*l, v)
		}
	}
}

// Contains reports whether the list holds the given value.
func (l List) Contains(value string) bool {
	for _, v := range l {
		if v == value {
			return true
		}
	}
	return false
}

// Clone returns a copy of the list that shares no memory with the original.
func (l List) Clone() List {
	if l == nil {
		return nil
	}
	return append(List(nil), l...)
}
