package form

// Record is a list item addressed by a stable key.
type Record interface {
	Key() string
}

// Line is a record whose fields can be set by wire name.
type Line[T any] interface {
	Record
	WithField(field, value string) (T, error)
}

// Append returns a new list with item at the end.
func Append[T Record](list []T, item T) []T {
	out := make([]T, 0, len(list)+1)
	out = append(out, list...)
	return append(out, item)
}

// Remove returns a new list without the item keyed by id.
// The input is returned unchanged when id is absent.
func Remove[T Record](list []T, id string) []T {
	idx := indexOf(list, id)
	if idx < 0 {
		return list
	}

	out := make([]T, 0, len(list)-1)
	out = append(out, list[:idx]...)
	return append(out, list[idx+1:]...)
}

// UpdateField returns a new list where the item keyed by id has field set to
// value. An absent id is a no-op; an unknown field is an error.
func UpdateField[T Line[T]](list []T, id, field, value string) ([]T, error) {
	idx := indexOf(list, id)
	if idx < 0 {
		return list, nil
	}

	updated, err := list[idx].WithField(field, value)
	if err != nil {
		return list, err
	}

	out := make([]T, len(list))
	copy(out, list)
	out[idx] = updated
	return out, nil
}

// Contains reports whether an item keyed by id is in the list.
func Contains[T Record](list []T, id string) bool {
	return indexOf(list, id) >= 0
}

func indexOf[T Record](list []T, id string) int {
	for i := range list {
		if list[i].Key() == id {
			return i
		}
	}
	return -1
}
