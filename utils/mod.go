package utils

func FindIndex[T comparable](slice []T, item T) int {
	for i, v := range slice {
		if v == item {
			return i
		}
	}
	return -1
}

// Rotate shifts the slice in place so that the element at offset becomes the first.
func Rotate[T any](slice []T, offset int) {
	n := len(slice)
	if n == 0 {
		return
	}
	offset = ((offset % n) + n) % n
	if offset == 0 {
		return
	}
	rotated := append(append(make([]T, 0, n), slice[offset:]...), slice[:offset]...)
	copy(slice, rotated)
}

// Remove deletes the first occurrence of item, reporting whether it was present.
func Remove[T comparable](slice []T, item T) ([]T, bool) {
	i := FindIndex(slice, item)
	if i < 0 {
		return slice, false
	}
	return append(slice[:i], slice[i+1:]...), true
}
