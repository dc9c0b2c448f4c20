package utils

func Value[T any](v *T) T {
	if v == nil {
		return *new(T)
	}
	return *v
}

func Ptr[T any](v T) *T {
	return &v
}

// Clone copies the value behind v so the result does not alias it. nil stays nil.
func Clone[T any](v *T) *T {
	if v == nil {
		return nil
	}
	return Ptr(*v)
}
