package utils

func Ptr[T any](v T) *T {
	return &v
}

func Val[T any](p *T) T {
	if p != nil {
		return *p
	}
	var zero T
	return zero
}

// NilIfEmpty maps "" to nil, for nullable text columns and procedure arguments.
func NilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
