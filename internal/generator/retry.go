package generator

// attempt runs fn up to limit times and returns the first accepted value.
// fn reports (value, accepted, error); an error aborts immediately, a
// rejection triggers another attempt. The second return value is false when
// the ceiling was hit without an accepted value.
func attempt[T any](limit int, fn func() (T, bool, error)) (T, bool, error) {
	var zero T
	for i := 0; i < limit; i++ {
		v, ok, err := fn()
		if err != nil {
			return zero, false, err
		}
		if ok {
			return v, true, nil
		}
	}
	return zero, false, nil
}
