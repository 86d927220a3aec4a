package pipeline

// Unit is a per-file analysis result. Merge must be associative and
// commutative up to the order of contained items, and the zero value of T
// must be its identity.
type Unit[T any] interface {
	Merge(other T) T
}

// Fold merges units left to right starting from the identity.
func Fold[T Unit[T]](units ...T) T {
	var acc T
	for _, u := range units {
		acc = acc.Merge(u)
	}
	return acc
}
