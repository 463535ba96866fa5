package repokit

// Binder builds a domain repo over a specific Queryer. Services hold a
// Binder instead of a repo so each transaction binds fresh against its tx
type Binder[T any] interface {
	Bind(Queryer) T
}

// BindFunc adapts a plain function into a Binder
type BindFunc[T any] func(Queryer) T

// Bind calls the underlying function
func (f BindFunc[T]) Bind(q Queryer) T { return f(q) }

// MustBind binds after rejecting a nil Queryer. Inside a Tx closure a nil
// q means the runner itself is broken, which is worth a loud stop
func MustBind[T any](b Binder[T], q Queryer) T {
	return b.Bind(requireQueryer(q))
}

func requireQueryer(q Queryer) Queryer {
	if q == nil {
		panic("repokit: nil Queryer")
	}
	return q
}
