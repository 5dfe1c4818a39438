package component

import "reflect"

// Props carries a component's input data across the type-erased update
// path. Implementations must be safe to clone; the pipeline clones props
// before every hand-off into component code so a misbehaving hook cannot
// mutate the tree's stored copy.
type Props interface {
	// TypeName identifies the props type for diagnostics and coarse state
	// tracking.
	TypeName() string
	// Clone returns an independent copy.
	Clone() Props
}

// PropsAs downcasts erased props to their concrete type. It returns a
// PropsMismatchError (matching ErrDowncast and ErrPropsMismatch) when the
// concrete type differs.
func PropsAs[T Props](p Props) (T, error) {
	var zero T
	if p == nil {
		return zero, &PropsMismatchError{
			Expected: reflect.TypeOf(zero),
			Got:      nil,
		}
	}
	t, ok := p.(T)
	if !ok {
		return zero, &PropsMismatchError{
			Expected: reflect.TypeOf(zero),
			Got:      reflect.TypeOf(p),
		}
	}
	return t, nil
}
