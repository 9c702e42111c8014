package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when a nil validation
// error is supplied, so validation always fails with a meaningful message.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard ensures entities and value objects are only created through
// their designated constructor functions. Embedding a guard in a struct makes
// zero-value instances detectable: the flag is only set when the object went
// through its constructor.
//
// Example usage:
//
//	type Driver struct {
//	    name  string
//	    guard guard.ConstructorGuard
//	}
//
//	func NewDriver(name string) (*Driver, error) {
//	    if name == "" {
//	        return nil, errors.New("name is required")
//	    }
//	    return &Driver{name: name, guard: guard.NewConstructorGuard()}, nil
//	}
//
//	func (d *Driver) Validate() error {
//	    return d.guard.Validate(ErrDriverIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard creates a guard marking an object as properly
// constructed. Call it in every constructor of a guarded type.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil for properly constructed objects. For zero-value
// instances it returns validationError, or ErrDefaultConstructorGuard when
// validationError is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
