package array

// Operand is anything that can hand out its current array without copying.
type Operand interface {
	Value() *Array
}

// Location is an Operand whose value can be replaced, such as a named
// variable. Temporaries (a bare *Array) are not Locations.
type Location interface {
	Operand
	Rebind(a *Array)
}

// Var is a named, reassignable slot holding an array.
type Var struct {
	name string
	val  *Array
}

// NewVar returns a variable called name bound to a.
func NewVar(name string, a *Array) *Var {
	return &Var{name: name, val: a}
}

func (v *Var) Name() string { return v.name }

func (v *Var) Value() *Array {
	if v == nil {
		return nil
	}

	return v.val
}

// Rebind replaces the variable's value.
func (v *Var) Rebind(a *Array) { v.val = a }

func (v *Var) String() string {
	if v.val == nil {
		return v.name + "=<nil>"
	}

	return v.name + "=" + v.val.String()
}
