package contract

// Bindings maps a parameter key (declared name, or "arg{i}") to the raw
// string the user entered for it.
type Bindings map[string]string

// NewBindings returns one empty entry per input of d.
func NewBindings(d *Descriptor) Bindings {
	b := make(Bindings)
	if d == nil {
		return b
	}
	for i := range d.Inputs {
		b[d.InputKey(i)] = ""
	}
	return b
}

// Keys returns the binding keys of d in input order.
func Keys(d *Descriptor) []string {
	keys := make([]string, len(d.Inputs))
	for i := range d.Inputs {
		keys[i] = d.InputKey(i)
	}
	return keys
}

// Args coerces the bound values into call arguments in d.Inputs order.
// Missing keys coerce from the empty string.
func (b Bindings) Args(d *Descriptor) ([]any, error) {
	args := make([]any, len(d.Inputs))
	for i, in := range d.Inputs {
		key := d.InputKey(i)
		v, err := Coerce(b[key], in.Tag())
		if err != nil {
			if ce, ok := err.(*CoercionError); ok {
				ce.Param = key
			}
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

// Clone returns an independent copy of b.
func (b Bindings) Clone() Bindings {
	out := make(Bindings, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}
