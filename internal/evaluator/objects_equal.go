package evaluator

// ObjectsEqual performs a deep equality check between two values.
// Booleans compare equal to the integers 0 and 1. Lists, tuples, dicts and
// records compare structurally; exceptions and functions by identity.
func ObjectsEqual(a, b Object) bool {
	return objectsEqual(a, b, nil)
}

type equalPair struct{ a, b Object }

func objectsEqual(a, b Object, active map[equalPair]bool) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}

	if ai, ok := toInt(a); ok {
		if bi, ok := toInt(b); ok {
			return ai == bi
		}
		return false
	}

	if a.Type() != b.Type() {
		return false
	}

	// Self-referential containers: a pair already being compared is assumed
	// equal, the outer comparison decides.
	if Mutable(a) {
		pair := equalPair{a, b}
		if active[pair] {
			return true
		}
		if active == nil {
			active = make(map[equalPair]bool)
		}
		active[pair] = true
		defer delete(active, pair)
	}

	switch aVal := a.(type) {
	case *None:
		return true
	case *String:
		return aVal.Value == b.(*String).Value
	case *List:
		return elementsEqual(aVal.Elements, b.(*List).Elements, active)
	case *Tuple:
		return elementsEqual(aVal.Elements, b.(*Tuple).Elements, active)
	case *Dict:
		bVal := b.(*Dict)
		if aVal.Len() != bVal.Len() {
			return false
		}
		for _, item := range aVal.Items() {
			other, ok := bVal.Get(item.Key)
			if !ok || !objectsEqual(item.Value, other, active) {
				return false
			}
		}
		return true
	case *Record:
		bVal := b.(*Record)
		if aVal.Name != bVal.Name || len(aVal.Fields) != len(bVal.Fields) {
			return false
		}
		for i := range aVal.Fields {
			if aVal.Fields[i].Key != bVal.Fields[i].Key {
				return false
			}
			if !objectsEqual(aVal.Fields[i].Value, bVal.Fields[i].Value, active) {
				return false
			}
		}
		return true
	case *Slice:
		bVal := b.(*Slice)
		return aVal.Start == bVal.Start && aVal.Stop == bVal.Stop && aVal.Step == bVal.Step
	case *Builtin:
		return aVal.Name == b.(*Builtin).Name
	case *ExternalFunction:
		return aVal.Name == b.(*ExternalFunction).Name
	}
	return false
}

func elementsEqual(a, b []Object, active map[equalPair]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !objectsEqual(a[i], b[i], active) {
			return false
		}
	}
	return true
}
