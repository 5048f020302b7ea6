package evaluator

// GetItem evaluates container[key].
func GetItem(container, key Object) (Object, error) {
	switch c := container.(type) {
	case *List:
		idx, err := sequenceIndex(c, key, "list index out of range")
		if err != nil {
			return nil, err
		}
		return c.Elements[idx], nil
	case *Tuple:
		idx, err := sequenceIndex(c, key, "tuple index out of range")
		if err != nil {
			return nil, err
		}
		return c.Elements[idx], nil
	case *String:
		runes := []rune(c.Value)
		i, ok := toInt(key)
		if !ok {
			return nil, typeError("string indices must be integers, not '%s'", key.TypeName())
		}
		idx, ok := normalizeIndex(i, len(runes))
		if !ok {
			return nil, indexError("string index out of range")
		}
		return NewString(string(runes[idx])), nil
	case *Dict:
		if err := checkHashable(key); err != nil {
			return nil, err
		}
		if val, ok := c.Get(key); ok {
			return val, nil
		}
		return nil, keyError(key)
	}
	return nil, typeError("'%s' object is not subscriptable", container.TypeName())
}

// SetItem evaluates container[key] = value, mutating the container in place.
func SetItem(container, key, value Object) error {
	switch c := container.(type) {
	case *List:
		idx, err := sequenceIndex(c, key, "list assignment index out of range")
		if err != nil {
			return err
		}
		c.Set(idx, value)
		return nil
	case *Dict:
		return c.Put(key, value)
	}
	return typeError("'%s' object does not support item assignment", container.TypeName())
}

// DelItem evaluates del container[key]. Lists drop the element at the
// normalized index and shift the tail; dicts drop the key by value equality.
// Every alias of the container observes the removal.
func DelItem(container, key Object) error {
	switch c := container.(type) {
	case *List:
		idx, err := sequenceIndex(c, key, "list assignment index out of range")
		if err != nil {
			return err
		}
		c.RemoveAt(idx)
		return nil
	case *Dict:
		if err := checkHashable(key); err != nil {
			return err
		}
		if !c.Remove(key) {
			return keyError(key)
		}
		return nil
	}
	return typeError("'%s' object does not support item deletion", container.TypeName())
}

type sequence interface {
	Object
	Len() int
}

// sequenceIndex validates key as an index into seq and normalizes it.
func sequenceIndex(seq sequence, key Object, outOfRange string) (int, error) {
	i, ok := toInt(key)
	if !ok {
		return 0, typeError("%s indices must be integers, not '%s'", seq.TypeName(), key.TypeName())
	}
	idx, ok := normalizeIndex(i, seq.Len())
	if !ok {
		return 0, indexError("%s", outOfRange)
	}
	return idx, nil
}
