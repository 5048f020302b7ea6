package evaluator

import (
	"fmt"
	"sort"
)

// attrProtocol is the per-tag attribute behaviour. A nil hook means the kind
// has no such capability and the dispatcher answers with the generic error.
type attrProtocol struct {
	// get returns (nil, nil) when the name is not found.
	get   func(obj Object, name string) (Object, error)
	set   func(obj Object, name string, value Object) error
	del   func(obj Object, name string) error
	names func(obj Object) []string
}

var attrProtocols map[ObjectType]attrProtocol

func init() {
	attrProtocols = map[ObjectType]attrProtocol{
		SLICE_OBJ: {
			get:   sliceAttr,
			names: func(Object) []string { return []string{"start", "step", "stop"} },
		},
		EXCEPTION_OBJ: {
			get:   exceptionAttr,
			names: func(Object) []string { return []string{"args"} },
		},
		RECORD_OBJ: {
			get: func(obj Object, name string) (Object, error) {
				return obj.(*Record).Get(name), nil
			},
			set: setRecordField,
			del: deleteRecordField,
			names: func(obj Object) []string {
				return obj.(*Record).FieldNames()
			},
		},
	}
}

func sliceAttr(obj Object, name string) (Object, error) {
	s := obj.(*Slice)
	switch name {
	case "start":
		return optionObject(s.Start), nil
	case "stop":
		return optionObject(s.Stop), nil
	case "step":
		return optionObject(s.Step), nil
	}
	return nil, nil
}

// exceptionAttr returns the stored args tuple itself, never a copy.
func exceptionAttr(obj Object, name string) (Object, error) {
	if name == "args" {
		return obj.(*Exception).Args, nil
	}
	return nil, nil
}

func setRecordField(obj Object, name string, value Object) error {
	r := obj.(*Record)
	if !r.Mutable {
		return attributeError("cannot assign to field '%s' of frozen record '%s'", name, r.Name)
	}
	r.set(name, value)
	return nil
}

func deleteRecordField(obj Object, name string) error {
	r := obj.(*Record)
	if !r.Mutable {
		return attributeError("cannot delete field '%s' of frozen record '%s'", name, r.Name)
	}
	if !r.remove(name) {
		return noAttribute(r, name)
	}
	return nil
}

// noAttribute builds the standard miss error, with a spelling hint when a
// readable name is close to the requested one.
func noAttribute(obj Object, name string) *Exception {
	msg := fmt.Sprintf("'%s' object has no attribute '%s'", obj.TypeName(), name)
	if n := nearestName(name, AttrNames(obj)); n != "" {
		msg = fmt.Sprintf("%s (did you mean '%s'?)", msg, n)
	}
	return NewException(KindAttributeError, msg, nil)
}

// GetAttr reads attribute name of obj. Pseudo-attributes synthesized from
// the value's state come first, stored record fields second.
func GetAttr(obj Object, name string) (Object, error) {
	if p, ok := attrProtocols[obj.Type()]; ok && p.get != nil {
		val, err := p.get(obj, name)
		if err != nil {
			return nil, err
		}
		if val != nil {
			return val, nil
		}
	}
	return nil, noAttribute(obj, name)
}

// SetAttr writes attribute name of obj. Only mutable records accept writes;
// the change is visible through every binding of the same record.
func SetAttr(obj Object, name string, value Object) error {
	if p, ok := attrProtocols[obj.Type()]; ok && p.set != nil {
		return p.set(obj, name, value)
	}
	return attributeError("'%s' object has no attribute '%s'", obj.TypeName(), name)
}

// DelAttr removes attribute name of obj, under the same eligibility rule as SetAttr.
func DelAttr(obj Object, name string) error {
	if p, ok := attrProtocols[obj.Type()]; ok && p.del != nil {
		return p.del(obj, name)
	}
	return attributeError("'%s' object has no attribute '%s'", obj.TypeName(), name)
}

// HasAttr reports whether GetAttr would succeed.
func HasAttr(obj Object, name string) bool {
	_, err := GetAttr(obj, name)
	return err == nil
}

// AttrNames lists the readable attribute names of obj, sorted.
func AttrNames(obj Object) []string {
	p, ok := attrProtocols[obj.Type()]
	if !ok || p.names == nil {
		return nil
	}
	names := p.names(obj)
	sort.Strings(names)
	return names
}

// nearestName returns the candidate closest to name by edit distance, if
// it is close enough to be a plausible typo.
func nearestName(name string, candidates []string) string {
	best, bestDist := "", len(name)/2+1
	for _, c := range candidates {
		if c == name {
			continue
		}
		if d := editDistance(name, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func editDistance(a, b string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
