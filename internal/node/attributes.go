package node

import "sort"

// Attr is a single name/value pair.
type Attr struct {
	Name  string
	Value string
}

// Attributes is an insertion-ordered attribute set with unique names.
type Attributes struct {
	list []Attr
}

// Get returns the value stored under name.
func (a Attributes) Get(name string) (string, bool) {
	for _, attr := range a.list {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

// Value returns the stored value or an empty string.
func (a Attributes) Value(name string) string {
	v, _ := a.Get(name)
	return v
}

func (a Attributes) Has(name string) bool {
	_, ok := a.Get(name)
	return ok
}

func (a Attributes) Len() int { return len(a.list) }

// Set stores value under name, replacing any previous value in place.
func (a *Attributes) Set(name, value string) {
	for i := range a.list {
		if a.list[i].Name == name {
			a.list[i].Value = value
			return
		}
	}
	a.list = append(a.list, Attr{Name: name, Value: value})
}

func (a *Attributes) Delete(name string) {
	for i := range a.list {
		if a.list[i].Name == name {
			a.list = append(a.list[:i], a.list[i+1:]...)
			return
		}
	}
}

// All returns a copy of the attributes in insertion order.
func (a Attributes) All() []Attr {
	if len(a.list) == 0 {
		return nil
	}
	out := make([]Attr, len(a.list))
	copy(out, a.list)
	return out
}

// Sorted returns a copy of the attributes ordered by name.
func (a Attributes) Sorted() []Attr {
	out := a.All()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Clone returns an independent copy.
func (a Attributes) Clone() Attributes {
	return Attributes{list: a.All()}
}

// AttributesOf builds a set from alternating name/value pairs.
func AttributesOf(pairs ...string) Attributes {
	var attrs Attributes
	for i := 0; i+1 < len(pairs); i += 2 {
		attrs.Set(pairs[i], pairs[i+1])
	}
	return attrs
}
