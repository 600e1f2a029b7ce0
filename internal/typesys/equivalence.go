package typesys

import "github.com/zclconf/go-cty/cty"

// Remap is a name-to-name translation between the generic parameters of two
// structurally equivalent types.
type Remap map[string]string

// Equivalent reports whether a and b are structurally identical up to a
// renaming of generic parameters, and returns the renaming from a's
// parameter names to b's. The renaming is required to be consistent in both
// directions: once a parameter of a is matched to a parameter of b, every
// other occurrence must match the same way.
func Equivalent(a, b cty.Type) (Remap, bool) {
	fwd := Remap{}
	rev := map[string]string{}
	if !equivalent(a, b, fwd, rev) {
		return nil, false
	}
	return fwd, true
}

func equivalent(a, b cty.Type, fwd Remap, rev map[string]string) bool {
	aName, aIsParam := ParamName(a)
	bName, bIsParam := ParamName(b)
	if aIsParam != bIsParam {
		return false
	}
	if aIsParam {
		if prev, ok := fwd[aName]; ok {
			return prev == bName
		}
		if prev, ok := rev[bName]; ok {
			return prev == aName
		}
		fwd[aName] = bName
		rev[bName] = aName
		return true
	}

	switch {
	case a.IsListType():
		return b.IsListType() && equivalent(a.ElementType(), b.ElementType(), fwd, rev)
	case a.IsSetType():
		return b.IsSetType() && equivalent(a.ElementType(), b.ElementType(), fwd, rev)
	case a.IsMapType():
		return b.IsMapType() && equivalent(a.ElementType(), b.ElementType(), fwd, rev)
	case a.IsTupleType():
		if !b.IsTupleType() {
			return false
		}
		as, bs := a.TupleElementTypes(), b.TupleElementTypes()
		if len(as) != len(bs) {
			return false
		}
		for i := range as {
			if !equivalent(as[i], bs[i], fwd, rev) {
				return false
			}
		}
		return true
	case a.IsObjectType():
		if !b.IsObjectType() {
			return false
		}
		aAttrs, bAttrs := a.AttributeTypes(), b.AttributeTypes()
		if len(aAttrs) != len(bAttrs) {
			return false
		}
		for name, at := range aAttrs {
			bt, ok := bAttrs[name]
			if !ok || !equivalent(at, bt, fwd, rev) {
				return false
			}
		}
		return true
	default:
		return a.Equals(b)
	}
}
