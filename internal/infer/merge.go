package infer

import "github.com/usestring/trafficspec/pkg/types"

// Merge combines two schemas observed for the same logical field into one
// schema consistent with both. It returns a new value; neither operand is
// mutated.
//
// Merge is left-biased: the left operand (the earlier sample in capture
// order) is the base and is authoritative for metadata (Example, Format);
// the right operand contributes structure only. The bias is a fixed design
// choice so that folds are deterministic. Folding order can change which
// side's metadata survives and how nullability is attributed, but never the
// final type tag of a field present in every sample.
//
// Conflicting type tags widen to "any"; type conflicts are expected noise
// from real traffic, not errors.
func Merge(a, b *types.Schema) *types.Schema {
	if a == nil {
		return b.Clone()
	}
	if b == nil {
		return a.Clone()
	}

	if a.Type != b.Type {
		return &types.Schema{Type: types.TypeAny, Nullable: a.Nullable || b.Nullable}
	}

	out := &types.Schema{
		Type:     a.Type,
		Nullable: a.Nullable || b.Nullable,
		Format:   a.Format,
		Example:  a.Example,
	}

	switch a.Type {
	case types.TypeObject:
		out.Properties = mergeProperties(a.Properties, b.Properties)

	case types.TypeArray:
		switch {
		case a.Items != nil && b.Items != nil:
			out.Items = Merge(a.Items, b.Items)
		case a.Items != nil:
			out.Items = a.Items.Clone()
		case b.Items != nil:
			out.Items = b.Items.Clone()
		}
	}

	return out
}

// mergeProperties unions the two key sets. A key present in both merges
// recursively; a key present in only one side is carried over marked
// nullable, meaning "optional across observed samples".
func mergeProperties(a, b map[string]*types.Schema) map[string]*types.Schema {
	out := make(map[string]*types.Schema, len(a)+len(b))

	for k, av := range a {
		if bv, ok := b[k]; ok {
			out[k] = Merge(av, bv)
		} else {
			c := av.Clone()
			c.Nullable = true
			out[k] = c
		}
	}
	for k, bv := range b {
		if _, ok := a[k]; !ok {
			c := bv.Clone()
			c.Nullable = true
			out[k] = c
		}
	}

	return out
}

// Unify folds Merge over schemas left to right, producing the single schema
// for a field observed across N samples. Returns nil for an empty slice.
func Unify(schemas []*types.Schema) *types.Schema {
	if len(schemas) == 0 {
		return nil
	}
	acc := schemas[0].Clone()
	for _, s := range schemas[1:] {
		acc = Merge(acc, s)
	}
	return acc
}
