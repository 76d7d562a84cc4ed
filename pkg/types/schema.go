package types

// Schema is a recursive structural type description inferred from JSON
// samples. It is a closed tagged value: Type always holds one of the
// ParameterType tags, Properties is populated only for TypeObject, Items
// only for TypeArray. Merge logic switches exhaustively on Type rather
// than probing for keys.
type Schema struct {
	Type       ParameterType      `json:"type"`
	Properties map[string]*Schema `json:"properties,omitempty"`
	Items      *Schema            `json:"items,omitempty"`

	// Nullable marks a field that was absent (or null) in at least one
	// observed sample. Semantically "optional across observed samples".
	Nullable bool `json:"nullable,omitempty"`

	// Format is a best-effort refinement for strings: date-time, email, uri.
	Format string `json:"format,omitempty"`

	// Example is a representative value from the first sample that
	// contributed this node.
	Example any `json:"example,omitempty"`
}

// Clone returns a deep copy. Merge operates on copies so that no previously
// produced schema is ever mutated in place.
func (s *Schema) Clone() *Schema {
	if s == nil {
		return nil
	}
	out := &Schema{
		Type:     s.Type,
		Nullable: s.Nullable,
		Format:   s.Format,
		Example:  s.Example,
		Items:    s.Items.Clone(),
	}
	if s.Properties != nil {
		out.Properties = make(map[string]*Schema, len(s.Properties))
		for k, v := range s.Properties {
			out.Properties[k] = v.Clone()
		}
	}
	return out
}

// Equal reports structural equality, ignoring Example values.
func (s *Schema) Equal(other *Schema) bool {
	if s == nil || other == nil {
		return s == other
	}
	if s.Type != other.Type || s.Nullable != other.Nullable || s.Format != other.Format {
		return false
	}
	if !s.Items.Equal(other.Items) {
		return false
	}
	if len(s.Properties) != len(other.Properties) {
		return false
	}
	for k, v := range s.Properties {
		ov, ok := other.Properties[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}
