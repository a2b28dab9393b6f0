package board

import "maps"

// Clone returns a deep copy of b. The copy shares no mutable state with b.
func (b *Board) Clone() *Board {
	if b == nil {
		return nil
	}
	out := *b
	out.Layouts = append([]Layout(nil), b.Layouts...)
	out.Sections = make([]Section, len(b.Sections))
	for i, s := range b.Sections {
		out.Sections[i] = s.Clone()
	}
	out.Items = make([]Item, len(b.Items))
	for i, it := range b.Items {
		out.Items[i] = it.Clone()
	}
	return &out
}

// Clone returns a deep copy of s.
func (s Section) Clone() Section {
	s.Placements = clonePlacements(s.Placements)
	return s
}

// Clone returns a deep copy of it, including its options.
func (it Item) Clone() Item {
	it.Options = CloneOptions(it.Options)
	it.IntegrationIDs = cloneStrings(it.IntegrationIDs)
	it.AdvancedOptions = it.AdvancedOptions.Clone()
	it.Placements = clonePlacements(it.Placements)
	return it
}

// Clone returns a deep copy of o.
func (o AdvancedOptions) Clone() AdvancedOptions {
	if o.Title != nil {
		title := *o.Title
		o.Title = &title
	}
	o.CustomCSSClasses = cloneStrings(o.CustomCSSClasses)
	return o
}

func clonePlacements(m map[string]Placement) map[string]Placement {
	if m == nil {
		return nil
	}
	return maps.Clone(m)
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string{}, s...)
}

// CloneOptions deep-copies a widget options map.
func CloneOptions(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

// cloneValue copies JSON-shaped values. Other types are copied by value,
// which is a shallow copy for pointers.
func cloneValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return CloneOptions(v)
	case []any:
		if v == nil {
			return v
		}
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = cloneValue(e)
		}
		return out
	case []string:
		return cloneStrings(v)
	default:
		return v
	}
}
