package rustbe

import "sort"

// SourceFile bundles feature flags, use declarations, and named functions
// into one emittable file. Feature and use lines render in sorted order;
// functions render in insertion order, which Merge preserves
// (receiver first, then argument).
type SourceFile struct {
	features  map[string]struct{}
	uses      map[string]struct{}
	order     []string
	functions map[string]*Function
}

// NewSourceFile returns an empty SourceFile.
func NewSourceFile() *SourceFile {
	return &SourceFile{
		features:  make(map[string]struct{}),
		uses:      make(map[string]struct{}),
		functions: make(map[string]*Function),
	}
}

// AddFeature records a crate feature flag to enable.
func (s *SourceFile) AddFeature(name string) {
	s.features[name] = struct{}{}
}

// AddUse records an import path.
func (s *SourceFile) AddUse(path string) {
	s.uses[path] = struct{}{}
}

// AddFunction adds f to the file. A function with the same name already in
// the file is a *NameCollisionError; nothing is overwritten.
func (s *SourceFile) AddFunction(f *Function) error {
	if _, ok := s.functions[f.Name]; ok {
		return &NameCollisionError{Name: f.Name}
	}
	s.functions[f.Name] = f
	s.order = append(s.order, f.Name)
	return nil
}

// Function returns the named function, or nil.
func (s *SourceFile) Function(name string) *Function {
	return s.functions[name]
}

// Len reports the number of functions in the file.
func (s *SourceFile) Len() int {
	return len(s.order)
}

// Merge returns a new SourceFile holding the union of both files' features,
// uses, and functions. A function name present in both is a
// *NameCollisionError; callers are expected to keep names disjoint by
// construction.
func (s *SourceFile) Merge(other *SourceFile) (*SourceFile, error) {
	out := NewSourceFile()
	for f := range s.features {
		out.AddFeature(f)
	}
	for f := range other.features {
		out.AddFeature(f)
	}
	for u := range s.uses {
		out.AddUse(u)
	}
	for u := range other.uses {
		out.AddUse(u)
	}
	for _, name := range s.order {
		if err := out.AddFunction(s.functions[name]); err != nil {
			return nil, err
		}
	}
	for _, name := range other.order {
		if err := out.AddFunction(other.functions[name]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Render emits feature directives, use declarations, a separating blank line,
// then each function followed by a blank line.
func (s *SourceFile) Render(p *Printer) ([]string, error) {
	var lines []string
	for _, feature := range sortedKeys(s.features) {
		lines = append(lines, "#![feature("+feature+")]")
	}
	for _, use := range sortedKeys(s.uses) {
		lines = append(lines, "use "+use+";")
	}
	lines = append(lines, "")

	for _, name := range s.order {
		fn, err := s.functions[name].Render(p)
		if err != nil {
			return nil, err
		}
		lines = append(lines, fn...)
		lines = append(lines, "")
	}
	return lines, nil
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
