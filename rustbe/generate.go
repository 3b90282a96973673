package rustbe

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// indentUnit is one level of indentation in emitted Rust.
const indentUnit = "    "

// Generatable is anything that can render itself as an ordered sequence of
// source lines. Render must be pure: identical inputs produce identical
// lines, with no dependence on map iteration order.
type Generatable interface {
	Render(p *Printer) ([]string, error)
}

// RenderIndented renders g and prefixes every non-empty line with depth
// levels of indentation. It is defined in terms of Render only, so
// indentation can never alter content.
func RenderIndented(g Generatable, p *Printer, depth int) ([]string, error) {
	lines, err := g.Render(p)
	if err != nil {
		return nil, err
	}
	if depth <= 0 {
		return lines, nil
	}
	leading := strings.Repeat(indentUnit, depth)
	out := make([]string, len(lines))
	for i, line := range lines {
		if line == "" {
			continue
		}
		out[i] = leading + line
	}
	return out, nil
}

// RenderString renders g as a single newline-joined string.
func RenderString(g Generatable, p *Printer) (string, error) {
	lines, err := g.Render(p)
	if err != nil {
		return "", err
	}
	return strings.Join(lines, "\n"), nil
}

// WriteTo renders g completely in memory, then writes it to path with a
// trailing newline per line. The write goes through a temporary file in the
// same directory followed by a rename, so a failure at any point leaves no
// partial file at path.
func WriteTo(g Generatable, p *Printer, path string) error {
	lines, err := g.Render(p)
	if err != nil {
		return err
	}
	var sb strings.Builder
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".ssgen-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.WriteString(sb.String()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Visibility is the access scope of a generated item.
type Visibility int

const (
	Private Visibility = iota
	PubSelf
	PubSuper
	PubCrate
	Public
)

// prefix returns the keyword emitted before "fn", including the trailing
// space, or the empty string for Private.
func (v Visibility) prefix() string {
	switch v {
	case PubSelf:
		return "pub(self) "
	case PubSuper:
		return "pub(super) "
	case PubCrate:
		return "pub(crate) "
	case Public:
		return "pub "
	default:
		return ""
	}
}

// Param is one function parameter.
type Param struct {
	Name string
	Type string
}

// TypeParam is one generic type parameter with an optional trait bound. An
// empty Bound emits the bare name.
type TypeParam struct {
	Name  string
	Bound string
}

// Function is a generated function: signature plus a body code unit. It is a
// value object; construct it fully and do not mutate it afterwards. Parameter
// and type-parameter order is preserved exactly as given.
type Function struct {
	Name       string
	Params     []Param
	TypeParams []TypeParam
	ReturnType string // empty for no return clause
	Visibility Visibility
	Body       Generatable
}

// Render emits the signature line, the body one level deeper, and the closing
// brace.
func (f *Function) Render(p *Printer) ([]string, error) {
	params := make([]string, len(f.Params))
	for i, param := range f.Params {
		params[i] = param.Name + ": " + param.Type
	}

	typeParams := ""
	if len(f.TypeParams) > 0 {
		tps := make([]string, len(f.TypeParams))
		for i, tp := range f.TypeParams {
			tps[i] = tp.Name
			if tp.Bound != "" {
				tps[i] += ": " + tp.Bound
			}
		}
		typeParams = "<" + strings.Join(tps, ", ") + ">"
	}

	ret := ""
	if f.ReturnType != "" {
		ret = " -> " + f.ReturnType
	}

	head := fmt.Sprintf("%sfn %s%s(%s)%s {", f.Visibility.prefix(), f.Name, typeParams, strings.Join(params, ", "), ret)

	body, err := RenderIndented(f.Body, p, 1)
	if err != nil {
		return nil, err
	}

	lines := make([]string, 0, len(body)+2)
	lines = append(lines, head)
	lines = append(lines, body...)
	lines = append(lines, "}")
	return lines, nil
}
