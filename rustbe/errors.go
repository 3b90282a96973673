package rustbe

import "fmt"

// UnsupportedExpressionError reports an expression node kind the printer has
// no rule for. Generation of the enclosing function aborts; the kind is never
// approximated.
type UnsupportedExpressionError struct {
	Kind string
}

func (e *UnsupportedExpressionError) Error() string {
	return fmt.Sprintf("no printing rule for expression kind %s", e.Kind)
}

// NameCollisionError reports two functions with the same name being placed in
// one SourceFile.
type NameCollisionError struct {
	Name string
}

func (e *NameCollisionError) Error() string {
	return fmt.Sprintf("duplicate function name %q in source file", e.Name)
}
