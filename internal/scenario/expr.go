package scenario

import (
	"github.com/ShabbirHasan1/monty/internal/evaluator"
	"github.com/samber/mo"
)

// Expr describes a value to build when a step runs. Container literals are
// rebuilt on every evaluation so that mutating one run never leaks into the next.
type Expr interface {
	exprNode()
}

// Lit is an immutable scalar: None, bool, int or str.
type Lit struct {
	Value evaluator.Object
}

// ListExpr builds a fresh list.
type ListExpr struct {
	Elements []Expr
}

// TupleExpr builds a tuple.
type TupleExpr struct {
	Elements []Expr
}

// DictExpr builds a fresh dict; Keys and Values are parallel.
type DictExpr struct {
	Keys   []Expr
	Values []Expr
}

// FieldExpr is one record field.
type FieldExpr struct {
	Name  string
	Value Expr
}

// RecordExpr builds a mutable or frozen record.
type RecordExpr struct {
	TypeName string
	Fields   []FieldExpr
	Frozen   bool
}

// SliceExpr builds a slice value.
type SliceExpr struct {
	Start, Stop, Step mo.Option[int64]
}

// ExceptionExpr builds an exception as ExceptionKind(args...) would.
type ExceptionExpr struct {
	Kind evaluator.ExceptionKind
	Args []Expr
}

// RefExpr resolves a binding by name.
type RefExpr struct {
	Name string
}

// KwargExpr is a keyword argument at a call step.
type KwargExpr struct {
	Name  string
	Value Expr
}

func (*Lit) exprNode()           {}
func (*ListExpr) exprNode()      {}
func (*TupleExpr) exprNode()     {}
func (*DictExpr) exprNode()      {}
func (*RecordExpr) exprNode()    {}
func (*SliceExpr) exprNode()     {}
func (*ExceptionExpr) exprNode() {}
func (*RefExpr) exprNode()       {}
