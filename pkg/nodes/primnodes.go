package nodes

// Expr is a node that can appear in an expression tree.
type Expr interface {
	Node

	// ResultType returns the type OID the expression evaluates to.
	ResultType() Oid
}

// Var references a column of a range table entry.
type Var struct {
	VarNo    Index
	VarAttNo int
	VarType  Oid

	// Name is the column name, kept for display only.
	Name string
}

func (*Var) Tag() NodeTag { return TagVar }
func (v *Var) ResultType() Oid { return v.VarType }

// Const is a literal value.
type Const struct {
	ConstType Oid
	Value     any
	IsNull    bool
}

func (*Const) Tag() NodeTag { return TagConst }
func (c *Const) ResultType() Oid { return c.ConstType }

// Param is an externally supplied query parameter ($n).
type Param struct {
	ParamID   int
	ParamType Oid
}

func (*Param) Tag() NodeTag { return TagParam }
func (p *Param) ResultType() Oid { return p.ParamType }

// OpExpr is the application of a binary operator.
type OpExpr struct {
	OpNo         Oid
	OpResultType Oid
	Args         []Expr

	// OpName is the unqualified operator name, used for display and default
	// selectivity.
	OpName string
}

func (*OpExpr) Tag() NodeTag { return TagOpExpr }
func (o *OpExpr) ResultType() Oid { return o.OpResultType }

// BoolExprType is the kind of a BoolExpr.
type BoolExprType int

const (
	AndExpr BoolExprType = iota
	OrExpr
	NotExpr
)

func (b BoolExprType) String() string {
	switch b {
	case AndExpr:
		return "and"
	case OrExpr:
		return "or"
	case NotExpr:
		return "not"
	default:
		return "unknown"
	}
}

// BoolExpr combines boolean arguments.
type BoolExpr struct {
	BoolOp BoolExprType
	Args   []Expr
}

func (*BoolExpr) Tag() NodeTag { return TagBoolExpr }
func (*BoolExpr) ResultType() Oid { return BoolOID }

// TargetEntry is one output column of a target list.
type TargetEntry struct {
	Expr    Expr
	ResNo   int
	ResName string
	ResJunk bool
}

func (*TargetEntry) Tag() NodeTag { return TagTargetEntry }
