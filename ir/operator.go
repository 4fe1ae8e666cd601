package ir

// Operator identifies a unary or binary operator in the IR.
type Operator int

const (
	OpPlus Operator = iota
	OpMinus
	OpStar
	OpSlash
	OpPercent
	OpShl
	OpShr
	OpLogicalAnd
	OpLogicalOr
	OpLogicalXor
	OpLogicalNot
	OpBitwiseAnd
	OpBitwiseOr
	OpBitwiseXor
	OpBitwiseNot
	OpEq
	OpEqEq
	OpNeq
	OpLt
	OpGt
	OpLtEq
	OpGtEq
	OpPlusEq
	OpMinusEq
	OpStarEq
	OpSlashEq
	OpPercentEq
	OpShlEq
	OpShrEq
	OpBitwiseAndEq
	OpBitwiseOrEq
	OpBitwiseXorEq
	OpLogicalAndEq
	OpLogicalOrEq
	OpLogicalXorEq
	OpPlusPlus
	OpMinusMinus
	OpComma
)

var operatorNames = map[Operator]string{
	OpPlus:         "+",
	OpMinus:        "-",
	OpStar:         "*",
	OpSlash:        "/",
	OpPercent:      "%",
	OpShl:          "<<",
	OpShr:          ">>",
	OpLogicalAnd:   "&&",
	OpLogicalOr:    "||",
	OpLogicalXor:   "^^",
	OpLogicalNot:   "!",
	OpBitwiseAnd:   "&",
	OpBitwiseOr:    "|",
	OpBitwiseXor:   "^",
	OpBitwiseNot:   "~",
	OpEq:           "=",
	OpEqEq:         "==",
	OpNeq:          "!=",
	OpLt:           "<",
	OpGt:           ">",
	OpLtEq:         "<=",
	OpGtEq:         ">=",
	OpPlusEq:       "+=",
	OpMinusEq:      "-=",
	OpStarEq:       "*=",
	OpSlashEq:      "/=",
	OpPercentEq:    "%=",
	OpShlEq:        "<<=",
	OpShrEq:        ">>=",
	OpBitwiseAndEq: "&=",
	OpBitwiseOrEq:  "|=",
	OpBitwiseXorEq: "^=",
	OpLogicalAndEq: "&&=",
	OpLogicalOrEq:  "||=",
	OpLogicalXorEq: "^^=",
	OpPlusPlus:     "++",
	OpMinusMinus:   "--",
	OpComma:        ",",
}

func (op Operator) String() string { return operatorNames[op] }

// IsAssignment reports whether the operator stores into its left operand.
func (op Operator) IsAssignment() bool {
	switch op {
	case OpEq, OpPlusEq, OpMinusEq, OpStarEq, OpSlashEq, OpPercentEq,
		OpShlEq, OpShrEq, OpBitwiseAndEq, OpBitwiseOrEq, OpBitwiseXorEq,
		OpLogicalAndEq, OpLogicalOrEq, OpLogicalXorEq:
		return true
	}
	return false
}

// IsLogical reports whether the operator is a comparison producing bool
// from ordered operands.
func (op Operator) IsLogical() bool {
	switch op {
	case OpLt, OpGt, OpLtEq, OpGtEq:
		return true
	}
	return false
}
