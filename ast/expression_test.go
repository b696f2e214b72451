package ast

// Compile-time assertions that each expression kind implements Expression.
var (
	_ Expression = &CallExpression{}
	_ Expression = &ComprehensionExpression{}
	_ Expression = &Int64Constant{}
	_ Expression = &Uint64Constant{}
	_ Expression = &DoubleConstant{}
	_ Expression = &StringConstant{}
	_ Expression = &BytesConstant{}
	_ Expression = &BoolConstant{}
	_ Expression = &NullConstant{}
	_ Expression = &ErrorExpression{}
	_ Expression = &IdentExpression{}
	_ Expression = &CreateListExpression{}
	_ Expression = &CreateMessageExpression{}
	_ Expression = &SelectExpression{}
	_ Expression = &CreateStructExpression{}
)
