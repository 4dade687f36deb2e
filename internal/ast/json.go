package ast

// ToJSONValue renders a Node as a plain map/slice tree suitable for
// encoding/json, matching the ESTree node shape (`type`
// plus kind-specific fields, `start`/`end`, and optional `loc`/`range`).
// cmd/esi's `parse` subcommand and `run --dump-ast` consume this.
func ToJSONValue(n Node) any {
	if n == nil {
		return nil
	}
	m := map[string]any{"type": n.Type()}
	start, end := n.Span()
	m["start"] = start
	m["end"] = end

	switch v := n.(type) {
	case *Program:
		m["body"] = nodeList(v.Body)
	case *BlockStatement:
		m["body"] = nodeList(v.Body)
	case *ExpressionStatement:
		m["expression"] = ToJSONValue(v.Expression)
		if v.Directive != "" {
			m["directive"] = v.Directive
		}
	case *EmptyStatement, *DebuggerStatement:
		// no extra fields
	case *IfStatement:
		m["test"] = ToJSONValue(v.Test)
		m["consequent"] = ToJSONValue(v.Consequent)
		m["alternate"] = ToJSONValue(v.Alternate)
	case *SwitchCase:
		m["test"] = ToJSONValue(v.Test)
		m["consequent"] = nodeList(v.Consequent)
	case *SwitchStatement:
		m["discriminant"] = ToJSONValue(v.Discriminant)
		cases := make([]any, len(v.Cases))
		for i, c := range v.Cases {
			cases[i] = ToJSONValue(c)
		}
		m["cases"] = cases
	case *ForStatement:
		m["init"] = ToJSONValue(v.Init)
		m["test"] = ToJSONValue(v.Test)
		m["update"] = ToJSONValue(v.Update)
		m["body"] = ToJSONValue(v.Body)
	case *ForInStatement:
		m["left"] = ToJSONValue(v.Left)
		m["right"] = ToJSONValue(v.Right)
		m["body"] = ToJSONValue(v.Body)
	case *WhileStatement:
		m["test"] = ToJSONValue(v.Test)
		m["body"] = ToJSONValue(v.Body)
	case *DoWhileStatement:
		m["body"] = ToJSONValue(v.Body)
		m["test"] = ToJSONValue(v.Test)
	case *BreakStatement:
		m["label"] = labelOrNil(v.Label)
	case *ContinueStatement:
		m["label"] = labelOrNil(v.Label)
	case *ReturnStatement:
		m["argument"] = ToJSONValue(v.Argument)
	case *ThrowStatement:
		m["argument"] = ToJSONValue(v.Argument)
	case *CatchClause:
		m["param"] = ToJSONValue(v.Param)
		m["body"] = ToJSONValue(v.Body)
	case *TryStatement:
		m["block"] = ToJSONValue(v.Block)
		if v.Handler != nil {
			m["handler"] = ToJSONValue(v.Handler)
		} else {
			m["handler"] = nil
		}
		if v.Finalizer != nil {
			m["finalizer"] = ToJSONValue(v.Finalizer)
		} else {
			m["finalizer"] = nil
		}
	case *WithStatement:
		m["object"] = ToJSONValue(v.Object)
		m["body"] = ToJSONValue(v.Body)
	case *LabeledStatement:
		m["label"] = v.Label
		m["body"] = ToJSONValue(v.Body)
	case *VariableDeclarator:
		m["id"] = ToJSONValue(v.Id)
		m["init"] = ToJSONValue(v.Init)
	case *VariableDeclaration:
		m["kind"] = v.Kind
		decls := make([]any, len(v.Declarations))
		for i, d := range v.Declarations {
			decls[i] = ToJSONValue(d)
		}
		m["declarations"] = decls
	case *FunctionDeclaration:
		m["id"] = ToJSONValue(v.Id)
		m["params"] = identList(v.Params)
		m["body"] = ToJSONValue(v.Body)
	case *FunctionExpression:
		if v.Id != nil {
			m["id"] = ToJSONValue(v.Id)
		} else {
			m["id"] = nil
		}
		m["params"] = identList(v.Params)
		m["body"] = ToJSONValue(v.Body)
	case *ArrayExpression:
		m["elements"] = nodeList(v.Elements)
	case *Property:
		m["key"] = ToJSONValue(v.Key)
		m["value"] = ToJSONValue(v.Value)
		m["kind"] = v.Kind
		m["computed"] = v.Computed
	case *ObjectExpression:
		props := make([]any, len(v.Properties))
		for i, p := range v.Properties {
			props[i] = ToJSONValue(p)
		}
		m["properties"] = props
	case *SequenceExpression:
		m["expressions"] = nodeList(v.Expressions)
	case *AssignmentExpression:
		m["operator"] = v.Operator
		m["left"] = ToJSONValue(v.Left)
		m["right"] = ToJSONValue(v.Right)
	case *BinaryExpression:
		m["operator"] = v.Operator
		m["left"] = ToJSONValue(v.Left)
		m["right"] = ToJSONValue(v.Right)
	case *LogicalExpression:
		m["operator"] = v.Operator
		m["left"] = ToJSONValue(v.Left)
		m["right"] = ToJSONValue(v.Right)
	case *ConditionalExpression:
		m["test"] = ToJSONValue(v.Test)
		m["consequent"] = ToJSONValue(v.Consequent)
		m["alternate"] = ToJSONValue(v.Alternate)
	case *UnaryExpression:
		m["operator"] = v.Operator
		m["prefix"] = v.Prefix
		m["argument"] = ToJSONValue(v.Argument)
	case *UpdateExpression:
		m["operator"] = v.Operator
		m["prefix"] = v.Prefix
		m["argument"] = ToJSONValue(v.Argument)
	case *MemberExpression:
		m["object"] = ToJSONValue(v.Object)
		m["property"] = ToJSONValue(v.Property)
		m["computed"] = v.Computed
	case *CallExpression:
		m["callee"] = ToJSONValue(v.Callee)
		m["arguments"] = nodeList(v.Arguments)
	case *NewExpression:
		m["callee"] = ToJSONValue(v.Callee)
		m["arguments"] = nodeList(v.Arguments)
	case *ThisExpression:
		// no extra fields
	case *Identifier:
		m["name"] = v.Name
	case *Literal:
		m["raw"] = v.Raw
		switch v.Kind {
		case LitNull:
			m["value"] = nil
		case LitBool:
			m["value"] = v.Bool
		case LitNumber:
			m["value"] = v.Num
		case LitString:
			m["value"] = v.Str
		case LitRegExp:
			m["regex"] = map[string]any{"pattern": v.RegExp.Pattern, "flags": v.RegExp.Flags}
		}
	}
	return m
}

func nodeList(ns []Node) []any {
	out := make([]any, len(ns))
	for i, n := range ns {
		out[i] = ToJSONValue(n)
	}
	return out
}

func identList(ids []*Identifier) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = ToJSONValue(id)
	}
	return out
}

func labelOrNil(label string) any {
	if label == "" {
		return nil
	}
	return label
}
