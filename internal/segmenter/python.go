package segmenter

import (
	"context"
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// ErrSyntax is returned by the structural parser when the source does not parse cleanly.
var ErrSyntax = errors.New("source contains syntax errors")

// Python node types that produce units.
const (
	pyFunctionNode = "function_definition"
	pyClassNode    = "class_definition"
	pyCommentNode  = "comment"
)

// python2OnlyNodes parse under the tree-sitter grammar but are syntax errors
// in Python 3.
var python2OnlyNodes = map[string]bool{
	"print_statement": true,
	"exec_statement":  true,
}

// transparentPythonNodes are grammar wrappers with no counterpart in Python's own
// syntax tree. Their children are visited as if they belonged to the parent so the
// breadth-first order matches a walk of the language's native tree.
var transparentPythonNodes = map[string]bool{
	"block":                true,
	"decorated_definition": true,
	"else_clause":          true,
	"finally_clause":       true,
}

// segmentPython parses source with the tree-sitter Python grammar and returns one unit
// per function (sync or async) and class definition, in breadth-first order.
// Any error node or Python 2 only statement is reported as ErrSyntax; nothing
// partial is returned.
func segmentPython(ctx context.Context, source, label string) ([]Unit, error) {
	src := []byte(source)

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse failed; %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("tree-sitter returned no root node")
	}
	if root.HasError() {
		return nil, ErrSyntax
	}

	var units []Unit
	queue := pythonChildren(root)
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]

		if python2OnlyNodes[node.Type()] {
			return nil, ErrSyntax
		}

		switch node.Type() {
		case pyFunctionNode, pyClassNode:
			if unit, ok := pythonUnit(node, src, label); ok {
				units = append(units, unit)
			}
		}

		queue = append(queue, pythonChildren(node)...)
	}

	return units, nil
}

// pythonUnit builds a unit from a definition node using its exact byte span.
func pythonUnit(node *sitter.Node, src []byte, label string) (Unit, bool) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return Unit{}, false
	}

	kind := KindFunction
	if node.Type() == pyClassNode {
		kind = KindClass
	}

	// The span ends at the definition's last code token. The grammar attaches
	// trailing comments and newlines to the body block.
	start, end := int(node.StartByte()), pythonCodeEnd(node, src)
	for end > start && isTrailingSpace(src[end-1]) {
		end--
	}

	code := string(src[start:end])
	if code == "" {
		return Unit{}, false
	}

	return Unit{
		SourceLabel: label,
		Kind:        kind,
		Name:        nameNode.Content(src),
		Code:        code,
	}, true
}

// pythonCodeEnd returns the end byte of the last descendant of node that is
// neither a comment nor whitespace.
func pythonCodeEnd(node *sitter.Node, src []byte) int {
	for i := int(node.ChildCount()) - 1; i >= 0; i-- {
		child := node.Child(i)
		if child == nil || child.Type() == pyCommentNode || isBlank(src[child.StartByte():child.EndByte()]) {
			continue
		}
		return pythonCodeEnd(child, src)
	}
	return int(node.EndByte())
}

// pythonChildren returns the named children of node, flattening transparent wrappers.
func pythonChildren(node *sitter.Node) []*sitter.Node {
	count := int(node.NamedChildCount())
	children := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}
		if transparentPythonNodes[child.Type()] {
			children = append(children, pythonChildren(child)...)
			continue
		}
		children = append(children, child)
	}
	return children
}

func isBlank(b []byte) bool {
	for _, c := range b {
		if !isTrailingSpace(c) {
			return false
		}
	}
	return true
}

func isTrailingSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f'
}
