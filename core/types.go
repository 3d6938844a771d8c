package core

import "strings"

// Kind tags the category of a syntax node. The set is closed: parser
// providers map every grammar node type onto one of these.
type Kind int

const (
	KindOther Kind = iota
	KindProgram
	KindCall
	KindMethodDef
	KindClass
	KindModule
	KindConditional
	KindAssignment
	KindBlock
	KindConstant
	KindIdentifier
	KindSymbol
	KindString
	KindLiteral
	KindArgumentList
	KindCollection
	KindPair
)

var kindNames = [...]string{
	KindOther:        "other",
	KindProgram:      "program",
	KindCall:         "call",
	KindMethodDef:    "method_def",
	KindClass:        "class",
	KindModule:       "module",
	KindConditional:  "conditional",
	KindAssignment:   "assignment",
	KindBlock:        "block",
	KindConstant:     "constant",
	KindIdentifier:   "identifier",
	KindSymbol:       "symbol",
	KindString:       "string",
	KindLiteral:      "literal",
	KindArgumentList: "argument_list",
	KindCollection:   "collection",
	KindPair:         "pair",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// AllKinds returns every node kind in declaration order.
func AllKinds() []Kind {
	kinds := make([]Kind, len(kindNames))
	for i := range kindNames {
		kinds[i] = Kind(i)
	}
	return kinds
}

// Node is one element of a parsed syntax tree. Leaf kinds (identifiers,
// symbols, strings, literals) carry their atom text in Value and have no
// children. A tree is owned by the parse result and never mutated after
// construction.
type Node struct {
	Kind     Kind
	Line     int // 1-based
	Column   int // 1-based
	Value    string
	Children []*Node

	// Populated for KindCall only.
	Receiver  *Node
	Method    string
	Arguments []*Node
}

// Call is the typed view of a call expression node.
type Call struct {
	Receiver  *Node // nil when the call has no explicit receiver
	Method    string
	Arguments []*Node
	Line      int
	Column    int
}

// HasReceiver reports whether the call was made on an explicit receiver.
func (c Call) HasReceiver() bool {
	return c.Receiver != nil
}

// Call returns the call view of n. ok is false for any other kind.
func (n *Node) Call() (call Call, ok bool) {
	if n == nil || n.Kind != KindCall {
		return Call{}, false
	}
	return Call{
		Receiver:  n.Receiver,
		Method:    n.Method,
		Arguments: n.Arguments,
		Line:      n.Line,
		Column:    n.Column,
	}, true
}

// Label renders a node for display inside a warning: its atom text when it
// has one, otherwise the labels of its children joined by ", ". Nodes with
// no enumerable content render as the empty string.
func (n *Node) Label() string {
	if n == nil {
		return ""
	}
	if n.Value != "" {
		return n.Value
	}
	parts := make([]string, 0, len(n.Children))
	for _, child := range n.Children {
		if label := child.Label(); label != "" {
			parts = append(parts, label)
		}
	}
	return strings.Join(parts, ", ")
}

// Warning is one detected violation in a single file.
type Warning struct {
	Rule    string `json:"rule"`
	Message string `json:"message"`
	Line    int    `json:"line"`
	Column  int    `json:"column,omitempty"`
}

func (w Warning) String() string {
	return w.Message
}

// FileScope defines which files to scan
type FileScope struct {
	Paths          []string `json:"paths"`                // Files or directories to scan
	Extensions     []string `json:"extensions,omitempty"` // Extension filter (.rb, .rake), required
	Include        []string `json:"include,omitempty"`    // Glob patterns to include (app/**/*.rb)
	Exclude        []string `json:"exclude,omitempty"`    // Glob patterns to exclude
	MaxDepth       int      `json:"max_depth,omitempty"`  // Max directory depth (0 = unlimited)
	MaxFiles       int      `json:"max_files,omitempty"`  // Max files to return (0 = unlimited)
	MaxBytes       int64    `json:"max_bytes,omitempty"`  // Skip files larger than this (0 = unlimited)
	FollowSymlinks bool     `json:"follow_symlinks"`
	NoGitignore    bool     `json:"no_gitignore"`
}
