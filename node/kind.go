// Package node holds the document tree's data model: the closed set of
// node kinds, the tree shape, and per-kind payloads (§3, §4.3). Node
// carries only data — a kind tag plus a payload value selected by that
// tag. Behavior (style application, layout, paint, hit-testing, event
// handling) lives in the packages that walk the tree (layout,
// pagerender) as a switch on Kind, not as methods on Node: a tagged
// variant dispatched by match, not a virtual-call vtable.
package node

// Kind is the closed set of node kinds a document tree may contain.
type Kind uint8

const (
	Section Kind = iota
	Text
	SubText
	Image
	Break
	Style
	Link
	Block
	Button
	TextField
	Form
	StatusBar
	ScrollBar
	Table
	TableRow
	TableCell
	Select
	Option
	List
	ListItem
)

func (k Kind) String() string {
	switch k {
	case Section:
		return "Section"
	case Text:
		return "Text"
	case SubText:
		return "SubText"
	case Image:
		return "Image"
	case Break:
		return "Break"
	case Style:
		return "Style"
	case Link:
		return "Link"
	case Block:
		return "Block"
	case Button:
		return "Button"
	case TextField:
		return "TextField"
	case Form:
		return "Form"
	case StatusBar:
		return "StatusBar"
	case ScrollBar:
		return "ScrollBar"
	case Table:
		return "Table"
	case TableRow:
		return "TableRow"
	case TableCell:
		return "TableCell"
	case Select:
		return "Select"
	case Option:
		return "Option"
	case List:
		return "List"
	case ListItem:
		return "ListItem"
	default:
		return "Unknown"
	}
}

// IsVisual reports whether nodes of this kind are expected to occupy a
// nonzero box after layout (§8: "∀ node N after full layout: N.size.w>0
// ∧ N.size.h>0 OR N is a non-visual node"). Section, Style, and Form
// never paint themselves; everything else does.
func (k Kind) IsVisual() bool {
	switch k {
	case Section, Style, Form:
		return false
	default:
		return true
	}
}

// CanPick reports whether a node of this kind opts into hit-testing by
// default; Link, Button, TextField, ScrollBar, Select, Option, Image, and
// SubText (for text selection) are pickable, structural containers are
// not.
func (k Kind) CanPick() bool {
	switch k {
	case Link, Button, TextField, ScrollBar, Select, Option, SubText, Image:
		return true
	default:
		return false
	}
}
