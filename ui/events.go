package ui

import (
	"strings"

	"github.com/jhhoward/microweb-go/node"
)

// Action is what a click or key press on the interface/document tree
// resolves to: either a chrome action the Shell owns, or a navigation
// request the caller (the engine) must act on by starting a new load.
type Action int

const (
	ActionNone Action = iota
	ActionBack
	ActionForward
	ActionNavigate
	ActionFocus
)

// Event is the resolved effect of a click, carrying the navigation URL
// when Action is ActionNavigate.
type Event struct {
	Action Action
	URL    string
	Target *node.Node
}

// HandleClick resolves a click on hit, the node pagerender.Pick
// returned for the click point. Back/Forward buttons, Link nodes, and
// submit Buttons inside a Form resolve to navigation actions;
// everything else pickable (TextField, ScrollBar, other Buttons)
// resolves to ActionFocus so the caller can move input focus there,
// and a miss resolves to ActionNone.
func (s *Shell) HandleClick(hit *node.Node) Event {
	if hit == nil {
		return Event{Action: ActionNone}
	}
	switch hit {
	case s.BackNode:
		if url, ok := s.History.Back(); ok {
			s.SetAddress(url)
			return Event{Action: ActionBack, URL: url, Target: hit}
		}
		return Event{Action: ActionNone, Target: hit}
	case s.ForwardNode:
		if url, ok := s.History.Forward(); ok {
			s.SetAddress(url)
			return Event{Action: ActionForward, URL: url, Target: hit}
		}
		return Event{Action: ActionNone, Target: hit}
	case s.AddressNode:
		return Event{Action: ActionFocus, Target: hit}
	}
	if hit.Kind == node.Link {
		if payload, ok := hit.Payload.(*node.LinkPayload); ok {
			return Event{Action: ActionNavigate, URL: payload.URL, Target: hit}
		}
	}
	if hit.Kind == node.Button {
		if payload, ok := hit.Payload.(*node.ButtonPayload); ok && payload.Submit {
			if ev, ok := submitEnclosingForm(hit); ok {
				return ev
			}
		}
	}
	if hit.Kind.CanPick() {
		return Event{Action: ActionFocus, Target: hit}
	}
	return Event{Action: ActionNone}
}

// HandleEnter resolves the Enter key while focused is the interface
// root's address bar (submits its text as a navigation request) or a
// document TextField inside a Form (submits the form, same as its
// submit button). Returns ok=false for anything else.
func (s *Shell) HandleEnter(focused *node.Node) (Event, bool) {
	if focused == s.AddressNode {
		url := s.Address()
		s.History.Push(url)
		return Event{Action: ActionNavigate, URL: url, Target: focused}, true
	}
	if focused != nil && focused.Kind == node.TextField {
		return submitEnclosingForm(focused)
	}
	return Event{}, false
}

// submitEnclosingForm implements §4.3's form submit: walk up from
// start to the nearest enclosing Form, collect (name, value) pairs
// from its TextField/CheckBox/Select descendants, and resolve them
// into a navigation to the form's action URL with the pairs appended
// as a query string. Returns ok=false if start isn't inside a Form.
func submitEnclosingForm(start *node.Node) (Event, bool) {
	form := start.Parent
	for form != nil && form.Kind != node.Form {
		form = form.Parent
	}
	if form == nil {
		return Event{}, false
	}
	payload, ok := form.Payload.(*node.FormPayload)
	if !ok {
		return Event{}, false
	}

	query := formQueryString(form)
	url := payload.Action
	if query != "" {
		url += "?" + query
	}
	return Event{Action: ActionNavigate, URL: url, Target: start}, true
}

// formQueryString walks form's subtree collecting (name, value) pairs
// per §4.3: every non-checkbox TextField, every checked CheckBox
// (TextField reusing the same payload with IsCheckbox set), and every
// Select's selected Option value; then joins them as "k1=v1&k2=v2…"
// with spaces mapped to "+".
func formQueryString(form *node.Node) string {
	var pairs []string
	var walk func(n *node.Node)
	walk = func(n *node.Node) {
		switch n.Kind {
		case node.TextField:
			if p, ok := n.Payload.(*node.TextFieldPayload); ok {
				if !p.IsCheckbox || p.Checked {
					pairs = append(pairs, formPair(p.Name, string(p.Value)))
				}
			}
		case node.Select:
			if p, ok := n.Payload.(*node.SelectPayload); ok {
				if opt := selectedOption(n, p.Selected); opt != nil {
					pairs = append(pairs, formPair(p.Name, opt.Value))
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := form.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return strings.Join(pairs, "&")
}

func selectedOption(selectNode *node.Node, index int) *node.OptionPayload {
	i := 0
	for c := selectNode.FirstChild; c != nil; c = c.NextSibling {
		if c.Kind != node.Option {
			continue
		}
		if i == index {
			if p, ok := c.Payload.(*node.OptionPayload); ok {
				return p
			}
			return nil
		}
		i++
	}
	return nil
}

func formPair(name, value string) string {
	return formEncode(name) + "=" + formEncode(value)
}

// formEncode maps spaces to "+", the only escaping §4.3's query-string
// construction performs.
func formEncode(s string) string {
	return strings.ReplaceAll(s, " ", "+")
}
