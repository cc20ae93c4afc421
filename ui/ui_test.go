package ui

import (
	"testing"

	"github.com/jhhoward/microweb-go/node"
)

func TestHistoryPushAndBack(t *testing.T) {
	var h History
	h.Push("http://a")
	h.Push("http://b")
	h.Push("http://c")

	if got := h.Current(); got != "http://c" {
		t.Fatalf("Current() = %q, want http://c", got)
	}
	if got, ok := h.Back(); !ok || got != "http://b" {
		t.Fatalf("Back() = (%q, %v), want (http://b, true)", got, ok)
	}
	if got, ok := h.Back(); !ok || got != "http://a" {
		t.Fatalf("Back() = (%q, %v), want (http://a, true)", got, ok)
	}
	if _, ok := h.Back(); ok {
		t.Fatal("Back() at the first entry should fail")
	}
}

func TestHistoryForwardAfterBack(t *testing.T) {
	var h History
	h.Push("http://a")
	h.Push("http://b")
	h.Back()

	if got, ok := h.Forward(); !ok || got != "http://b" {
		t.Fatalf("Forward() = (%q, %v), want (http://b, true)", got, ok)
	}
	if _, ok := h.Forward(); ok {
		t.Fatal("Forward() at the last entry should fail")
	}
}

func TestHistoryPushTruncatesForwardEntries(t *testing.T) {
	var h History
	h.Push("http://a")
	h.Push("http://b")
	h.Push("http://c")
	h.Back()
	h.Back()
	if got := h.Current(); got != "http://a" {
		t.Fatalf("Current() = %q, want http://a", got)
	}

	h.Push("http://d")
	if h.CanForward() {
		t.Fatal("pushing after Back should truncate forward entries")
	}
	if got := h.Current(); got != "http://d" {
		t.Fatalf("Current() = %q, want http://d", got)
	}
	if _, ok := h.Back(); !ok {
		t.Fatal("Back() should still reach http://a")
	}
	if got := h.Current(); got != "http://a" {
		t.Fatalf("Current() after Back = %q, want http://a", got)
	}
}

func TestHistoryEmpty(t *testing.T) {
	var h History
	if h.CanBack() || h.CanForward() {
		t.Fatal("empty history should not allow Back or Forward")
	}
	if got := h.Current(); got != "" {
		t.Fatalf("Current() on empty history = %q, want \"\"", got)
	}
}

func TestNewShellBuildsAllChromeNodes(t *testing.T) {
	s := NewShell()

	want := []*node.Node{s.TitleNode, s.BackNode, s.ForwardNode, s.AddressNode, s.ScrollNode, s.StatusNode}
	got := s.Root.Children()
	if len(got) != len(want) {
		t.Fatalf("Root has %d children, want %d", len(got), len(want))
	}
	for i, n := range want {
		if got[i] != n {
			t.Fatalf("child %d = %p, want %p", i, got[i], n)
		}
	}
}

func TestShellSetAndGetAddress(t *testing.T) {
	s := NewShell()
	s.SetAddress("http://example.com")
	if got := s.Address(); got != "http://example.com" {
		t.Fatalf("Address() = %q, want http://example.com", got)
	}
	p := s.AddressNode.Payload.(*node.TextFieldPayload)
	if p.CursorPos != len([]rune("http://example.com")) {
		t.Fatalf("CursorPos = %d, want end of text", p.CursorPos)
	}
}

func TestShellSetTitle(t *testing.T) {
	s := NewShell()
	s.SetTitle("Example Page")
	payload := s.TitleNode.Payload.(*node.TextPayload)
	buf, err := s.Blocks.Get(payload.Handle)
	if err != nil {
		t.Fatal(err)
	}
	if string(buf) != "Example Page" {
		t.Fatalf("title text = %q, want %q", string(buf), "Example Page")
	}
}

func TestShellStatusBarPrefersHover(t *testing.T) {
	s := NewShell()
	s.SetStatus("Done")
	if got := s.StatusNode.Payload.(*node.StatusBarPayload).Message(); got != "Done" {
		t.Fatalf("Message() = %q, want Done", got)
	}
	s.SetHoverStatus("http://example.com/page")
	if got := s.StatusNode.Payload.(*node.StatusBarPayload).Message(); got != "http://example.com/page" {
		t.Fatalf("Message() = %q, want hover text", got)
	}
	s.SetHoverStatus("")
	if got := s.StatusNode.Payload.(*node.StatusBarPayload).Message(); got != "Done" {
		t.Fatalf("Message() = %q, want Done again once hover clears", got)
	}
}

func TestHandleClickBack(t *testing.T) {
	s := NewShell()
	s.Navigate("http://a")
	s.Navigate("http://b")

	ev := s.HandleClick(s.BackNode)
	if ev.Action != ActionBack || ev.URL != "http://a" {
		t.Fatalf("HandleClick(Back) = %+v, want ActionBack to http://a", ev)
	}
	if got := s.Address(); got != "http://a" {
		t.Fatalf("address bar = %q after Back, want http://a", got)
	}
}

func TestHandleClickBackAtStartIsNoop(t *testing.T) {
	s := NewShell()
	s.Navigate("http://a")

	ev := s.HandleClick(s.BackNode)
	if ev.Action != ActionNone {
		t.Fatalf("HandleClick(Back) at start = %+v, want ActionNone", ev)
	}
}

func TestHandleClickLinkNavigates(t *testing.T) {
	s := NewShell()
	pool := node.NewPool()
	link := pool.New(node.Link)
	link.Payload = &node.LinkPayload{URL: "http://example.com/next"}

	ev := s.HandleClick(link)
	if ev.Action != ActionNavigate || ev.URL != "http://example.com/next" {
		t.Fatalf("HandleClick(Link) = %+v, want ActionNavigate to http://example.com/next", ev)
	}
}

func TestHandleClickAddressFocuses(t *testing.T) {
	s := NewShell()
	ev := s.HandleClick(s.AddressNode)
	if ev.Action != ActionFocus || ev.Target != s.AddressNode {
		t.Fatalf("HandleClick(Address) = %+v, want ActionFocus on address node", ev)
	}
}

func TestHandleClickMissResolvesToNone(t *testing.T) {
	s := NewShell()
	pool := node.NewPool()
	section := pool.New(node.Section)
	if ev := s.HandleClick(section); ev.Action != ActionNone {
		t.Fatalf("HandleClick(non-pickable) = %+v, want ActionNone", ev)
	}
	if ev := s.HandleClick(nil); ev.Action != ActionNone {
		t.Fatalf("HandleClick(nil) = %+v, want ActionNone", ev)
	}
}

func TestHandleEnterOnAddressBarSubmits(t *testing.T) {
	s := NewShell()
	s.SetAddress("http://example.com/search")

	ev, ok := s.HandleEnter(s.AddressNode)
	if !ok {
		t.Fatal("HandleEnter(AddressNode) should report ok")
	}
	if ev.Action != ActionNavigate || ev.URL != "http://example.com/search" {
		t.Fatalf("HandleEnter result = %+v, want ActionNavigate to http://example.com/search", ev)
	}
	if h := s.History.Current(); h != "http://example.com/search" {
		t.Fatalf("history current = %q, want http://example.com/search", h)
	}
}

func TestHandleEnterOnOtherNodeIsNotOk(t *testing.T) {
	s := NewShell()
	if _, ok := s.HandleEnter(s.BackNode); ok {
		t.Fatal("HandleEnter on a non-address node should return ok=false")
	}
}

func TestHandleClickSubmitButtonNavigatesWithQueryString(t *testing.T) {
	s := NewShell()
	pool := node.NewPool()

	form := pool.New(node.Form)
	form.Payload = &node.FormPayload{Action: "s", Method: "GET"}

	field := pool.New(node.TextField)
	field.Payload = &node.TextFieldPayload{Name: "q", Value: []rune("hi")}
	form.AppendChild(field)

	submit := pool.New(node.Button)
	submit.Payload = &node.ButtonPayload{Label: "go", Submit: true}
	form.AppendChild(submit)

	ev := s.HandleClick(submit)
	if ev.Action != ActionNavigate || ev.URL != "s?q=hi" {
		t.Fatalf("HandleClick(submit) = %+v, want ActionNavigate to %q", ev, "s?q=hi")
	}
}

func TestHandleClickSubmitCollectsMultipleFieldsAndSkipsUncheckedBox(t *testing.T) {
	s := NewShell()
	pool := node.NewPool()

	form := pool.New(node.Form)
	form.Payload = &node.FormPayload{Action: "search", Method: "GET"}

	name := pool.New(node.TextField)
	name.Payload = &node.TextFieldPayload{Name: "name", Value: []rune("jane doe")}
	form.AppendChild(name)

	checked := pool.New(node.TextField)
	checked.Payload = &node.TextFieldPayload{Name: "agree", IsCheckbox: true, Checked: true}
	form.AppendChild(checked)

	unchecked := pool.New(node.TextField)
	unchecked.Payload = &node.TextFieldPayload{Name: "newsletter", IsCheckbox: true, Checked: false}
	form.AppendChild(unchecked)

	submit := pool.New(node.Button)
	submit.Payload = &node.ButtonPayload{Label: "go", Submit: true}
	form.AppendChild(submit)

	ev := s.HandleClick(submit)
	want := "search?name=jane+doe&agree="
	if ev.Action != ActionNavigate || ev.URL != want {
		t.Fatalf("HandleClick(submit) = %+v, want ActionNavigate to %q", ev, want)
	}
}

func TestHandleClickSubmitButtonOutsideFormFocusesInstead(t *testing.T) {
	s := NewShell()
	pool := node.NewPool()

	submit := pool.New(node.Button)
	submit.Payload = &node.ButtonPayload{Label: "go", Submit: true}

	ev := s.HandleClick(submit)
	if ev.Action != ActionFocus || ev.Target != submit {
		t.Fatalf("HandleClick(orphan submit) = %+v, want ActionFocus", ev)
	}
}

func TestHandleEnterOnFormTextFieldSubmits(t *testing.T) {
	s := NewShell()
	pool := node.NewPool()

	form := pool.New(node.Form)
	form.Payload = &node.FormPayload{Action: "s", Method: "GET"}

	field := pool.New(node.TextField)
	field.Payload = &node.TextFieldPayload{Name: "q", Value: []rune("hi")}
	form.AppendChild(field)

	ev, ok := s.HandleEnter(field)
	if !ok {
		t.Fatal("HandleEnter(field inside form) should report ok")
	}
	if ev.Action != ActionNavigate || ev.URL != "s?q=hi" {
		t.Fatalf("HandleEnter(field) = %+v, want ActionNavigate to %q", ev, "s?q=hi")
	}
}

func TestHandleClickSubmitSelectsOptionValue(t *testing.T) {
	s := NewShell()
	pool := node.NewPool()

	form := pool.New(node.Form)
	form.Payload = &node.FormPayload{Action: "pick", Method: "GET"}

	sel := pool.New(node.Select)
	sel.Payload = &node.SelectPayload{Name: "color", Selected: 1}
	form.AppendChild(sel)

	opt0 := pool.New(node.Option)
	opt0.Payload = &node.OptionPayload{Value: "red"}
	sel.AppendChild(opt0)

	opt1 := pool.New(node.Option)
	opt1.Payload = &node.OptionPayload{Value: "blue"}
	sel.AppendChild(opt1)

	submit := pool.New(node.Button)
	submit.Payload = &node.ButtonPayload{Label: "go", Submit: true}
	form.AppendChild(submit)

	ev := s.HandleClick(submit)
	if ev.Action != ActionNavigate || ev.URL != "pick?color=blue" {
		t.Fatalf("HandleClick(submit) = %+v, want ActionNavigate to %q", ev, "pick?color=blue")
	}
}
