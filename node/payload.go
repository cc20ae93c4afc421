package node

import "github.com/jhhoward/microweb-go/memtier"

// ImageState is the Image node's load state machine (§4.3).
type ImageState uint8

const (
	ImageUnloaded ImageState = iota
	ImageDeterminingFormat
	ImageDownloadingDimensions
	ImageFinishedDownloadingDimensions
	ImageDownloadingContent
	ImageFinishedDownloadingContent
	ImageErrorDownloading
)

// TextPayload backs Text nodes: the raw text lives in a block-allocated
// buffer (accessed through Handle), plus the word-wrap cache §4.5
// describes so an unchanged column width can skip full SubText
// regeneration.
type TextPayload struct {
	Handle             memtier.Handle
	Length             int
	LastAvailableWidth int
}

// SubTextPayload backs SubText leaves: a (start, length) slice into the
// parent Text node's buffer. SubText carries no buffer of its own.
type SubTextPayload struct {
	Start  int
	Length int
}

// ImagePayload backs Image nodes.
type ImagePayload struct {
	URL   string
	Alt   string
	IsMap bool

	State ImageState

	// NaturalWidth/NaturalHeight are the decoded source dimensions;
	// ExplicitWidth/ExplicitHeight, when >0, override them (possibly
	// just one axis, in which case the other is aspect-scaled).
	NaturalWidth, NaturalHeight   int
	ExplicitWidth, ExplicitHeight int

	Pixels []byte // decoded 8bpp pixels, populated once FinishedDownloadingContent
}

// LinkPayload backs Link nodes: non-visual, but carries the
// destination URL handle_event(MouseClick) navigates to.
type LinkPayload struct {
	URL string
}

// StylePayload backs Style nodes: the override this node layers onto
// the inherited style, plus whether it changes alignment (which forces
// a line break per §4.3).
type StylePayload struct {
	Override       ElementStyle
	OverrideFields StyleBit // which bits of Override are meaningful
	ChangesAlign   bool
}

// ButtonPayload backs Button nodes.
type ButtonPayload struct {
	Label  string
	Submit bool // true if this button triggers its enclosing Form's submit
}

// TextFieldPayload backs TextField (and CheckBox, reusing the same
// payload with Checked meaningful only for checkboxes) nodes: a
// writable buffer, cursor, horizontal shift, and selection.
type TextFieldPayload struct {
	Name  string
	Value []rune

	CursorPos    int
	ShiftOffset  int
	SelStart     int
	SelLength    int

	IsCheckbox bool
	Checked    bool

	MaxWidth int // pixel width of the visible field box
}

// FormPayload backs Form nodes.
type FormPayload struct {
	Action string
	Method string // "GET" is the only method §4.3 describes
}

// ScrollBarPayload backs ScrollBar nodes.
type ScrollBarPayload struct {
	ScrollPosition int
	MaxScroll      int
	ThumbSize      int

	Dragging        bool
	StartDragOffset int
}

// TablePayload backs Table nodes: column widths computed by the
// two-pass layout in §4.3.
type TablePayload struct {
	ColumnWidths  []int
	CellSpacing   int
	CellPadding   int
	ExplicitWidth int // 0 = auto
}

// TableCellPayload backs TableCell nodes.
type TableCellPayload struct {
	PreferredWidth int
	ColSpan        int
}

// SelectPayload backs Select nodes.
type SelectPayload struct {
	Name     string
	Selected int // index into Option children, -1 if none
	Open     bool
}

// OptionPayload backs Option nodes.
type OptionPayload struct {
	Value string
	Text  string
}

// StatusBarPayload backs the interface root's StatusBar node: two
// message slots per §4.7. Hover (set while the pointer rests over a
// link) is shown in preference to General (the load-progress/default
// message) whenever it is non-empty.
type StatusBarPayload struct {
	General string
	Hover   string
}

// Message returns the text the status bar should display: Hover if set,
// otherwise General.
func (p *StatusBarPayload) Message() string {
	if p.Hover != "" {
		return p.Hover
	}
	return p.General
}
