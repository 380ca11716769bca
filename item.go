package cache

import "encoding/json"

// Interface is a single AT-SPI interface flag (Accessible, Action, Text, ...).
type Interface uint32

const (
	InterfaceAccessible Interface = 1 << iota
	InterfaceAction
	InterfaceApplication
	InterfaceCollection
	InterfaceComponent
	InterfaceDocument
	InterfaceEditableText
	InterfaceHypertext
	InterfaceHyperlink
	InterfaceImage
	InterfaceSelection
	InterfaceTable
	InterfaceTableCell
	InterfaceText
	InterfaceValue
	InterfaceSocket
)

// InterfaceSet is a bitset of Interface flags, mirroring the wire bitset the
// accessibility bus sends for every accessible.
type InterfaceSet uint32

// Has reports whether every flag in want is present in s.
func (s InterfaceSet) Has(want Interface) bool { return s&InterfaceSet(want) == InterfaceSet(want) }

// With returns a copy of s with flag set.
func (s InterfaceSet) With(flag Interface) InterfaceSet { return s | InterfaceSet(flag) }

// Without returns a copy of s with flag cleared.
func (s InterfaceSet) Without(flag Interface) InterfaceSet { return s &^ InterfaceSet(flag) }

// State is a single AT-SPI state flag (Focusable, Focused, Enabled, ...).
type State uint64

const (
	StateActive State = 1 << iota
	StateArmed
	StateBusy
	StateChecked
	StateCollapsed
	StateDefunct
	StateEditable
	StateEnabled
	StateExpandable
	StateExpanded
	StateFocusable
	StateFocused
	StateHorizontal
	StateIconified
	StateModal
	StateMultiLine
	StateMultiselectable
	StateOpaque
	StatePressed
	StateResizable
	StateSelectable
	StateSelected
	StateSensitive
	StateShowing
	StateSingleLine
	StateStale
	StateTransient
	StateVertical
	StateVisible
	StateVisited
)

// StateSet is a bitset of State flags.
type StateSet uint64

// Has reports whether every flag in want is present in s.
func (s StateSet) Has(want State) bool { return s&StateSet(want) == StateSet(want) }

// With returns a copy of s with flag set.
func (s StateSet) With(flag State) StateSet { return s | StateSet(flag) }

// Without returns a copy of s with flag cleared.
func (s StateSet) Without(flag State) StateSet { return s &^ StateSet(flag) }

// Role is the enumerated accessible role, mirroring a (trimmed) subset of the
// AT-SPI role taxonomy. Unknown wire roles decode to RoleUnknown rather than
// failing.
type Role int

const (
	RoleUnknown Role = iota
	RoleAlert
	RoleAnimation
	RoleApplication
	RoleArticle
	RoleAudio
	RoleButton
	RoleCanvas
	RoleCheckBox
	RoleColumnHeader
	RoleComboBox
	RoleDesktopFrame
	RoleDialog
	RoleDocumentFrame
	RoleDocumentWeb
	RoleEntry
	RoleFiller
	RoleFooter
	RoleFootnote
	RoleForm
	RoleFrame
	RoleGrouping
	RoleHeader
	RoleHeading
	RoleIcon
	RoleImage
	RoleLabel
	RoleLandmark
	RoleLayeredPane
	RoleLink
	RoleList
	RoleListItem
	RoleMenu
	RoleMenuBar
	RoleMenuItem
	RolePanel
	RoleParagraph
	RolePasswordText
	RoleProgressBar
	RolePushButton
	RoleRadioButton
	RoleScrollBar
	RoleScrollPane
	RoleSection
	RoleSeparator
	RoleSlider
	RoleSpinButton
	RoleStatusBar
	RoleSubscript
	RoleSuperscript
	RoleTabList
	RoleTabPanel
	RoleTable
	RoleTableCell
	RoleTableColumnHeader
	RoleTableRowHeader
	RoleTerminal
	RoleText
	RoleToggleButton
	RoleToolBar
	RoleToolTip
	RoleTree
	RoleTreeTable
	RoleVideo
	RoleViewport
	RoleWindow
)

// Item is the cached payload for one accessible. Every inter-node reference
// (App, Parent, Children) is a Key looked up through the Store rather than a
// live pointer, so the tree never holds a cyclic ownership graph — it matches
// how the bus references objects at the wire level.
type Item struct {
	// Object is this accessible's own key.
	Object Key
	// App is the key of the application root owning Object.
	App Key
	// Parent is the key of the parent accessible; the zero Key is the root
	// sentinel.
	Parent Key
	// Index is this accessible's zero-based position within Parent's child
	// list, if known.
	Index *int
	// ChildrenNum is the declared child count reported by the bus, which may
	// disagree transiently with len(Children) for a lazily populated item.
	ChildrenNum *int
	// Children is the ordered sequence of child keys.
	Children []Key
	// Interfaces is the set of interfaces this accessible implements.
	Interfaces InterfaceSet
	// Role is this accessible's role.
	Role Role
	// States is the set of state flags currently applicable.
	States StateSet
	// Name, Description, HelpText and Text are never the empty string: an
	// empty wire value is normalized to nil at every ingestion point.
	Name        *string
	Description *string
	HelpText    *string
	Text        *string
}

// Clone returns a deep-enough copy of i: the Children slice and the optional
// string/int fields are copied so that a caller holding the return value
// cannot observe or cause mutation of the item backing the store.
func (i Item) Clone() Item {
	out := i
	if i.Index != nil {
		v := *i.Index
		out.Index = &v
	}
	if i.ChildrenNum != nil {
		v := *i.ChildrenNum
		out.ChildrenNum = &v
	}
	if i.Children != nil {
		out.Children = append([]Key(nil), i.Children...)
	}
	out.Name = clonePtr(i.Name)
	out.Description = clonePtr(i.Description)
	out.HelpText = clonePtr(i.HelpText)
	out.Text = clonePtr(i.Text)
	return out
}

func clonePtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// normalizeText turns an empty wire string into the absent value. Every
// driver adapter and event handler that ingests a raw string from the bus
// must route it through this function so that an Item's string fields are
// never the empty string, only ever absent or non-empty (invariant 5, §3).
func normalizeText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// textOf returns the empty string for an absent field, the inverse of
// normalizeText, used when a mutation needs to operate on the underlying
// string (e.g. splicing a text-changed event).
func textOf(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// itemWire is Item's documented textual wire shape (spec.md §6): field
// names and types match §3 exactly. The four optional string fields are
// carried as plain strings rather than pointers, because the wire format
// itself — like every upstream AT-SPI message — has no concept of "absent",
// only "empty"; the empty-string-normalization rule is applied at the
// package boundary (MarshalJSON/UnmarshalJSON below), not baked into this
// intermediate shape.
type itemWire struct {
	Object      Key          `json:"object"`
	App         Key          `json:"app"`
	Parent      Key          `json:"parent"`
	Index       *int         `json:"index,omitempty"`
	ChildrenNum *int         `json:"children_num,omitempty"`
	Children    []Key        `json:"children"`
	Interfaces  InterfaceSet `json:"interfaces"`
	Role        Role         `json:"role"`
	States      StateSet     `json:"states"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	HelpText    string       `json:"help_text"`
	Text        string       `json:"text"`
}

// MarshalJSON implements the documented textual serialization used for test
// corpora (spec.md §6). An absent optional string field is emitted as "".
func (i Item) MarshalJSON() ([]byte, error) {
	return json.Marshal(itemWire{
		Object:      i.Object,
		App:         i.App,
		Parent:      i.Parent,
		Index:       i.Index,
		ChildrenNum: i.ChildrenNum,
		Children:    i.Children,
		Interfaces:  i.Interfaces,
		Role:        i.Role,
		States:      i.States,
		Name:        textOf(i.Name),
		Description: textOf(i.Description),
		HelpText:    textOf(i.HelpText),
		Text:        textOf(i.Text),
	})
}

// UnmarshalJSON implements the inverse of MarshalJSON. It routes every
// optional string field through normalizeText, so a wire value of "" always
// decodes to the absent value (invariant 5, §3) — the round-trip property
// spec.md §8 asks for holds even when the wire data came from somewhere
// other than this package's own MarshalJSON.
func (i *Item) UnmarshalJSON(data []byte) error {
	var w itemWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	i.Object = w.Object
	i.App = w.App
	i.Parent = w.Parent
	i.Index = w.Index
	i.ChildrenNum = w.ChildrenNum
	i.Children = w.Children
	i.Interfaces = w.Interfaces
	i.Role = w.Role
	i.States = w.States
	i.Name = normalizeText(w.Name)
	i.Description = normalizeText(w.Description)
	i.HelpText = normalizeText(w.HelpText)
	i.Text = normalizeText(w.Text)
	return nil
}
