package bus

import cache "github.com/odilia-app/cache"

// roleNames maps the wire role name AT-SPI's GetRoleName call returns to the
// Role constant it represents. An unrecognized name decodes to RoleUnknown
// rather than failing the whole lookup.
var roleNames = map[string]cache.Role{
	"alert":               cache.RoleAlert,
	"animation":           cache.RoleAnimation,
	"application":         cache.RoleApplication,
	"article":             cache.RoleArticle,
	"audio":               cache.RoleAudio,
	"push button":         cache.RolePushButton,
	"button":              cache.RoleButton,
	"canvas":              cache.RoleCanvas,
	"check box":           cache.RoleCheckBox,
	"column header":       cache.RoleColumnHeader,
	"combo box":           cache.RoleComboBox,
	"desktop frame":       cache.RoleDesktopFrame,
	"dialog":              cache.RoleDialog,
	"document frame":      cache.RoleDocumentFrame,
	"document web":        cache.RoleDocumentWeb,
	"entry":               cache.RoleEntry,
	"filler":              cache.RoleFiller,
	"footer":              cache.RoleFooter,
	"footnote":            cache.RoleFootnote,
	"form":                cache.RoleForm,
	"frame":                cache.RoleFrame,
	"panel":               cache.RolePanel,
	"grouping":            cache.RoleGrouping,
	"header":              cache.RoleHeader,
	"heading":             cache.RoleHeading,
	"icon":                cache.RoleIcon,
	"image":               cache.RoleImage,
	"label":               cache.RoleLabel,
	"landmark":            cache.RoleLandmark,
	"layered pane":        cache.RoleLayeredPane,
	"link":                cache.RoleLink,
	"list":                cache.RoleList,
	"list item":           cache.RoleListItem,
	"menu":                cache.RoleMenu,
	"menu bar":            cache.RoleMenuBar,
	"menu item":           cache.RoleMenuItem,
	"paragraph":           cache.RoleParagraph,
	"password text":       cache.RolePasswordText,
	"progress bar":        cache.RoleProgressBar,
	"radio button":        cache.RoleRadioButton,
	"scroll bar":          cache.RoleScrollBar,
	"scroll pane":         cache.RoleScrollPane,
	"section":             cache.RoleSection,
	"separator":           cache.RoleSeparator,
	"slider":              cache.RoleSlider,
	"spin button":         cache.RoleSpinButton,
	"status bar":          cache.RoleStatusBar,
	"subscript":           cache.RoleSubscript,
	"superscript":         cache.RoleSuperscript,
	"tab list":            cache.RoleTabList,
	"tab panel":           cache.RoleTabPanel,
	"table":               cache.RoleTable,
	"table cell":          cache.RoleTableCell,
	"table column header": cache.RoleTableColumnHeader,
	"table row header":    cache.RoleTableRowHeader,
	"terminal":            cache.RoleTerminal,
	"text":                cache.RoleText,
	"toggle button":       cache.RoleToggleButton,
	"tool bar":            cache.RoleToolBar,
	"tool tip":            cache.RoleToolTip,
	"tree":                cache.RoleTree,
	"tree table":          cache.RoleTreeTable,
	"video":               cache.RoleVideo,
	"viewport":            cache.RoleViewport,
	"window":              cache.RoleWindow,
}

func roleFromWireName(name string) cache.Role {
	if role, ok := roleNames[name]; ok {
		return role
	}
	return cache.RoleUnknown
}

// stateBits lists, indexed by bit position, the State flag each bit of
// AT-SPI's GetState result represents (a two-word, 64-bit-as-two-uint32
// bitfield flattened here to the first word for brevity). Only the first 32 bits are
// modeled; the remaining bits are reserved in the upstream protocol.
var stateBits = []cache.State{
	cache.StateActive,
	cache.StateArmed,
	cache.StateBusy,
	cache.StateChecked,
	cache.StateCollapsed,
	cache.StateDefunct,
	cache.StateEditable,
	cache.StateEnabled,
	cache.StateExpandable,
	cache.StateExpanded,
	cache.StateFocusable,
	cache.StateFocused,
	cache.StateHorizontal,
	cache.StateIconified,
	cache.StateModal,
	cache.StateMultiLine,
	cache.StateMultiselectable,
	cache.StateOpaque,
	cache.StatePressed,
	cache.StateResizable,
	cache.StateSelectable,
	cache.StateSelected,
	cache.StateSensitive,
	cache.StateShowing,
	cache.StateSingleLine,
	cache.StateStale,
	cache.StateTransient,
	cache.StateVertical,
	cache.StateVisible,
	cache.StateVisited,
}

func stateSetFromWire(words []uint32) cache.StateSet {
	if len(words) == 0 {
		return 0
	}
	var set cache.StateSet
	for bit, flag := range stateBits {
		if words[0]&(1<<uint(bit)) != 0 {
			set = set.With(flag)
		}
	}
	return set
}

// interfaceNames maps the AT-SPI interface name GetInterfaces returns to
// the Interface flag it represents.
var interfaceNames = map[string]cache.Interface{
	"org.a11y.atspi.Accessible":    cache.InterfaceAccessible,
	"org.a11y.atspi.Action":        cache.InterfaceAction,
	"org.a11y.atspi.Application":   cache.InterfaceApplication,
	"org.a11y.atspi.Collection":    cache.InterfaceCollection,
	"org.a11y.atspi.Component":     cache.InterfaceComponent,
	"org.a11y.atspi.Document":      cache.InterfaceDocument,
	"org.a11y.atspi.EditableText":  cache.InterfaceEditableText,
	"org.a11y.atspi.Hypertext":     cache.InterfaceHypertext,
	"org.a11y.atspi.Hyperlink":     cache.InterfaceHyperlink,
	"org.a11y.atspi.Image":         cache.InterfaceImage,
	"org.a11y.atspi.Selection":     cache.InterfaceSelection,
	"org.a11y.atspi.Table":         cache.InterfaceTable,
	"org.a11y.atspi.TableCell":     cache.InterfaceTableCell,
	"org.a11y.atspi.Text":          cache.InterfaceText,
	"org.a11y.atspi.Value":         cache.InterfaceValue,
	"org.a11y.atspi.Socket":        cache.InterfaceSocket,
}

func interfaceSetFromNames(names []string) cache.InterfaceSet {
	var set cache.InterfaceSet
	for _, name := range names {
		if flag, ok := interfaceNames[name]; ok {
			set = set.With(flag)
		}
	}
	return set
}
