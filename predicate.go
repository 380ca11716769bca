package cache

// Predicate is a named boolean test over a value of type T, letting a caller
// constrain which items it is willing to accept. Subtree and GetRelationSet
// take no Predicate; a caller evaluates one on the items they return.
type Predicate[T any] struct {
	Name string
	Test func(T) bool
}

// Eval reports whether v satisfies p.
func (p Predicate[T]) Eval(v T) bool { return p.Test(v) }

// And combines p and q into a predicate requiring both.
func (p Predicate[T]) And(q Predicate[T]) Predicate[T] {
	return Predicate[T]{
		Name: p.Name + "&&" + q.Name,
		Test: func(v T) bool { return p.Test(v) && q.Test(v) },
	}
}

// Not inverts p.
func (p Predicate[T]) Not() Predicate[T] {
	return Predicate[T]{
		Name: "!" + p.Name,
		Test: func(v T) bool { return !p.Test(v) },
	}
}

// containerRoles is the set of roles that act as structural containers
// rather than leaf content, used by IsContainer below. The list mirrors the
// upstream accessibility toolkit's notion of a "layout" role: a node whose
// primary job is to hold other nodes, not to present its own content.
var containerRoles = map[Role]bool{
	RoleApplication:       true,
	RoleDesktopFrame:      true,
	RoleDialog:            true,
	RoleDocumentFrame:     true,
	RoleDocumentWeb:       true,
	RoleFiller:            true,
	RoleForm:              true,
	RoleFrame:             true,
	RoleGrouping:          true,
	RoleHeader:            true,
	RoleFooter:            true,
	RoleLandmark:          true,
	RoleLayeredPane:       true,
	RoleList:              true,
	RoleMenu:              true,
	RoleMenuBar:           true,
	RolePanel:             true,
	RoleScrollPane:        true,
	RoleSection:           true,
	RoleStatusBar:         true,
	RoleTabList:           true,
	RoleTabPanel:          true,
	RoleTable:             true,
	RoleTableRowHeader:    true,
	RoleTableColumnHeader: true,
	RoleToolBar:           true,
	RoleTree:              true,
	RoleTreeTable:         true,
	RoleViewport:          true,
	RoleWindow:            true,
	RoleArticle:           true,
}

// IsContainer reports whether role is a structural container role.
func IsContainer(role Role) bool {
	return containerRoles[role]
}

// ContainerRole is the Predicate[Item] built from IsContainer, for telling
// container nodes apart from leaf content among extracted items.
var ContainerRole = Predicate[Item]{
	Name: "container-role",
	Test: func(i Item) bool { return IsContainer(i.Role) },
}
