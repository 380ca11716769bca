package cache

import "testing"

func TestPredicateEvalAndCombinators(t *testing.T) {
	isButton := Predicate[Item]{Name: "is-button", Test: func(i Item) bool { return i.Role == RoleButton }}
	isFocusable := Predicate[Item]{Name: "is-focusable", Test: func(i Item) bool { return i.States.Has(StateFocusable) }}

	button := Item{Role: RoleButton, States: StateSet(0).With(StateFocusable)}
	link := Item{Role: RoleLink}

	if !isButton.Eval(button) {
		t.Fatal("button should satisfy isButton")
	}
	if isButton.Eval(link) {
		t.Fatal("link should not satisfy isButton")
	}

	both := isButton.And(isFocusable)
	if !both.Eval(button) {
		t.Fatal("button is both a button and focusable")
	}
	if both.Eval(link) {
		t.Fatal("link satisfies neither half of the conjunction")
	}

	notButton := isButton.Not()
	if notButton.Eval(button) {
		t.Fatal("Not() should invert the result")
	}
	if !notButton.Eval(link) {
		t.Fatal("Not() should invert the result")
	}
}

func TestContainerRolePredicate(t *testing.T) {
	if !ContainerRole.Eval(Item{Role: RolePanel}) {
		t.Fatal("panel should be classified as a container")
	}
	if !ContainerRole.Eval(Item{Role: RoleList}) {
		t.Fatal("list should be classified as a container")
	}
	if ContainerRole.Eval(Item{Role: RoleButton}) {
		t.Fatal("button should not be classified as a container")
	}
	if ContainerRole.Eval(Item{Role: RoleLabel}) {
		t.Fatal("label should not be classified as a container")
	}
}

func TestIsContainerUnknownRole(t *testing.T) {
	if IsContainer(RoleUnknown) {
		t.Fatal("RoleUnknown should not be classified as a container")
	}
}
