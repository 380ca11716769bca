package cache

import "context"

// RelationType names a directional link from one accessible to zero or more
// others, as reported by the bus's relation-set property.
type RelationType int

const (
	RelationLabelledBy RelationType = iota
	RelationLabelFor
	RelationControlledBy
	RelationControllerFor
	RelationEmbeddedBy
	RelationEmbeds
	RelationFlowsFrom
	RelationFlowsTo
	RelationMemberOf
	RelationNodeChildOf
	RelationNodeParentOf
	RelationParentWindowOf
	RelationPopupFor
	RelationSubwindowOf
	RelationDetails
	RelationDetailsFor
	RelationDescribedBy
	RelationDescriptionFor
	RelationErrorFor
	RelationErrorMessage
)

// RelationKind is a compile-time marker for one RelationType, letting
// GetRelationSet be instantiated per relation kind the way the original
// implementation used a distinct marker type per kind. This is the
// idiomatic Go translation (type parameter + interface constraint) of that
// pattern.
type RelationKind interface {
	RelationType() RelationType
}

// The twenty relation-kind markers named by the original implementation's
// public API. Each is a zero-size type whose only job is to carry its
// RelationType as a compile-time tag.
type (
	LabelledBy     struct{}
	LabelFor       struct{}
	ControlledBy   struct{}
	ControllerFor  struct{}
	EmbeddedBy     struct{}
	Embeds         struct{}
	FlowsFrom      struct{}
	FlowsTo        struct{}
	MemberOf       struct{}
	NodeChildOf    struct{}
	NodeParentOf   struct{}
	ParentWindowOf struct{}
	PopupFor       struct{}
	SubwindowOf    struct{}
	Details        struct{}
	DetailsFor     struct{}
	DescribedBy    struct{}
	DescriptionFor struct{}
	ErrorFor       struct{}
	ErrorMessage   struct{}
)

func (LabelledBy) RelationType() RelationType     { return RelationLabelledBy }
func (LabelFor) RelationType() RelationType       { return RelationLabelFor }
func (ControlledBy) RelationType() RelationType   { return RelationControlledBy }
func (ControllerFor) RelationType() RelationType  { return RelationControllerFor }
func (EmbeddedBy) RelationType() RelationType     { return RelationEmbeddedBy }
func (Embeds) RelationType() RelationType         { return RelationEmbeds }
func (FlowsFrom) RelationType() RelationType       { return RelationFlowsFrom }
func (FlowsTo) RelationType() RelationType         { return RelationFlowsTo }
func (MemberOf) RelationType() RelationType       { return RelationMemberOf }
func (NodeChildOf) RelationType() RelationType    { return RelationNodeChildOf }
func (NodeParentOf) RelationType() RelationType   { return RelationNodeParentOf }
func (ParentWindowOf) RelationType() RelationType { return RelationParentWindowOf }
func (PopupFor) RelationType() RelationType       { return RelationPopupFor }
func (SubwindowOf) RelationType() RelationType    { return RelationSubwindowOf }
func (Details) RelationType() RelationType        { return RelationDetails }
func (DetailsFor) RelationType() RelationType     { return RelationDetailsFor }
func (DescribedBy) RelationType() RelationType    { return RelationDescribedBy }
func (DescriptionFor) RelationType() RelationType { return RelationDescriptionFor }
func (ErrorFor) RelationType() RelationType       { return RelationErrorFor }
func (ErrorMessage) RelationType() RelationType   { return RelationErrorMessage }

// GetRelationSet issues a Relation request for key through h and returns the
// resulting items, for the compile-time relation kind K. It is a pure
// reader: it does not mutate the store directly, though the embedded
// get-or-create on each relation target may lazily populate the cache as a
// side effect.
func GetRelationSet[K RelationKind](ctx context.Context, h Handle, key Key) ([]Item, error) {
	var kind K
	resp, err := h.Request(ctx, RelationRequest{Key: key, Kind: kind.RelationType()})
	if err != nil {
		return nil, err
	}
	rels, ok := resp.(RelationsResponse)
	if !ok {
		return nil, ErrInvalidResponse
	}
	return rels.Items, nil
}
