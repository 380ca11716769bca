package cache

// Request is the sum type of every message a producer may send to the
// actor. Each variant's doc comment on the corresponding type in this file
// gives its response shape; see Handle.Request.
type Request interface{ isRequest() }

// ItemRequest asks for a single accessible, populating it via get-or-create
// if it is not already cached. Response: ItemResponse.
type ItemRequest struct{ Key Key }

// ParentRequest asks for the item that Key's Parent field refers to,
// populating both Key and that parent via get-or-create. Response:
// ItemResponse.
type ParentRequest struct{ Key Key }

// ChildrenRequest asks for every child of Key, each populated via
// get-or-create. Response: ChildrenResponse.
type ChildrenRequest struct{ Key Key }

// RelationRequest asks the driver for the relation targets of Kind for Key,
// then populates each target via get-or-create. Response: RelationsResponse.
type RelationRequest struct {
	Key  Key
	Kind RelationType
}

// EventRequest applies a mutation described by Event and returns the
// resulting target item. Response: ItemResponse.
type EventRequest struct{ Event Event }

// AddAllRequest bulk-inserts Items (first-write-wins per key). Response:
// AddAllResponse.
type AddAllRequest struct{ Items []Item }

func (ItemRequest) isRequest()     {}
func (ParentRequest) isRequest()   {}
func (ChildrenRequest) isRequest() {}
func (RelationRequest) isRequest() {}
func (EventRequest) isRequest()    {}
func (AddAllRequest) isRequest()   {}

// Response is the sum type of every reply the actor sends back.
type Response interface{ isResponse() }

// ItemResponse answers ItemRequest, ParentRequest, and EventRequest.
type ItemResponse struct{ Item Item }

// ChildrenResponse answers ChildrenRequest. Items[i].Object equals the i-th
// entry of the parent's Children slice at the time the request was served.
type ChildrenResponse struct{ Items []Item }

// RelationsResponse answers RelationRequest.
type RelationsResponse struct {
	Kind  RelationType
	Items []Item
}

// AddAllResponse acknowledges AddAllRequest.
type AddAllResponse struct{}

func (ItemResponse) isResponse()      {}
func (ChildrenResponse) isResponse()  {}
func (RelationsResponse) isResponse() {}
func (AddAllResponse) isResponse()    {}
