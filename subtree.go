package cache

import "context"

// Subtree walks the accessible tree rooted at root, breadth-first, issuing a
// ChildrenRequest at each node through h. It never visits the same key
// twice — the accessibility bus occasionally reports a cyclic parent/child
// relationship during a partial update, and silently re-descending into an
// already-visited node would spin forever.
//
// The returned slice is in visitation order: root first, then each level in
// turn.
func Subtree(ctx context.Context, h Handle, root Key) ([]Item, error) {
	rootResp, err := h.Request(ctx, ItemRequest{Key: root})
	if err != nil {
		return nil, err
	}
	rootItem, ok := rootResp.(ItemResponse)
	if !ok {
		return nil, ErrInvalidResponse
	}

	visited := map[Key]bool{root: true}
	order := []Item{rootItem.Item}
	queue := []Key{root}

	for len(queue) > 0 {
		key := queue[0]
		queue = queue[1:]

		resp, err := h.Request(ctx, ChildrenRequest{Key: key})
		if err != nil {
			return nil, err
		}
		children, ok := resp.(ChildrenResponse)
		if !ok {
			return nil, ErrInvalidResponse
		}

		for _, child := range children.Items {
			if visited[child.Object] {
				continue
			}
			visited[child.Object] = true
			order = append(order, child)
			queue = append(queue, child.Object)
		}
	}

	return order, nil
}
