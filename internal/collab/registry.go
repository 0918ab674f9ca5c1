package collab

import "sync"

// Registry is the authoritative mapping of document ID to the set of
// connections currently joined to it. It also keeps a reverse index so a
// connection can be torn down without the caller knowing its document,
// which is the situation on a transport-level close.
//
// A group exists only while it has at least one member; the last leave
// deletes the group entry entirely.
type Registry struct {
	mu     sync.RWMutex
	groups map[string]map[*Conn]struct{}
	docs   map[*Conn]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		groups: make(map[string]map[*Conn]struct{}),
		docs:   make(map[*Conn]string),
	}
}

// Join adds a connection to a document's group, creating the group if it
// does not exist. Re-joining with the same connection is a no-op.
func (r *Registry) Join(documentID string, c *Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	group, ok := r.groups[documentID]
	if !ok {
		group = make(map[*Conn]struct{})
		r.groups[documentID] = group
	}
	group[c] = struct{}{}
	r.docs[c] = documentID
}

// Leave removes a connection from a document's group, deleting the group
// when it becomes empty. Unknown documents and non-member connections are
// no-ops.
func (r *Registry) Leave(documentID string, c *Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leaveLocked(documentID, c)
}

// Disconnect removes a connection using only the registry's own
// bookkeeping. It returns the document the connection was joined to, if
// any, so the caller can broadcast a user-left to the remaining group.
func (r *Registry) Disconnect(c *Conn) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	documentID, ok := r.docs[c]
	if !ok {
		return "", false
	}
	r.leaveLocked(documentID, c)
	return documentID, true
}

func (r *Registry) leaveLocked(documentID string, c *Conn) {
	if group, ok := r.groups[documentID]; ok {
		delete(group, c)
		if len(group) == 0 {
			delete(r.groups, documentID)
		}
	}
	delete(r.docs, c)
}

// Members returns a snapshot of the connections in a document's group.
func (r *Registry) Members(documentID string) []*Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	group := r.groups[documentID]
	if len(group) == 0 {
		return nil
	}

	members := make([]*Conn, 0, len(group))
	for c := range group {
		members = append(members, c)
	}
	return members
}

// GroupSize returns the number of connections joined to a document.
func (r *Registry) GroupSize(documentID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.groups[documentID])
}

// GroupCount returns the number of live groups.
func (r *Registry) GroupCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.groups)
}
