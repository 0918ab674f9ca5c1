package client

import (
	"sort"
	"time"
)

// Participant is a remembered collaborator on the open document. It is
// derived purely from observed frames; the server keeps no last-active
// record beyond group membership.
type Participant struct {
	UserID     string    `json:"userId"`
	LastActive time.Time `json:"lastActive"`
}

// Participants returns the currently tracked collaborators, ordered by
// user ID for stable presentation.
func (c *Client) Participants() []Participant {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Participant, 0, len(c.participants))
	for _, p := range c.participants {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}

// touchParticipant creates or refreshes a collaborator's presence entry.
// Frames about the local user never reach here.
func (c *Client) touchParticipant(userID string, ts time.Time) {
	if userID == "" || userID == c.userID {
		return
	}
	if ts.IsZero() {
		ts = c.now()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if p, ok := c.participants[userID]; ok {
		if ts.After(p.LastActive) {
			p.LastActive = ts
		}
		return
	}
	c.participants[userID] = &Participant{UserID: userID, LastActive: ts}
}

// removeParticipant drops a collaborator immediately, staleness aside.
func (c *Client) removeParticipant(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.participants, userID)
}

// sweep evicts collaborators whose last activity is older than the
// staleness threshold. This is the recovery path for peers that vanished
// without a user-left frame.
func (c *Client) sweep() {
	cutoff := c.now().Add(-c.staleAfter)

	c.mu.Lock()
	defer c.mu.Unlock()

	for userID, p := range c.participants {
		if p.LastActive.Before(cutoff) {
			delete(c.participants, userID)
		}
	}
}
