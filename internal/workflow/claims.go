package workflow

import "sync"

// approvalClaims is the set of videos with a platform upload in flight. One
// set is shared by every workspace of a Registry, so two creator sessions
// cannot upload the same record at once.
type approvalClaims struct {
	mu   sync.Mutex
	held map[string]string // video id -> workspace id
}

func newApprovalClaims() *approvalClaims {
	return &approvalClaims{held: make(map[string]string)}
}

func (c *approvalClaims) claim(videoID, workspaceID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.held[videoID]; ok {
		return false
	}
	c.held[videoID] = workspaceID
	return true
}

func (c *approvalClaims) release(videoID, workspaceID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.held[videoID] == workspaceID {
		delete(c.held, videoID)
	}
}

func (c *approvalClaims) isHeld(videoID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.held[videoID]
	return ok
}
