package tracking

import (
	"sync"

	"tracking/internal/core/domain/model/kernel"
)

// AssignmentCache remembers which partner carries each active order so that
// misrouted reports are refused without a database round trip. It is only
// ever a hint: a miss falls through to storage, and storage has the final say.
type AssignmentCache struct {
	mu       sync.RWMutex
	partners map[kernel.UUID]kernel.UUID // order -> partner
}

// NewAssignmentCache creates an empty cache.
func NewAssignmentCache() *AssignmentCache {
	return &AssignmentCache{partners: make(map[kernel.UUID]kernel.UUID)}
}

// Put records partnerID as the partner of orderID.
func (c *AssignmentCache) Put(orderID, partnerID kernel.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.partners[orderID] = partnerID
}

// Remove forgets orderID. Removing an unknown order is a no-op.
func (c *AssignmentCache) Remove(orderID kernel.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.partners, orderID)
}

// Lookup returns the cached partner of orderID.
func (c *AssignmentCache) Lookup(orderID kernel.UUID) (kernel.UUID, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	partnerID, ok := c.partners[orderID]
	return partnerID, ok
}

// Warm loads assignments keyed by partner, as returned by
// OrderRepository.ActiveAssignments.
func (c *AssignmentCache) Warm(byPartner map[kernel.UUID]kernel.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for partnerID, orderID := range byPartner {
		c.partners[orderID] = partnerID
	}
}

// Replace swaps the whole content for byPartner, dropping orders that are no
// longer active. Instances that did not commit a transition learn about it here.
func (c *AssignmentCache) Replace(byPartner map[kernel.UUID]kernel.UUID) {
	partners := make(map[kernel.UUID]kernel.UUID, len(byPartner))
	for partnerID, orderID := range byPartner {
		partners[orderID] = partnerID
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.partners = partners
}

// Len returns the number of cached orders.
func (c *AssignmentCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.partners)
}
