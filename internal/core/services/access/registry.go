package access

import (
	"sort"
	"sync"
)

// Registry implements ports.AccessRegistry. Both sets live under a single
// mutex, which makes the membership swap atomic: no reader can ever observe
// an IP in the whitelist and the blacklist at the same time.
type Registry struct {
	mu      sync.RWMutex
	allowed map[string]struct{}
	denied  map[string]struct{}
}

// NewRegistry creates an empty access registry.
func NewRegistry() *Registry {
	return &Registry{
		allowed: make(map[string]struct{}),
		denied:  make(map[string]struct{}),
	}
}

// Allow whitelists the IP, removing any blacklist membership in the same
// critical section.
func (r *Registry) Allow(ip string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.denied, ip)
	r.allowed[ip] = struct{}{}
}

// Deny blacklists the IP, removing any whitelist membership in the same
// critical section.
func (r *Registry) Deny(ip string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.allowed, ip)
	r.denied[ip] = struct{}{}
}

// Remove drops the IP from both lists.
func (r *Registry) Remove(ip string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.allowed, ip)
	delete(r.denied, ip)
}

// IsAllowed reports whitelist membership.
func (r *Registry) IsAllowed(ip string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.allowed[ip]
	return ok
}

// IsDenied reports blacklist membership.
func (r *Registry) IsDenied(ip string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.denied[ip]
	return ok
}

// Lists returns sorted snapshots of both sets, taken under one lock so the
// pair is mutually consistent.
func (r *Registry) Lists() (allowed, denied []string) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	allowed = make([]string, 0, len(r.allowed))
	for ip := range r.allowed {
		allowed = append(allowed, ip)
	}
	denied = make([]string, 0, len(r.denied))
	for ip := range r.denied {
		denied = append(denied, ip)
	}
	sort.Strings(allowed)
	sort.Strings(denied)
	return allowed, denied
}
