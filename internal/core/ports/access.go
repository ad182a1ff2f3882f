package ports

// AccessRegistry gates which devices may be scanned and alerted on.
// Membership is mutually exclusive: adding an IP to one list removes it
// from the other in the same atomic step.
type AccessRegistry interface {
	// Allow whitelists the IP.
	Allow(ip string)

	// Deny blacklists the IP.
	Deny(ip string)

	// Remove drops the IP from both lists.
	Remove(ip string)

	// IsAllowed reports whitelist membership.
	IsAllowed(ip string) bool

	// IsDenied reports blacklist membership.
	IsDenied(ip string) bool

	// Lists returns sorted snapshots of both sets.
	Lists() (allowed, denied []string)
}
