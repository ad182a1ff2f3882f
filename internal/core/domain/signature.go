package domain

import "strings"

// PortSignature marks a port whose exposure on a LAN device is considered
// risky regardless of the banner behind it.
type PortSignature struct {
	Port uint16 `json:"port"`
	Note string `json:"note,omitempty"`
}

// BannerSignature is a case-insensitive substring matched against the
// service version string reported by a scanner.
type BannerSignature struct {
	Pattern string `json:"pattern"`
	Note    string `json:"note,omitempty"`
}

// SignatureSet is the classifier configuration: which ports are flagged as
// commonly exploited and which version banners are known vulnerable.
type SignatureSet struct {
	Ports   []PortSignature   `json:"ports"`
	Banners []BannerSignature `json:"banners"`
}

// Empty reports whether the set carries no usable signatures.
func (s SignatureSet) Empty() bool {
	return len(s.Ports) == 0 && len(s.Banners) == 0
}

// Normalize trims banner patterns and drops unusable entries (port 0,
// empty pattern). Duplicate ports keep the first note.
func (s *SignatureSet) Normalize() {
	seen := make(map[uint16]bool, len(s.Ports))
	ports := s.Ports[:0]
	for _, p := range s.Ports {
		if p.Port == 0 || seen[p.Port] {
			continue
		}
		seen[p.Port] = true
		ports = append(ports, p)
	}
	s.Ports = ports

	banners := s.Banners[:0]
	for _, b := range s.Banners {
		b.Pattern = strings.TrimSpace(b.Pattern)
		if b.Pattern == "" {
			continue
		}
		banners = append(banners, b)
	}
	s.Banners = banners
}

// DefaultSignatures returns the compiled-in signature set used when the
// signature store is unreachable or has never been seeded. Telnet, SMB and
// friends earn their place on any home or office LAN; SSH on 22 is
// deliberately absent.
func DefaultSignatures() SignatureSet {
	return SignatureSet{
		Ports: []PortSignature{
			{Port: 21, Note: "FTP, frequently misconfigured"},
			{Port: 23, Note: "Telnet, cleartext login"},
			{Port: 135, Note: "MS RPC endpoint mapper"},
			{Port: 139, Note: "NetBIOS session service"},
			{Port: 445, Note: "SMB, common lateral movement vector"},
			{Port: 3389, Note: "RDP exposed to the LAN"},
			{Port: 5900, Note: "VNC, often unauthenticated"},
		},
		Banners: []BannerSignature{
			{Pattern: "vsftpd 2.3.4", Note: "backdoored release"},
			{Pattern: "OpenSSH 4.3", Note: "end of life, multiple CVEs"},
			{Pattern: "Samba 3.0.20", Note: "username map script RCE"},
			{Pattern: "ProFTPD 1.3.3", Note: "mod_copy abuse"},
			{Pattern: "UnrealIRCd 3.2.8.1", Note: "backdoored release"},
			{Pattern: "MiniUPnPd 1.0", Note: "stack overflow CVE-2013-0230"},
		},
	}
}
