package probe

// Combo is one fixed username:password pair from a combo wordlist. Combo
// pairs are never crossed with each other's credentials, only with ports.
type Combo struct {
	Username string
	Password string
}

// BruteSpec describes the combination space for one brute-force run
// against a single host. When Combos is non-empty it overrides the
// independent username and password lists.
type BruteSpec struct {
	Host      string
	Protocol  Protocol
	Usernames []string
	Passwords []string
	Combos    []Combo
	Ports     []int
	CheckPath string
}

// Count returns the total number of attempts, computable before any
// probe runs so progress can be reported against it.
func (s *BruteSpec) Count() int {
	if len(s.Combos) > 0 {
		return len(s.Ports) * len(s.Combos)
	}
	return len(s.Ports) * len(s.Usernames) * len(s.Passwords)
}

// Stream expands the spec lazily in deterministic order: ports outer,
// then usernames, then passwords. The full cross-product is never held in
// memory; the channel closes after the last descriptor.
func (s *BruteSpec) Stream() <-chan Descriptor {
	out := make(chan Descriptor)
	go func() {
		defer close(out)
		for _, port := range s.Ports {
			endpoint := Endpoint{Host: s.Host, Port: port, Protocol: s.Protocol}
			if len(s.Combos) > 0 {
				for _, combo := range s.Combos {
					out <- Descriptor{
						Endpoint:   endpoint,
						Credential: Credential{Username: combo.Username, Password: combo.Password},
						CheckPath:  s.CheckPath,
					}
				}
				continue
			}
			for _, user := range s.Usernames {
				for _, pass := range s.Passwords {
					out <- Descriptor{
						Endpoint:   endpoint,
						Credential: Credential{Username: user, Password: pass},
						CheckPath:  s.CheckPath,
					}
				}
			}
		}
	}()
	return out
}

// StreamList feeds an explicit descriptor list through the same channel
// shape the pool consumes, for bulk and single-target mode.
func StreamList(list []Descriptor) <-chan Descriptor {
	out := make(chan Descriptor, len(list))
	for _, d := range list {
		out <- d
	}
	close(out)
	return out
}
