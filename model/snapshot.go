package model

// Snapshot is the whole persisted game-state document. Users are keyed by
// lowercase username, kingdoms and alliances by ID. The document is replaced
// wholesale on every mutation; it is never patched in place.
type Snapshot struct {
	Users     map[string]*User     `json:"users"`
	Kingdoms  map[string]*Kingdom  `json:"kingdoms"`
	Alliances map[string]*Alliance `json:"alliances"`
	Battles   []*BattleRecord      `json:"battles"`
	Chat      []*ChatMessage       `json:"chat"`
}

// NewSnapshot returns an empty snapshot with all maps initialized.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Users:     make(map[string]*User),
		Kingdoms:  make(map[string]*Kingdom),
		Alliances: make(map[string]*Alliance),
	}
}

// Normalize initializes nil maps after decoding an older or empty document.
func (s *Snapshot) Normalize() {
	if s.Users == nil {
		s.Users = make(map[string]*User)
	}
	if s.Kingdoms == nil {
		s.Kingdoms = make(map[string]*Kingdom)
	}
	if s.Alliances == nil {
		s.Alliances = make(map[string]*Alliance)
	}
}

// Clone returns a deep copy of the snapshot. Mutations are applied to a clone
// and the clone only becomes the live snapshot after a successful persist.
func (s *Snapshot) Clone() *Snapshot {
	cp := NewSnapshot()
	for k, u := range s.Users {
		cp.Users[k] = u.Clone()
	}
	for k, kd := range s.Kingdoms {
		cp.Kingdoms[k] = kd.Clone()
	}
	for k, a := range s.Alliances {
		cp.Alliances[k] = a.Clone()
	}
	if s.Battles != nil {
		cp.Battles = make([]*BattleRecord, len(s.Battles))
		for i, b := range s.Battles {
			cp.Battles[i] = b.Clone()
		}
	}
	if s.Chat != nil {
		cp.Chat = make([]*ChatMessage, len(s.Chat))
		for i, m := range s.Chat {
			mc := *m
			cp.Chat[i] = &mc
		}
	}
	return cp
}
