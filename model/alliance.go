package model

import "time"

// Alliance is a named group of kingdoms. The leader is always a member.
// Alliances are created on demand and never deleted.
type Alliance struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	LeaderID  string    `json:"leader_id"`
	Members   []string  `json:"members"`
	CreatedAt time.Time `json:"created_at"`
}

// Clone returns a deep copy of the alliance.
func (a *Alliance) Clone() *Alliance {
	cp := *a
	cp.Members = make([]string, len(a.Members))
	copy(cp.Members, a.Members)
	return &cp
}

// Summary is the public listing view of an alliance.
type AllianceSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	LeaderID    string `json:"leader_id"`
	MemberCount int    `json:"member_count"`
}

// Summary returns the public listing view.
func (a *Alliance) Summary() AllianceSummary {
	return AllianceSummary{
		ID:          a.ID,
		Name:        a.Name,
		LeaderID:    a.LeaderID,
		MemberCount: len(a.Members),
	}
}
