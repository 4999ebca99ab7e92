package model

import "time"

// Battle winner tags.
const (
	WinnerAttacker = "attacker"
	WinnerDefender = "defender"
)

// BattleRecord is an immutable log entry for one resolved battle.
type BattleRecord struct {
	ID            string         `json:"id"`
	AttackerID    string         `json:"attacker_id"`
	DefenderID    string         `json:"defender_id"`
	Attacker      string         `json:"attacker"`
	Defender      string         `json:"defender"`
	AttackerPower float64        `json:"attacker_power"`
	DefenderPower float64        `json:"defender_power"`
	Winner        string         `json:"winner"`
	Loot          map[string]int `json:"loot,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// Clone returns a deep copy of the battle record.
func (b *BattleRecord) Clone() *BattleRecord {
	cp := *b
	if b.Loot != nil {
		cp.Loot = make(map[string]int, len(b.Loot))
		for r, v := range b.Loot {
			cp.Loot[r] = v
		}
	}
	return &cp
}
