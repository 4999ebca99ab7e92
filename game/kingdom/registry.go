// Package kingdom holds the authoritative game state: the registry of all
// kingdoms, users, alliances, and the battle/chat logs, persisted
// write-through as a single document.
package kingdom

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/crownworks/kingdoms-server/config"
	"github.com/crownworks/kingdoms-server/errs"
	"github.com/crownworks/kingdoms-server/game/battle"
	"github.com/crownworks/kingdoms-server/model"
	"github.com/crownworks/kingdoms-server/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Registry owns the game-state snapshot. A single mutex serializes every
// mutation; battles touch two kingdoms at once, and one lock needs no
// acquisition-order protocol.
//
// Mutations run on a deep copy of the snapshot. The copy is persisted first
// and only then published as the live snapshot, so a failed persist leaves
// both memory and disk on the previous consistent state.
type Registry struct {
	mu     sync.Mutex
	store  store.StateStore
	snap   *model.Snapshot
	cfg    config.GameConfig
	logger *zap.Logger
}

// NewRegistry loads the last snapshot from the store and wraps it.
func NewRegistry(st store.StateStore, cfg config.GameConfig, logger *zap.Logger) (*Registry, error) {
	snap, err := st.Load()
	if err != nil {
		return nil, errs.Wrap(errs.CodeStorage, "load state", err)
	}
	if cfg.MapSize <= 0 {
		cfg.MapSize = 1000
	}
	if cfg.ChatHistory <= 0 {
		cfg.ChatHistory = 100
	}
	if cfg.BattleHistory <= 0 {
		cfg.BattleHistory = 500
	}
	return &Registry{store: st, snap: snap, cfg: cfg, logger: logger}, nil
}

// commit applies mutate to a clone of the snapshot, persists the clone
// (retrying once on storage failure), then swaps it in as the live state.
// The caller must hold r.mu.
func (r *Registry) commit(mutate func(s *model.Snapshot) error) error {
	next := r.snap.Clone()
	if err := mutate(next); err != nil {
		return err
	}
	if err := r.store.Save(next); err != nil {
		r.logger.Warn("state save failed, retrying", zap.Error(err))
		if err = r.store.Save(next); err != nil {
			return errs.Wrap(errs.CodeStorage, "state not persisted", err)
		}
	}
	r.snap = next
	return nil
}

// ---- users & registration ----

// CreateUser registers a user and its kingdom atomically. The kingdom gets
// the fixed starting resources, army, the three starting buildings, and a
// random world position.
func (r *Registry) CreateUser(username, passwordHash string) (*model.User, *model.Kingdom, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(username)
	if _, ok := r.snap.Users[key]; ok {
		return nil, nil, errs.New(errs.CodeConflict, "username already taken")
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    now,
	}
	k := r.newKingdom(user, now)

	err := r.commit(func(s *model.Snapshot) error {
		s.Users[key] = user
		s.Kingdoms[k.ID] = k
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return user.Clone(), k.Clone(), nil
}

func (r *Registry) newKingdom(u *model.User, now time.Time) *model.Kingdom {
	k := &model.Kingdom{
		ID:        u.ID,
		Name:      fmt.Sprintf("%s's Kingdom", u.Username),
		Owner:     u.Username,
		Level:     1,
		Resources: make(map[string]int, len(startingResources)),
		Army:      make(map[string]int, len(startingArmy)),
		Banner:    banners[rand.Intn(len(banners))],
		Position: model.Position{
			X: rand.Intn(r.cfg.MapSize),
			Y: rand.Intn(r.cfg.MapSize),
		},
		CreatedAt: now,
	}
	for res, v := range startingResources {
		k.Resources[res] = v
	}
	for unit, v := range startingArmy {
		k.Army[unit] = v
	}
	for i, btype := range startingBuildings {
		k.Buildings = append(k.Buildings, model.Building{
			Type: btype, X: 10 + i*10, Y: 10, Level: 1,
		})
	}
	return k
}

// FindUser returns the user registered under the given username.
func (r *Registry) FindUser(username string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.snap.Users[strings.ToLower(username)]
	if !ok {
		return nil, errs.New(errs.CodeNotFound, "user not found")
	}
	return u.Clone(), nil
}

// ---- kingdoms ----

// Get returns the kingdom owned by ownerID.
func (r *Registry) Get(ownerID string) (*model.Kingdom, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k, ok := r.snap.Kingdoms[ownerID]
	if !ok {
		return nil, errs.New(errs.CodeNotFound, "kingdom not found")
	}
	return k.Clone(), nil
}

// Build constructs a building of the given type at (x, y). The full cost is
// checked against every resource before anything is deducted.
func (r *Registry) Build(ownerID, btype string, x, y int) (*model.Kingdom, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cost, ok := BuildingCosts[btype]
	if !ok {
		return nil, errs.Newf(errs.CodeInvalidSelection, "unknown building type %q", btype)
	}

	err := r.commit(func(s *model.Snapshot) error {
		k, ok := s.Kingdoms[ownerID]
		if !ok {
			return errs.New(errs.CodeNotFound, "kingdom not found")
		}
		if err := deduct(k.Resources, cost, 1); err != nil {
			return err
		}
		k.Buildings = append(k.Buildings, model.Building{Type: btype, X: x, Y: y, Level: 1})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.snap.Kingdoms[ownerID].Clone(), nil
}

// Train adds count units of the given type, deducting count times the
// per-unit cost, all-or-nothing.
func (r *Registry) Train(ownerID, unitType string, count int) (*model.Kingdom, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cost, ok := UnitCosts[unitType]
	if !ok {
		return nil, errs.Newf(errs.CodeInvalidSelection, "unknown unit type %q", unitType)
	}
	if count <= 0 {
		return nil, errs.New(errs.CodeValidation, "count must be positive")
	}

	err := r.commit(func(s *model.Snapshot) error {
		k, ok := s.Kingdoms[ownerID]
		if !ok {
			return errs.New(errs.CodeNotFound, "kingdom not found")
		}
		if err := deduct(k.Resources, cost, count); err != nil {
			return err
		}
		k.Army[unitType] += count
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.snap.Kingdoms[ownerID].Clone(), nil
}

// deduct subtracts cost×factor from balances. It checks affordability across
// every resource first, so a failure leaves balances untouched.
func deduct(balances map[string]int, cost map[string]int, factor int) error {
	for res, amount := range cost {
		if balances[res] < amount*factor {
			return errs.Newf(errs.CodeInsufficient, "not enough %s", res)
		}
	}
	for res, amount := range cost {
		balances[res] -= amount * factor
	}
	return nil
}

// ---- battles ----

// Attack resolves a battle between the caller's kingdom and the target,
// applies the outcome to both kingdoms, and appends an immutable battle
// record. The record and the attacker's updated kingdom are returned.
func (r *Registry) Attack(attackerID, defenderID string) (*model.BattleRecord, *model.Kingdom, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if attackerID == defenderID {
		return nil, nil, errs.New(errs.CodeInvalidTarget, "cannot attack your own kingdom")
	}

	var record *model.BattleRecord
	err := r.commit(func(s *model.Snapshot) error {
		att, ok := s.Kingdoms[attackerID]
		if !ok {
			return errs.New(errs.CodeNotFound, "kingdom not found")
		}
		def, ok := s.Kingdoms[defenderID]
		if !ok {
			return errs.New(errs.CodeNotFound, "target kingdom not found")
		}

		out := battle.Resolve(att, def, battle.Options{ClampLoot: r.cfg.ClampLoot})
		att.Army = out.AttackerArmy
		att.Resources = out.AttackerResources
		def.Army = out.DefenderArmy
		def.Resources = out.DefenderResources

		record = &model.BattleRecord{
			ID:            uuid.NewString(),
			AttackerID:    attackerID,
			DefenderID:    defenderID,
			Attacker:      att.Name,
			Defender:      def.Name,
			AttackerPower: out.AttackerPower,
			DefenderPower: out.DefenderPower,
			Winner:        out.Winner,
			Loot:          out.Loot,
			CreatedAt:     time.Now(),
		}
		s.Battles = append(s.Battles, record)
		if over := len(s.Battles) - r.cfg.BattleHistory; over > 0 {
			s.Battles = s.Battles[over:]
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return record.Clone(), r.snap.Kingdoms[attackerID].Clone(), nil
}

// Battles returns up to limit most recent battle records, newest last.
func (r *Registry) Battles(limit int) []*model.BattleRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.snap.Battles
	if limit > 0 && len(all) > limit {
		all = all[len(all)-limit:]
	}
	out := make([]*model.BattleRecord, len(all))
	for i, b := range all {
		out[i] = b.Clone()
	}
	return out
}

// ---- alliances ----

// CreateAlliance creates an alliance led by ownerID. The leader becomes the
// first member and the kingdom is tagged with the alliance ID.
func (r *Registry) CreateAlliance(ownerID, name string) (*model.Alliance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var alliance *model.Alliance
	err := r.commit(func(s *model.Snapshot) error {
		k, ok := s.Kingdoms[ownerID]
		if !ok {
			return errs.New(errs.CodeNotFound, "kingdom not found")
		}
		if k.AllianceID != "" {
			return errs.New(errs.CodeConflict, "already in an alliance")
		}
		for _, a := range s.Alliances {
			if strings.EqualFold(a.Name, name) {
				return errs.New(errs.CodeConflict, "alliance name already taken")
			}
		}
		alliance = &model.Alliance{
			ID:        uuid.NewString(),
			Name:      name,
			LeaderID:  ownerID,
			Members:   []string{ownerID},
			CreatedAt: time.Now(),
		}
		s.Alliances[alliance.ID] = alliance
		k.AllianceID = alliance.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return alliance.Clone(), nil
}

// Alliances returns public summaries of all alliances, sorted by name.
func (r *Registry) Alliances() []model.AllianceSummary {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.AllianceSummary, 0, len(r.snap.Alliances))
	for _, a := range r.snap.Alliances {
		out = append(out, a.Summary())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ---- read views ----

// LeaderboardEntry is one leaderboard row.
type LeaderboardEntry struct {
	Rank      int    `json:"rank"`
	KingdomID string `json:"kingdom_id"`
	Name      string `json:"name"`
	Owner     string `json:"owner"`
	Power     int    `json:"power"`
	Buildings int    `json:"buildings"`
	Score     int    `json:"score"`
}

// Score is the leaderboard ordering metric: army power plus a fixed bonus per
// building.
func Score(k *model.Kingdom) int {
	return battle.Power(k.Army) + len(k.Buildings)*buildingScoreWeight
}

// Leaderboard returns the top n kingdoms by score.
func (r *Registry) Leaderboard(n int) []LeaderboardEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := make([]LeaderboardEntry, 0, len(r.snap.Kingdoms))
	for _, k := range r.snap.Kingdoms {
		entries = append(entries, LeaderboardEntry{
			KingdomID: k.ID,
			Name:      k.Name,
			Owner:     k.Owner,
			Power:     battle.Power(k.Army),
			Buildings: len(k.Buildings),
			Score:     Score(k),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Name < entries[j].Name
	})
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// WorldMap returns the public map projection of every kingdom.
func (r *Registry) WorldMap() []model.MapView {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.MapView, 0, len(r.snap.Kingdoms))
	for _, k := range r.snap.Kingdoms {
		out = append(out, k.Map())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ---- chat ----

// AppendChat appends a message to the world chat log, evicting the oldest
// entries beyond the retention cap, and persists before returning.
func (r *Registry) AppendChat(sender, text string) (*model.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg := &model.ChatMessage{Sender: sender, Text: text, Timestamp: time.Now()}
	err := r.commit(func(s *model.Snapshot) error {
		s.Chat = append(s.Chat, msg)
		if over := len(s.Chat) - r.cfg.ChatHistory; over > 0 {
			s.Chat = s.Chat[over:]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// ChatHistory returns the retained chat log, oldest first.
func (r *Registry) ChatHistory() []*model.ChatMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.ChatMessage, len(r.snap.Chat))
	for i, m := range r.snap.Chat {
		mc := *m
		out[i] = &mc
	}
	return out
}
