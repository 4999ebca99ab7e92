package kingdom

import (
	"github.com/crownworks/kingdoms-server/model"
	"go.uber.org/zap"
)

// ProductionTick advances every kingdom's resources by one production pass:
// each producing building adds its base amount times its level. The whole
// pass is persisted once. Registered with the scheduler on a fixed interval;
// it takes the registry lock, so it serializes against request mutations.
func (r *Registry) ProductionTick() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	touched := 0
	err := r.commit(func(s *model.Snapshot) error {
		for _, k := range s.Kingdoms {
			if applyProduction(k) {
				touched++
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	r.logger.Debug("production tick", zap.Int("kingdoms", touched))
	return nil
}

// applyProduction adds one tick's output to the kingdom and reports whether
// anything was produced.
func applyProduction(k *model.Kingdom) bool {
	produced := false
	for _, b := range k.Buildings {
		rule, ok := ProductionRules[b.Type]
		if !ok {
			continue
		}
		k.Resources[rule.Resource] += rule.Base * b.Level
		produced = true
	}
	return produced
}
