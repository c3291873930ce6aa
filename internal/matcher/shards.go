package matcher

// Shards are fractions of a full currency item and are never listed on their own
var shardTargets = map[string]string{
	"Transmutation Shard": "Orb of Transmutation",
	"Alteration Shard":    "Orb of Alteration",
	"Annulment Shard":     "Orb of Annulment",
	"Exalted Shard":       "Exalted Orb",
	"Mirror Shard":        "Mirror of Kalandra",
	"Regal Shard":         "Regal Orb",
	"Alchemy Shard":       "Orb of Alchemy",
	"Chaos Shard":         "Chaos Orb",
	"Ancient Shard":       "Ancient Orb",
	"Engineer's Shard":    "Engineer's Orb",
	"Harbinger's Shard":   "Harbinger's Orb",
	"Horizon Shard":       "Orb of Horizons",
	"Binding Shard":       "Orb of Binding",
	"Scroll Fragment":     "Scroll of Wisdom",
	"Chance Shard":        "Orb of Chance",
}

var normalizedShardTargets = func() map[string]string {
	m := make(map[string]string, len(shardTargets))
	for shard, full := range shardTargets {
		m[NormalizeName(shard)] = full
	}
	return m
}()

// ShardTarget returns the full item a shard name stands for
func ShardTarget(name string) (string, bool) {
	full, ok := normalizedShardTargets[NormalizeName(name)]
	return full, ok
}
