package utils

import (
	"math/rand"
	"sync"
	"time"

	"github.com/Pallinder/go-randomdata"
)

// RandomNameGenerator hands out readable names for sessions and viewer
// clients that did not introduce themselves. Safe for concurrent use.
type RandomNameGenerator struct {
	mu   sync.Mutex
	used map[string]struct{}
}

func (rng *RandomNameGenerator) RandomName() string {
	rng.mu.Lock()
	defer rng.mu.Unlock()
	if rng.used == nil {
		rng.used = make(map[string]struct{})
		randomdata.CustomRand(rand.New(rand.NewSource(time.Now().UnixNano())))
	}
	for {
		name := randomdata.SillyName()
		// avoid duplicate names
		if _, exists := rng.used[name]; !exists {
			rng.used[name] = struct{}{}
			return name
		}
	}
}

var gNames RandomNameGenerator

func RandomName() string {
	return gNames.RandomName()
}
