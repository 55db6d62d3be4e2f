package utils

import (
	"math/rand"

	"github.com/Pallinder/go-randomdata"
)

// RandomNameGenerator hands out unique placeholder names for archive
// entries that were stored without one. Seeded deterministically so repeated
// loads name the same joints the same way.
type RandomNameGenerator map[string]struct{}

func (rng *RandomNameGenerator) RandomName() string {
	if *rng == nil {
		*rng = make(map[string]struct{})
		randomdata.CustomRand(rand.New(rand.NewSource(0)))
	}
	for {
		name := randomdata.SillyName()
		// avoid duplicate names
		if _, exists := (*rng)[name]; !exists {
			(*rng)[name] = struct{}{}
			return name
		}
	}
}
