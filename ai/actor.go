package ai

import "strconv"

// Actor identifies the agent a Thinker drives. The library only ever
// compares Actors for identity; hosts map their own entity handles onto it.
type Actor uint64

func (a Actor) String() string {
	return strconv.FormatUint(uint64(a), 10)
}
