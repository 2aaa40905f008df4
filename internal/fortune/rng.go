package fortune

// seedTag versions the seed; changing it reshuffles every fortune
const seedTag = "ohaasa-v1"

const (
	fnvOffset32 = 2166136261
	fnvPrime32  = 16777619
)

// hashSeed folds s with 32-bit FNV-1a
func hashSeed(s string) uint32 {
	h := uint32(fnvOffset32)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= fnvPrime32
	}
	return h
}

// Rand is a mulberry32 generator. Not safe for concurrent use; build one per call.
type Rand struct {
	state uint32
}

// NewRand seeds a generator
func NewRand(seed uint32) *Rand {
	return &Rand{state: seed}
}

// newFortuneRand seeds from (today, birthdate)
func newFortuneRand(today, birthdate string) *Rand {
	return NewRand(hashSeed(today + "|" + birthdate + "|" + seedTag))
}

func (r *Rand) next() uint32 {
	r.state += 0x6D2B79F5
	t := r.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return t ^ (t >> 14)
}

// Float64 returns a uniform value in [0,1)
func (r *Rand) Float64() float64 {
	return float64(r.next()) / 4294967296.0
}

// IntRange returns a uniform integer in [min,max]
func (r *Rand) IntRange(min, max int) int {
	return int(r.Float64()*float64(max-min+1)) + min
}

// Pick returns an index in [0,n)
func (r *Rand) Pick(n int) int {
	return int(r.Float64() * float64(n))
}
