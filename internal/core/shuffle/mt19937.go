package shuffle

import "math/bits"

const (
	mtN         = 624
	mtM         = 397
	mtMatrixA   = 0x9908b0df
	mtUpperMask = 0x80000000
	mtLowerMask = 0x7fffffff
)

// Twister is the 32-bit MT19937 Mersenne Twister, seeded and consumed the way
// CPython's random module does it so that splits match the Python tooling
// bit for bit.
type Twister struct {
	state [mtN]uint32
	index int
}

func NewMT19937(seed int64) *Twister {
	mt := &Twister{}
	mt.Seed(seed)
	return mt
}

// Seed feeds the 32-bit words of |seed|, least significant first, to
// init_by_array. Zero becomes the single word 0.
func (mt *Twister) Seed(seed int64) {
	abs := uint64(seed)
	if seed < 0 {
		abs = -abs
	}

	key := []uint32{uint32(abs)}
	if hi := uint32(abs >> 32); hi != 0 {
		key = append(key, hi)
	}
	mt.initByArray(key)
}

func (mt *Twister) initGenrand(s uint32) {
	mt.state[0] = s
	for i := 1; i < mtN; i++ {
		prev := mt.state[i-1]
		mt.state[i] = 1812433253*(prev^(prev>>30)) + uint32(i)
	}
	mt.index = mtN
}

func (mt *Twister) initByArray(key []uint32) {
	mt.initGenrand(19650218)

	i, j := 1, 0
	for k := max(mtN, len(key)); k > 0; k-- {
		prev := mt.state[i-1]
		mt.state[i] = (mt.state[i] ^ ((prev ^ (prev >> 30)) * 1664525)) + key[j] + uint32(j)
		i++
		j++
		if i >= mtN {
			mt.state[0] = mt.state[mtN-1]
			i = 1
		}
		if j >= len(key) {
			j = 0
		}
	}
	for k := mtN - 1; k > 0; k-- {
		prev := mt.state[i-1]
		mt.state[i] = (mt.state[i] ^ ((prev ^ (prev >> 30)) * 1566083941)) - uint32(i)
		i++
		if i >= mtN {
			mt.state[0] = mt.state[mtN-1]
			i = 1
		}
	}
	mt.state[0] = 0x80000000
}

func (mt *Twister) generate() {
	for k := 0; k < mtN; k++ {
		y := (mt.state[k] & mtUpperMask) | (mt.state[(k+1)%mtN] & mtLowerMask)
		v := mt.state[(k+mtM)%mtN] ^ (y >> 1)
		if y&1 != 0 {
			v ^= mtMatrixA
		}
		mt.state[k] = v
	}
	mt.index = 0
}

func (mt *Twister) Uint32() uint32 {
	if mt.index >= mtN {
		mt.generate()
	}
	y := mt.state[mt.index]
	mt.index++

	y ^= y >> 11
	y ^= (y << 7) & 0x9d2c5680
	y ^= (y << 15) & 0xefc60000
	y ^= y >> 18
	return y
}

// Bits mirrors getrandbits for 1 <= k <= 64: words are filled from the least
// significant end and the last word keeps only its top bits.
func (mt *Twister) Bits(k int) uint64 {
	if k <= 32 {
		return uint64(mt.Uint32() >> (32 - k))
	}
	var out uint64
	for shift := 0; k > 0; shift, k = shift+32, k-32 {
		w := mt.Uint32()
		if k < 32 {
			w >>= 32 - k
		}
		out |= uint64(w) << shift
	}
	return out
}

// below returns a uniform value in [0, n) by rejection sampling, as
// _randbelow_with_getrandbits does.
func (mt *Twister) below(n uint64) uint64 {
	k := bits.Len64(n)
	r := mt.Bits(k)
	for r >= n {
		r = mt.Bits(k)
	}
	return r
}

func (mt *Twister) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := int(mt.below(uint64(i) + 1))
		swap(i, j)
	}
}
