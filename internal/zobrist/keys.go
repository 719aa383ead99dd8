// Package zobrist computes the 64-bit position keys the consumer engine
// uses to index the opening book. Key generation and hashing must stay
// bit-compatible with that engine: same seed, same generator, same XOR
// composition, or every book lookup misses.
package zobrist

// DefaultSeed is the seed the consumer engine initializes its key tables
// with. Books built with any other seed are unusable by that engine.
const DefaultSeed uint32 = 1804289383

// KeyTable holds the full set of Zobrist keys for one seed. Construct it
// once with Generate and pass it by reference; it is never mutated after
// construction.
type KeyTable struct {
	// Piece keys indexed [piece][square], piece 0-5 white pawn..king,
	// 6-11 black pawn..king, square 0-63 (a1=0).
	Pieces [12][64]uint64

	// Castling keys in the order white-kingside, white-queenside,
	// black-kingside, black-queenside.
	Castling [4]uint64

	// Side is XORed in when white is to move.
	Side uint64
}

// prng is the consumer engine's xorshift32 generator. 64-bit keys are
// composed from the low 16 bits of four successive outputs. The generator
// is fixed by the engine; a different PRNG would produce a different key
// table from the same seed.
type prng struct {
	state uint32
}

func (p *prng) next32() uint32 {
	n := p.state
	n ^= n << 13
	n ^= n >> 17
	n ^= n << 5
	p.state = n
	return n
}

func (p *prng) next64() uint64 {
	n1 := uint64(p.next32()) & 0xFFFF
	n2 := uint64(p.next32()) & 0xFFFF
	n3 := uint64(p.next32()) & 0xFFFF
	n4 := uint64(p.next32()) & 0xFFFF
	return n1 | (n2 << 16) | (n3 << 32) | (n4 << 48)
}

// Generate builds the key table for a seed. Generation order (piece keys,
// then castling keys, then the side key) is part of the engine contract.
func Generate(seed uint32) *KeyTable {
	rng := prng{state: seed}
	kt := &KeyTable{}

	for piece := 0; piece < 12; piece++ {
		for sq := 0; sq < 64; sq++ {
			kt.Pieces[piece][sq] = rng.next64()
		}
	}
	for i := 0; i < 4; i++ {
		kt.Castling[i] = rng.next64()
	}
	kt.Side = rng.next64()

	return kt
}
