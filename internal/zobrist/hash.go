package zobrist

import "github.com/freeeve/pgn/v3"

// PackedPosition piece codes (low/high nibble per board byte).
const (
	pieceEmpty = 0
	pieceWP    = 1
	pieceBK    = 12
)

// Flag bits in byte 32 of a PackedPosition.
const (
	flagSideToMove = 1 << 0 // set when black is to move
	flagWKCastle   = 1 << 1
	flagWQCastle   = 1 << 2
	flagBKCastle   = 1 << 3
	flagBQCastle   = 1 << 4
)

// Hash returns the Zobrist key for a packed position. It folds in piece
// placement, held castling rights, and the side key when white is to move.
// En passant state and move counters are deliberately excluded; the
// consumer engine's book probe hashes the same three facts and nothing
// else.
func Hash(pos pgn.PackedPosition, kt *KeyTable) uint64 {
	var h uint64

	for sq := 0; sq < 64; sq++ {
		var code byte
		if sq%2 == 0 {
			code = pos[sq/2] & 0x0F
		} else {
			code = (pos[sq/2] >> 4) & 0x0F
		}
		if code == pieceEmpty || code > pieceBK {
			continue
		}
		// Packed codes are 1-12 (white pawn..king, black pawn..king),
		// key table rows are 0-11 in the same order.
		h ^= kt.Pieces[code-1][sq]
	}

	flags := pos[32]
	if flags&flagWKCastle != 0 {
		h ^= kt.Castling[0]
	}
	if flags&flagWQCastle != 0 {
		h ^= kt.Castling[1]
	}
	if flags&flagBKCastle != 0 {
		h ^= kt.Castling[2]
	}
	if flags&flagBQCastle != 0 {
		h ^= kt.Castling[3]
	}

	if flags&flagSideToMove == 0 {
		h ^= kt.Side
	}

	return h
}

// HashState hashes a GameState by packing it first. Convenience for
// callers that do not already hold the packed form.
func HashState(gs *pgn.GameState, kt *KeyTable) uint64 {
	return Hash(gs.Pack(), kt)
}
