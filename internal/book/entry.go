// Package book aggregates replayed games into an opening book and
// serializes it in the consumer engine's binary format.
package book

// Move type codes in the book format. Non-contiguous; the values are fixed
// by the consumer engine's move encoding.
const (
	MoveQuiet          = 0
	MoveCapture        = 1
	MovePromotion      = 2
	MoveDoublePawnPush = 4
	MoveCastle         = 6
)

// Promotion piece codes in the book format (0 = none).
const (
	PromoNone   = 0
	PromoQueen  = 1
	PromoRook   = 2
	PromoBishop = 3
	PromoKnight = 4
)

// MoveKey identifies one move within a position bucket. Two observations
// of the same position with equal MoveKeys merge into a single weighted
// entry.
type MoveKey struct {
	From      uint8 // source square 0-63
	To        uint8 // target square 0-63
	Promotion uint8
	Type      uint8 // MoveQuiet..MoveCastle
	Piece     uint8 // 1-6 pawn..king, +6 for black
}

// Entry is one serialized book record: a (position, move) observation with
// its accumulated weight.
type Entry struct {
	Hash   uint64
	Move   MoveKey
	Weight uint16
}
