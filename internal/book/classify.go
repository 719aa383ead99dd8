package book

import "github.com/freeeve/pgn/v3"

// Mv flag values set by the pgn library.
const (
	mvFlagEnPassant = 2
	mvFlagCastle    = 4
)

// Classify determines a move's book type code and the moving piece's code,
// given the position the move is about to be played in. The move is assumed
// legal. Classification precedence: capture (including en passant), castle,
// promotion, double pawn push, quiet — first match wins, so a capturing
// promotion is recorded as a capture.
func Classify(pos *pgn.GameState, mv pgn.Mv) (moveType, piece uint8) {
	moving := pos.PieceAt(mv.From)
	piece = pieceCode(moving)
	isPawn := moving == 'P' || moving == 'p'

	switch {
	case pos.PieceAt(mv.To) != 0 || (isPawn && mv.Flags == mvFlagEnPassant):
		moveType = MoveCapture
	case mv.Flags == mvFlagCastle:
		moveType = MoveCastle
	case mv.Promo != 0:
		moveType = MovePromotion
	case isPawn && rankDistance(mv) == 2:
		moveType = MoveDoublePawnPush
	default:
		moveType = MoveQuiet
	}
	return moveType, piece
}

// PromotionCode maps the pgn library's promotion piece to the book's code.
func PromotionCode(mv pgn.Mv) uint8 {
	switch mv.Promo {
	case pgn.PromoQueen:
		return PromoQueen
	case pgn.PromoRook:
		return PromoRook
	case pgn.PromoBishop:
		return PromoBishop
	case pgn.PromoKnight:
		return PromoKnight
	}
	return PromoNone
}

func rankDistance(mv pgn.Mv) int {
	from := int(mv.From) / 8
	to := int(mv.To) / 8
	if from > to {
		return from - to
	}
	return to - from
}

// pieceCode converts a FEN piece character to the book's piece encoding:
// 1-6 for white pawn..king, 7-12 for black.
func pieceCode(c byte) uint8 {
	switch c {
	case 'P':
		return 1
	case 'N':
		return 2
	case 'B':
		return 3
	case 'R':
		return 4
	case 'Q':
		return 5
	case 'K':
		return 6
	case 'p':
		return 7
	case 'n':
		return 8
	case 'b':
		return 9
	case 'r':
		return 10
	case 'q':
		return 11
	case 'k':
		return 12
	}
	return 0
}
