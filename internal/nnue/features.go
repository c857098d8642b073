package nnue

import "github.com/hailam/chessplay/internal/board"

// PieceIndex maps a (piece type, piece color-relative-to-perspective) pair
// to its base offset within a king-square block. Slot 0 of the block is reserved ("no piece"), so real piece types
// start at 1: own pawn=1, opponent pawn=65, own knight=129, and so on up to
// opponent queen=577 — each step is one NumPieceSquares-wide band.
// relativeColor is board.White for "our" piece from perspective's own side,
// board.Black for the opponent's.
func PieceIndex(pt board.PieceType, relativeColor board.Color) int {
	if pt == board.King || pt > board.Queen {
		return -1 // kings are not part of the HalfKP feature set
	}
	slot := 2 * int(pt-board.Pawn) // Pawn=0, Knight=2, Bishop=4, Rook=6, Queen=8
	if relativeColor == board.Black {
		slot++
	}
	return slot*NumPieceSquares + 1
}

// orient mirrors a square for black's perspective so each side always
// "sees" the board as if it were moving up the board.
func orient(perspective board.Color, sq board.Square) board.Square {
	if perspective == board.Black {
		return sq.Mirror()
	}
	return sq
}

// HalfKPIndex computes the feature index for a piece from a perspective:
// index = orient(c,sq) + pieceIndex + 641*orient(c,king).
func HalfKPIndex(perspective board.Color, kingSquare board.Square,
	pieceType board.PieceType, pieceColor board.Color,
	pieceSquare board.Square) int {

	relativeColor := board.White
	if pieceColor != perspective {
		relativeColor = board.Black
	}

	pi := PieceIndex(pieceType, relativeColor)
	if pi < 0 {
		return -1 // king or invalid piece type
	}

	orientedKing := int(orient(perspective, kingSquare))
	orientedSq := int(orient(perspective, pieceSquare))

	return orientedSq + pi + PieceIndexStride*orientedKing
}

// GetActiveFeatures returns all active feature indices for a position from both perspectives.
func GetActiveFeatures(pos *board.Position) (white, black []int) {
	white = make([]int, 0, 32)
	black = make([]int, 0, 32)

	whiteKingSq := pos.KingSquare[board.White]
	blackKingSq := pos.KingSquare[board.Black]

	for color := board.White; color <= board.Black; color++ {
		for pt := board.Pawn; pt < board.King; pt++ {
			pieces := pos.Pieces[color][pt]
			for pieces != 0 {
				sq := pieces.PopLSB()

				if idx := HalfKPIndex(board.White, whiteKingSq, pt, color, sq); idx >= 0 && idx < HalfKPSize {
					white = append(white, idx)
				}
				if idx := HalfKPIndex(board.Black, blackKingSq, pt, color, sq); idx >= 0 && idx < HalfKPSize {
					black = append(black, idx)
				}
			}
		}
	}

	return white, black
}

// changedIndices converts the position's NNUE dirty-piece list (populated by
// board.Position.MakeMove) into per-perspective add/remove feature
// index lists. Call only when !changes.KingMoved() — a king move changes
// every feature for that perspective and must use a full ComputeFull instead.
func changedIndices(changes *board.NNUEChangeList, whiteKingSq, blackKingSq board.Square) (whiteAdd, whiteRem, blackAdd, blackRem []int) {
	for i := 0; i < changes.Len(); i++ {
		dp := changes.Get(i)

		if dp.From != board.NoSquare {
			if idx := HalfKPIndex(board.White, whiteKingSq, dp.Piece, dp.Color, dp.From); idx >= 0 && idx < HalfKPSize {
				whiteRem = append(whiteRem, idx)
			}
			if idx := HalfKPIndex(board.Black, blackKingSq, dp.Piece, dp.Color, dp.From); idx >= 0 && idx < HalfKPSize {
				blackRem = append(blackRem, idx)
			}
		}
		if dp.To != board.NoSquare {
			if idx := HalfKPIndex(board.White, whiteKingSq, dp.Piece, dp.Color, dp.To); idx >= 0 && idx < HalfKPSize {
				whiteAdd = append(whiteAdd, idx)
			}
			if idx := HalfKPIndex(board.Black, blackKingSq, dp.Piece, dp.Color, dp.To); idx >= 0 && idx < HalfKPSize {
				blackAdd = append(blackAdd, idx)
			}
		}
	}
	return
}
