package board

import "fmt"

// Move encodes a chess move in 32 bits:
//
//	bits  0-5:  to square (0-63)
//	bits  6-11: from square (0-63)
//	bits 12-15: move type
//	bits 16-18: moving piece type
//	bits 19-21: captured piece type (NoPieceType if none)
//	bits 22-24: promotion piece type (NoPieceType if none)
//	bits 25-30: en-passant target square, or the pawn square being vacated
//	            for an en-passant capture's "to=64" removal convention
//	bit  31:    quiet bit (1 iff the move is neither a capture nor a promotion)
type Move uint32

// Move types (bits 12-15).
const (
	TypeQuiet Move = iota
	TypePawnDouble
	TypeCastleWK
	TypeCastleWQ
	TypeCastleBK
	TypeCastleBQ
	TypeCapture
	TypeEnPassant
	TypePromotion
	TypeCapturePromotion
	TypeNull
)

const (
	shiftTo       = 0
	shiftFrom     = 6
	shiftType     = 12
	shiftPiece    = 16
	shiftCaptured = 19
	shiftPromo    = 22
	shiftEP       = 25
	shiftQuiet    = 31

	maskSquare = 0x3F
	maskType   = 0xF
	maskPiece  = 0x7
)

// NoMove represents MOVE_NONE, the reserved empty move value.
const NoMove Move = 0

func pack(from, to Square, typ Move, moving, captured, promo PieceType, epOrPawnSq Square, quiet bool) Move {
	m := Move(to&maskSquare) |
		Move(from&0x3F)<<shiftFrom |
		(typ&maskType)<<shiftType |
		Move(moving&maskPiece)<<shiftPiece |
		Move(captured&maskPiece)<<shiftCaptured |
		Move(promo&maskPiece)<<shiftPromo |
		Move(epOrPawnSq&maskSquare)<<shiftEP
	if quiet {
		m |= 1 << shiftQuiet
	}
	return m
}

// NewMove creates a quiet (non-capturing, non-promoting) move.
func NewMove(from, to Square, moving PieceType) Move {
	return pack(from, to, TypeQuiet, moving, NoPieceType, NoPieceType, 0, true)
}

// NewPawnDoublePush creates a double pawn push, recording the ep target square.
func NewPawnDoublePush(from, to, epSquare Square) Move {
	return pack(from, to, TypePawnDouble, Pawn, NoPieceType, NoPieceType, epSquare, true)
}

// castleSide identifies which rook/king pairing a castle move represents.
type castleSide int

const (
	CastleWhiteKing castleSide = iota
	CastleWhiteQueen
	CastleBlackKing
	CastleBlackQueen
)

// NewCastling creates a castling move (king's movement only; the rook move is implied).
func NewCastling(from, to Square, side castleSide) Move {
	typ := []Move{TypeCastleWK, TypeCastleWQ, TypeCastleBK, TypeCastleBQ}[side]
	return pack(from, to, typ, King, NoPieceType, NoPieceType, 0, true)
}

// NewCapture creates a non-promoting capture.
func NewCapture(from, to Square, moving, captured PieceType) Move {
	return pack(from, to, TypeCapture, moving, captured, NoPieceType, 0, false)
}

// NewEnPassant creates an en-passant capture. pawnSquare is the square of the captured pawn.
func NewEnPassant(from, to, pawnSquare Square) Move {
	return pack(from, to, TypeEnPassant, Pawn, Pawn, NoPieceType, pawnSquare, false)
}

// NewPromotion creates a non-capturing promotion.
func NewPromotion(from, to Square, promo PieceType) Move {
	return pack(from, to, TypePromotion, Pawn, NoPieceType, promo, 0, false)
}

// NewCapturePromotion creates a capturing promotion.
func NewCapturePromotion(from, to Square, captured, promo PieceType) Move {
	return pack(from, to, TypeCapturePromotion, Pawn, captured, promo, 0, false)
}

// NewNullMove creates the null move used by null-move pruning.
func NewNullMove() Move {
	return pack(0, 0, TypeNull, NoPieceType, NoPieceType, NoPieceType, 0, true)
}

func (m Move) To() Square             { return Square(m>>shiftTo) & maskSquare }
func (m Move) From() Square           { return Square(m>>shiftFrom) & maskSquare }
func (m Move) Type() Move             { return (m >> shiftType) & maskType }
func (m Move) MovingPiece() PieceType { return PieceType(m>>shiftPiece) & maskPiece }
func (m Move) CapturedPiece() PieceType {
	return PieceType(m>>shiftCaptured) & maskPiece
}
func (m Move) Promotion() PieceType { return PieceType(m>>shiftPromo) & maskPiece }
func (m Move) EPOrPawnSquare() Square {
	return Square(m>>shiftEP) & maskSquare
}
func (m Move) IsQuietBit() bool { return (m>>shiftQuiet)&1 != 0 }

func (m Move) IsPromotion() bool {
	t := m.Type()
	return t == TypePromotion || t == TypeCapturePromotion
}

func (m Move) IsCastling() bool {
	t := m.Type()
	return t == TypeCastleWK || t == TypeCastleWQ || t == TypeCastleBK || t == TypeCastleBQ
}

func (m Move) CastleSide() castleSide {
	switch m.Type() {
	case TypeCastleWK:
		return CastleWhiteKing
	case TypeCastleWQ:
		return CastleWhiteQueen
	case TypeCastleBK:
		return CastleBlackKing
	default:
		return CastleBlackQueen
	}
}

func (m Move) IsEnPassant() bool { return m.Type() == TypeEnPassant }
func (m Move) IsNull() bool      { return m.Type() == TypeNull }
func (m Move) IsPawnDouble() bool { return m.Type() == TypePawnDouble }

// IsCapture returns true iff this move removes an enemy piece (including en-passant).
func (m Move) IsCapture() bool {
	t := m.Type()
	return t == TypeCapture || t == TypeEnPassant || t == TypeCapturePromotion
}

// IsQuiet mirrors the quiet bit: set on every non-capturing, non-promotion move.
func (m Move) IsQuiet() bool { return m.IsQuietBit() }

// String returns the UCI long-algebraic form of the move (e.g. "e2e4", "e7e8q").
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		promoChars := map[PieceType]byte{Knight: 'n', Bishop: 'b', Rook: 'r', Queen: 'q'}
		s += string(promoChars[m.Promotion()])
	}
	return s
}

// ParseMove parses a UCI move string against the current position to recover
// the full move encoding (type, moving/captured piece, ep square).
func ParseMove(s string, pos *Position) (Move, error) {
	if len(s) < 4 {
		return NoMove, fmt.Errorf("invalid move string: %s", s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}

	var list MoveList
	pos.GenerateLegalMoves(&list)
	var wantPromo PieceType = NoPieceType
	if len(s) == 5 {
		switch s[4] {
		case 'n', 'N':
			wantPromo = Knight
		case 'b', 'B':
			wantPromo = Bishop
		case 'r', 'R':
			wantPromo = Rook
		case 'q', 'Q':
			wantPromo = Queen
		default:
			return NoMove, fmt.Errorf("invalid promotion piece: %c", s[4])
		}
	}
	for i := 0; i < list.Len(); i++ {
		cand := list.Get(i)
		if cand.From() != from || cand.To() != to {
			continue
		}
		if cand.IsPromotion() {
			if cand.Promotion() == wantPromo {
				return cand, nil
			}
			continue
		}
		if wantPromo == NoPieceType {
			return cand, nil
		}
	}
	return NoMove, fmt.Errorf("no legal move %s in this position", s)
}

// MoveList is a fixed-size list of moves to avoid allocations.
type MoveList struct {
	moves [256]Move
	count int
}

func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}
func (ml *MoveList) Len() int          { return ml.count }
func (ml *MoveList) Get(i int) Move    { return ml.moves[i] }
func (ml *MoveList) Set(i int, m Move) { ml.moves[i] = m }
func (ml *MoveList) Swap(i, j int)     { ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i] }
func (ml *MoveList) Clear()            { ml.count = 0 }
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}
func (ml *MoveList) Slice() []Move { return ml.moves[:ml.count] }

// UndoInfo stores the information needed to reverse one make_move.
type UndoInfo struct {
	Move           Move
	CapturedPiece  PieceType
	CastlingRights CastlingRights
	EnPassant      Square
	HalfMoveClock  int
	Hash           uint64
	PawnKey        uint64
	Checkers       Bitboard
	KingSquare     [2]Square
	NNUEChanges    NNUEChangeList
}

// DirtyPiece is one entry of an NNUE incremental-update change list.
// To == NoSquare signifies removal of the piece and From == NoSquare its addition.
type DirtyPiece struct {
	Piece PieceType
	Color Color
	From  Square
	To    Square
}

// NNUEChangeList holds up to 3 dirty-piece records for one MakeMove call.
// When the king moves it must be changes[0] so the accumulator refresh
// logic can detect a king-move boundary by inspecting only the first entry.
type NNUEChangeList struct {
	changes [3]DirtyPiece
	count   int
}

func (c *NNUEChangeList) add(d DirtyPiece) {
	c.changes[c.count] = d
	c.count++
}
func (c *NNUEChangeList) Len() int            { return c.count }
func (c *NNUEChangeList) Get(i int) DirtyPiece { return c.changes[i] }
func (c *NNUEChangeList) reset()              { c.count = 0 }
func (c *NNUEChangeList) KingMoved() bool {
	return c.count > 0 && c.changes[0].Piece == King
}
