package board

// GenerateLegalMoves fills ml with every legal move in the position: quiets
// and captures when not in check, evasions when in check.
func (p *Position) GenerateLegalMoves(ml *MoveList) {
	var pseudo MoveList
	if p.InCheck() {
		p.GenCheckEvasions(&pseudo)
	} else {
		p.GenCaptures(&pseudo)
		p.GenQuiets(&pseudo)
	}
	pins := p.ComputePinned()
	for i := 0; i < pseudo.Len(); i++ {
		m := pseudo.Get(i)
		if p.IsPseudoLegal(pins, m) {
			ml.Add(m)
		}
	}
}

// GenCaptures emits all captures and promotions (including promotion-captures
// and en-passant) for the side to move. Pseudo-legal: callers must filter
// with IsPseudoLegal.
func (p *Position) GenCaptures(ml *MoveList) {
	us := p.SideToMove
	them := us.Other()
	enemies := p.Occupied[them]
	occupied := p.AllOccupied

	p.genPawnCaptures(ml, us, enemies, occupied)

	from := p.KingSquare[us]
	attacks := KingAttacks(from) & enemies
	for attacks != 0 {
		to := attacks.PopLSB()
		ml.Add(NewCapture(from, to, King, p.PieceAt(to).Type()))
	}

	p.genPieceMoves(ml, us, Knight, func(sq Square) Bitboard { return KnightAttacks(sq) }, enemies, true)
	p.genPieceMoves(ml, us, Bishop, func(sq Square) Bitboard { return BishopAttacks(sq, occupied) }, enemies, true)
	p.genPieceMoves(ml, us, Rook, func(sq Square) Bitboard { return RookAttacks(sq, occupied) }, enemies, true)
	p.genPieceMoves(ml, us, Queen, func(sq Square) Bitboard { return QueenAttacks(sq, occupied) }, enemies, true)
}

// GenQuiets emits all non-capturing moves (pushes, double pushes, castling,
// quiet piece moves) for the side to move. Pseudo-legal.
func (p *Position) GenQuiets(ml *MoveList) {
	us := p.SideToMove
	occupied := p.AllOccupied
	own := p.Occupied[us]
	empty := ^occupied

	p.genPawnQuiets(ml, us, empty)

	from := p.KingSquare[us]
	attacks := KingAttacks(from) & empty
	for attacks != 0 {
		to := attacks.PopLSB()
		ml.Add(NewMove(from, to, King))
	}
	p.genCastlingMoves(ml, us)

	p.genPieceMoves(ml, us, Knight, func(sq Square) Bitboard { return KnightAttacks(sq) }, empty&^own, false)
	p.genPieceMoves(ml, us, Bishop, func(sq Square) Bitboard { return BishopAttacks(sq, occupied) }, empty, false)
	p.genPieceMoves(ml, us, Rook, func(sq Square) Bitboard { return RookAttacks(sq, occupied) }, empty, false)
	p.genPieceMoves(ml, us, Queen, func(sq Square) Bitboard { return QueenAttacks(sq, occupied) }, empty, false)
}

func (p *Position) genPieceMoves(ml *MoveList, us Color, pt PieceType, attacksOf func(Square) Bitboard, targets Bitboard, capture bool) {
	pieces := p.Pieces[us][pt]
	for pieces != 0 {
		from := pieces.PopLSB()
		bb := attacksOf(from) & targets
		for bb != 0 {
			to := bb.PopLSB()
			if capture {
				ml.Add(NewCapture(from, to, pt, p.PieceAt(to).Type()))
			} else {
				ml.Add(NewMove(from, to, pt))
			}
		}
	}
}

func (p *Position) genPawnQuiets(ml *MoveList, us Color, empty Bitboard) {
	pawns := p.Pieces[us][Pawn]
	var push1, push2, promotionRank Bitboard
	var pushDir int
	if us == White {
		push1 = pawns.North() & empty
		push2 = (push1 & Rank3).North() & empty
		promotionRank = Rank8
		pushDir = 8
	} else {
		push1 = pawns.South() & empty
		push2 = (push1 & Rank6).South() & empty
		promotionRank = Rank1
		pushDir = -8
	}

	nonPromo := push1 & ^promotionRank
	for nonPromo != 0 {
		to := nonPromo.PopLSB()
		from := Square(int(to) - pushDir)
		ml.Add(NewMove(from, to, Pawn))
	}

	for push2 != 0 {
		to := push2.PopLSB()
		from := Square(int(to) - 2*pushDir)
		ep := Square(int(to) - pushDir)
		ml.Add(NewPawnDoublePush(from, to, ep))
	}

	promoPush := push1 & promotionRank
	for promoPush != 0 {
		to := promoPush.PopLSB()
		from := Square(int(to) - pushDir)
		addPromotions(ml, from, to)
	}
}

func (p *Position) genPawnCaptures(ml *MoveList, us Color, enemies, occupied Bitboard) {
	pawns := p.Pieces[us][Pawn]
	var attackL, attackR, promotionRank Bitboard
	var pushDir int
	if us == White {
		attackL = pawns.NorthWest() & enemies
		attackR = pawns.NorthEast() & enemies
		promotionRank = Rank8
		pushDir = 8
	} else {
		attackL = pawns.SouthWest() & enemies
		attackR = pawns.SouthEast() & enemies
		promotionRank = Rank1
		pushDir = -8
	}

	nonPromoL := attackL & ^promotionRank
	for nonPromoL != 0 {
		to := nonPromoL.PopLSB()
		from := Square(int(to) - pushDir + 1)
		ml.Add(NewCapture(from, to, Pawn, p.PieceAt(to).Type()))
	}
	nonPromoR := attackR & ^promotionRank
	for nonPromoR != 0 {
		to := nonPromoR.PopLSB()
		from := Square(int(to) - pushDir - 1)
		ml.Add(NewCapture(from, to, Pawn, p.PieceAt(to).Type()))
	}

	promoL := attackL & promotionRank
	for promoL != 0 {
		to := promoL.PopLSB()
		from := Square(int(to) - pushDir + 1)
		addCapturePromotions(ml, from, to, p.PieceAt(to).Type())
	}
	promoR := attackR & promotionRank
	for promoR != 0 {
		to := promoR.PopLSB()
		from := Square(int(to) - pushDir - 1)
		addCapturePromotions(ml, from, to, p.PieceAt(to).Type())
	}

	if p.EnPassant != NoSquare {
		epBB := SquareBB(p.EnPassant)
		var epAttackers Bitboard
		var pawnSq Square
		if us == White {
			epAttackers = (epBB.SouthWest() | epBB.SouthEast()) & pawns
			pawnSq = p.EnPassant - 8
		} else {
			epAttackers = (epBB.NorthWest() | epBB.NorthEast()) & pawns
			pawnSq = p.EnPassant + 8
		}
		for epAttackers != 0 {
			from := epAttackers.PopLSB()
			ml.Add(NewEnPassant(from, p.EnPassant, pawnSq))
		}
	}
}

func addPromotions(ml *MoveList, from, to Square) {
	ml.Add(NewPromotion(from, to, Queen))
	ml.Add(NewPromotion(from, to, Rook))
	ml.Add(NewPromotion(from, to, Bishop))
	ml.Add(NewPromotion(from, to, Knight))
}

func addCapturePromotions(ml *MoveList, from, to Square, captured PieceType) {
	ml.Add(NewCapturePromotion(from, to, captured, Queen))
	ml.Add(NewCapturePromotion(from, to, captured, Rook))
	ml.Add(NewCapturePromotion(from, to, captured, Bishop))
	ml.Add(NewCapturePromotion(from, to, captured, Knight))
}

func (p *Position) genCastlingMoves(ml *MoveList, us Color) {
	them := us.Other()
	if us == White {
		if p.CastlingRights&WhiteKingSideCastle != 0 && p.AllOccupied&((1<<F1)|(1<<G1)) == 0 {
			if !p.IsSquareAttacked(E1, them) && !p.IsSquareAttacked(F1, them) && !p.IsSquareAttacked(G1, them) {
				ml.Add(NewCastling(E1, G1, CastleWhiteKing))
			}
		}
		if p.CastlingRights&WhiteQueenSideCastle != 0 && p.AllOccupied&((1<<B1)|(1<<C1)|(1<<D1)) == 0 {
			if !p.IsSquareAttacked(E1, them) && !p.IsSquareAttacked(D1, them) && !p.IsSquareAttacked(C1, them) {
				ml.Add(NewCastling(E1, C1, CastleWhiteQueen))
			}
		}
	} else {
		if p.CastlingRights&BlackKingSideCastle != 0 && p.AllOccupied&((1<<F8)|(1<<G8)) == 0 {
			if !p.IsSquareAttacked(E8, them) && !p.IsSquareAttacked(F8, them) && !p.IsSquareAttacked(G8, them) {
				ml.Add(NewCastling(E8, G8, CastleBlackKing))
			}
		}
		if p.CastlingRights&BlackQueenSideCastle != 0 && p.AllOccupied&((1<<B8)|(1<<C8)|(1<<D8)) == 0 {
			if !p.IsSquareAttacked(E8, them) && !p.IsSquareAttacked(D8, them) && !p.IsSquareAttacked(C8, them) {
				ml.Add(NewCastling(E8, C8, CastleBlackQueen))
			}
		}
	}
}

// GenCheckEvasions emits king moves to unattacked squares, captures of a
// single checker, and blocks of a single sliding checker. Double check
// permits only king moves. Pseudo-legal for king destinations; callers
// still run IsPseudoLegal.
func (p *Position) GenCheckEvasions(ml *MoveList) {
	us := p.SideToMove
	them := us.Other()
	ksq := p.KingSquare[us]
	checkers := p.Checkers
	occWithoutKing := p.AllOccupied &^ SquareBB(ksq)

	kingMoves := KingAttacks(ksq) & ^p.Occupied[us]
	for kingMoves != 0 {
		to := kingMoves.PopLSB()
		if p.AttackersByColor(to, them, occWithoutKing) != 0 {
			continue
		}
		if p.Occupied[them]&SquareBB(to) != 0 {
			ml.Add(NewCapture(ksq, to, King, p.PieceAt(to).Type()))
		} else {
			ml.Add(NewMove(ksq, to, King))
		}
	}

	if checkers.PopCount() != 1 {
		return // double check: king moves only
	}
	checkerSq := checkers.LSB()
	checkerPt := p.PieceAt(checkerSq).Type()

	var target Bitboard
	target |= SquareBB(checkerSq)
	if checkerPt == Bishop || checkerPt == Rook || checkerPt == Queen {
		target |= Between(ksq, checkerSq)
	}

	p.genBlockOrCaptureNonKing(ml, us, checkerSq, target)
}

func (p *Position) genBlockOrCaptureNonKing(ml *MoveList, us Color, checkerSq Square, target Bitboard) {
	occupied := p.AllOccupied
	enemies := p.Occupied[us.Other()]

	p.genPieceMoves(ml, us, Knight, func(sq Square) Bitboard { return KnightAttacks(sq) & target & enemies }, enemies&target, true)
	p.genPieceMoves(ml, us, Knight, func(sq Square) Bitboard { return KnightAttacks(sq) & target &^ enemies }, target&^enemies, false)
	for _, pt := range []PieceType{Bishop, Rook, Queen} {
		attacksOf := func(sq Square) Bitboard {
			switch pt {
			case Bishop:
				return BishopAttacks(sq, occupied)
			case Rook:
				return RookAttacks(sq, occupied)
			default:
				return QueenAttacks(sq, occupied)
			}
		}
		p.genPieceMoves(ml, us, pt, attacksOf, enemies&target, true)
		p.genPieceMoves(ml, us, pt, attacksOf, target&^enemies, false)
	}

	// Pawn blocks/captures of the checker, including en passant removing a
	// pawn-checker and promotions.
	pawns := p.Pieces[us][Pawn]
	var push1, push2, attackL, attackR, promotionRank Bitboard
	var pushDir int
	empty := ^occupied
	if us == White {
		push1 = pawns.North() & empty
		push2 = (push1 & Rank3).North() & empty
		attackL = pawns.NorthWest() & enemies
		attackR = pawns.NorthEast() & enemies
		promotionRank = Rank8
		pushDir = 8
	} else {
		push1 = pawns.South() & empty
		push2 = (push1 & Rank6).South() & empty
		attackL = pawns.SouthWest() & enemies
		attackR = pawns.SouthEast() & enemies
		promotionRank = Rank1
		pushDir = -8
	}
	push1 &= target
	push2 &= target
	attackL &= target
	attackR &= target

	for bb := push1 & ^promotionRank; bb != 0; {
		to := bb.PopLSB()
		ml.Add(NewMove(Square(int(to)-pushDir), to, Pawn))
	}
	for bb := push2; bb != 0; {
		to := bb.PopLSB()
		from := Square(int(to) - 2*pushDir)
		ep := Square(int(to) - pushDir)
		ml.Add(NewPawnDoublePush(from, to, ep))
	}
	for bb := attackL & ^promotionRank; bb != 0; {
		to := bb.PopLSB()
		from := Square(int(to) - pushDir + 1)
		ml.Add(NewCapture(from, to, Pawn, p.PieceAt(to).Type()))
	}
	for bb := attackR & ^promotionRank; bb != 0; {
		to := bb.PopLSB()
		from := Square(int(to) - pushDir - 1)
		ml.Add(NewCapture(from, to, Pawn, p.PieceAt(to).Type()))
	}
	for bb := push1 & promotionRank; bb != 0; {
		to := bb.PopLSB()
		addPromotions(ml, Square(int(to)-pushDir), to)
	}
	for bb := attackL & promotionRank; bb != 0; {
		to := bb.PopLSB()
		from := Square(int(to) - pushDir + 1)
		addCapturePromotions(ml, from, to, p.PieceAt(to).Type())
	}
	for bb := attackR & promotionRank; bb != 0; {
		to := bb.PopLSB()
		from := Square(int(to) - pushDir - 1)
		addCapturePromotions(ml, from, to, p.PieceAt(to).Type())
	}
	if p.EnPassant != NoSquare {
		var pawnSq Square
		if us == White {
			pawnSq = p.EnPassant - 8
		} else {
			pawnSq = p.EnPassant + 8
		}
		if pawnSq == checkerSq {
			epBB := SquareBB(p.EnPassant)
			var epAttackers Bitboard
			if us == White {
				epAttackers = (epBB.SouthWest() | epBB.SouthEast()) & pawns
			} else {
				epAttackers = (epBB.NorthWest() | epBB.NorthEast()) & pawns
			}
			for epAttackers != 0 {
				from := epAttackers.PopLSB()
				ml.Add(NewEnPassant(from, p.EnPassant, pawnSq))
			}
		}
	}
}

// FindPins returns a bitboard of own pieces pinned to the king of the side
// to move.
func (p *Position) FindPins() Bitboard { return p.ComputePinned() }

// pieceAttackSet returns the squares a non-pawn piece of the given type
// attacks from a square under the given occupancy.
func pieceAttackSet(pt PieceType, from Square, occ Bitboard) Bitboard {
	switch pt {
	case Knight:
		return KnightAttacks(from)
	case Bishop:
		return BishopAttacks(from, occ)
	case Rook:
		return RookAttacks(from, occ)
	case Queen:
		return QueenAttacks(from, occ)
	case King:
		return KingAttacks(from)
	}
	return 0
}

// IsValid reports whether m is a move this position's generator could have
// emitted: every encoded field must match the board and the movement
// geometry must be reachable. This is the gate that rejects arbitrary move
// words, e.g. a transposition-table hit corrupted by a hash collision or a
// torn concurrent write. It does not check king safety; that remains
// IsPseudoLegal's job.
func (p *Position) IsValid(m Move) bool {
	if m == NoMove || m.IsNull() {
		return false
	}
	us := p.SideToMove
	them := us.Other()
	from, to := m.From(), m.To()
	moving := m.MovingPiece()
	if moving >= NoPieceType {
		return false
	}
	pc := p.PieceAt(from)
	if pc == NoPiece || pc.Color() != us || pc.Type() != moving {
		return false
	}

	typ := m.Type()
	if typ > TypeCapturePromotion {
		return false
	}
	wantQuiet := typ == TypeQuiet || typ == TypePawnDouble || m.IsCastling()
	if m.IsQuietBit() != wantQuiet {
		return false
	}

	// Fields a type does not use must hold their packed defaults, so an
	// accepted word is always bit-identical to a generator-emitted one.
	if !m.IsCapture() && m.CapturedPiece() != NoPieceType {
		return false
	}
	if !m.IsPromotion() && m.Promotion() != NoPieceType {
		return false
	}
	if typ != TypePawnDouble && typ != TypeEnPassant && m.EPOrPawnSquare() != 0 {
		return false
	}
	if typ == TypeEnPassant && m.CapturedPiece() != Pawn {
		return false
	}

	occ := p.AllOccupied
	toBB := SquareBB(to)
	pushDir := 8
	lastRank := Rank8
	if us == Black {
		pushDir = -8
		lastRank = Rank1
	}

	// In check, a non-king move must capture or block the single checker
	// (an en-passant capture counts when the checker is the captured pawn);
	// under double check only king moves are generated.
	if p.Checkers != 0 && moving != King {
		if p.Checkers.PopCount() > 1 {
			return false
		}
		checkerSq := p.Checkers.LSB()
		if typ == TypeEnPassant {
			if Square(int(to)-pushDir) != checkerSq {
				return false
			}
		} else if (SquareBB(checkerSq)|Between(p.KingSquare[us], checkerSq))&toBB == 0 {
			return false
		}
	}

	switch typ {
	case TypeQuiet:
		if occ&toBB != 0 {
			return false
		}
		if moving == Pawn {
			return int(to)-int(from) == pushDir && toBB&lastRank == 0
		}
		return pieceAttackSet(moving, from, occ)&toBB != 0

	case TypePawnDouble:
		if moving != Pawn || int(to)-int(from) != 2*pushDir {
			return false
		}
		mid := Square(int(from) + pushDir)
		if from.RelativeRank(us) != 1 || m.EPOrPawnSquare() != mid {
			return false
		}
		return occ&(toBB|SquareBB(mid)) == 0

	case TypeCastleWK, TypeCastleWQ, TypeCastleBK, TypeCastleBQ:
		// Castles encode board-global preconditions (rights, empty and
		// unattacked squares); cheapest honest check is to regenerate them.
		if moving != King {
			return false
		}
		var castles MoveList
		p.genCastlingMoves(&castles, us)
		return castles.Contains(m)

	case TypeCapture:
		victim := p.PieceAt(to)
		if victim == NoPiece || victim.Color() != them ||
			victim.Type() != m.CapturedPiece() || victim.Type() == King {
			return false
		}
		if moving == Pawn {
			return toBB&lastRank == 0 && PawnAttacks(from, us)&toBB != 0
		}
		return pieceAttackSet(moving, from, occ)&toBB != 0

	case TypeEnPassant:
		if moving != Pawn || p.EnPassant == NoSquare || to != p.EnPassant {
			return false
		}
		pawnSq := Square(int(to) - pushDir)
		if m.EPOrPawnSquare() != pawnSq || p.Pieces[them][Pawn]&SquareBB(pawnSq) == 0 {
			return false
		}
		return PawnAttacks(from, us)&toBB != 0

	case TypePromotion:
		if moving != Pawn || occ&toBB != 0 || toBB&lastRank == 0 {
			return false
		}
		promo := m.Promotion()
		return promo >= Knight && promo <= Queen && int(to)-int(from) == pushDir

	case TypeCapturePromotion:
		if moving != Pawn || toBB&lastRank == 0 {
			return false
		}
		promo := m.Promotion()
		if promo < Knight || promo > Queen {
			return false
		}
		victim := p.PieceAt(to)
		if victim == NoPiece || victim.Color() != them ||
			victim.Type() != m.CapturedPiece() || victim.Type() == King {
			return false
		}
		return PawnAttacks(from, us)&toBB != 0
	}
	return false
}

// IsPseudoLegal confirms a pseudo-legal move does not leave the mover's own
// king in check. King moves are tested against enemy attacks on the
// destination with the king lifted off the board, castling is accepted as
// generated, pinned pieces must stay on the line through the king, and en
// passant (whose legality depends on discovered checks the pin set alone
// can't see) is verified by a full make/undo.
func (p *Position) IsPseudoLegal(pins Bitboard, m Move) bool {
	us := p.SideToMove
	from := m.From()
	ksq := p.KingSquare[us]

	if from == ksq {
		if m.IsCastling() {
			return true // squares already verified attack-free during generation
		}
		occ := p.AllOccupied &^ SquareBB(from)
		return p.AttackersByColor(m.To(), us.Other(), occ) == 0
	}
	if m.IsEnPassant() {
		return p.isLegalSlow(m)
	}
	if pins&SquareBB(from) != 0 {
		return Aligned(from, m.To(), ksq)
	}
	return true
}

// isLegalSlow verifies legality by making and immediately undoing the move,
// used for the cases IsPseudoLegal cannot cheaply decide.
func (p *Position) isLegalSlow(m Move) bool {
	us := p.SideToMove
	ksq := p.KingSquare[us]
	undo := p.MakeMove(m)
	attacked := p.IsSquareAttacked(ksq, us.Other())
	p.UnmakeMove(m, undo)
	return !attacked
}

// IsLegal is the full correctness check (make/undo based), used where a
// precomputed pin set is not available (e.g. tests, UCI move parsing).
func (p *Position) IsLegal(m Move) bool {
	return p.IsPseudoLegal(p.FindPins(), m)
}

// GivesCheck reports whether the move gives check to the opponent, decided
// before the move is made. Direct checks from the destination square are
// answered from attack tables alone; castling, en passant and potential
// discovered checks fall back to a make/undo probe.
func (p *Position) GivesCheck(m Move) bool {
	us := p.SideToMove
	ksq := p.KingSquare[us.Other()]
	from, to := m.From(), m.To()

	// Direct check from the destination, on the post-move occupancy.
	occ := (p.AllOccupied &^ SquareBB(from)) | SquareBB(to)
	pt := m.MovingPiece()
	if m.IsPromotion() {
		pt = m.Promotion()
	}
	var attacks Bitboard
	switch pt {
	case Pawn:
		attacks = PawnAttacks(to, us)
	case Knight:
		attacks = KnightAttacks(to)
	case Bishop:
		attacks = BishopAttacks(to, occ)
	case Rook:
		attacks = RookAttacks(to, occ)
	case Queen:
		attacks = QueenAttacks(to, occ)
	}
	if attacks&SquareBB(ksq) != 0 {
		return true
	}

	// A discovered check needs the mover to leave a line through the enemy
	// king; the castle rook and the pawn removed en passant can open one
	// too. All of those are decided exactly by making the move.
	if m.IsCastling() || m.IsEnPassant() ||
		(Line(from, ksq) != 0 && !Aligned(from, to, ksq)) {
		undo := p.MakeMove(m)
		check := p.InCheck()
		p.UnmakeMove(m, undo)
		return check
	}
	return false
}

// MakeMove applies m, updates all incremental state (bitboards, keys, castle
// rights, checkers, history, NNUE change list), and returns the undo record.
func (p *Position) MakeMove(m Move) UndoInfo {
	undo := UndoInfo{
		Move:           m,
		CapturedPiece:  NoPieceType,
		CastlingRights: p.CastlingRights,
		EnPassant:      p.EnPassant,
		HalfMoveClock:  p.HalfMoveClock,
		Hash:           p.Hash,
		PawnKey:        p.PawnKey,
		Checkers:       p.Checkers,
		KingSquare:     p.KingSquare,
	}

	us := p.SideToMove
	them := us.Other()
	from := m.From()
	to := m.To()
	pt := m.MovingPiece()

	p.Hash ^= zobristSideToMove
	p.Hash ^= zobristCastling[p.CastlingRights]
	if p.EnPassant != NoSquare {
		p.Hash ^= zobristEnPassant[p.EnPassant.File()]
	}
	p.EnPassant = NoSquare

	if m.IsEnPassant() {
		capturedSq := m.EPOrPawnSquare()
		undo.CapturedPiece = Pawn
		p.removePiece(capturedSq)
		p.Hash ^= zobristPiece[them][Pawn][capturedSq]
		p.PawnKey ^= zobristPiece[them][Pawn][capturedSq]
		undo.NNUEChanges.add(DirtyPiece{Piece: Pawn, Color: them, From: capturedSq, To: NoSquare})
	} else if m.IsCapture() {
		captured := m.CapturedPiece()
		undo.CapturedPiece = captured
		p.removePiece(to)
		p.Hash ^= zobristPiece[them][captured][to]
		if captured == Pawn {
			p.PawnKey ^= zobristPiece[them][Pawn][to]
		}
		undo.NNUEChanges.add(DirtyPiece{Piece: captured, Color: them, From: to, To: NoSquare})
	}

	if m.IsCastling() {
		// King moves first so the NNUE change list has it at index 0.
		undo.NNUEChanges.add(DirtyPiece{Piece: King, Color: us, From: from, To: to})
		p.movePiece(from, to)
		p.Hash ^= zobristPiece[us][King][from]
		p.Hash ^= zobristPiece[us][King][to]

		var rookFrom, rookTo Square
		if to > from {
			rookFrom, rookTo = NewSquare(7, from.Rank()), NewSquare(5, from.Rank())
		} else {
			rookFrom, rookTo = NewSquare(0, from.Rank()), NewSquare(3, from.Rank())
		}
		p.movePiece(rookFrom, rookTo)
		p.Hash ^= zobristPiece[us][Rook][rookFrom]
		p.Hash ^= zobristPiece[us][Rook][rookTo]
		undo.NNUEChanges.add(DirtyPiece{Piece: Rook, Color: us, From: rookFrom, To: rookTo})
	} else if m.IsPromotion() {
		promoPt := m.Promotion()
		p.Pieces[us][Pawn] &^= SquareBB(from)
		p.Occupied[us] &^= SquareBB(from)
		p.Pieces[us][promoPt] |= SquareBB(to)
		p.Occupied[us] |= SquareBB(to)
		p.AllOccupied = p.Occupied[White] | p.Occupied[Black]
		p.Hash ^= zobristPiece[us][Pawn][from]
		p.Hash ^= zobristPiece[us][promoPt][to]
		p.PawnKey ^= zobristPiece[us][Pawn][from]
		undo.NNUEChanges.add(DirtyPiece{Piece: Pawn, Color: us, From: from, To: NoSquare})
		undo.NNUEChanges.add(DirtyPiece{Piece: promoPt, Color: us, From: NoSquare, To: to})
	} else {
		p.movePiece(from, to)
		p.Hash ^= zobristPiece[us][pt][from]
		p.Hash ^= zobristPiece[us][pt][to]
		if pt == Pawn {
			p.PawnKey ^= zobristPiece[us][Pawn][from]
			p.PawnKey ^= zobristPiece[us][Pawn][to]
		}
		undo.NNUEChanges.add(DirtyPiece{Piece: pt, Color: us, From: from, To: to})
	}

	if pt == King && !undo.NNUEChanges.KingMoved() {
		// A king capture recorded the captured piece first; swap so the
		// king sits at index 0 of the change list.
		c := &undo.NNUEChanges
		c.changes[0], c.changes[c.count-1] = c.changes[c.count-1], c.changes[0]
	}

	if pt == King {
		if us == White {
			p.CastlingRights &^= WhiteKingSideCastle | WhiteQueenSideCastle
		} else {
			p.CastlingRights &^= BlackKingSideCastle | BlackQueenSideCastle
		}
	}
	if from == A1 || to == A1 {
		p.CastlingRights &^= WhiteQueenSideCastle
	}
	if from == H1 || to == H1 {
		p.CastlingRights &^= WhiteKingSideCastle
	}
	if from == A8 || to == A8 {
		p.CastlingRights &^= BlackQueenSideCastle
	}
	if from == H8 || to == H8 {
		p.CastlingRights &^= BlackKingSideCastle
	}
	p.Hash ^= zobristCastling[p.CastlingRights]

	if m.IsPawnDouble() {
		epSquare := m.EPOrPawnSquare()
		p.EnPassant = epSquare
		p.Hash ^= zobristEnPassant[epSquare.File()]
	}

	if pt == Pawn || undo.CapturedPiece != NoPieceType {
		p.HalfMoveClock = 0
	} else {
		p.HalfMoveClock++
	}
	if us == Black {
		p.FullMoveNumber++
	}

	p.SideToMove = them
	p.UpdateCheckers()
	p.Ply++
	p.History = append(p.History, p.Hash)

	return undo
}

// UnmakeMove reverses the effect of MakeMove(m) using the saved undo record.
func (p *Position) UnmakeMove(m Move, undo UndoInfo) {
	p.History = p.History[:len(p.History)-1]
	p.Ply--

	them := p.SideToMove
	us := them.Other()
	from := m.From()
	to := m.To()

	p.CastlingRights = undo.CastlingRights
	p.EnPassant = undo.EnPassant
	p.HalfMoveClock = undo.HalfMoveClock
	p.Hash = undo.Hash
	p.PawnKey = undo.PawnKey
	p.Checkers = undo.Checkers
	p.KingSquare = undo.KingSquare
	p.SideToMove = us
	if us == Black {
		p.FullMoveNumber--
	}

	if m.IsPromotion() {
		promoPt := m.Promotion()
		p.Pieces[us][promoPt] &^= SquareBB(to)
		p.Occupied[us] &^= SquareBB(to)
		p.Pieces[us][Pawn] |= SquareBB(from)
		p.Occupied[us] |= SquareBB(from)
		p.AllOccupied = p.Occupied[White] | p.Occupied[Black]
	} else {
		p.movePiece(to, from)
	}

	if m.IsCastling() {
		var rookFrom, rookTo Square
		if to > from {
			rookFrom, rookTo = NewSquare(7, from.Rank()), NewSquare(5, from.Rank())
		} else {
			rookFrom, rookTo = NewSquare(0, from.Rank()), NewSquare(3, from.Rank())
		}
		p.movePiece(rookTo, rookFrom)
	}

	if undo.CapturedPiece != NoPieceType {
		if m.IsEnPassant() {
			p.setPiece(NewPiece(Pawn, them), m.EPOrPawnSquare())
		} else {
			p.setPiece(NewPiece(undo.CapturedPiece, them), to)
		}
	}
}

// HasLegalMoves returns true if the side to move has at least one legal move.
func (p *Position) HasLegalMoves() bool {
	var ml MoveList
	p.GenerateLegalMoves(&ml)
	return ml.Len() > 0
}

func (p *Position) IsCheckmate() bool { return p.InCheck() && !p.HasLegalMoves() }
func (p *Position) IsStalemate() bool { return !p.InCheck() && !p.HasLegalMoves() }

// IsDraw reports the draw conditions owned by the position itself: the
// fifty-move rule, insufficient material, and repetition. A repetition at or
// past SearchRootLen (i.e. found again within the current search tree)
// counts as a draw after a single repeat; one found only in game history
// prior to the search needs a second repeat to reach true threefold.
func (p *Position) IsDraw() bool {
	if p.HalfMoveClock >= 100 {
		return true
	}
	if p.IsInsufficientMaterial() {
		return true
	}
	n := len(p.History)
	if n < 3 {
		return false
	}
	limit := n - p.HalfMoveClock - 1
	if limit < 0 {
		limit = 0
	}
	reps := 0
	for i := n - 3; i >= limit; i -= 2 {
		if p.History[i] == p.Hash {
			reps++
			if i >= p.SearchRootLen || reps >= 2 {
				return true
			}
		}
	}
	return false
}

// IsInsufficientMaterial returns true if neither side can possibly checkmate.
func (p *Position) IsInsufficientMaterial() bool {
	if p.Pieces[White][Pawn]|p.Pieces[Black][Pawn] != 0 ||
		p.Pieces[White][Rook]|p.Pieces[Black][Rook] != 0 ||
		p.Pieces[White][Queen]|p.Pieces[Black][Queen] != 0 {
		return false
	}
	wKnights := p.Pieces[White][Knight].PopCount()
	wBishops := p.Pieces[White][Bishop].PopCount()
	bKnights := p.Pieces[Black][Knight].PopCount()
	bBishops := p.Pieces[Black][Bishop].PopCount()

	if wKnights+wBishops+bKnights+bBishops == 0 {
		return true
	}
	if wKnights+wBishops <= 1 && bKnights+bBishops == 0 {
		return true
	}
	if bKnights+bBishops <= 1 && wKnights+wBishops == 0 {
		return true
	}
	// K+two knights vs K.
	if wKnights == 2 && wBishops == 0 && bKnights+bBishops == 0 {
		return true
	}
	if bKnights == 2 && bBishops == 0 && wKnights+wBishops == 0 {
		return true
	}
	return false
}
