package brcvt

import "github.com/codylico/tcmplx-go/internal/ctxtmap"

// beginBlockData resets the per-meta-block decode scratch and enters the
// main insert-copy/literal/distance loop.
func (s *State) beginBlockData() {
	s.blockProduced = 0
	s.insertLeft = 0
	s.copyLeft = 0
	s.subState = 0
	s.step = (*State).readBlockData
}

// needSwitch reports whether stream which (0=literal, 1=insert-copy,
// 2=distance) has exhausted its current block and needs a new block
// type/count pair before the next symbol of that stream can be read.
// Streams with NBLTYPES<2 never switch: bcount was seeded with a sentinel
// in setupBlockTypeCount and is never decremented for them.
func (s *State) needSwitch(which int) bool {
	return s.nbtype[which] >= 2 && s.bcount[which] == 0
}

func (s *State) consumeBlockUnit(which int) {
	if s.nbtype[which] >= 2 {
		s.bcount[which]--
	}
}

// readBlockData decodes insert-copy symbols, the literals they insert, and
// the copies (with their distances) they trigger, until this meta-block's
// MLEN bytes have all been produced, then returns to readBlockHeader.
// Every read that might suspend mid-symbol is checkpointed into a State
// field before the next read is attempted, the same discipline
// zcvt/decode.go's readHuffmanDistance/readDistanceExtra split uses.
func (s *State) readBlockData() {
	for s.blockProduced < s.blkLen {
		if s.insertLeft == 0 && s.copyLeft == 0 {
			switch s.subState {
			case 0:
				if s.needSwitch(1) {
					s.beginBlockTypeSwitch(1, (*State).readBlockData)
					return
				}
				sym := s.readSymbol(&s.insCopyTrees[s.btype[1]])
				s.consumeBlockUnit(1)
				if int(sym) >= len(s.insCopyTable) {
					panic(ErrSanitize)
				}
				s.icRow = s.insCopyTable[sym]
				s.subState = 1
				fallthrough
			case 1:
				insExtra := s.readBits(uint(s.icRow.InsertBits))
				s.insertLeft = int(s.icRow.InsertFirst) + int(insExtra)
				s.subState = 2
				fallthrough
			case 2:
				cpyExtra := s.readBits(uint(s.icRow.CopyBits))
				s.copyLeft = int(s.icRow.CopyFirst) + int(cpyExtra)
				s.zeroDistTF = s.icRow.ZeroDistanceTF
				s.subState = 0
			}
			continue
		}

		if s.insertLeft > 0 {
			if s.needSwitch(0) {
				s.beginBlockTypeSwitch(0, (*State).readBlockData)
				return
			}
			s.readOneLiteral()
			if len(s.toRead) >= decodeChunkCap {
				return
			}
			continue
		}

		// copyLeft > 0: RFC 7932 §9.2 allows the meta-block's very last
		// insert-copy command to carry a copy length that's never acted
		// on, once the insert alone has already produced MLEN bytes.
		if s.blockProduced >= s.blkLen {
			s.copyLeft = 0
			continue
		}
		if s.zeroDistTF {
			d, err := s.ring.Decode(0, 0)
			if err != nil {
				panic(ErrSanitize)
			}
			s.finishCopy(d)
			if len(s.toRead) >= decodeChunkCap {
				return
			}
			continue
		}
		if s.needSwitch(2) {
			s.beginBlockTypeSwitch(2, (*State).readBlockData)
			return
		}
		switch s.subState {
		case 0:
			ctxd, err := ctxtmap.DistanceContext(uint32(s.copyLeft))
			if err != nil {
				panic(ErrSanitize)
			}
			cluster, err := s.distCtxMap.At(s.btype[2], int(ctxd))
			if err != nil {
				panic(ErrSanitize)
			}
			if int(cluster) >= len(s.distTrees) {
				panic(ErrSanitize)
			}
			dcode := s.readSymbol(&s.distTrees[cluster])
			s.consumeBlockUnit(2)
			s.distCode = dcode
			s.subState = 1
			fallthrough
		case 1:
			nb := s.ring.ExtraBits(s.distCode)
			extra := uint32(s.readBits(uint(nb)))
			d, err := s.ring.Decode(s.distCode, extra)
			if err != nil {
				panic(ErrSanitize)
			}
			s.subState = 0
			s.finishCopy(d)
		}
		if len(s.toRead) >= decodeChunkCap {
			return
		}
	}
	s.subState = 0
	s.step = (*State).readBlockHeader
}

// readOneLiteral decodes and emits a single literal byte through the
// literal context map (RFC 7932 §7.1), a single atomic read so it needs no
// sub-state of its own.
func (s *State) readOneLiteral() {
	mode := ctxtmap.LSB6
	if s.btype[0] < len(s.ctxModes) {
		mode = s.ctxModes[s.btype[0]]
	}
	ctx, err := ctxtmap.LiteralContext(mode, s.p1, s.p2)
	if err != nil {
		panic(ErrSanitize)
	}
	cluster, err := s.literalCtxMap.At(s.btype[0], int(ctx))
	if err != nil {
		panic(ErrSanitize)
	}
	if int(cluster) >= len(s.literalTrees) {
		panic(ErrSanitize)
	}
	sym := s.readSymbol(&s.literalTrees[cluster])
	s.consumeBlockUnit(0)
	b := byte(sym)
	if err := s.buffer.EmitLiteral([]byte{b}); err != nil {
		panic(ErrSanitize)
	}
	s.toRead = append(s.toRead, s.buffer.ReadFlush()...)
	s.p2, s.p1 = s.p1, b
	s.blockProduced++
	s.insertLeft--
}

// finishCopy emits the copy once its distance is known, updates the
// two-byte literal-context history from the copy's own tail, and resets
// copyLeft.
func (s *State) finishCopy(dist uint32) {
	wireDist := int(dist) - 1
	if wireDist < 0 {
		panic(ErrSanitize)
	}
	if err := s.buffer.EmitCopy(wireDist, s.copyLeft); err != nil {
		panic(ErrSanitize)
	}
	copied := s.buffer.ReadFlush()
	s.toRead = append(s.toRead, copied...)
	s.blockProduced += s.copyLeft
	if s.blockProduced > s.blkLen {
		panic(ErrSanitize)
	}
	switch len(copied) {
	case 0:
	case 1:
		s.p2 = s.p1
		s.p1 = copied[0]
	default:
		s.p2 = copied[len(copied)-2]
		s.p1 = copied[len(copied)-1]
	}
	s.copyLeft = 0
}

// beginBlockTypeSwitch reads a new block type and block count for stream
// which (RFC 7932 §9.2's block-switch command), then resumes at next.
func (s *State) beginBlockTypeSwitch(which int, next func(*State)) {
	s.switchWhich = which
	s.afterSwitch = next
	s.subState = 0
	s.step = (*State).readBlockTypeSymbol
}

func (s *State) readBlockTypeSymbol() {
	i := s.switchWhich
	sym := s.readSymbol(&s.btypeDec[i])
	var nt int
	switch {
	case sym == 0:
		nt = s.btypePrev2[i]
	case sym == 1:
		nt = s.btype[i] + 1
		if nt >= s.nbtype[i] {
			nt = 0
		}
	default:
		nt = int(sym) - 2
	}
	if nt < 0 || nt >= s.nbtype[i] {
		panic(ErrSanitize)
	}
	s.btypePrev2[i] = s.btypePrev1[i]
	s.btypePrev1[i] = s.btype[i]
	s.btype[i] = nt
	s.step = (*State).readBlockLenSymbol
}

func (s *State) readBlockLenSymbol() {
	i := s.switchWhich
	if s.subState == 0 {
		code := s.readSymbol(&s.blenDec[i])
		s.setupJ = int(code)
		s.subState = 1
	}
	row := blockCountRows[s.setupJ]
	extra := s.readBits(uint(row.InsertBits))
	s.bcount[i] = int(row.InsertFirst) + int(extra)
	s.subState = 0
	next := s.afterSwitch
	s.afterSwitch = nil
	next(s)
}
