package search

import "hyperchess/boardgame"

// PVLine tracks the principal variation found at a given search depth,
// mirrored from the teacher's PVLine type, used only for human-readable
// progress output.
type PVLine struct {
	Moves []boardgame.Move
}

func (pv *PVLine) set(first boardgame.Move, rest PVLine) {
	pv.Moves = append(pv.Moves[:0], first)
	pv.Moves = append(pv.Moves, rest.Moves...)
}
