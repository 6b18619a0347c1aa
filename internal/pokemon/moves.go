package pokemon

import (
	"sort"
	"strings"
)

// MoveFilterAll matches every value of a move filter field.
const MoveFilterAll = "all"

// Move is a move a Pokémon can learn, joined with the move's details.
// Power and Accuracy are nil for status moves and fixed-damage moves.
type Move struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	Type           string `json:"type"`
	Power          *int   `json:"power"`
	PP             int    `json:"pp"`
	Accuracy       *int   `json:"accuracy"`
	Priority       int    `json:"priority"`
	DamageClass    string `json:"damage_class"` // physical, special, status
	Effect         string `json:"effect,omitempty"`
	LearnMethod    string `json:"learn_method"` // level-up, machine, egg, tutor
	LevelLearnedAt int    `json:"level_learned_at"`
}

// MoveFilter narrows a move list. Empty fields and "all" match everything.
type MoveFilter struct {
	Search string
	Type   string
	Method string
}

// Matches reports whether a move passes the filter.
func (f MoveFilter) Matches(m Move) bool {
	if f.Search != "" && !strings.Contains(strings.ToLower(m.Name), strings.ToLower(f.Search)) {
		return false
	}
	if f.Type != "" && f.Type != MoveFilterAll && m.Type != f.Type {
		return false
	}
	method := m.LearnMethod
	if method == "" {
		method = "unknown"
	}
	if f.Method != "" && f.Method != MoveFilterAll && method != f.Method {
		return false
	}
	return true
}

// FilterMoves returns the moves that pass the filter, in input order.
func FilterMoves(moves []Move, f MoveFilter) []Move {
	var out []Move
	for _, m := range moves {
		if f.Matches(m) {
			out = append(out, m)
		}
	}
	return out
}

// MoveTypes returns the distinct move types in first-seen order.
func MoveTypes(moves []Move) []string {
	return distinct(moves, func(m Move) string { return m.Type })
}

// LearnMethods returns the distinct learn methods in first-seen order.
func LearnMethods(moves []Move) []string {
	return distinct(moves, func(m Move) string {
		if m.LearnMethod == "" {
			return "unknown"
		}
		return m.LearnMethod
	})
}

// SortMoves orders moves by level learned, then by name. Moves learned at
// level 0 (machines, eggs, tutors) sort after level-up moves.
func SortMoves(moves []Move) {
	sort.SliceStable(moves, func(i, j int) bool {
		li, lj := moves[i].LevelLearnedAt, moves[j].LevelLearnedAt
		if (li == 0) != (lj == 0) {
			return lj == 0
		}
		if li != lj {
			return li < lj
		}
		return moves[i].Name < moves[j].Name
	})
}

func distinct(moves []Move, key func(Move) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range moves {
		k := key(m)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}
