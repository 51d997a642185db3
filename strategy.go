package ludo

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrUnknownStrategy        = errors.New("unknown bot strategy")
	ErrStrategyNotImplemented = errors.New("bot strategy not implemented")
	ErrNoLegalMove            = errors.New("no legal move")
)

// Strategy tags accepted by NewStrategy.
const (
	StrategyJorgen = "jorgen"
	StrategyHans   = "hans"
	StrategyMuller = "muller"
)

// Strategy picks which token a computer player moves.
type Strategy interface {
	Name() string
	// ChooseToken returns the index of the token to move. It returns
	// ErrNoLegalMove when every code is Stuck.
	ChooseToken(legal [TokensPerPlayer]Legality, tokens [TokensPerPlayer]Token) (int, error)
}

var strategies = map[string]func() Strategy{
	StrategyJorgen: func() Strategy { return Jorgen{} },
}

// reserved names are known but have no implementation yet.
var reserved = map[string]bool{
	StrategyHans:   true,
	StrategyMuller: true,
}

// NewStrategy builds the strategy registered under tag.
func NewStrategy(tag string) (Strategy, error) {
	tag = normalizeTag(tag)
	if build, ok := strategies[tag]; ok {
		return build(), nil
	}
	if reserved[tag] {
		return nil, fmt.Errorf("%w: %s", ErrStrategyNotImplemented, tag)
	}
	return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownStrategy, tag, strings.Join(StrategyNames(), ", "))
}

// StrategyNames lists the tags NewStrategy accepts.
func StrategyNames() []string {
	names := make([]string, 0, len(strategies))
	for name := range strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalizeTag(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	return strings.NewReplacer("ö", "o", "ü", "u").Replace(tag)
}

// Jorgen is the reference heuristic: leave home whenever possible, then
// push the lane token closest to finishing, then the ring token that has
// come furthest.
type Jorgen struct{}

func (Jorgen) Name() string { return StrategyJorgen }

func (Jorgen) ChooseToken(legal [TokensPerPlayer]Legality, tokens [TokensPerPlayer]Token) (int, error) {
	for i, l := range legal {
		if l == ExitHome {
			return i, nil
		}
	}

	best := -1
	for i, l := range legal {
		if l != Move || !tokens[i].InSafeZone {
			continue
		}
		if best < 0 || tokens[i].Position > tokens[best].Position {
			best = i
		}
	}
	if best >= 0 {
		return best, nil
	}

	for i, l := range legal {
		if l != Move {
			continue
		}
		if best < 0 || tokens[i].Progress > tokens[best].Progress {
			best = i
		}
	}
	if best >= 0 {
		return best, nil
	}
	return -1, ErrNoLegalMove
}
