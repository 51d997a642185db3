package ludo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStrategy(t *testing.T) {
	tests := []struct {
		tag     string
		want    string
		wantErr error
	}{
		{tag: "jorgen", want: StrategyJorgen},
		{tag: " Jörgen ", want: StrategyJorgen},
		{tag: "hans", wantErr: ErrStrategyNotImplemented},
		{tag: "Müller", wantErr: ErrStrategyNotImplemented},
		{tag: "", wantErr: ErrUnknownStrategy},
		{tag: "random", wantErr: ErrUnknownStrategy},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			s, err := NewStrategy(tt.tag)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, s)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.Name())
		})
	}
	assert.Equal(t, []string{StrategyJorgen}, StrategyNames())

	_, err := NewStrategy("random")
	assert.ErrorContains(t, err, "known: jorgen")
}

func TestJorgen_ChooseToken(t *testing.T) {
	home := func(i int) Token { return NewToken(Green, i) }
	ring := func(i, progress int) Token {
		return Token{Color: Green, Index: i, Position: WrapTrack(13 + progress), Progress: progress}
	}
	lane := func(i, cell int) Token {
		return Token{Color: Green, Index: i, Position: cell, Progress: laneThreshold + cell, InSafeZone: true}
	}

	tests := []struct {
		name    string
		tokens  [TokensPerPlayer]Token
		dice    int
		want    int
		wantErr error
	}{
		{
			name:   "leaves home first",
			tokens: [TokensPerPlayer]Token{ring(0, 40), lane(1, 2), home(2), home(3)},
			dice:   6,
			want:   2,
		},
		{
			name:   "lane token closest to finish",
			tokens: [TokensPerPlayer]Token{ring(0, 45), lane(1, 1), lane(2, 3), home(3)},
			dice:   2,
			want:   2,
		},
		{
			name:   "skips lane token that would overshoot",
			tokens: [TokensPerPlayer]Token{ring(0, 12), lane(1, 5), lane(2, 1), home(3)},
			dice:   3,
			want:   2,
		},
		{
			name:   "furthest ring token",
			tokens: [TokensPerPlayer]Token{ring(0, 12), ring(1, 30), ring(2, 7), home(3)},
			dice:   4,
			want:   1,
		},
		{
			name:    "nothing to move",
			tokens:  [TokensPerPlayer]Token{home(0), home(1), home(2), lane(3, 6)},
			dice:    5,
			want:    -1,
			wantErr: ErrNoLegalMove,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Jorgen{}.ChooseToken(Legalities(tt.tokens, MustDice(tt.dice)), tt.tokens)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
