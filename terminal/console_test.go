package terminal

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tkahng/ludo"
)

func newConsole(input string) (*Console, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return New(strings.NewReader(input), out, ludo.NewFixedDice(4), WithColor(false)), out
}

func TestConsole_RollDice(t *testing.T) {
	c, out := newConsole("\n")
	d, err := c.RollDice(context.Background(), ludo.NewHuman(ludo.Blue))
	require.NoError(t, err)
	assert.Equal(t, 4, d.Value())
	assert.Contains(t, out.String(), "press Enter")

	_, err = c.RollDice(context.Background(), ludo.NewHuman(ludo.Blue))
	assert.ErrorIs(t, err, ErrInputClosed)
}

func TestConsole_ChooseToken(t *testing.T) {
	tokens := ludo.NewBoard().Tokens(ludo.Red)
	tokens[2] = ludo.Token{Color: ludo.Red, Index: 2, Position: 7, Progress: 7}
	d := ludo.MustDice(6)
	legal := ludo.Legalities(tokens, d)

	tests := []struct {
		input string
		want  int
	}{
		{input: "3\n", want: 2},
		{input: " 1 \n", want: 0},
		{input: "nine\n", want: -1},
		{input: "0\n", want: -1},
	}
	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			c, out := newConsole(tt.input)
			got, err := c.ChooseToken(context.Background(), ludo.NewHuman(ludo.Red), d, legal, tokens)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "-> cell 13")
			assert.Contains(t, out.String(), "-> leave home to cell 1")
		})
	}
}

func TestConsole_ChooseSymbol(t *testing.T) {
	c, out := newConsole("x\n\nRock\n")
	defender := ludo.Token{Color: ludo.Green, Index: 1, Position: 20, Progress: 7}
	s, err := c.ChooseSymbol(context.Background(), ludo.NewHuman(ludo.Red), defender)
	require.NoError(t, err)
	assert.Equal(t, ludo.Rock, s)
	assert.Equal(t, 2, strings.Count(out.String(), "Please answer"))
	assert.Contains(t, out.String(), "G2")
}

func TestParseSymbol(t *testing.T) {
	tests := []struct {
		in   string
		want ludo.Symbol
		ok   bool
	}{
		{"p", ludo.Paper, true},
		{"PAPER", ludo.Paper, true},
		{"s", ludo.Scissors, true},
		{"r", ludo.Rock, true},
		{"lizard", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseSymbol(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestConsole_Pause(t *testing.T) {
	tests := []struct {
		input string
		want  ludo.PauseChoice
	}{
		{"1\n", ludo.PauseResume},
		{"\n", ludo.PauseResume},
		{"2\n", ludo.PauseSave},
		{"7\n3\n", ludo.PauseSaveAndExit},
		{"4\n", ludo.PauseExit},
	}
	for _, tt := range tests {
		c, _ := newConsole(tt.input)
		got, err := c.Pause(context.Background())
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestConsole_Cancelled(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	c := New(pr, io.Discard, ludo.NewFixedDice(1))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.RollDice(ctx, ludo.NewHuman(ludo.Red))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestConsole_Render(t *testing.T) {
	c, out := newConsole("")
	s := testSnapshot()
	c.Render(s)
	assert.NotContains(t, out.String(), clearScreen)
	assert.Contains(t, out.String(), "red (you)")

	out.Reset()
	c.Notify(ludo.Event{Kind: ludo.EventDiceRolled, Color: ludo.Green, Dice: 3})
	c.Notify(ludo.Event{Kind: ludo.EventNoMove, Color: ludo.Red, Dice: 2})
	c.Notify(ludo.Event{Kind: ludo.EventTokenCaptured, Color: ludo.Red, Payload: ludo.TokenCapturedPayload{
		Captured: ludo.Token{Color: ludo.Green, Index: 0},
		By:       ludo.Token{Color: ludo.Red, Index: 3},
	}})
	c.Notify(ludo.Event{Kind: ludo.EventMatchOver, Payload: ludo.MatchOverPayload{
		Result: ludo.Result{Winner: 1, FinishOrder: []int{1}},
	}})
	assert.Equal(t, "green bot (jorgen) rolled 3\n"+
		"red (you) cannot move with 2\n"+
		"R4 sent G1 home\n"+
		"Every bot finished. Finish order: green bot (jorgen)\n", out.String())
}

func TestConsole_PlaysMatch(t *testing.T) {
	// Enough answers to drive the human seat for a few turns. Lines that do
	// not fit a prompt are rejected and asked again.
	var sb strings.Builder
	for range 2000 {
		sb.WriteString("\n1\np\n")
	}
	c := New(strings.NewReader(sb.String()), io.Discard, ludo.NewRoller(5), WithColor(false))
	m, err := ludo.NewMatch(c, []string{"jorgen"}, ludo.Options{Rand: ludo.NewRoller(6), Renderer: c})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for range 6 {
		require.NoError(t, m.PlayTurn(ctx))
	}
	assert.Equal(t, 6, m.State().TurnCounter)
}

// endless answers every read with another empty line.
type endless struct{}

func (endless) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = '\n'
	}
	return len(p), nil
}

func TestConsole_Close(t *testing.T) {
	c := New(endless{}, io.Discard, ludo.NewFixedDice(4), WithColor(false))
	c.Close()
	c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	var err error
	for err == nil {
		_, err = c.readLine(ctx)
	}
	assert.ErrorIs(t, err, ErrInputClosed)
}
