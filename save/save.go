// Package save stores a match snapshot as a fixed-layout binary record
// inside a gzip stream.
package save

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/tkahng/ludo"
	"golang.org/x/build/pargzip"
)

var (
	ErrNoSaveData  = errors.New("no save data")
	ErrCorruptSave = errors.New("corrupt save data")
	ErrUnwritable  = errors.New("save target not writable")
)

const (
	version uint16 = 1
	noColor uint8  = 0xff
)

// strategySz is the fixed width of a strategy tag on disk.
const strategySz = 16

var magic = [4]byte{'L', 'U', 'D', 'O'}

type header struct {
	Magic   [4]byte
	Version uint16
	MatchID [16]byte
	Players uint8
}

type playerRecord struct {
	Color     uint8
	Computer  uint8
	Strategy  [strategySz]byte
	MoveCount uint32
}

type tokenRecord struct {
	Index    uint8
	Position uint8
	Progress uint8
	Safe     uint8
}

// record is the body in its on-disk order. Token arrays are stored red,
// green, blue, yellow.
type record struct {
	Players     [ludo.NumColors]playerRecord
	SlotColors  [ludo.NumColors]uint8
	Red         [ludo.TokensPerPlayer]tokenRecord
	Green       [ludo.TokensPerPlayer]tokenRecord
	Blue        [ludo.TokensPerPlayer]tokenRecord
	Yellow      [ludo.TokensPerPlayer]tokenRecord
	ActiveSlot  uint32
	TurnCounter uint32
}

func (r *record) tokens(c ludo.Color) *[ludo.TokensPerPlayer]tokenRecord {
	switch c {
	case ludo.Red:
		return &r.Red
	case ludo.Green:
		return &r.Green
	case ludo.Blue:
		return &r.Blue
	default:
		return &r.Yellow
	}
}

// Encode writes s to w.
func Encode(w io.Writer, s ludo.Snapshot) error {
	if len(s.Players) > ludo.NumColors {
		return fmt.Errorf("encode: %d players", len(s.Players))
	}
	h := header{Magic: magic, Version: version, MatchID: s.MatchID, Players: uint8(len(s.Players))}

	var r record
	for i := range r.SlotColors {
		r.SlotColors[i] = noColor
	}
	for i, p := range s.Players {
		if len(p.Strategy) > strategySz {
			return fmt.Errorf("encode: strategy name %q too long", p.Strategy)
		}
		pr := playerRecord{Color: uint8(p.Color), MoveCount: uint32(p.MoveCount)}
		if p.Computer {
			pr.Computer = 1
		}
		copy(pr.Strategy[:], p.Strategy)
		r.Players[i] = pr
		r.SlotColors[i] = uint8(p.Color)
	}
	for _, c := range ludo.Colors {
		dst := r.tokens(c)
		for i, t := range s.Tokens[c] {
			dst[i] = tokenRecord{
				Index:    uint8(t.Index),
				Position: uint8(t.Position),
				Progress: uint8(t.Progress),
			}
			if t.InSafeZone {
				dst[i].Safe = 1
			}
		}
	}
	r.ActiveSlot = uint32(s.Turn.ActiveSlot)
	r.TurnCounter = uint32(s.Turn.TurnCounter)

	zw := pargzip.NewWriter(w)
	if err := binary.Write(zw, binary.LittleEndian, h); err != nil {
		return err
	}
	if err := binary.Write(zw, binary.LittleEndian, r); err != nil {
		return err
	}
	return zw.Close()
}

// Decode reads a snapshot written by Encode. Every failure is ErrCorruptSave.
func Decode(rd io.Reader) (ludo.Snapshot, error) {
	zr, err := gzip.NewReader(rd)
	if err != nil {
		return ludo.Snapshot{}, fmt.Errorf("%w: %v", ErrCorruptSave, err)
	}
	defer zr.Close()

	var h header
	if err := binary.Read(zr, binary.LittleEndian, &h); err != nil {
		return ludo.Snapshot{}, fmt.Errorf("%w: header: %v", ErrCorruptSave, err)
	}
	if h.Magic != magic {
		return ludo.Snapshot{}, fmt.Errorf("%w: not a ludo save", ErrCorruptSave)
	}
	if h.Version != version {
		return ludo.Snapshot{}, fmt.Errorf("%w: unknown version %d", ErrCorruptSave, h.Version)
	}
	if h.Players < 2 || h.Players > ludo.NumColors {
		return ludo.Snapshot{}, fmt.Errorf("%w: %d players", ErrCorruptSave, h.Players)
	}
	var r record
	if err := binary.Read(zr, binary.LittleEndian, &r); err != nil {
		return ludo.Snapshot{}, fmt.Errorf("%w: body: %v", ErrCorruptSave, err)
	}

	s := ludo.Snapshot{
		MatchID: uuid.UUID(h.MatchID),
		Turn: ludo.TurnState{
			ActiveSlot:  int(r.ActiveSlot),
			TurnCounter: int(r.TurnCounter),
			Phase:       ludo.PhaseAwaitingRoll,
		},
	}
	for i := 0; i < int(h.Players); i++ {
		pr := r.Players[i]
		if pr.Color != r.SlotColors[i] {
			return ludo.Snapshot{}, fmt.Errorf("%w: slot %d color mismatch", ErrCorruptSave, i)
		}
		s.Players = append(s.Players, ludo.Player{
			Slot:      i,
			Color:     ludo.Color(pr.Color),
			Computer:  pr.Computer == 1,
			Strategy:  string(bytes.TrimRight(pr.Strategy[:], "\x00")),
			MoveCount: int(pr.MoveCount),
		})
	}
	for _, c := range ludo.Colors {
		for i, tr := range r.tokens(c) {
			s.Tokens[c][i] = ludo.Token{
				Color:      c,
				Index:      int(tr.Index),
				Position:   int(tr.Position),
				Progress:   int(tr.Progress),
				InSafeZone: tr.Safe == 1,
			}
		}
	}
	if err := s.Validate(); err != nil {
		return ludo.Snapshot{}, fmt.Errorf("%w: %v", ErrCorruptSave, err)
	}
	return s, nil
}

// File is a save slot on disk. It satisfies ludo.Saver.
type File struct {
	Path string
	log  *slog.Logger
}

var _ ludo.Saver = (*File)(nil)

func NewFile(path string, logger *slog.Logger) *File {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &File{Path: path, log: logger}
}

// Save replaces the file atomically.
func (f *File) Save(s ludo.Snapshot) error {
	dir := filepath.Dir(f.Path)
	tmp, err := os.CreateTemp(dir, ".ludo-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnwritable, err)
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, s); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: %v", ErrUnwritable, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnwritable, err)
	}
	if err := os.Rename(tmp.Name(), f.Path); err != nil {
		return fmt.Errorf("%w: %v", ErrUnwritable, err)
	}
	f.log.Info("match saved", "path", f.Path, "match_id", s.MatchID.String(), "turn", s.Turn.TurnCounter)
	return nil
}

// Load reads the file. A missing file is ErrNoSaveData.
func (f *File) Load() (ludo.Snapshot, error) {
	fh, err := os.Open(f.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ludo.Snapshot{}, fmt.Errorf("%w: %s", ErrNoSaveData, f.Path)
		}
		return ludo.Snapshot{}, fmt.Errorf("failed to open save: %w", err)
	}
	defer fh.Close()

	s, err := Decode(fh)
	if err != nil {
		f.log.Error("load failed", "path", f.Path, "error", err)
		return ludo.Snapshot{}, err
	}
	f.log.Info("match loaded", "path", f.Path, "match_id", s.MatchID.String())
	return s, nil
}
