package repository

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"go.uber.org/multierr"

	"github.com/okian/dugout/internal/domain/model"
)

// Seed is a dataset loaded at startup.
type Seed struct {
	Teams    []model.Team    `koanf:"teams"`
	Players  []model.Player  `koanf:"players"`
	Drills   []model.Drill   `koanf:"drills"`
	Goals    []model.Goal    `koanf:"goals"`
	Sessions []model.Session `koanf:"sessions"`
}

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// dateHook accepts RFC 3339 timestamps and plain calendar dates.
func dateHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(time.Time{}) {
		return data, nil
	}
	str, ok := data.(string)
	if !ok {
		return data, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, str); err == nil {
			return t, nil
		}
	}
	return nil, fmt.Errorf("unrecognized date %q", str)
}

// ReadSeed parses a YAML dataset.
func ReadSeed(path string) (Seed, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return Seed{}, fmt.Errorf("read seed %s: %w", path, err)
	}
	var seed Seed
	err := k.UnmarshalWithConf("", &seed, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				dateHook,
				mapstructure.TextUnmarshallerHookFunc(),
			),
			Result:           &seed,
			WeaklyTypedInput: true,
			TagName:          "koanf",
		},
	})
	if err != nil {
		return Seed{}, fmt.Errorf("decode seed %s: %w", path, err)
	}
	return seed, nil
}

// Validate reports every structural problem in the dataset at once.
func (sd Seed) Validate() error {
	var errs error
	teams := map[string]bool{}
	for i, t := range sd.Teams {
		if t.ID == "" {
			errs = multierr.Append(errs, fmt.Errorf("%w: teams[%d] has no id", ErrInvalidRecord, i))
		}
		teams[t.ID] = true
	}
	players := map[string]bool{}
	for i, p := range sd.Players {
		if p.ID == "" {
			errs = multierr.Append(errs, fmt.Errorf("%w: players[%d] has no id", ErrInvalidRecord, i))
		}
		if !teams[p.TeamID] {
			errs = multierr.Append(errs, fmt.Errorf("%w: players[%d] references team %q", ErrNotFound, i, p.TeamID))
		}
		players[p.ID] = true
	}
	for i, d := range sd.Drills {
		if !teams[d.TeamID] {
			errs = multierr.Append(errs, fmt.Errorf("%w: drills[%d] references team %q", ErrNotFound, i, d.TeamID))
		}
	}
	for i, g := range sd.Goals {
		if g.Scope == model.ScopePersonal && !players[g.OwnerID] {
			errs = multierr.Append(errs, fmt.Errorf("%w: goals[%d] references player %q", ErrNotFound, i, g.OwnerID))
		}
		if !g.Metric.Valid() {
			errs = multierr.Append(errs, fmt.Errorf("%w: goals[%d] has unknown metric %q", ErrInvalidRecord, i, g.Metric))
		}
	}
	for i, s := range sd.Sessions {
		if !players[s.PlayerID] {
			errs = multierr.Append(errs, fmt.Errorf("%w: sessions[%d] references player %q", ErrNotFound, i, s.PlayerID))
		}
	}
	return errs
}

// Apply writes the dataset in dependency order. Every failing record is
// reported; the rest are still written.
func (sd Seed) Apply(ctx context.Context, w Writer) error {
	var errs error
	for _, t := range sd.Teams {
		_, err := w.AddTeam(ctx, t)
		errs = multierr.Append(errs, err)
	}
	for _, p := range sd.Players {
		_, err := w.AddPlayer(ctx, p)
		errs = multierr.Append(errs, err)
	}
	for _, d := range sd.Drills {
		_, err := w.AddDrill(ctx, d)
		errs = multierr.Append(errs, err)
	}
	for _, g := range sd.Goals {
		_, err := w.AddGoal(ctx, g)
		errs = multierr.Append(errs, err)
	}
	for _, s := range sd.Sessions {
		_, err := w.LogSession(ctx, s)
		errs = multierr.Append(errs, err)
	}
	return errs
}

// LoadSeed reads, validates and applies a dataset. Nothing is written when
// validation fails.
func LoadSeed(ctx context.Context, w Writer, path string) error {
	seed, err := ReadSeed(path)
	if err != nil {
		return err
	}
	if err := seed.Validate(); err != nil {
		return fmt.Errorf("seed %s: %w", path, err)
	}
	return seed.Apply(ctx, w)
}
