package repository

import (
	"slices"
	"sort"

	"github.com/okian/dugout/internal/domain/model"
)

func cloneDrill(d model.Drill) model.Drill {
	d.TargetZones = slices.Clone(d.TargetZones)
	d.PitchTypes = slices.Clone(d.PitchTypes)
	d.BaseRunners = slices.Clone(d.BaseRunners)
	return d
}

func cloneGoal(g model.Goal) model.Goal {
	g.TargetZones = slices.Clone(g.TargetZones)
	g.PitchTypes = slices.Clone(g.PitchTypes)
	return g
}

func sortByID[T any](items []T, id func(T) string) {
	sort.Slice(items, func(i, j int) bool { return id(items[i]) < id(items[j]) })
}
