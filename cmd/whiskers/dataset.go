package main

import (
	"fmt"
	"sort"

	"github.com/bytearena/whiskers/car"
	"github.com/bytearena/whiskers/config"
	"github.com/bytearena/whiskers/training"
	"github.com/davecgh/go-spew/spew"
	bettererrors "github.com/xtuc/better-errors"
)

type labelCount struct {
	Action car.Action
	Count  int
}

// countActions orders the labels of the store by decreasing count.
func countActions(store *training.Store) ([]labelCount, error) {
	res := make([]labelCount, 0)

	for label, count := range store.CountByLabel() {
		action, err := car.DecodeLabel(label)
		if err != nil {
			return nil, err
		}

		res = append(res, labelCount{Action: action, Count: count})
	}

	sort.Slice(res, func(i, j int) bool {
		if res[i].Count != res[j].Count {
			return res[i].Count > res[j].Count
		}

		return res[i].Action.Label() < res[j].Action.Label()
	})

	return res, nil
}

func datasetInspectAction(conf config.Config, filename string, dump bool) error {
	store := training.NewStore(conf.Epsilon)

	if err := store.LoadFile(filename); err != nil {
		return bettererrors.
			New("Could not load dataset").
			With(bettererrors.NewFromErr(err)).
			SetContext("dataset", filename)
	}

	counts, err := countActions(store)
	if err != nil {
		return bettererrors.
			New("Dataset contains an unknown action").
			With(bettererrors.NewFromErr(err)).
			SetContext("dataset", filename)
	}

	fmt.Printf("%s: %d samples of %d features\n", filename, store.Len(), store.Dimension())

	for _, count := range counts {
		fmt.Printf("  %-28s %d\n", count.Action, count.Count)
	}

	if dump {
		spew.Dump(store.ToSerializable())
	}

	return nil
}
