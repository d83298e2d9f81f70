package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/mixxbar/mixx/pkg/ui"
)

var glamourStyle string

func init() {
	rootCmd.Flags().StringVar(&glamourStyle, "style", "",
		"Markdown style for cocktail pages: dark, light, notty (default: detect)")
}

func runTUI(cmd *cobra.Command, args []string) error {
	if !isTerminal(cmd.OutOrStdout()) {
		return errors.New("the interactive interface needs a terminal; see `mixx --help` for commands")
	}
	return withApp(func(cmd *cobra.Command, _ []string, a *app) error {
		return ui.Run(cmd.Context(), ui.Options{
			Backend:             a.client,
			Account:             a.client,
			Session:             a.sess,
			Logger:              a.logger,
			Facets:              a.cfg.FacetSet(),
			SearchDebounce:      a.cfg.Search.Debounce,
			RecommendationCount: a.cfg.Recommendations.Count,
			GlamourStyle:        glamourStyle,
			WatchPath:           a.store.Path(),
		})
	})(cmd, args)
}
