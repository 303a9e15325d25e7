package main

import (
	"context"
	"io"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"taglint/internal/core/checker"
	"taglint/internal/core/dispatch"
	"taglint/internal/core/grammar"
	perr "taglint/internal/platform/errors"
	lintmod "taglint/internal/services/lint/module"
)

type ruleDoc struct {
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
	FocusKey string `yaml:"focus_key,omitempty"`
}

type catalog struct {
	RuleSets       map[string][]ruleDoc `yaml:"rule_sets"`
	Tagging        []string             `yaml:"tagging"`
	SpeedConstants []string             `yaml:"speed_constants"`
	Destinations   []string             `yaml:"destinations"`
}

func rulesCmd() *cobra.Command {
	var classes string
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Print the classes and rule sets as YAML",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeRules(cmd.OutOrStdout(), classes)
		},
	}
	cmd.Flags().StringVar(&classes, "classes", "", "Classes YAML replacing the embedded lists")
	return cmd
}

func writeRules(w io.Writer, classesFile string) error {
	classes, err := lintmod.LoadClasses(classesFile)
	if err != nil {
		return err
	}
	doc, err := classes.Document()
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "render classes")
	}

	d := dispatch.New(classes, dispatch.SinkFunc(func(context.Context, checker.Defect) error { return nil }))
	cat := catalog{
		RuleSets:       map[string][]ruleDoc{},
		Tagging:        d.TaggingCategories(),
		SpeedConstants: grammar.SpeedConstants(),
	}
	for class, rs := range d.RuleSets() {
		for _, c := range rs {
			cat.RuleSets[class] = append(cat.RuleSets[class], ruleDoc{Name: c.Name, Category: c.Category, FocusKey: c.FocusKey})
		}
	}
	for _, dst := range d.Destinations() {
		cat.Destinations = append(cat.Destinations, dst.Name())
	}
	sort.Strings(cat.Destinations)

	out, err := yaml.Marshal(cat)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "render rule sets")
	}
	for _, b := range [][]byte{doc, []byte("---\n"), out} {
		if _, err := w.Write(b); err != nil {
			return perr.Wrap(err, perr.ErrorCodeIO, "write rules")
		}
	}
	return nil
}
