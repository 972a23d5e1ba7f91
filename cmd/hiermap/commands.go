// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/xlab/treeprint"

	"gitlab.com/fisherprime/hiermap"
	"gitlab.com/fisherprime/hiermap/lexer"
)

type (
	recordMap = hiermap.Map[string, *hiermap.Record[string]]

	// app holds the state shared by the commands of a single invocation.
	app struct {
		files []string
		debug bool

		splitter  string
		endMarker string

		cfg *hiermap.Config
		m   *recordMap
	}
)

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "hiermap",
		Short:         "Inspect hierarchies of keyed records",
		Long:          "Load keyed records naming their parents from JSON or YAML files & query the resulting hierarchy.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logger := logrus.New()
			logger.SetOutput(cmd.ErrOrStderr())
			if a.debug {
				logger.SetLevel(logrus.DebugLevel)
			}

			a.cfg = &hiermap.Config{Logger: logger, Debug: a.debug}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringSliceVarP(&a.files, "file", "f", nil, "record files (.json, .yaml), loaded in order")
	flags.BoolVar(&a.debug, "debug", false, "enable debug logging")
	flags.StringVar(&a.splitter, "splitter", string(lexer.DefaultSplitter), "outline value splitter")
	flags.StringVar(&a.endMarker, "end-marker", string(lexer.DefaultEndMarker), "outline end marker")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "tree [KEY]",
			Short: "Print the hierarchy below KEY, or every top-level record",
			Args:  cobra.MaximumNArgs(1),
			RunE:  a.withMap(a.runTree),
		},
		&cobra.Command{
			Use:   "children KEY",
			Short: "List the immediate children of KEY",
			Args:  cobra.ExactArgs(1),
			RunE: a.withMap(func(cmd *cobra.Command, args []string) error {
				return printKeys(cmd.OutOrStdout(), hiermap.KeysOf[string](a.m.Children(args[0])))
			}),
		},
		&cobra.Command{
			Use:   "descendants KEY",
			Short: "List every descendant of KEY",
			Args:  cobra.ExactArgs(1),
			RunE: a.withMap(func(cmd *cobra.Command, args []string) error {
				keys, err := a.m.ChildKeysRecursive(args[0])
				if err != nil {
					return err
				}

				return printKeys(cmd.OutOrStdout(), keys)
			}),
		},
		&cobra.Command{
			Use:   "parent KEY",
			Short: "Print the parent of KEY",
			Args:  cobra.ExactArgs(1),
			RunE: a.withMap(func(cmd *cobra.Command, args []string) error {
				parent, ok, err := a.m.Parent(args[0])
				if err != nil || !ok {
					return err
				}

				return printKeys(cmd.OutOrStdout(), []string{parent.Key()})
			}),
		},
		&cobra.Command{
			Use:   "root KEY",
			Short: "Print the top-most ancestor of KEY",
			Args:  cobra.ExactArgs(1),
			RunE: a.withMap(func(cmd *cobra.Command, args []string) error {
				key, err := a.m.RootKey(args[0])
				if err != nil {
					return err
				}

				return printKeys(cmd.OutOrStdout(), []string{key})
			}),
		},
		&cobra.Command{
			Use:   "levels KEY",
			Short: "List the descendants of KEY, a line per depth",
			Args:  cobra.ExactArgs(1),
			RunE: a.withMap(func(cmd *cobra.Command, args []string) error {
				levels, err := a.m.ChildrenByLevel(commandContext(cmd), args[0])
				if err != nil {
					return err
				}

				lines := make([]string, len(levels))
				for index, keys := range hiermap.LevelKeys[string](levels) {
					lines[index] = strings.Join(keys, " ")
				}

				return printKeys(cmd.OutOrStdout(), lines)
			}),
		},
		&cobra.Command{
			Use:   "leaves KEY",
			Short: "List the records without children at or below KEY",
			Args:  cobra.ExactArgs(1),
			RunE: a.withMap(func(cmd *cobra.Command, args []string) error {
				leaves, err := a.m.Leaves(commandContext(cmd), args[0])
				if err != nil {
					return err
				}

				return printKeys(cmd.OutOrStdout(), hiermap.KeysOf[string](leaves))
			}),
		},
		&cobra.Command{
			Use:   "outline KEY",
			Short: "Serialize KEY & its descendants into an outline",
			Args:  cobra.ExactArgs(1),
			RunE: a.withMap(func(cmd *cobra.Command, args []string) error {
				lCfg, err := a.lexerConfig()
				if err != nil {
					return err
				}

				output, err := a.m.Serialize(commandContext(cmd), args[0], lCfg)
				if err != nil {
					return err
				}

				return printKeys(cmd.OutOrStdout(), []string{output})
			}),
		},
		&cobra.Command{
			Use:   "decode OUTLINE",
			Short: "Print the hierarchy held by an outline",
			Args:  cobra.ExactArgs(1),
			RunE:  a.runDecode,
		},
	)

	return rootCmd
}

// withMap loads the configured files before running fn.
func (a *app) withMap(fn func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a.m = hiermap.New(hiermap.WithConfig[string, *hiermap.Record[string]](a.cfg))

		loader := hiermap.NewLoader(
			hiermap.WithLoaderConfig[string, *hiermap.Record[string]](a.cfg),
			hiermap.WithFiles[string, *hiermap.Record[string]](a.files...),
		)
		if err := loader.Load(commandContext(cmd), a.m); err != nil {
			return err
		}

		a.cfg.Logger.Debugf("loaded %d records from %d files", a.m.Len(), len(a.files))

		return fn(cmd, args)
	}
}

func (a *app) lexerConfig() (cfg *lexer.Config, err error) {
	splitter, endMarker := []rune(a.splitter), []rune(a.endMarker)
	if len(splitter) != 1 || len(endMarker) != 1 {
		return nil, fmt.Errorf("markers must be single runes: %q, %q", a.splitter, a.endMarker)
	}

	return &lexer.Config{
		Logger:    a.cfg.Logger,
		Debug:     a.cfg.Debug,
		Splitter:  splitter[0],
		EndMarker: endMarker[0],
	}, nil
}

func (a *app) runTree(cmd *cobra.Command, args []string) error {
	var (
		tree treeprint.Tree
		tops []*hiermap.Record[string]
	)

	if len(args) > 0 {
		item, err := a.m.Get(args[0])
		if err != nil {
			return err
		}

		tree = treeprint.NewWithRoot(item.Name())
		tops = a.m.Children(item.Key())
	} else {
		tree = treeprint.New()
		tops = a.m.TopLevelItems()
	}

	visited := make(map[string]struct{})
	if len(args) > 0 {
		visited[args[0]] = struct{}{}
	}
	if err := addBranches(a.m, tree, tops, visited); err != nil {
		return err
	}

	_, err := fmt.Fprint(cmd.OutOrStdout(), tree.String())

	return err
}

func (a *app) runDecode(cmd *cobra.Command, args []string) error {
	lCfg, err := a.lexerConfig()
	if err != nil {
		return err
	}

	m, err := hiermap.Deserialize(commandContext(cmd), hiermap.ParseString,
		lexer.WithConfig(*lCfg), lexer.WithSource(strings.NewReader(args[0])))
	if err != nil {
		return err
	}

	tree := treeprint.New()
	if err = addBranches(m, tree, m.TopLevelItems(), make(map[string]struct{})); err != nil {
		return err
	}

	_, err = fmt.Fprint(cmd.OutOrStdout(), tree.String())

	return err
}

// addBranches attaches items & their descendants to tree in display order.
func addBranches(m *recordMap, tree treeprint.Tree, items []*hiermap.Record[string], visited map[string]struct{}) error {
	hiermap.SortForDisplay(items)

	for _, item := range items {
		if _, ok := visited[item.Key()]; ok {
			return fmt.Errorf("(%s) %w", item.Key(), hiermap.ErrCyclic)
		}
		visited[item.Key()] = struct{}{}

		children := m.Children(item.Key())
		if len(children) < 1 {
			tree.AddNode(item.Name())
			continue
		}

		if err := addBranches(m, tree.AddBranch(item.Name()), children, visited); err != nil {
			return err
		}
	}

	return nil
}

func printKeys(w io.Writer, keys []string) error {
	for _, key := range keys {
		if _, err := fmt.Fprintln(w, key); err != nil {
			return err
		}
	}

	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}

	return context.Background()
}
