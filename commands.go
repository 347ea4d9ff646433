package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/metcalfc/nrr/internal/charset"
	"github.com/metcalfc/nrr/internal/config"
	"github.com/metcalfc/nrr/internal/library"
	"github.com/metcalfc/nrr/internal/logger"
	"github.com/metcalfc/nrr/internal/reader"
	"github.com/metcalfc/nrr/internal/state"
)

// app carries what the subcommands share once flags are parsed.
type app struct {
	cfg *config.Config
	lib *library.Library
}

func (a *app) library() (*library.Library, error) {
	if a.lib != nil {
		return a.lib, nil
	}
	store, err := state.NewStore(a.cfg.StateDir)
	if err != nil {
		return nil, fmt.Errorf("opening library: %w", err)
	}
	lib, err := library.New(store, a.cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	if _, err := lib.RefreshIDs(); err != nil {
		logger.Warn("refreshing novel IDs failed", "err", err)
	}
	a.lib = lib
	return lib, nil
}

func newRootCmd() *cobra.Command {
	var (
		stateDir string
		debug    bool
	)
	a := &app{}

	root := &cobra.Command{
		Use:   "nrr",
		Short: "Read plain-text novels one chapter at a time",
		Long: `nrr imports plain-text novels in any common encoding (UTF-8, GBK,
Big5, Shift_JIS, ...), splits them into chapters and shows one chapter
at a time.

Chapters start at lines such as "第一章 ..." or "Chapter 1 ...".
Markdown headings and EPUB tables of contents are also understood.

Examples:
  nrr import ~/books/三体.txt
  nrr list
  nrr read 三体
  nrr read -c 12
  nrr cat notes.txt -c 2`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if stateDir != "" {
				cfg.StateDir = stateDir
			}
			if debug {
				cfg.LogLevel = "debug"
			}
			level, err := logger.ParseLevel(cfg.LogLevel)
			if err != nil {
				return err
			}
			logger.Init(&logger.Config{
				Level:      level,
				Output:     cmd.ErrOrStderr(),
				JSON:       cfg.JSONLogs(),
				TimeFormat: "15:04:05",
			})
			a.cfg = cfg
			return nil
		},
	}

	root.PersistentFlags().StringVar(&stateDir, "state-dir", "", "Directory holding the library (default $XDG_STATE_HOME/nrr)")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	root.AddCommand(
		newImportCmd(a),
		newListCmd(a),
		newRemoveCmd(a),
		newChaptersCmd(a),
		newReadCmd(a),
		newCatCmd(),
		newDetectCmd(),
		newVersionCmd(),
	)
	return root
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>...",
		Short: "Add novels to the library",
		Long: `Add one or more novel files to the library.

The title is the file name without its extension. Files already in the
library are skipped. Other extensions are read as plain text.

Supported formats: ` + strings.Join(reader.SupportedFormats(), ", ") + `

Examples:
  nrr import 三体.txt
  nrr import *.txt`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := a.library()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, path := range args {
				novel, err := lib.Import(path)
				if errors.Is(err, library.ErrAlreadyImported) {
					fmt.Fprintf(out, "Novel %q is already in your library.\n", novel.Title)
					continue
				}
				if err != nil {
					return err
				}
				chapters, err := lib.Chapters(novel)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Successfully imported %q (%s, %d chapters).\n", novel.Title, shortID(novel.ID), len(chapters))
			}
			return nil
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List novels in the library",
		Long: `List novels in the library with their reading position.

The last viewed novel is marked with "*".

Examples:
  nrr list
  nrr list --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := a.library()
			if err != nil {
				return err
			}
			novels, err := lib.List()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if asJSON {
				if novels == nil {
					novels = []state.Novel{}
				}
				data, err := json.MarshalIndent(novels, "", "  ")
				if err != nil {
					return fmt.Errorf("marshaling JSON: %w", err)
				}
				fmt.Fprintf(out, "%s\n", data)
				return nil
			}

			if len(novels) == 0 {
				fmt.Fprintln(out, "No novels available. Import one with: nrr import <file>")
				return nil
			}

			last := lib.Store().LastViewed()
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, " \tID\tTITLE\tCHAPTER\tPATH\n")
			for _, n := range novels {
				mark := " "
				if n.ID != "" && n.ID == last {
					mark = "*"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", mark, shortID(n.ID), n.Title, n.CurrentChapter+1, n.Path)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newRemoveCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "remove <id|title>",
		Aliases: []string{"rm", "delete"},
		Short:   "Remove a novel from the library",
		Long: `Remove a novel from the library. The file itself is not touched.

Examples:
  nrr remove 三体
  nrr remove 3f2a9c01 --yes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := a.library()
			if err != nil {
				return err
			}
			novel, err := lib.Find(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !yes && !confirm(cmd.InOrStdin(), out, fmt.Sprintf("Are you sure you want to delete %q from your library?", novel.Title)) {
				fmt.Fprintln(out, "Cancelled.")
				return nil
			}
			if err := lib.RemoveNovel(novel); err != nil {
				return err
			}
			fmt.Fprintf(out, "%q has been removed.\n", novel.Title)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func newChaptersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chapters [id|title]",
		Short: "List the chapters of a novel",
		Long: `List the chapters of a novel. Without an argument the current novel is used.
The chapter being read is marked with "*".

Examples:
  nrr chapters
  nrr chapters 三体`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := a.library()
			if err != nil {
				return err
			}
			novel, err := resolveNovel(lib, args)
			if err != nil {
				return err
			}
			chapters, err := lib.Chapters(novel)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, ch := range chapters {
				mark := " "
				if i == novel.CurrentChapter {
					mark = "*"
				}
				fmt.Fprintf(out, "%s %4d  %s\n", mark, i+1, ch.Title)
			}
			return nil
		},
	}
}

func newReadCmd(a *app) *cobra.Command {
	var (
		chapter int
		fresh   bool
	)
	cmd := &cobra.Command{
		Use:   "read [id|title]",
		Short: "Read a novel",
		Long: `Open a novel in the ` + frontend + ` reader at its saved chapter.
Without an argument the last viewed novel is opened.

Examples:
  nrr read
  nrr read 三体
  nrr read 三体 -c 12
  nrr read --fresh`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := a.library()
			if err != nil {
				return err
			}
			novel, err := resolveNovel(lib, args)
			if err != nil {
				return err
			}
			index := novel.CurrentChapter
			switch {
			case fresh:
				index = 0
			case chapter > 0:
				index = chapter - 1
			}
			r, err := lib.Open(novel, index)
			if err != nil {
				return fmt.Errorf("error loading chapter: %w", err)
			}
			return runReader(a.cfg, lib, novel, r)
		},
	}
	cmd.Flags().IntVarP(&chapter, "chapter", "c", 0, "Chapter to open (1-based)")
	cmd.Flags().BoolVar(&fresh, "fresh", false, "Start from the first chapter")
	return cmd
}

func newCatCmd() *cobra.Command {
	var (
		chapter int
		all     bool
	)
	cmd := &cobra.Command{
		Use:   "cat <file|->",
		Short: "Print the chapters of a file without importing it",
		Long: `Split a file into chapters and print the chapter list, or a single
chapter with --chapter, or every chapter with --all. Use "-" to read
from stdin.

Examples:
  nrr cat novel.txt
  nrr cat novel.txt -c 3
  nrr cat book.epub --all
  iconv -f utf-8 -t gbk novel.txt | nrr cat - -c 1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if all && args[0] != "-" {
				text, err := reader.ExtractText(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(out, text)
				return nil
			}

			var chapters []reader.Chapter
			if args[0] == "-" {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("reading stdin: %w", err)
				}
				chapters = reader.Segment(charset.Normalize(data))
			} else {
				var err error
				chapters, err = reader.ExtractChapters(args[0])
				if err != nil {
					return err
				}
			}

			if len(chapters) == 0 {
				fmt.Fprintln(out, "No text to read.")
				return nil
			}
			if all {
				fmt.Fprintln(out, reader.JoinChapters(chapters))
				return nil
			}
			if chapter == 0 {
				for i, ch := range chapters {
					fmt.Fprintf(out, "%4d  %s\n", i+1, ch.Title)
				}
				return nil
			}
			if chapter < 1 || chapter > len(chapters) {
				return fmt.Errorf("chapter %d out of range (1-%d)", chapter, len(chapters))
			}
			ch := chapters[chapter-1]
			fmt.Fprintf(out, "%s\n\n%s\n", ch.Title, ch.Content)
			return nil
		},
	}
	cmd.Flags().IntVarP(&chapter, "chapter", "c", 0, "Print this chapter (1-based)")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Print every chapter")
	cmd.MarkFlagsMutuallyExclusive("chapter", "all")
	return cmd
}

func newDetectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect <file>...",
		Short: "Show the detected text encoding of files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("unable to read file %s: %w", path, err)
				}
				label, err := charset.Detect(data)
				if err != nil {
					fmt.Fprintf(out, "%s: unknown (%v)\n", path, err)
					continue
				}
				note := ""
				if !charset.Supported(label) {
					note = " (unsupported, read as UTF-8)"
				}
				fmt.Fprintf(out, "%s: %s%s\n", path, label, note)
			}
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "nrr %s (commit: %s, built: %s, %s reader)\n", version, commit, date, frontend)
		},
	}
}

// resolveNovel returns the novel named by args[0], or the current novel.
func resolveNovel(lib *library.Library, args []string) (state.Novel, error) {
	if len(args) > 0 {
		return lib.Find(args[0])
	}
	return lib.Current()
}

func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	answer, _ := bufio.NewReader(in).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	if id == "" {
		return "-"
	}
	return id
}
