package main

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/nzaccagnino/volon/internal/i18n"
	"github.com/nzaccagnino/volon/internal/markdown"
	"github.com/nzaccagnino/volon/internal/notes"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	exportFormat string
	exportID     string
	exportOut    string
	deleteYes    bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes in the configured order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), openOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		printNotes(a.coord.OrderedNotes(a.coord.SearchByContent("")))
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "List notes whose content contains the query",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), openOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		printNotes(a.coord.OrderedNotes(a.coord.SearchByContent(strings.Join(args, " "))))
		return nil
	},
}

var newCmd = &cobra.Command{
	Use:   "new [content...]",
	Short: "Create a note from the arguments or from stdin",
	RunE: func(cmd *cobra.Command, args []string) error {
		content := strings.Join(args, " ")
		if len(args) == 0 && !term.IsTerminal(int(os.Stdin.Fd())) {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			content = string(data)
		}

		a, err := openApp(cmd.Context(), openOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		n, err := a.coord.CreateNote(cmd.Context(), content)
		if n.ID != "" {
			fmt.Println(n.ID)
		}
		return err
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all notes as JSON, or one note as HTML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), openOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		var w io.Writer = os.Stdout
		if exportOut != "" {
			f, err := os.OpenFile(exportOut, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", exportOut, err)
			}
			defer f.Close()
			w = f
		}

		switch exportFormat {
		case "json":
			return a.coord.Export(w)
		case "html":
			if exportID == "" {
				return errors.New("--id is required for html export")
			}
			n, err := a.coord.Notebook().FindByID(exportID)
			if err != nil {
				return err
			}
			page, err := markdown.NewRenderer().RenderDocument(n.Content)
			if err != nil {
				return err
			}
			_, err = w.Write(page)
			return err
		default:
			return fmt.Errorf("unknown format %q (use json or html)", exportFormat)
		}
	},
}

var sampleCmd = &cobra.Command{
	Use:   "sample <count>",
	Short: "Add generated notes for trying things out",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		count, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid count %q: %w", args[0], err)
		}

		a, err := openApp(cmd.Context(), openOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		r := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
		created, err := a.coord.AddSampleNotes(cmd.Context(), count, r)
		fmt.Printf(i18n.T().SampleCreated+"\n", created)
		return err
	},
}

var deleteAllCmd = &cobra.Command{
	Use:   "delete-all",
	Short: "Delete every note in the current mode",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t := i18n.T()

		a, err := openApp(cmd.Context(), openOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		total := len(a.coord.Notebook().All())
		if !deleteYes {
			answer, err := prompt(fmt.Sprintf(t.ConfirmDeleteAll, total))
			if err != nil {
				return err
			}
			answer = strings.ToLower(answer)
			if answer != "y" && answer != "s" && answer != strings.ToLower(t.Yes) {
				return nil
			}
		}

		n, err := a.coord.DeleteAllNotes(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf(t.DeletedAll+"\n", n)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "json or html")
	exportCmd.Flags().StringVar(&exportID, "id", "", "note to export as html")
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "write to file instead of stdout")
	deleteAllCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip confirmation")

	rootCmd.AddCommand(listCmd, searchCmd, newCmd, exportCmd, sampleCmd, deleteAllCmd)
}

func printNotes(list []notes.Note) {
	md := markdown.NewRenderer()
	for _, n := range list {
		title := md.Title(n.Content)
		if title == "" {
			title = i18n.T().Untitled
		}
		fmt.Printf("%s  %s  %s\n", n.ID, n.LastModified.Local().Format("2006-01-02 15:04"), title)
	}
}
