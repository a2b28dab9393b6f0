package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridboard/pkg/board"
	"github.com/matzehuels/gridboard/pkg/errors"
	boardio "github.com/matzehuels/gridboard/pkg/io"
	"github.com/matzehuels/gridboard/pkg/ops"
	"github.com/matzehuels/gridboard/pkg/render"
)

// Diagram output formats.
const (
	formatDOT = "dot"
	formatSVG = "svg"
	formatPNG = "png"
	formatPDF = "pdf"
)

func (c *CLI) boardCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Create, inspect and transfer boards",
	}

	cmd.AddCommand(c.boardCreateCommand())
	cmd.AddCommand(c.boardListCommand())
	cmd.AddCommand(c.boardShowCommand())
	cmd.AddCommand(c.boardDeleteCommand())
	cmd.AddCommand(c.boardExportCommand())
	cmd.AddCommand(c.boardImportCommand())
	cmd.AddCommand(c.boardDiagramCommand())

	return cmd
}

// withBackend opens the configured backend for the duration of fn.
func (c *CLI) withBackend(ctx context.Context, fn func(*backend) error) error {
	b, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer b.Close()
	return fn(b)
}

// apply runs t against a stored board and reports the outcome.
func (c *CLI) apply(cmd *cobra.Command, boardID string, t func(*backend) ops.Transform) error {
	return c.withBackend(cmd.Context(), func(b *backend) error {
		next, changed, err := b.dispatcher.Apply(cmd.Context(), boardID, t(b))
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if !changed {
			printInfo(out, "No change to board %s", boardID)
			return nil
		}
		printSuccess(out, "Updated board %s", StyleHighlight.Render(next.Name))
		printDetail(out, "version %d", next.Version)
		return nil
	})
}

func (c *CLI) boardCreateCommand() *cobra.Command {
	var (
		layoutName string
		columns    int
		breakpoint int
	)

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create an empty board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if err := errors.ValidateBoardName(name); err != nil {
				return err
			}

			layout := c.cfg.DefaultLayout()
			if layoutName != "" {
				layout.Name = layoutName
			}
			if cmd.Flags().Changed("columns") {
				layout.ColumnCount = columns
			}
			if cmd.Flags().Changed("breakpoint") {
				layout.Breakpoint = breakpoint
			}
			if err := errors.ValidateLayoutName(layout.Name); err != nil {
				return err
			}
			if err := errors.ValidateColumnCount(layout.ColumnCount); err != nil {
				return err
			}

			return c.withBackend(cmd.Context(), func(b *backend) error {
				created, err := b.dispatcher.Create(cmd.Context(), board.New(nil, name, layout))
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				printSuccess(out, "Created board %s", StyleHighlight.Render(created.Name))
				printKeyValue(out, "id", created.ID)
				printKeyValue(out, "layout", fmt.Sprintf("%s (%d columns)", layout.Name, layout.ColumnCount))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&layoutName, "layout-name", "", "name of the first layout")
	cmd.Flags().IntVar(&columns, "columns", 0, "column count of the first layout (default from config)")
	cmd.Flags().IntVar(&breakpoint, "breakpoint", 0, "minimum viewport width of the first layout")
	return cmd
}

func (c *CLI) boardListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored boards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withBackend(cmd.Context(), func(b *backend) error {
				boards, err := b.store.List(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(boards) == 0 {
					printInfo(out, "No boards")
					return nil
				}
				for _, s := range boards {
					fmt.Fprintf(out, "%s  %s  %s\n",
						StyleValue.Render(s.ID),
						StyleHighlight.Render(s.Name),
						StyleDim.Render("v"+strconv.FormatInt(s.Version, 10)))
				}
				return nil
			})
		},
	}
}

func (c *CLI) boardShowCommand() *cobra.Command {
	var layoutID string

	cmd := &cobra.Command{
		Use:   "show BOARD",
		Short: "Print a grid preview of a board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withBackend(cmd.Context(), func(b *backend) error {
				brd, err := b.dispatcher.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				preview, err := renderPreview(brd, layoutID)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), preview)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&layoutID, "layout", "", "layout ID to preview (default first layout)")
	return cmd
}

func (c *CLI) boardDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete BOARD",
		Short: "Delete a board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withBackend(cmd.Context(), func(b *backend) error {
				if err := b.dispatcher.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Deleted board %s", args[0])
				return nil
			})
		},
	}
}

func (c *CLI) boardExportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export BOARD",
		Short: "Write a board backup as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withBackend(cmd.Context(), func(b *backend) error {
				brd, err := b.dispatcher.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if output == "" {
					return boardio.WriteJSON(brd, cmd.OutOrStdout())
				}
				if err := boardio.ExportJSON(brd, output); err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Exported board %s", StyleHighlight.Render(brd.Name))
				printFile(cmd.OutOrStdout(), output)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func (c *CLI) boardImportCommand() *cobra.Command {
	var newIDs bool

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Restore a board from a JSON backup",
		Long: `Restore a board from a JSON backup written by "board export".

Use --new-ids to import a copy next to the original board.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts boardio.ImportOptions
			if newIDs {
				opts.NewIDs = board.UUIDGenerator{}
			}
			brd, err := boardio.ImportJSON(args[0], opts)
			if err != nil {
				return err
			}
			return c.withBackend(cmd.Context(), func(b *backend) error {
				created, err := b.dispatcher.Create(cmd.Context(), brd)
				if err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Imported board %s", StyleHighlight.Render(created.Name))
				printKeyValue(cmd.OutOrStdout(), "id", created.ID)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&newIDs, "new-ids", false, "give the board and its elements fresh IDs")
	return cmd
}

func (c *CLI) boardDiagramCommand() *cobra.Command {
	var (
		format   string
		output   string
		layoutID string
		detailed bool
		scale    float64
	)

	cmd := &cobra.Command{
		Use:   "diagram BOARD",
		Short: "Render the section tree of a board",
		Long: `Render the section tree of a board as Graphviz DOT, SVG, PNG or PDF.

PNG and PDF output needs rsvg-convert on the PATH.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case formatDOT, formatSVG, formatPNG, formatPDF:
			default:
				return errors.New(errors.ErrCodeUnsupported, "unsupported diagram format %q", format)
			}

			var brd *board.Board
			err := c.withBackend(cmd.Context(), func(b *backend) error {
				var err error
				brd, err = b.dispatcher.Get(cmd.Context(), args[0])
				return err
			})
			if err != nil {
				return err
			}

			prog := newProgress(loggerFromContext(cmd.Context()))
			data, err := c.diagram(cmd, brd, render.Options{LayoutID: layoutID, Detailed: detailed}, format, scale)
			if err != nil {
				return err
			}
			prog.done("Rendered %s diagram of %s", format, brd.ID)

			if output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printFile(cmd.OutOrStdout(), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatSVG, "output format: dot, svg, png, pdf")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&layoutID, "layout", "", "layout ID (default first layout)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "label edges with placements")
	cmd.Flags().Float64Var(&scale, "scale", 2, "PNG scale factor")
	return cmd
}

// diagram renders b in format. Graphviz and rsvg-convert can be slow on big
// boards, so a spinner runs on stderr meanwhile.
func (c *CLI) diagram(cmd *cobra.Command, b *board.Board, opts render.Options, format string, scale float64) ([]byte, error) {
	dot, err := render.ToDOT(b, opts)
	if err != nil {
		return nil, err
	}
	if format == formatDOT {
		return []byte(dot), nil
	}

	spinner := newSpinner(cmd.Context(), cmd.ErrOrStderr(), "Rendering diagram...")
	spinner.Start()
	defer spinner.Stop()

	svg, err := render.RenderSVG(cmd.Context(), dot)
	if err != nil {
		return nil, err
	}
	switch format {
	case formatPNG:
		return render.ToPNG(cmd.Context(), svg, scale)
	case formatPDF:
		return render.ToPDF(cmd.Context(), svg)
	default:
		return svg, nil
	}
}
