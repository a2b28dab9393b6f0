package cli

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridboard/pkg/errors"
	"github.com/matzehuels/gridboard/pkg/ops"
)

// =============================================================================
// Items
// =============================================================================

func (c *CLI) itemCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Add, copy, move and remove widgets",
	}

	cmd.AddCommand(c.itemAddCommand())
	cmd.AddCommand(c.itemDuplicateCommand())
	cmd.AddCommand(c.itemMoveCommand())
	cmd.AddCommand(c.itemRemoveCommand())

	return cmd
}

func (c *CLI) itemAddCommand() *cobra.Command {
	var options []string

	cmd := &cobra.Command{
		Use:   "add BOARD KIND",
		Short: "Place a new widget in the first free cell",
		Long: `Place a new 1x1 widget of KIND in the first free cell of the topmost
empty section, in every layout.

Widget options are given as --option key=value. Values that parse as JSON
keep their type; anything else is stored as a string.`,
		Example: `  gridboard item add 7d1c clock --option format=24h --option showSeconds=true`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := errors.ValidateWidgetKind(args[1]); err != nil {
				return err
			}
			opts, err := parseOptions(options)
			if err != nil {
				return err
			}
			return c.apply(cmd, args[0], func(b *backend) ops.Transform {
				return b.engine.CreateItem(ops.CreateItemInput{Kind: args[1], Options: opts})
			})
		},
	}

	cmd.Flags().StringArrayVar(&options, "option", nil, "widget option as key=value (repeatable)")
	return cmd
}

// parseOptions turns key=value pairs into a widget option map.
func parseOptions(pairs []string) (map[string]any, error) {
	opts := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "option %q is not key=value", pair)
		}
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			v = raw
		}
		opts[key] = v
	}
	return opts, nil
}

func (c *CLI) itemDuplicateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "duplicate BOARD ITEM",
		Short: "Copy a widget next to the original",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.apply(cmd, args[0], func(b *backend) ops.Transform {
				return b.engine.DuplicateItem(ops.DuplicateItemInput{ItemID: args[1]})
			})
		},
	}
}

func (c *CLI) itemMoveCommand() *cobra.Command {
	var in ops.MoveItemInput

	cmd := &cobra.Command{
		Use:   "move BOARD ITEM",
		Short: "Set a widget's placement in one layout",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if in.Width < 1 || in.Height < 1 || in.XOffset < 0 || in.YOffset < 0 {
				return errors.New(errors.ErrCodeInvalidInput, "placement needs non-negative offsets and a size of at least 1x1")
			}
			in.ItemID = args[1]
			return c.apply(cmd, args[0], func(b *backend) ops.Transform {
				return b.engine.MoveItemToSection(in)
			})
		},
	}

	cmd.Flags().StringVar(&in.LayoutID, "layout", "", "layout ID")
	cmd.Flags().StringVar(&in.SectionID, "section", "", "destination section ID")
	cmd.Flags().IntVarP(&in.XOffset, "x", "x", 0, "column offset")
	cmd.Flags().IntVarP(&in.YOffset, "y", "y", 0, "row offset")
	cmd.Flags().IntVar(&in.Width, "width", 1, "width in columns")
	cmd.Flags().IntVar(&in.Height, "height", 1, "height in rows")
	_ = cmd.MarkFlagRequired("layout")
	_ = cmd.MarkFlagRequired("section")
	return cmd
}

func (c *CLI) itemRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove BOARD ITEM",
		Short: "Delete a widget",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.apply(cmd, args[0], func(*backend) ops.Transform {
				return ops.RemoveItem(ops.RemoveItemInput{ItemID: args[1]})
			})
		},
	}
}

// =============================================================================
// Categories
// =============================================================================

func (c *CLI) categoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Group widgets under named categories",
	}

	cmd.AddCommand(c.categoryAddCommand())
	cmd.AddCommand(c.categoryMoveCommand())
	cmd.AddCommand(c.categoryRemoveCommand())
	cmd.AddCommand(c.categoryRenameCommand())
	cmd.AddCommand(c.categoryCollapseCommand("collapse", true))
	cmd.AddCommand(c.categoryCollapseCommand("expand", false))

	return cmd
}

func (c *CLI) categoryAddCommand() *cobra.Command {
	var (
		anchor string
		where  string
	)

	cmd := &cobra.Command{
		Use:   "add BOARD NAME",
		Short: "Add a category with a trailing empty section",
		Long: `Add a category with a trailing empty section.

Without --anchor the category goes to the bottom of the board. With
--anchor it is inserted above or below that category.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := errors.ValidateCategoryName(args[1]); err != nil {
				return err
			}
			w := ops.Where(where)
			if w != ops.Above && w != ops.Below {
				return errors.New(errors.ErrCodeInvalidInput, "--where must be %q or %q", ops.Above, ops.Below)
			}
			return c.apply(cmd, args[0], func(b *backend) ops.Transform {
				return b.engine.AddCategory(ops.AddCategoryInput{Name: args[1], AnchorID: anchor, Where: w})
			})
		},
	}

	cmd.Flags().StringVar(&anchor, "anchor", "", "category to insert next to")
	cmd.Flags().StringVar(&where, "where", string(ops.Below), "above or below the anchor")
	return cmd
}

func (c *CLI) categoryMoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "move BOARD CATEGORY up|down",
		Short:     "Swap a category with its neighbour",
		Args:      cobra.ExactArgs(3),
		ValidArgs: []string{string(ops.Up), string(ops.Down)},
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ops.Direction(args[2])
			if dir != ops.Up && dir != ops.Down {
				return errors.New(errors.ErrCodeInvalidInput, "direction must be %q or %q", ops.Up, ops.Down)
			}
			return c.apply(cmd, args[0], func(*backend) ops.Transform {
				return ops.MoveCategory(ops.MoveCategoryInput{ID: args[1], Direction: dir})
			})
		},
	}
}

func (c *CLI) categoryRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove BOARD CATEGORY",
		Short: "Delete a category and merge its widgets into the section above",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.apply(cmd, args[0], func(*backend) ops.Transform {
				return ops.RemoveCategory(ops.RemoveCategoryInput{ID: args[1]})
			})
		},
	}
}

func (c *CLI) categoryRenameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rename BOARD CATEGORY NAME",
		Short: "Rename a category",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := errors.ValidateCategoryName(args[2]); err != nil {
				return err
			}
			return c.apply(cmd, args[0], func(*backend) ops.Transform {
				return ops.RenameCategory(ops.RenameCategoryInput{ID: args[1], Name: args[2]})
			})
		},
	}
}

func (c *CLI) categoryCollapseCommand(use string, collapsed bool) *cobra.Command {
	short := "Collapse a category"
	if !collapsed {
		short = "Expand a category"
	}
	return &cobra.Command{
		Use:   use + " BOARD CATEGORY",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.apply(cmd, args[0], func(*backend) ops.Transform {
				return ops.SetCategoryCollapsed(ops.SetCategoryCollapsedInput{ID: args[1], Collapsed: collapsed})
			})
		},
	}
}

// =============================================================================
// Dynamic Sections
// =============================================================================

func (c *CLI) sectionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "section",
		Short: "Manage dynamic sections",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add BOARD",
		Short: "Place a new dynamic section in the first free cell",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.apply(cmd, args[0], func(b *backend) ops.Transform {
				return b.engine.AddDynamicSection()
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "remove BOARD SECTION",
		Short: "Delete a dynamic section and hand its widgets to the parent",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.apply(cmd, args[0], func(*backend) ops.Transform {
				return ops.RemoveDynamicSection(ops.RemoveDynamicSectionInput{ID: args[1]})
			})
		},
	})

	return cmd
}

// =============================================================================
// Layouts
// =============================================================================

func (c *CLI) layoutCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Manage responsive layouts",
	}

	var in ops.AddLayoutInput
	add := &cobra.Command{
		Use:   "add BOARD NAME",
		Short: "Add a layout and pack every widget into it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Name = args[1]
			if err := errors.ValidateLayoutName(in.Name); err != nil {
				return err
			}
			if err := errors.ValidateColumnCount(in.ColumnCount); err != nil {
				return err
			}
			if in.Breakpoint < 0 {
				return errors.New(errors.ErrCodeInvalidLayout, "breakpoint must not be negative")
			}
			return c.apply(cmd, args[0], func(b *backend) ops.Transform {
				return b.engine.AddLayout(in)
			})
		},
	}
	add.Flags().IntVar(&in.ColumnCount, "columns", 0, "column count")
	add.Flags().IntVar(&in.Breakpoint, "breakpoint", 0, "minimum viewport width")
	_ = add.MarkFlagRequired("columns")

	cmd.AddCommand(add)
	cmd.AddCommand(&cobra.Command{
		Use:   "remove BOARD LAYOUT",
		Short: "Delete a layout and its placements",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.apply(cmd, args[0], func(*backend) ops.Transform {
				return ops.RemoveLayout(ops.RemoveLayoutInput{LayoutID: args[1]})
			})
		},
	})

	return cmd
}
