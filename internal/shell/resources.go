package shell

import (
	"errors"
	"fmt"
	"time"

	"admin-dashboard/internal/resource"
	"admin-dashboard/internal/viewer"

	"github.com/spf13/cobra"
)

func resourceCommand[T resource.Record](a *App, def resourceDef[T]) *cobra.Command {
	cmd := &cobra.Command{
		Use:     def.use,
		Aliases: def.aliases,
		Short:   def.short,
	}

	cmd.AddCommand(
		listCommand(a, def),
		showCommand(a, def),
		addCommand(a, def),
		editCommand(a, def),
		deleteCommand(a, def),
	)
	return cmd
}

func (d resourceDef[T]) manager(a *App, confirmer resource.Confirmer) *resource.Manager[T] {
	return resource.NewManager(d.schema(a, a.deps(confirmer)))
}

func listCommand[T resource.Record](a *App, def resourceDef[T]) *cobra.Command {
	var (
		search string
		page   int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List " + def.use,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}

			ctx := cmd.Context()
			m := def.manager(a, nil)
			if err := a.authorized(ctx, func() error { return m.Load(ctx) }); err != nil {
				return reported(err)
			}

			m.Search(search)
			p, err := m.Paginate(page)
			if errors.Is(err, resource.ErrPageOutOfRange) {
				return fmt.Errorf("page %d does not exist", page)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if p.TotalItems == 0 {
				fmt.Fprintf(out, "No %s found\n", def.use)
				return nil
			}

			rows := make([][]string, 0, len(p.Items))
			for _, item := range p.Items {
				rows = append(rows, def.row(item))
			}
			renderTable(out, def.columns, rows)
			fmt.Fprintf(out, "Page %d of %d, %d %s\n", p.Number, p.Pages, p.TotalItems, def.use)
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "case-insensitive filter")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number")
	return cmd
}

func showCommand[T resource.Record](a *App, def resourceDef[T]) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one of the " + def.use,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}

			schema := def.schema(a, a.deps(nil))
			v := viewer.New[T](a.client, schema.Endpoints, a.logger)

			ctx := cmd.Context()
			var rec *T
			err := a.authorized(ctx, func() (err error) {
				rec, err = v.LoadOne(ctx, args[0])
				return err
			})
			if err != nil {
				return reported(err)
			}

			renderRecord(cmd.OutOrStdout(), def.describe(*rec))
			return nil
		},
	}
}

func addCommand[T resource.Record](a *App, def resourceDef[T]) *cobra.Command {
	values := make([]string, len(def.fields))

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new record in " + def.use,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}

			var rec T
			if err := def.apply(cmd, &rec, values); err != nil {
				return err
			}

			ctx := cmd.Context()
			m := def.manager(a, nil)
			var saved T
			err := a.authorized(ctx, func() (err error) {
				saved, err = m.Save(ctx, rec)
				return err
			})
			if err != nil {
				return reported(err)
			}

			renderRecord(cmd.OutOrStdout(), def.describe(saved))
			return nil
		},
	}

	def.bindFlags(cmd, values)
	return cmd
}

func editCommand[T resource.Record](a *App, def resourceDef[T]) *cobra.Command {
	values := make([]string, len(def.fields))

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change fields of one of the " + def.use,
		Long:  "Loads the current record and changes only the fields given as flags.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}

			ctx := cmd.Context()
			m := def.manager(a, nil)
			if err := a.authorized(ctx, func() error { return m.Load(ctx) }); err != nil {
				return reported(err)
			}

			rec, ok := m.Find(args[0])
			if !ok {
				return fmt.Errorf("no record with id %s in %s", args[0], def.use)
			}
			if err := def.apply(cmd, &rec, values); err != nil {
				return err
			}

			var saved T
			err := a.authorized(ctx, func() (err error) {
				saved, err = m.Save(ctx, rec)
				return err
			})
			if err != nil {
				return reported(err)
			}

			renderRecord(cmd.OutOrStdout(), def.describe(saved))
			return nil
		},
	}

	def.bindFlags(cmd, values)
	return cmd
}

func deleteCommand[T resource.Record](a *App, def resourceDef[T]) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete one of the " + def.use,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}

			var confirmer resource.Confirmer = newPromptConfirmer(cmd.InOrStdin(), cmd.ErrOrStderr())
			if yes {
				confirmer = resource.AlwaysConfirm
			}

			// a retried delete must not prompt twice
			ctx := cmd.Context()
			m := def.manager(a, &onceConfirmer{next: confirmer})
			err := a.authorized(ctx, func() error { return m.Remove(ctx, args[0]) })
			if errors.Is(err, resource.ErrRemoveCancelled) {
				fmt.Fprintln(cmd.ErrOrStderr(), "Cancelled")
				return nil
			}
			if err != nil {
				return reported(err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "delete without asking")
	return cmd
}

func (d resourceDef[T]) bindFlags(cmd *cobra.Command, values []string) {
	for i, f := range d.fields {
		cmd.Flags().StringVar(&values[i], f.flag, "", f.usage)
	}
}

// apply copies the flags the user actually gave onto rec
func (d resourceDef[T]) apply(cmd *cobra.Command, rec *T, values []string) error {
	for i, f := range d.fields {
		if !cmd.Flags().Changed(f.flag) {
			continue
		}
		if err := f.set(rec, values[i]); err != nil {
			return err
		}
	}
	return nil
}

func (d resourceDef[T]) describe(rec T) [][2]string {
	pairs := [][2]string{{"id", rec.RecordID()}}
	for _, f := range d.fields {
		if f.secret {
			continue
		}
		pairs = append(pairs, [2]string{f.flag, f.get(rec)})
	}
	if created := d.created(rec); !created.IsZero() {
		pairs = append(pairs, [2]string{"created_at", created.Local().Format(time.DateTime)})
	}
	return pairs
}
