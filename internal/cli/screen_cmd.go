package cli

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"goldendogfarm-admin/internal/resource"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// screenHelp describe cada pantalla del registro.
var screenHelp = map[string]string{
	"clinics":           "Veterinary clinics",
	"vets":              "Veterinarians",
	"colors":            "Coat colors",
	"positions":         "Show positions catalog",
	"vaccines":          "Vaccine catalog",
	"treatments":        "Treatment catalog",
	"health-check-list": "Health check catalog",
	"customers":         "Customers",
	"users":             "Staff accounts",
	"dogs":              "Dogs",
	"dog-positions":     "Positions won by a dog (filter dogId=<id>)",
	"breedings":         "Breedings and litters",
	"breeding-attempts": "Breeding attempts (listed inside breedings)",
	"vaccinations":      "Vaccination records",
	"doses":             "Vaccination doses (listed inside vaccinations)",
	"treatment-records": "Treatment records",
	"dog-health-checks": "Scheduled health checks",
	"reservations":      "Puppy reservations",
}

func screenNames() []string {
	names := make([]string, 0, len(screenHelp))
	for n := range screenHelp {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (a *App) screen(name string) (resource.Screen, error) {
	if a.registry == nil {
		return nil, errors.New("client not initialised")
	}
	return a.registry.Get(name)
}

// report muestra un error de listado/consulta ya clasificado.
func (a *App) report(action string, err error) error {
	f := resource.Classify(err)
	NewColorNotifier(a.Err).Failure(action, f.Message)
	return err
}

// finish traduce el resultado de una mutación: declinar no es un error.
func (a *App) finish(err error) error {
	if errors.Is(err, resource.ErrDeclined) {
		fmt.Fprintln(a.Err, mutedStyle.Render("cancelled"))
		return nil
	}
	return err
}

func parsePairs(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("%w: expected key=value, got %q", resource.ErrInvalidInput, p)
		}
		out[k] = v
	}
	return out, nil
}

type formFlags struct {
	set     []string
	from    string
	filters []string
	extra   func() map[string]any
}

func (f *formFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&f.set, "set", nil, "form field key=value (repeatable)")
	cmd.Flags().StringVar(&f.from, "from", "", "yaml file with form fields")
	cmd.Flags().StringArrayVar(&f.filters, "filter", nil, "list filter key=value (scopes the lookup)")
}

// values junta --from, --set y los flags propios de la pantalla (en ese orden).
func (f *formFlags) values() (map[string]any, error) {
	out := map[string]any{}
	if f.from != "" {
		raw, err := os.ReadFile(f.from)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", resource.ErrInvalidInput, f.from, err)
		}
	}
	set, err := parsePairs(f.set)
	if err != nil {
		return nil, err
	}
	for k, v := range set {
		out[k] = v
	}
	if f.extra != nil {
		for k, v := range f.extra() {
			out[k] = v
		}
	}
	return out, nil
}

func (f *formFlags) scope(app *App, cmd *cobra.Command, s resource.Screen) error {
	if len(f.filters) == 0 {
		return nil
	}
	filters, err := parsePairs(f.filters)
	if err != nil {
		return err
	}
	if err := s.Search(cmd.Context(), resource.Filters(filters)); err != nil {
		return app.report("list "+s.Label(), err)
	}
	return nil
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id %q", resource.ErrInvalidInput, arg)
	}
	return id, nil
}

func screenCmd(app *App, name string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name,
		Short: screenHelp[name],
	}
	cmd.AddCommand(
		listCmd(app, name),
		addCmd(app, name),
		editCmd(app, name),
		disableCmd(app, name),
		lookupsCmd(app, name),
	)
	switch name {
	case "dogs":
		cmd.AddCommand(dogShowCmd(app))
	case "reservations":
		cmd.AddCommand(reservationPDFCmd(app))
	}
	return cmd
}

func listCmd(app *App, name string) *cobra.Command {
	var (
		filters []string
		page    int
		limit   int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List one page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.screen(name)
			if err != nil {
				return err
			}
			f, err := parsePairs(filters)
			if err != nil {
				return err
			}
			size := limit
			if size <= 0 {
				size = s.PageSize()
			}
			if err := s.List(cmd.Context(), resource.Filters(f), page, size); err != nil {
				return app.report("list "+s.Label(), err)
			}
			return writeList(app, s)
		},
	}
	cmd.Flags().StringArrayVar(&filters, "filter", nil, "filter key=value (repeatable)")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&limit, "limit", 0, "page size (default per screen)")
	return cmd
}

func addCmd(app *App, name string) *cobra.Command {
	var ff formFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.screen(name)
			if err != nil {
				return err
			}
			if err := ff.scope(app, cmd, s); err != nil {
				return err
			}
			values, err := ff.values()
			if err != nil {
				return err
			}
			s.ResetForm()
			if err := s.Patch(values); err != nil {
				return err
			}
			return app.finish(s.Submit(cmd.Context()))
		},
	}
	ff.bind(cmd)
	if name == "dogs" {
		ff.extra = bindDogFileFlags(cmd, false)
	}
	return cmd
}

func editCmd(app *App, name string) *cobra.Command {
	var ff formFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Update a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := app.screen(name)
			if err != nil {
				return err
			}
			if err := ff.scope(app, cmd, s); err != nil {
				return err
			}
			values, err := ff.values()
			if err != nil {
				return err
			}
			if err := s.EditByID(cmd.Context(), id); err != nil {
				return app.report("edit "+s.Label(), err)
			}
			if err := s.Patch(values); err != nil {
				return err
			}
			return app.finish(s.Submit(cmd.Context()))
		},
	}
	ff.bind(cmd)
	if name == "dogs" {
		ff.extra = bindDogFileFlags(cmd, true)
	}
	return cmd
}

func disableCmd(app *App, name string) *cobra.Command {
	var ff formFlags
	cmd := &cobra.Command{
		Use:   "disable <id>",
		Short: "Disable a record (asks for confirmation)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := app.screen(name)
			if err != nil {
				return err
			}
			if err := ff.scope(app, cmd, s); err != nil {
				return err
			}
			return app.finish(s.Disable(cmd.Context(), id))
		},
	}
	cmd.Flags().StringArrayVar(&ff.filters, "filter", nil, "list filter key=value")
	return cmd
}

func lookupsCmd(app *App, name string) *cobra.Command {
	return &cobra.Command{
		Use:   "lookups",
		Short: "Show the reference lists used by the form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.screen(name)
			if err != nil {
				return err
			}
			opts, err := s.Lookups(cmd.Context())
			if err != nil {
				return app.report("load "+s.Label()+" options", err)
			}
			return writeOptions(app, opts)
		},
	}
}
