// Package cli es la capa de presentación del panel: comandos cobra sobre
// las pantallas del registro.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"goldendogfarm-admin/internal/platform/config"
	"goldendogfarm-admin/internal/platform/httpclient"
	"goldendogfarm-admin/internal/platform/logger"
	"goldendogfarm-admin/internal/resource"
	"goldendogfarm-admin/internal/screens"
	"goldendogfarm-admin/internal/session"

	"github.com/spf13/cobra"
)

// App agrupa las dependencias que arma PersistentPreRunE.
type App struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer

	// Confirmer reemplaza el diálogo interactivo (tests).
	Confirmer resource.Confirmer

	cfgFile   string
	output    string
	assumeYes bool

	cfg      config.Config
	log      logger.Logger
	store    *session.BoltStore
	client   *httpclient.Client
	sess     *session.Manager
	registry *screens.Registry
}

func NewApp() *App {
	return &App{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// Execute corre kennelctl con los args del proceso.
func Execute(ctx context.Context) error {
	return NewApp().Run(ctx, os.Args[1:])
}

// Run ejecuta un comando y libera la sesión aunque el comando falle.
func (a *App) Run(ctx context.Context, args []string) error {
	root := NewRootCmd(a)
	root.SetArgs(args)
	defer a.teardown()
	return root.ExecuteContext(ctx)
}

func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "kennelctl",
		Short:         "Golden Dog Farm back-office client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup()
		},
	}
	root.SetIn(app.In)
	root.SetOut(app.Out)
	root.SetErr(app.Err)

	pf := root.PersistentFlags()
	pf.StringVar(&app.cfgFile, "config", "", "config file (default ./kennelctl.yaml)")
	pf.StringVarP(&app.output, "output", "o", "table", "output format: table|json|yaml")
	pf.BoolVarP(&app.assumeYes, "yes", "y", false, "skip confirmations")

	root.AddCommand(loginCmd(app), logoutCmd(app), whoamiCmd(app))
	for _, name := range screenNames() {
		root.AddCommand(screenCmd(app, name))
	}
	return root
}

func (a *App) setup() error {
	config.LoadEnvFiles()
	v, err := config.New(a.cfgFile)
	if err != nil {
		return err
	}
	if a.cfg, err = config.Load(v); err != nil {
		return err
	}
	switch a.output {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("unknown output format %q", a.output)
	}

	a.log = logger.New(logger.Options{
		Level:  logger.ParseLevel(a.cfg.LogLevel),
		Format: logger.ParseFormat(a.cfg.LogFormat),
		App:    "kennelctl",
	})

	if a.store, err = session.OpenBolt(a.cfg.SessionFile); err != nil {
		return err
	}
	base, err := httpclient.NewWithBaseURL(a.cfg.APIServer, a.cfg.Timeout)
	if err != nil {
		return err
	}
	a.sess = session.New(a.store, base, a.log)
	a.client = base.WithToken(a.sess.TokenSource())

	confirm := a.Confirmer
	if confirm == nil {
		confirm = &TeaConfirmer{In: a.In, Out: a.Err, AssumeYes: a.assumeYes}
	}
	a.registry, err = screens.New(screens.Deps{
		Client:    a.client,
		Logger:    a.log,
		Notifier:  NewColorNotifier(a.Err),
		Confirmer: confirm,
		PageSize:  a.cfg.PageSize,
	})
	return err
}

func (a *App) teardown() {
	if a.registry != nil {
		a.registry.Close()
		a.registry = nil
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn("close session store", map[string]any{"err": err})
		}
		a.store = nil
	}
	if z, ok := a.log.(*logger.ZapLogger); ok {
		_ = z.Sync()
	}
}
