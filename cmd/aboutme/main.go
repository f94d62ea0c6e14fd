// Command aboutme fills in and submits the Interlink "About Me" card, either
// interactively or from flags and draft files.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"gitea.kood.tech/petrkubec/interlink/aboutme"
	"gitea.kood.tech/petrkubec/interlink/internal/config"
	"gitea.kood.tech/petrkubec/interlink/internal/logging"
	"gitea.kood.tech/petrkubec/interlink/tui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// cli carries the resolved configuration and logger shared by all commands.
type cli struct {
	cfg    config.Client
	flags  config.Client
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "aboutme",
		Short: "Fill in and submit the Interlink About Me card",
		Long: `aboutme edits the About Me card of your Interlink profile.

Run without arguments to open the interactive card. The card logs to
$ABOUTME_LOG_FILE, or to aboutme.log in the temp directory, so the
terminal stays clean.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
		RunE: c.runTUI,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.flags.Endpoint, "endpoint", "", "collaborator endpoint (env ABOUTME_ENDPOINT)")
	pf.StringVar(&c.flags.Token, "token", "", "Interlink login token (env ABOUTME_TOKEN)")
	pf.StringVar(&c.flags.Email, "email", "", "email of the submitting user when no token is given (env ABOUTME_EMAIL)")
	pf.DurationVar(&c.flags.Timeout, "timeout", 15*time.Second, "request timeout (env ABOUTME_TIMEOUT)")
	pf.BoolVarP(&c.flags.Verbose, "verbose", "v", false, "debug logging (env ABOUTME_VERBOSE)")
	pf.StringVar(&c.flags.LogFile, "log-file", "", "write logs to this file (env ABOUTME_LOG_FILE)")

	root.AddCommand(c.submitCmd(), c.inviteCmd(), c.draftCmd())
	return root
}

// setup loads the environment and lets explicitly set flags win over it.
func (c *cli) setup(cmd *cobra.Command) error {
	if err := config.ParseEnv(&c.cfg); err != nil {
		return err
	}
	fs := cmd.Flags()
	if fs.Changed("endpoint") {
		c.cfg.Endpoint = c.flags.Endpoint
	}
	if fs.Changed("token") {
		c.cfg.Token = c.flags.Token
	}
	if fs.Changed("email") {
		c.cfg.Email = c.flags.Email
	}
	if fs.Changed("timeout") {
		c.cfg.Timeout = c.flags.Timeout
	}
	if fs.Changed("verbose") {
		c.cfg.Verbose = c.flags.Verbose
	}
	if fs.Changed("log-file") {
		c.cfg.LogFile = c.flags.LogFile
	}

	logPath := c.cfg.LogFile
	if logPath == "" && cmd == cmd.Root() {
		logPath = filepath.Join(os.TempDir(), "aboutme.log")
	}
	logger, err := logging.New(c.cfg.Verbose, logPath)
	if err != nil {
		return err
	}
	c.logger = logger
	return nil
}

func (c *cli) identity() aboutme.IdentityProvider {
	if c.cfg.Token != "" && c.cfg.Email == "" {
		return aboutme.TokenIdentity{Token: c.cfg.Token}
	}
	return aboutme.StaticIdentity(c.cfg.Email)
}

func (c *cli) submitter() *aboutme.Submitter {
	opts := []aboutme.Option{
		aboutme.WithHTTPClient(&http.Client{Timeout: c.cfg.Timeout}),
		aboutme.WithLogger(c.logger),
	}
	if c.cfg.Token != "" {
		opts = append(opts, aboutme.WithBearerToken(c.cfg.Token))
	}
	return aboutme.NewSubmitter(c.cfg.Endpoint, c.identity(), opts...)
}

func (c *cli) runTUI(cmd *cobra.Command, args []string) error {
	c.logger.Info("Starting about me card", zap.String("endpoint", c.cfg.Endpoint))
	return tui.Run(cmd.Context(), aboutme.NewForm(), c.submitter())
}
