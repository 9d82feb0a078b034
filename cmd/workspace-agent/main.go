// Workspace agent daemon and CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/workspace-agent/workspace-agent/internal/agent"
	"github.com/workspace-agent/workspace-agent/internal/api"
	"github.com/workspace-agent/workspace-agent/internal/config"
	"github.com/workspace-agent/workspace-agent/internal/connectors"
	"github.com/workspace-agent/workspace-agent/internal/llm"
	"github.com/workspace-agent/workspace-agent/internal/logging"
	"github.com/workspace-agent/workspace-agent/internal/report"
	"github.com/workspace-agent/workspace-agent/internal/scheduler"
	"github.com/workspace-agent/workspace-agent/internal/storage"
)

var (
	configPath string
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "workspace-agent",
		Short: "Daily workspace observer and chat assistant",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logging.SetLevel(logging.DEBUG)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	rootCmd.AddCommand(
		serveCmd(),
		observeCmd(),
		chatCmd(),
		reportCmd(),
		authCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// components holds everything the commands share.
type components struct {
	cfg       *config.Config
	db        *storage.DB
	snapshots *storage.SnapshotStore
	reports   *storage.ReportStore
	chats     *storage.ChatStore
	llm       *llm.Client
	agent     *agent.Agent
	generator *report.Generator
}

func setup() (*components, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := storage.Open(storage.Config{Path: cfg.DatabasePath()})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	snapshots := storage.NewSnapshotStore(db)
	reports := storage.NewReportStore(db)
	chats := storage.NewChatStore(db)

	llmClient := llm.NewClient(llm.Config{
		APIKey: cfg.Gemini.APIKey,
		Model:  cfg.Gemini.Model,
	})
	if !llmClient.IsConfigured() {
		logging.Warn("GEMINI_API_KEY not set, answers use deterministic handlers only")
	}

	ag := agent.New(agent.Config{
		Snapshots:    snapshots,
		History:      chats,
		Recorder:     chats,
		Enricher:     llmClient,
		HistoryLimit: cfg.Agent.HistoryLimit,
	})

	return &components{
		cfg:       cfg,
		db:        db,
		snapshots: snapshots,
		reports:   reports,
		chats:     chats,
		llm:       llmClient,
		agent:     ag,
		generator: report.New(snapshots, reports, llmClient),
	}, nil
}

// observer builds the observation pipeline. Returns nil when no Google
// token is available; the rest of the system works without it.
func (c *components) observer(ctx context.Context) *agent.Observer {
	oauthCfg := connectors.DefaultOAuthConfig()
	oauthCfg.ClientID = c.cfg.Google.ClientID
	oauthCfg.ClientSecret = c.cfg.Google.ClientSecret
	oauthCfg.TokenFile = c.cfg.Google.TokenFile

	flow := connectors.NewOAuthFlow(oauthCfg)
	token, err := flow.LoadToken()
	if err != nil {
		logging.Warn("no Google token, connectors disabled (run 'workspace-agent auth')")
		return nil
	}

	service, err := connectors.NewService(ctx, flow.HTTPClient(ctx, token), connectors.ServiceConfig{
		MaxEmails:        c.cfg.Agent.MaxEmails,
		AssignmentWindow: c.cfg.Agent.AssignmentWindow,
	})
	if err != nil {
		logging.Error("connector setup failed: %v", err)
		return nil
	}

	return agent.NewObserver(agent.ObserverConfig{
		Emails:      service,
		Assignments: service,
		Meetings:    service,
		Saver:       c.snapshots,
		Agent:       c.agent,
		Reporter:    c.generator,
		DateKey:     storage.DateKey,
	})
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the daemon: API server, observation cycle, daily report",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := setup()
			if err != nil {
				return err
			}
			defer c.db.Close()

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			observer := c.observer(ctx)

			server := api.New(api.Config{
				Host:          c.cfg.Server.Host,
				Port:          c.cfg.Server.Port,
				Agent:         c.agent,
				Observer:      observer,
				Reports:       c.generator,
				SnapshotStore: c.snapshots,
				ChatStore:     c.chats,
				ReportStore:   c.reports,
			})

			// One daily run of the full cycle at the configured EOD
			// time. Without connectors the report still generates from
			// whatever snapshot exists.
			eodAt := fmt.Sprintf("%02d:%02d", c.cfg.Agent.EODHour, c.cfg.Agent.EODMinute)
			cycle := func(ctx context.Context) error {
				if observer != nil {
					_, err := observer.RunCycle(ctx)
					return err
				}
				_, err := c.generator.GenerateToday(ctx)
				return err
			}
			sched := scheduler.New()
			sched.Register(scheduler.DailyTask("eod-cycle", "Daily observation cycle", eodAt, cycle))
			if err := sched.Start(); err != nil {
				return err
			}
			defer sched.Stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- server.Start()
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Info("received %s, shutting down", sig)
			}

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			return server.Stop(shutdownCtx)
		},
	}
}

func observeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "observe",
		Short: "Run one observation cycle and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := setup()
			if err != nil {
				return err
			}
			defer c.db.Close()

			ctx := context.Background()
			observer := c.observer(ctx)
			if observer == nil {
				return fmt.Errorf("no Google credentials; run 'workspace-agent auth' first")
			}

			snap, err := observer.RunCycle(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("Observed %d emails, %d meetings, %d assignments\n",
				len(snap.Emails), len(snap.Meetings), len(snap.Assignments))
			return nil
		},
	}
}

func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Chat with the agent in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := setup()
			if err != nil {
				return err
			}
			defer c.db.Close()

			session := agent.NewChatSession(c.agent)
			return session.RunInteractive(context.Background())
		},
	}
}

func reportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Generate today's end-of-day report",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := setup()
			if err != nil {
				return err
			}
			defer c.db.Close()

			content, err := c.generator.GenerateToday(context.Background())
			if err != nil {
				return err
			}

			fmt.Println(content)
			return nil
		},
	}
}

func authCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Authorize Google workspace access",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := setup()
			if err != nil {
				return err
			}
			defer c.db.Close()

			if c.cfg.Google.ClientID == "" || c.cfg.Google.ClientSecret == "" {
				return fmt.Errorf("GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET must be set")
			}

			oauthCfg := connectors.DefaultOAuthConfig()
			oauthCfg.ClientID = c.cfg.Google.ClientID
			oauthCfg.ClientSecret = c.cfg.Google.ClientSecret
			oauthCfg.TokenFile = c.cfg.Google.TokenFile

			flow := connectors.NewOAuthFlow(oauthCfg)

			authServer := connectors.NewLocalAuthServer()
			if err := authServer.Start(8765); err != nil {
				return fmt.Errorf("starting callback server: %w", err)
			}
			ctx := context.Background()
			defer authServer.Stop(ctx)

			fmt.Println("Open this URL in your browser to authorize:")
			fmt.Println()
			fmt.Println("  " + flow.AuthURL("workspace-agent"))
			fmt.Println()

			code, err := authServer.WaitForCode(5 * time.Minute)
			if err != nil {
				return err
			}

			if _, err := flow.ExchangeCode(ctx, code); err != nil {
				return fmt.Errorf("exchanging code: %w", err)
			}

			fmt.Println("Authorized. Token saved to " + c.cfg.Google.TokenFile)
			return nil
		},
	}
}
