package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Muneeb381a/disiltting/config"
	"github.com/Muneeb381a/disiltting/database"
	"github.com/Muneeb381a/disiltting/pkg/backend"
	"github.com/Muneeb381a/disiltting/pkg/catalog"
	"github.com/Muneeb381a/disiltting/pkg/export"
	"github.com/Muneeb381a/disiltting/pkg/prompt"
	subRepoImp "github.com/Muneeb381a/disiltting/pkg/submission/repositoryImp"
	subSvcImp "github.com/Muneeb381a/disiltting/pkg/submission/serviceImp"
	taskRepoImp "github.com/Muneeb381a/disiltting/pkg/task/repositoryImp"
	taskSvcImp "github.com/Muneeb381a/disiltting/pkg/task/serviceImp"
)

// env is what every command runs against.
type env struct {
	client  backend.Client
	out     export.Exporter
	confirm prompt.Confirmer
	now     func() time.Time
}

// opener builds the env once flags are parsed.
type opener func(cmd *cobra.Command, o *options) (*env, error)

type options struct {
	backendURL string
	dbPath     string
	exportDir  string
	yes        bool
}

func main() {
	log.SetPrefix("[wasactl] ")
	if err := newRootCmd(open).Execute(); err != nil {
		os.Exit(1)
	}
}

// open talks to BACKEND_URL when given, and to the SQLite file otherwise.
func open(cmd *cobra.Command, o *options) (*env, error) {
	cfg := config.Load()
	if o.backendURL == "" {
		o.backendURL = cfg.BackendURL
	}
	if o.dbPath == "" {
		o.dbPath = cfg.DBPath
	}
	var client backend.Client
	if o.backendURL != "" {
		client = backend.NewHTTP(o.backendURL, cfg.BackendTimeout)
	} else {
		db, err := database.Open(o.dbPath)
		if err != nil {
			return nil, err
		}
		cat, err := catalog.Load(cfg.CatalogPath)
		if err != nil {
			return nil, err
		}
		tRepo := taskRepoImp.New(db)
		client = backend.NewStore(
			taskSvcImp.NewTaskService(tRepo, cat),
			subSvcImp.NewSubmissionService(subRepoImp.New(db), tRepo),
		)
	}
	return &env{
		client:  client,
		out:     export.NewDir(o.exportDir),
		confirm: confirmer(o.yes, cmd.InOrStdin(), cmd.OutOrStdout()),
		now:     time.Now,
	}, nil
}

func confirmer(yes bool, in io.Reader, out io.Writer) prompt.Confirmer {
	if yes {
		return prompt.Always(true)
	}
	return prompt.NewTerminal(in, out)
}

func newRootCmd(openEnv opener) *cobra.Command {
	o := &options{}
	var e *env
	root := &cobra.Command{
		Use:           "wasactl",
		Short:         "Review WASA field work from a terminal.",
		Long:          `wasactl reviews work submissions, prints the dashboard and exports both, against a WASA backend or its SQLite file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			e, err = openEnv(cmd, o)
			if err != nil {
				return fmt.Errorf("open backend: %w", err)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&o.backendURL, "backend", "", "Backend base URL, e.g. http://localhost:8080/api/v1. Defaults to BACKEND_URL.")
	root.PersistentFlags().StringVar(&o.dbPath, "db", "", "SQLite file used when no backend URL is set. Defaults to DB_PATH.")
	root.PersistentFlags().StringVar(&o.exportDir, "export-dir", ".", "Directory export files are written to.")
	root.PersistentFlags().BoolVarP(&o.yes, "yes", "y", false, "Answer yes to every confirmation.")

	get := func() *env { return e }
	root.AddCommand(newReviewCmd(get), newDashboardCmd(get), newTasksCmd(get))
	return root
}

// fail prints err the way every command reports failures.
func fail(cmd *cobra.Command, err error) error {
	log.Printf("%v", err)
	fmt.Fprintln(cmd.ErrOrStderr(), "error:", err)
	return err
}
