package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ZanzyTHEbar/neo4j-vector-go/internal/config"
	"github.com/ZanzyTHEbar/neo4j-vector-go/internal/logging"
	vecerr "github.com/ZanzyTHEbar/neo4j-vector-go/pkg/errors"
	"github.com/ZanzyTHEbar/neo4j-vector-go/pkg/vector"
)

const (
	exitOK           = 0
	exitError        = 1
	exitIndexMissing = 2
)

// serviceFactory builds the vector service for a validated configuration.
type serviceFactory func(cfg *config.Config, opts ...vector.Option) (*vector.Service, error)

func newNeo4jService(cfg *config.Config, opts ...vector.Option) (*vector.Service, error) {
	return vector.NewService(cfg.VectorConfig(), opts...)
}

// app carries per-invocation state. Every invocation gets its own viper
// instance, logger and service.
type app struct {
	v          *viper.Viper
	newService serviceFactory
	cfg        *config.Config
	log        *zap.Logger
}

// NewRootCmd creates the root command with all subcommands registered.
func NewRootCmd() *cobra.Command {
	root, _ := newRootCmd(newNeo4jService)
	return root
}

func newRootCmd(factory serviceFactory) (*cobra.Command, *app) {
	a := &app{v: viper.New(), newService: factory, log: zap.NewNop()}

	root := &cobra.Command{
		Use:           "neo4j-vector",
		Short:         "Create and search embeddings for Neo4j nodes",
		Long:          "neo4j-vector attaches OpenAI embeddings to the nodes of a label and finds nodes similar to a phrase.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	// Global flags, bound to viper keys in init.
	pf := root.PersistentFlags()
	pf.StringP("config", "c", "", "path to config file")
	pf.String("uri", "bolt://localhost:7687", "Neo4j connection URI")
	pf.String("user", "neo4j", "Neo4j user")
	pf.String("password", "", "Neo4j password")
	pf.String("database", "", "Neo4j database (server default when empty)")
	pf.String("model", "text-embedding-ada-002", "embedding model")
	pf.String("label", "", "label of the nodes to embed and search")
	pf.String("embedding-property", "embedding", "node property that stores the embedding")
	pf.BoolP("verbose", "v", false, "enable verbose output")

	root.AddCommand(
		newCreateEmbeddingCmd(a),
		newSearchCmd(a),
		newServeCmd(a),
		newVersionCmd(),
	)
	return root, a
}

var flagKeys = map[string]string{
	"uri":                "neo4j.uri",
	"user":               "neo4j.user",
	"password":           "neo4j.password",
	"database":           "neo4j.database",
	"model":              "model",
	"label":              "label",
	"embedding-property": "embedding_property",
	"verbose":            "verbose",
}

// init sets up viper with defaults, env bindings, flag bindings, and an
// optional config file so the standard precedence (flag > env > file >
// defaults) is handled uniformly.
func (a *app) init(cmd *cobra.Command) error {
	config.SetDefaults(a.v)
	config.SetupEnv(a.v)

	cfgFile, _ := cmd.Flags().GetString("config")
	if err := config.ReadFile(a.v, cfgFile); err != nil {
		return err
	}

	for flag, key := range flagKeys {
		if err := a.v.BindPFlag(key, cmd.Root().PersistentFlags().Lookup(flag)); err != nil {
			return vecerr.Errorf(vecerr.CodeCLISetupFailure, "binding %s flag: %w", flag, err)
		}
	}

	cfg, err := config.FromViper(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	log, err := logging.New(cfg.Log.Level, cfg.Verbose)
	if err != nil {
		return vecerr.Wrap(err, vecerr.CodeCLISetupFailure, "failed to build logger")
	}
	a.log = log
	return nil
}

// service validates the configuration and builds the vector service. No
// network activity happens before validation passes.
func (a *app) service(opts ...vector.Option) (*vector.Service, error) {
	if a.cfg == nil {
		return nil, vecerr.New(vecerr.CodeCLISetupFailure, "configuration not loaded")
	}
	if errs := a.cfg.Validate(); len(errs) > 0 {
		return nil, vecerr.Join(errs...)
	}
	opts = append([]vector.Option{vector.WithLogger(a.log)}, opts...)
	return a.newService(a.cfg, opts...)
}

func (a *app) verbose() bool {
	if a.cfg != nil {
		return a.cfg.Verbose
	}
	return a.v.GetBool("verbose")
}

func closeService(svc *vector.Service, log *zap.Logger) {
	if err := svc.Close(context.Background()); err != nil {
		log.Warn("failed to close graph driver", zap.Error(err))
	}
}

// run executes the CLI and maps the outcome onto the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	return execute(newNeo4jService, args, stdout, stderr)
}

func execute(factory serviceFactory, args []string, stdout, stderr io.Writer) int {
	root, a := newRootCmd(factory)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	_ = a.log.Sync()
	if err == nil {
		return exitOK
	}

	if vecerr.IsIndexMissing(err) {
		fmt.Fprintln(stderr, "Vector index does not exist.")
		return exitIndexMissing
	}
	fmt.Fprintln(stderr, err)
	if a.verbose() {
		if trace := vecerr.StackTrace(err); trace != "" {
			fmt.Fprintln(stderr, trace)
		}
	}
	return exitError
}
