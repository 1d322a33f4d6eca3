// Command admin changes a directory role out of band:
//
//	admin -uid <uid> -role admin|user
//
// It uses the same configuration as the API and announces the change so open
// workspaces pick it up.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	firebase "firebase.google.com/go/v4"

	"github.com/GoSim-25-26J-441/go-reviews-backend/config"
	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/auth"
	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/bootstrap"
	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/directory/domain"
	dirservice "github.com/GoSim-25-26J-441/go-reviews-backend/internal/directory/service"
	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/realtime"
)

type options struct {
	UID  string
	Role string
}

func parseArgs(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("admin", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.UID, "uid", "", "directory uid to change")
	fs.StringVar(&opts.Role, "role", "", "new role: admin or user")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	if opts.UID == "" {
		return options{}, errors.New("-uid is required")
	}
	if !domain.ValidRole(opts.Role) {
		return options{}, fmt.Errorf("%w: %q", domain.ErrInvalidRole, opts.Role)
	}
	return opts, nil
}

func main() {
	opts, err := parseArgs(os.Args[1:], os.Stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, opts); err != nil {
		slog.Error("role change failed", "uid", opts.UID, "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, opts options) error {
	var app *firebase.App
	if cfg.Store.Backend == config.BackendRTDB {
		var err error
		if app, err = auth.InitializeFirebase(ctx, &cfg.Firebase); err != nil {
			return err
		}
	}

	stores, err := bootstrap.OpenStores(ctx, cfg, app)
	if err != nil {
		return err
	}
	defer stores.Close()

	rdb, err := bootstrap.OpenRedis(ctx, &cfg.Redis)
	if err != nil {
		return err
	}
	defer rdb.Close()

	directory := dirservice.NewDirectoryService(stores.Directory, realtime.NewRedisNotifier(rdb))
	return directory.SetRole(ctx, opts.UID, opts.Role)
}
