// Command reconcile reports post metadata whose content is missing from the
// object store. With -prune it also deletes those rows, which frees the names
// for a new upload.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"blog-serwer/internal/app"
	"blog-serwer/internal/blog"
	"blog-serwer/internal/config"

	"github.com/juju/loggo"
)

var logger = loggo.GetLogger("blog.reconcile")

func main() {
	prune := flag.Bool("prune", false, "delete the metadata of orphaned posts")
	flag.Parse()

	if err := run(*prune); err != nil {
		logger.Criticalf("%v", err)
		os.Exit(1)
	}
}

func run(prune bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := app.ConfigureLogging(cfg.LogLevel); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	blogApp, err := app.New(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer blogApp.Close()

	var orphans []blog.Orphan
	if prune {
		orphans, err = blogApp.Blog.PruneOrphans(ctx)
	} else {
		orphans, err = blogApp.Blog.FindOrphans(ctx)
	}
	for _, orphan := range orphans {
		fmt.Println(orphan.Key)
	}
	if err != nil {
		return err
	}

	verb := "found"
	if prune {
		verb = "pruned"
	}
	logger.Infof("%s %d orphaned posts", verb, len(orphans))
	return nil
}
