package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/chatooly/internal/catalog"
	"github.com/san-kum/chatooly/internal/hub"
	"github.com/san-kum/chatooly/internal/publish"
)

func serveHub(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	srv := hub.New(hub.Options{
		Addr:         cfg.Hub.Addr,
		PublicDir:    cfg.Hub.PublicDir,
		ToolsDir:     cfg.Hub.ToolsDir,
		BaseURL:      cfg.Hub.BaseURL,
		MaxBodyBytes: int64(cfg.Hub.MaxBodyMB) << 20,
	}, logger)

	ctx, cancel := signalContext()
	defer cancel()
	return srv.ListenAndServe(ctx)
}

func printCatalog(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	tools, err := (&catalog.Scanner{Dir: cfg.Hub.ToolsDir, Log: logger}).Discover()
	if err != nil {
		return err
	}
	if len(tools) == 0 {
		fmt.Println("no tools found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SLUG\tNAME\tAUTHOR\tCATEGORY\tVERSION\tCREATED")
	for _, t := range tools {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			t.Slug, t.Name, t.Author, t.Category, t.Version, t.CreatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func publishDir(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	files, err := publish.Pack(args[0])
	if err != nil {
		return err
	}
	name := filepath.Base(filepath.Clean(args[0]))
	if len(args) > 1 {
		name = args[1]
	}

	svc := publish.NewService(cfg.Hub.ToolsDir, cfg.Hub.BaseURL, logger)
	res, err := svc.Publish(context.Background(), &publish.Request{
		ToolName: name,
		Metadata: map[string]any{"name": name},
		Files:    files,
	})
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
