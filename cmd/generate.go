package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/moodmix/internal/formatter"
	"github.com/desertthunder/moodmix/internal/shared"
	"github.com/desertthunder/moodmix/internal/tasks"
	"github.com/desertthunder/moodmix/internal/web"
	"github.com/urfave/cli/v3"
)

// Generate runs the pipeline for one song, prints the playlist and optionally stores it.
func (r *Runner) Generate(ctx context.Context, cmd *cli.Command) error {
	song := strings.TrimSpace(cmd.StringArg("song"))
	format, err := formatter.ParseFormat(cmd.String("format"), formatter.Text, formatter.Markdown, formatter.JSON)
	if err != nil {
		return err
	}

	progress := make(chan tasks.ProgressUpdate, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Info(update.Message, "phase", update.Phase, "step", update.Step, "total", update.Total)
		}
	}()

	state := r.engine.Run(ctx, song, progress)
	close(progress)
	<-done

	data, err := formatter.RenderState(state, format)
	if err != nil {
		return err
	}
	if err := r.writeResult(cmd.String("output"), data); err != nil {
		return err
	}

	if state.Failed() {
		return fmt.Errorf("playlist generation failed: %s", state.Error)
	}

	if !cmd.Bool("store") || state.NoSongsFound() {
		return nil
	}

	entries := state.Entries()
	outcomes := tasks.StoreEntries(ctx, r.storage, entries)
	r.writePlainln("Storing %d songs", len(entries))
	for _, o := range outcomes {
		r.writePlain("%s\n", o.Message())
	}
	r.writePlainln("%d of %d songs stored", tasks.CountStored(outcomes), len(entries))

	return nil
}

// Songs lists every stored playlist entry.
func (r *Runner) Songs(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"), formatter.Text, formatter.Markdown, formatter.CSV, formatter.JSON)
	if err != nil {
		return err
	}

	entries, err := r.storage.ListSongs(ctx)
	if errors.Is(err, shared.ErrServiceUnavailable) {
		return fmt.Errorf("backend server not running, start it with `moodmix api`: %w", err)
	} else if err != nil {
		return fmt.Errorf("failed to fetch songs: %w", err)
	}

	r.logger.Debug("fetched songs", "count", len(entries))

	data, err := formatter.RenderSongs(entries, format)
	if err != nil {
		return err
	}
	return r.writeResult(cmd.String("output"), data)
}

type credentialReport struct {
	Name       string `json:"name"`
	Configured bool   `json:"configured"`
}

type statusReport struct {
	Credentials    []credentialReport `json:"credentials"`
	StorageURL     string             `json:"storage_url"`
	BackendRunning bool               `json:"backend_running"`
}

// Status prints which provider keys are present and whether the storage resource answers.
func (r *Runner) Status(ctx context.Context, cmd *cli.Command) error {
	report := statusReport{StorageURL: r.config.Web.StorageURL}
	for _, c := range r.config.CredentialStatuses() {
		report.Credentials = append(report.Credentials, credentialReport{Name: c.Name, Configured: c.Configured})
	}

	pingCtx, cancel := context.WithTimeout(ctx, web.PingTimeout)
	defer cancel()
	if err := r.storage.Ping(pingCtx); err != nil {
		r.logger.Debug("storage ping failed", "url", report.StorageURL, "error", err)
	} else {
		report.BackendRunning = true
	}

	if cmd.Bool("json") {
		return r.writeJSON(report, true)
	}

	r.writePlainHeader("API Status")
	for _, c := range report.Credentials {
		if c.Configured {
			r.writePlain("✅ %s: Configured\n", c.Name)
		} else {
			r.writePlain("❌ %s: Not configured\n", c.Name)
		}
	}
	if report.BackendRunning {
		r.writePlain("✅ Backend: Running (%s)\n", report.StorageURL)
	} else {
		r.writePlain("❌ Backend: Not running (%s)\n", report.StorageURL)
	}

	return nil
}
