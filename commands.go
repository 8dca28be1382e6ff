package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"schoolrecords-server-go/config"
	"schoolrecords-server-go/db"
	"schoolrecords-server-go/handlers"
	"schoolrecords-server-go/render"
	"schoolrecords-server-go/views"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		deps := handlers.Deps{
			Repo:       a.repo,
			Renderer:   a.renderer,
			Printer:    a.printer,
			Seeder:     a.seeder,
			Config:     a.cfg,
			ConfigPath: configPath,
			Log:        a.log,
		}
		if a.webdav != nil {
			deps.Settings = a.webdav
		}
		router := handlers.NewRouter(handlers.NewAPIHandler(deps), a.cfg.Server.AllowOrigins)

		srv := &http.Server{
			Addr:              a.cfg.Addr(),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}
		errCh := make(chan error, 1)
		go func() {
			a.log.Info("starting server", "addr", srv.Addr, "backend", a.cfg.Store.Backend)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("failed to run server: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		a.log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate demo years, classes, students and records",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		res, err := a.seeder.Run(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(),
			"created %d years, %d classes, %d students, %d incidents, %d conversations, %d meeting minutes\n",
			res.Years, res.Classes, res.Students, res.Incidents, res.Conversations, res.MeetingMinutes)
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Test the connection to the configured store",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		years, err := a.repo.Years.FetchAll(cmd.Context())
		var remote *db.RemoteError
		switch {
		case err == nil:
		case errors.Is(err, db.ErrNotConfigured):
			return errors.New("store not configured: set webdav.url, webdav.user and webdav.token (or use share-link)")
		case errors.As(err, &remote):
			return fmt.Errorf("server answered %d: %s", remote.Status, remote.Body)
		default:
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "connection ok (%s backend, %d year groups)\n", a.cfg.Store.Backend, len(years))
		return nil
	},
}

var saveShareLink bool

var shareLinkCmd = &cobra.Command{
	Use:   "share-link <url>",
	Short: "Derive WebDAV settings from a Nextcloud public share link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := config.ParseShareLink(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "url:  %s\nuser: %s\n", w.URL, w.User)
		if !saveShareLink {
			return nil
		}

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		w.Timeout = cfg.WebDAV.Timeout
		cfg.WebDAV = w
		cfg.Store.Backend = config.BackendWebDAV
		if err := cfg.Save(configPath); err != nil {
			return err
		}
		fmt.Fprintf(out, "saved to %s\n", configPath)
		return nil
	},
}

var exportOpts struct {
	kind     string
	format   string
	output   string
	search   string
	status   string
	category string
	class    string
	month    string
	protocol string
	sort     string
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export incidents, protocols or meeting minutes as html, pdf or xlsx",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		var buf bytes.Buffer
		if err := a.export(ctx, &buf); err != nil {
			return err
		}
		if exportOpts.output == "" || exportOpts.output == "-" {
			_, err = io.Copy(cmd.OutOrStdout(), &buf)
			return err
		}
		if err := os.WriteFile(exportOpts.output, buf.Bytes(), 0o644); err != nil {
			return err
		}
		a.log.Info("export written", "file", exportOpts.output, "bytes", buf.Len())
		return nil
	},
}

func init() {
	f := exportCmd.Flags()
	f.StringVar(&exportOpts.kind, "type", "incidents", "incidents, protocols or meetings")
	f.StringVar(&exportOpts.format, "format", "xlsx", "html, pdf or xlsx")
	f.StringVarP(&exportOpts.output, "output", "o", "", "output file (default stdout)")
	f.StringVar(&exportOpts.search, "search", "", "free text search")
	f.StringVar(&exportOpts.status, "status", views.All, "incident status")
	f.StringVar(&exportOpts.category, "category", views.All, "incident category")
	f.StringVar(&exportOpts.class, "class", views.All, "class id")
	f.StringVar(&exportOpts.month, "month", views.All, "month as YYYY-MM")
	f.StringVar(&exportOpts.protocol, "protocol-type", views.All, "conversation type")
	f.StringVar(&exportOpts.sort, "sort", string(views.Descending), "ASC or DESC")

	shareLinkCmd.Flags().BoolVar(&saveShareLink, "save", false, "write the settings to the config file")
}

func (a *app) export(ctx context.Context, w io.Writer) error {
	order := views.ParseSortOrder(exportOpts.sort)
	var (
		html func(io.Writer) error
		xlsx func(io.Writer) error
	)

	switch exportOpts.kind {
	case "incidents":
		s, err := a.repo.LoadStructure(ctx)
		if err != nil {
			return err
		}
		incidents, err := a.repo.Incidents.FetchAll(ctx)
		if err != nil {
			return err
		}
		list := views.IncidentFilter{
			Search:   exportOpts.search,
			Status:   exportOpts.status,
			Category: exportOpts.category,
			ClassID:  exportOpts.class,
			Month:    exportOpts.month,
		}.Apply(views.JoinIncidents(incidents, s.Students, s.Classes, s.Years))
		views.SortIncidents(list, order)
		html = func(w io.Writer) error { return a.renderer.IncidentList(w, list, nil) }
		xlsx = func(w io.Writer) error { return render.IncidentsXLSX(w, list) }
	case "protocols":
		s, err := a.repo.LoadStructure(ctx)
		if err != nil {
			return err
		}
		conversations, err := a.repo.Conversations.FetchAll(ctx)
		if err != nil {
			return err
		}
		list := views.ConversationFilter{Search: exportOpts.search, Type: exportOpts.protocol}.
			Apply(views.JoinConversations(conversations, s.Students, s.Classes))
		views.SortConversations(list, order)
		html = func(w io.Writer) error { return a.renderer.ConversationList(w, list, nil) }
		xlsx = func(w io.Writer) error { return render.ConversationsXLSX(w, list) }
	case "meetings":
		minutes, err := a.repo.MeetingMinutes.FetchAll(ctx)
		if err != nil {
			return err
		}
		list := views.MeetingFilter{Search: exportOpts.search}.Apply(minutes)
		views.SortMeetings(list, order)
		html = func(w io.Writer) error { return a.renderer.MeetingList(w, list, nil) }
		xlsx = func(w io.Writer) error { return render.MeetingsXLSX(w, list) }
	default:
		return fmt.Errorf("unknown export type %q", exportOpts.kind)
	}

	switch exportOpts.format {
	case "html":
		return html(w)
	case "xlsx":
		return xlsx(w)
	case "pdf":
		doc, err := render.String(html)
		if err != nil {
			return err
		}
		pdf, err := a.printer.PrintPDF(ctx, doc)
		if err != nil {
			return err
		}
		_, err = w.Write(pdf)
		return err
	}
	return fmt.Errorf("unknown export format %q", exportOpts.format)
}
