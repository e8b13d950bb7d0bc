package main

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/agribizboost/agriadmin/internal/client"
	"github.com/agribizboost/agriadmin/internal/client/tokenstore"
	"github.com/agribizboost/agriadmin/internal/export"
	"github.com/agribizboost/agriadmin/internal/session"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// app is everything a subcommand needs.
type app struct {
	cfg   ctlConfig
	log   *zap.Logger
	api   *client.Client
	sess  *session.Session
	in    io.Reader
	out   io.Writer
	errw  io.Writer
	now   func() time.Time
	store tokenstore.Store
}

func newApp(cfg ctlConfig, in io.Reader, out, errw io.Writer) (*app, error) {
	logger := zap.NewNop()
	if cfg.Verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return nil, err
		}
		logger = l
	}

	path := cfg.TokenFile
	if path == "" {
		p, err := tokenstore.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	store, err := tokenstore.OpenFile(path)
	if err != nil {
		if store == nil {
			return nil, err
		}
		logger.Warn("resetting unreadable session file", zap.String("path", path), zap.Error(err))
		if err := store.Reset(); err != nil {
			return nil, err
		}
	}

	a := &app{cfg: cfg, log: logger, in: in, out: out, errw: errw, now: time.Now, store: store}
	a.api = client.New(cfg.APIURL, store,
		client.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		client.WithLogger(logger.Named("api")),
	)
	a.sess = session.New(a.api, store, logger.Named("session"), func() {
		fmt.Fprintln(errw, "Signed out. Run `agriadminctl login` to sign in.")
	})
	a.api.SetLogoutHook(a.sess.Expire)
	a.sess.Restore()
	return a, nil
}

func (a *app) close() { _ = a.log.Sync() }

// save writes an export blob when --export was given. Builders that are
// nil mean the format is not offered for this page.
func (a *app) save(fs *pflag.FlagSet, base string, table func() export.Table, data any, report func() export.Report) error {
	raw, _ := fs.GetString("export")
	if raw == "" {
		return nil
	}
	f, err := export.ParseFormat(raw)
	if err != nil {
		return err
	}

	var blob []byte
	switch f {
	case export.FormatCSV:
		if table == nil {
			return fmt.Errorf("csv export is not available here")
		}
		blob, err = export.CSV(table())
	case export.FormatJSON:
		blob, err = export.JSON(data)
	case export.FormatText:
		if report == nil {
			return fmt.Errorf("txt export is not available here")
		}
		blob = export.Text(report())
	}
	if err != nil {
		return err
	}

	path, err := export.Download(a.cfg.DownloadDir, base, f, blob, a.now())
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "\nSaved %s\n", path)
	return nil
}
