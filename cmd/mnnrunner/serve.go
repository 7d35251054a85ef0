package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"mnnrunner/internal/httpapi"
)

func newServeCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Serve the HTTP API",
		Example: "  mnnrunner serve --addr :8080 --runner-bin mnn-runner --lib-dir ./lib",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := o.logger(cmd)
			m := o.newManager(log, nil)
			if !m.Ready() {
				log.Warn().Msg("no runner configured; runs will fail until --runner-bin is set")
			}

			httpapi.SetLogger(log)
			httpapi.SetMaxBodyBytes(o.MaxBodyBytes)
			httpapi.SetRunWaitSeconds(o.RunWaitSecs)
			httpapi.SetCORSOptions(o.CORSEnabled, o.CORSOrigins, nil, nil)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			httpapi.SetBaseContext(ctx)

			srv := &http.Server{
				Addr:              o.Addr,
				Handler:           httpapi.NewMux(m),
				ReadHeaderTimeout: 10 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() {
				log.Info().Str("addr", o.Addr).Str("models_dir", o.ModelsDir).Int("models", len(m.ListModels())).Msg("mnnrunner listening")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return err
				}
			case <-ctx.Done():
			}

			// Graceful shutdown (Ctrl+C / SIGTERM)
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("graceful shutdown error")
			}
			m.Close()
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&o.Addr, "addr", o.Addr, "HTTP listen address (defaults MNNRUNNER_ADDR or :8080)")
	fl.Int64Var(&o.MaxBodyBytes, "max-body-bytes", o.MaxBodyBytes, "Maximum request body size")
	fl.Int64Var(&o.RunWaitSecs, "run-wait", o.RunWaitSecs, "Seconds POST /run waits for an outcome (0 waits forever)")
	fl.BoolVar(&o.CORSEnabled, "cors", o.CORSEnabled, "Enable CORS")
	fl.Var(newCSVValue(&o.CORSOrigins), "cors-origins", "Comma-separated allowed CORS origins")
	return cmd
}

// csvValue is a pflag.Value that fills a slice through splitCSV.
type csvValue struct{ dst *[]string }

func newCSVValue(dst *[]string) *csvValue { return &csvValue{dst: dst} }

func (v *csvValue) String() string {
	if v.dst == nil {
		return ""
	}
	return joinCSV(*v.dst)
}

func (v *csvValue) Set(s string) error {
	*v.dst = splitCSV(s)
	return nil
}

func (v *csvValue) Type() string { return "csv" }
