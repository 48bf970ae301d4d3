// Package cli provides the Cobra-based CLI for the sweetshop server.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"sweetshop/auth"
	"sweetshop/domain"
	"sweetshop/server"
	"sweetshop/service"
	"sweetshop/store"
)

var (
	rootCmd = &cobra.Command{
		Use:   "sweetshop",
		Short: "Sweet shop inventory and purchase service",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// IMPORTANT: allow tests to inject store and logger
			if backing != nil {
				return nil
			}

			if cfg := viper.GetString("config"); cfg != "" {
				viper.SetConfigFile(cfg)
				if err := viper.ReadInConfig(); err != nil {
					return err
				}
			}

			lvl, err := zapcore.ParseLevel(viper.GetString("log-level"))
			if err != nil {
				lvl = zapcore.InfoLevel
			}
			zcfg := zap.NewProductionConfig()
			zcfg.Level = zap.NewAtomicLevelAt(lvl)
			logger, err = zcfg.Build()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			backing, err = store.New(ctx,
				viper.GetString("store"),
				viper.GetString("mongo-uri"),
				viper.GetString("mongo-db"),
			)
			return err
		},
	}

	backing domain.Store
	logger  *zap.Logger
)

func init() {
	rootCmd.PersistentFlags().String("store", "mongo", "store backend: memory|mongo")
	rootCmd.PersistentFlags().String("mongo-uri", "mongodb://localhost:27017", "mongo connection URI")
	rootCmd.PersistentFlags().String("mongo-db", "sweetshop", "mongo database name")
	rootCmd.PersistentFlags().String("config", "", "config file")
	rootCmd.PersistentFlags().String("log-level", "info", "log level")

	viper.BindPFlag("store", rootCmd.PersistentFlags().Lookup("store"))
	viper.BindPFlag("mongo-uri", rootCmd.PersistentFlags().Lookup("mongo-uri"))
	viper.BindPFlag("mongo-db", rootCmd.PersistentFlags().Lookup("mongo-db"))
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.SetEnvPrefix("SWEETSHOP")
	viper.AutomaticEnv()

	// serve
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the REST API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := viper.GetString("jwt-secret")
			if secret == "" {
				return errors.New("jwt secret required (--jwt-secret or SWEETSHOP_JWT_SECRET)")
			}
			owner := service.OwnerCredentials{
				Username: viper.GetString("owner-username"),
				Password: viper.GetString("owner-password"),
			}
			if owner.Username == "" || owner.Password == "" {
				return errors.New("owner credentials required (--owner-username/--owner-password)")
			}

			tokens := auth.NewIssuer(secret, viper.GetDuration("token-ttl"))
			catalog := service.NewCatalog(backing, logger)
			inventory := service.NewInventory(backing, logger)
			identity := service.NewIdentity(backing, tokens, owner, logger)
			srv := server.New(catalog, inventory, identity, tokens, logger)

			httpSrv := &http.Server{
				Addr:    viper.GetString("addr"),
				Handler: srv.Handler(),
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("server listening", zap.String("addr", httpSrv.Addr))
				if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return httpSrv.Shutdown(shutdownCtx)
		},
	}
	serveCmd.Flags().String("addr", ":3000", "listen address")
	serveCmd.Flags().String("jwt-secret", "", "token signing secret")
	serveCmd.Flags().Duration("token-ttl", time.Hour, "token validity")
	serveCmd.Flags().String("owner-username", "", "owner login username")
	serveCmd.Flags().String("owner-password", "", "owner login password")
	viper.BindPFlag("addr", serveCmd.Flags().Lookup("addr"))
	viper.BindPFlag("jwt-secret", serveCmd.Flags().Lookup("jwt-secret"))
	viper.BindPFlag("token-ttl", serveCmd.Flags().Lookup("token-ttl"))
	viper.BindPFlag("owner-username", serveCmd.Flags().Lookup("owner-username"))
	viper.BindPFlag("owner-password", serveCmd.Flags().Lookup("owner-password"))
	rootCmd.AddCommand(serveCmd)

	// seed
	var seedFile string
	seedCmd := &cobra.Command{
		Use:   "seed --file <file>",
		Short: "Load sweets from a JSON file into the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			if seedFile == "" {
				return errors.New("--file required")
			}
			b, err := os.ReadFile(seedFile)
			if err != nil {
				return err
			}
			var sweets []domain.Sweet
			if err := json.Unmarshal(b, &sweets); err != nil {
				return err
			}
			ctx := cmd.Context()
			for _, sw := range sweets {
				created, err := backing.CreateSweet(ctx, sw)
				if err != nil {
					return fmt.Errorf("seed %q: %w", sw.Name, err)
				}
				logger.Info("sweet seeded", zap.String("sweet_id", created.ID), zap.String("name", created.Name))
			}
			fmt.Printf("seeded %d sweets\n", len(sweets))
			return nil
		},
	}
	seedCmd.Flags().StringVar(&seedFile, "file", "", "input file")
	rootCmd.AddCommand(seedCmd)
}

func Execute() error {
	return rootCmd.Execute()
}
