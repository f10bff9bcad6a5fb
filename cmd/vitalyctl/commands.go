package main

import (
	"context"
	"fmt"
	"time"

	"github.com/2beens/vitaly/internal/config"
	"github.com/2beens/vitaly/internal/db"
	"github.com/2beens/vitaly/internal/results"
	"github.com/2beens/vitaly/internal/session"

	"github.com/spf13/cobra"
)

const defaultDBPath = "./local_data.db"

func newSeedCmd() *cobra.Command {
	var (
		dbPath   string
		sessions int
		windows  int
		seed     int64
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert synthetic processed results into the local store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if sessions <= 0 || windows <= 0 {
				return fmt.Errorf("sessions and windows must be positive")
			}
			if seed == 0 {
				seed = time.Now().UnixNano()
			}

			store, err := results.NewLocalStore(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := cmd.Context()
			synthetic := results.NewSynthetic(seed)
			start := time.Now().Add(-time.Duration(sessions*windows) * results.WindowStep)
			inserted := 0
			for i := 0; i < sessions; i++ {
				sessionID := synthetic.SessionID()
				for _, r := range synthetic.Session(sessionID, windows, start) {
					if _, err := store.Insert(ctx, r); err != nil {
						return fmt.Errorf("seed %s: %w", sessionID, err)
					}
					inserted++
				}
				start = start.Add(time.Duration(windows) * results.WindowStep)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "seeded %d results in %d sessions into %s\n", inserted, sessions, dbPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", defaultDBPath, "sqlite database path")
	cmd.Flags().IntVar(&sessions, "sessions", 1, "number of sessions")
	cmd.Flags().IntVar(&windows, "windows", 60, "processed windows per session")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed, time based when 0")
	return cmd
}

func newSyncCmd() *cobra.Command {
	var (
		dbPath    string
		pgHost    string
		pgPort    string
		pgDBName  string
		pgUser    string
		batchSize int
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Push unsynced local results to the central postgres repo",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			secrets, err := config.LoadSecrets(ctx)
			if err != nil {
				return err
			}

			store, err := results.NewLocalStore(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			pool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
				DBHost:     pgHost,
				DBPort:     pgPort,
				DBName:     pgDBName,
				DBUser:     pgUser,
				DBPassword: secrets.PostgresPassword,
			})
			if err != nil {
				return err
			}
			defer pool.Close()

			repo := results.NewPsqlRepo(pool)
			if err := repo.EnsureSchema(ctx); err != nil {
				return err
			}

			synced, err := results.NewSyncer(store, repo, batchSize, nil).Sync(ctx)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "synced %d results\n", synced)
			return err
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", defaultDBPath, "sqlite database path")
	cmd.Flags().StringVar(&pgHost, "pg-host", "localhost", "postgres host")
	cmd.Flags().StringVar(&pgPort, "pg-port", "5432", "postgres port")
	cmd.Flags().StringVar(&pgDBName, "pg-db", "vitaly", "postgres database name")
	cmd.Flags().StringVar(&pgUser, "pg-user", "postgres", "postgres user")
	cmd.Flags().IntVar(&batchSize, "batch", results.DefaultSyncBatchSize, "results per sync batch")
	return cmd
}

func newLatestCmd() *cobra.Command {
	var (
		apiURL  string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "latest",
		Short: "Fetch the latest session snapshot and print its quick stats",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			client := session.NewClient(apiURL, session.NewTracedHttpClient(timeout))
			snapshot, err := client.Latest(ctx)
			if err != nil {
				return fmt.Errorf("fetch latest: %w", err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), renderSnapshot(snapshot))
			return nil
		},
	}
	cmd.Flags().StringVar(&apiURL, "api", config.DefaultTelemetryApiURL, "telemetry api base url")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "request timeout")
	return cmd
}
