package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"jobboard/internal/apiserver/setup"
	"jobboard/internal/shared/model"
	"jobboard/internal/shared/infra"
)

var seedRandom uint64

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert demo users, jobs and applications",
	Long: `Insert demo users, jobs and applications.

Existing accounts are kept. Jobs and applications are only inserted
when the job catalog is empty, so the command can be run repeatedly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		defer log.Sync()

		store, err := infra.OpenStorage(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		if seedRandom == 0 {
			seedRandom = uint64(time.Now().UnixNano())
		}
		sum, err := setup.NewSeeder(store, seedRandom, log).Run(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "=== SEED DATA SUMMARY ===")
		fmt.Fprintf(out, "Users created:        %d\n", sum.UsersCreated)
		fmt.Fprintf(out, "Jobs created:         %d\n", sum.JobsCreated)
		fmt.Fprintf(out, "Applications created: %d\n", sum.ApplicationsCreated)
		for _, st := range []model.ApplicationStatus{model.ApplicationStatusPending, model.ApplicationStatusAccepted, model.ApplicationStatusRejected} {
			fmt.Fprintf(out, "  - %-8s %d\n", st, sum.ByStatus[st])
		}
		fmt.Fprintln(out, "\n=== DEMO ACCOUNTS (password: "+setup.DemoPassword+") ===")
		for _, acc := range setup.Accounts() {
			fmt.Fprintf(out, "  %-24s %s\n", acc[0], acc[1])
		}
		return nil
	},
}

func init() {
	seedCmd.Flags().Uint64Var(&seedRandom, "random-seed", 0, "random seed for application distribution (0 = time based)")
}
