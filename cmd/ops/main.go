package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/a-bunting/daily-grind-sub000/internal/analytics"
	"github.com/a-bunting/daily-grind-sub000/internal/config"
	"github.com/a-bunting/daily-grind-sub000/internal/dates"
	"github.com/a-bunting/daily-grind-sub000/internal/goal"
	"github.com/a-bunting/daily-grind-sub000/internal/ops"
	"github.com/a-bunting/daily-grind-sub000/internal/store"
	"github.com/a-bunting/daily-grind-sub000/internal/task"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "dgops",
	Short: "daily-grind operator tooling",
	Long:  "Maintenance commands for a daily-grind data directory: goal recomputation, completion stats and snapshots.",
}

var recomputeCmd = &cobra.Command{
	Use:   "recompute",
	Short: "Rescan all task histories and persist derived goal progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, repo, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		tasks, err := repo.List(task.ListFilter{})
		if err != nil {
			return err
		}
		goals, err := st.ListGoals()
		if err != nil {
			return err
		}
		for _, g := range goal.RecomputeAll(goals, tasks) {
			if err := st.SaveGoal(g); err != nil {
				return err
			}
			proj := goal.Projection(g)
			fmt.Printf("%s: %s (%.0f%%)\n", g.Name, proj.Label, proj.Percentage)
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the completion summary for a date range",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, repo, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		tasks, err := repo.List(task.ListFilter{})
		if err != nil {
			return err
		}

		to := time.Now()
		from := to.AddDate(0, 0, -29)
		if v, _ := cmd.Flags().GetString("from"); v != "" {
			d, ok := dates.Parse(v)
			if !ok {
				return fmt.Errorf("invalid --from date: %s", v)
			}
			from = d
		}
		if v, _ := cmd.Flags().GetString("to"); v != "" {
			d, ok := dates.Parse(v)
			if !ok {
				return fmt.Errorf("invalid --to date: %s", v)
			}
			to = d
		}

		s := analytics.Compute(tasks, from, to)
		fmt.Printf("%s .. %s\n", s.From, s.To)
		fmt.Printf("active days:    %d\n", s.ActiveDays)
		fmt.Printf("perfect days:   %d\n", s.PerfectDays)
		fmt.Printf("avg completion: %.1f%%\n", s.AvgCompletion)
		fmt.Printf("streak:         %d (best %d)\n", s.CurrentStreak, s.BestStreak)
		return nil
	},
}

var backupCmd = &cobra.Command{
	Use:   "backup <archive.tar.gz>",
	Short: "Snapshot the data directory into a tar.gz archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		return ops.Snapshot(cfg.DataDir, args[0])
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <archive.tar.gz>",
	Short: "Restore a snapshot into the data directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		return ops.Restore(args[0], cfg.DataDir)
	},
}

func openStore() (*store.Store, *task.SQLiteRepo, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, err
	}
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	return st, task.NewSQLiteRepo(st.DB()), nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultConfigFileName, "path to the TOML config")
	statsCmd.Flags().String("from", "", "range start (YYYY-MM-DD), default 29 days ago")
	statsCmd.Flags().String("to", "", "range end (YYYY-MM-DD), default today")

	rootCmd.AddCommand(recomputeCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
