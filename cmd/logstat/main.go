package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"moodflix-be/internal/bootstrap"
	"moodflix-be/internal/config"
	"moodflix-be/internal/pkg/logger"
	"moodflix-be/internal/repository/contract"
	"moodflix-be/internal/repository/specification"
	"moodflix-be/internal/service"
	"moodflix-be/pkg/events"
	pktNats "moodflix-be/pkg/nats"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	moodFlag   string
	cityFlag   string
	statusFlag string
	sinceFlag  time.Duration
	limitFlag  int
	levelFlag  string
	moduleFlag string
)

var rootCmd = &cobra.Command{
	Use:   "logstat",
	Short: "Inspect the moodflix selection log, service logs and live events",
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarise logged selections",
	RunE:  runSummary,
}

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show recent service log entries",
	RunE:  runLogs,
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow SELECTION_LOGGED events on NATS",
	RunE:  runWatch,
}

func init() {
	summaryCmd.Flags().StringVar(&moodFlag, "mood", "", "Only selections made in this mood")
	summaryCmd.Flags().StringVar(&cityFlag, "city", "", "Only selections made in this city")
	summaryCmd.Flags().StringVar(&statusFlag, "status", "", "Only selections on this day status (Weekday, Weekend, Holiday)")
	summaryCmd.Flags().DurationVar(&sinceFlag, "since", 0, "Only selections logged within this window, e.g. 168h")
	summaryCmd.Flags().IntVarP(&limitFlag, "limit", "n", 0, "Only the most recent n selections")

	logsCmd.Flags().StringVar(&levelFlag, "level", "", "Filter by level (debug, info, warn, error)")
	logsCmd.Flags().StringVar(&moduleFlag, "module", "", "Filter by module, e.g. RecommendService")
	logsCmd.Flags().IntVarP(&limitFlag, "limit", "n", 20, "Number of entries")

	rootCmd.AddCommand(summaryCmd, logsCmd, watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSummary(cmd *cobra.Command, args []string) error {
	repo, err := bootstrap.NewSelectionRepository(config.Load())
	if err != nil {
		return err
	}
	return summarize(cmd.Context(), cmd.OutOrStdout(), repo, filters(time.Now()), limitFlag)
}

func filters(now time.Time) []specification.Specification {
	var specs []specification.Specification
	if moodFlag != "" {
		specs = append(specs, specification.ByMood{Mood: moodFlag})
	}
	if cityFlag != "" {
		specs = append(specs, specification.ByCity{City: cityFlag})
	}
	if statusFlag != "" {
		specs = append(specs, specification.ByTodayStatus{Status: statusFlag})
	}
	if sinceFlag > 0 {
		specs = append(specs, specification.Since{From: now.Add(-sinceFlag)})
	}
	return specs
}

func summarize(ctx context.Context, w io.Writer, repo contract.SelectionRepository, specs []specification.Specification, limit int) error {
	if ctx == nil {
		ctx = context.Background()
	}
	rows, err := repo.FindRecent(ctx, limit, specs...)
	if err != nil {
		return fmt.Errorf("read selection log: %w", err)
	}

	heading := color.New(color.FgCyan, color.Bold)
	heading.Fprintf(w, "Selections: %d\n", len(rows))
	if len(rows) == 0 {
		return nil
	}
	fmt.Fprintf(w, "From %s to %s\n", rows[0].Timestamp.Format(time.RFC3339), rows[len(rows)-1].Timestamp.Format(time.RFC3339))

	byMood := map[string]map[string]int{}
	byCity := map[string]int{}
	for _, s := range rows {
		if byMood[s.Mood] == nil {
			byMood[s.Mood] = map[string]int{}
		}
		byMood[s.Mood][s.MovieSelected]++
		byCity[s.City]++
	}

	heading.Fprintln(w, "\nBy mood")
	for _, mood := range sortedKeys(byMood) {
		total := 0
		for _, n := range byMood[mood] {
			total += n
		}
		color.New(color.FgYellow).Fprintf(w, "  %-10s %4d", mood, total)
		for _, mc := range service.TopMovies(byMood[mood], 3) {
			fmt.Fprintf(w, "  %s (%d)", mc.Movie, mc.Count)
		}
		fmt.Fprintln(w)
	}

	heading.Fprintln(w, "\nBy city")
	for _, city := range sortedKeys(byCity) {
		fmt.Fprintf(w, "  %-20s %4d\n", city, byCity[city])
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func runLogs(cmd *cobra.Command, args []string) error {
	return printLogs(cmd.OutOrStdout(), config.Load().App.LogFilePath, levelFlag, moduleFlag, limitFlag)
}

func printLogs(w io.Writer, path, level, module string, limit int) error {
	entries, err := logger.ReadLogs(path, level, module, limit)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if len(entries) == 0 {
		color.New(color.FgYellow).Fprintln(w, "No log entries")
		return nil
	}
	for _, e := range entries {
		levelColor(e.Level).Fprintf(w, "%-5s", e.Level)
		fmt.Fprintf(w, " %s [%s] %s", e.Timestamp, e.Module, e.Message)
		for _, k := range sortedKeys(e.Details) {
			fmt.Fprintf(w, " %s=%v", k, e.Details[k])
		}
		fmt.Fprintln(w)
	}
	return nil
}

func levelColor(level string) *color.Color {
	switch strings.ToLower(level) {
	case "error":
		return color.New(color.FgRed)
	case "warn":
		return color.New(color.FgYellow)
	case "debug":
		return color.New(color.FgHiBlack)
	default:
		return color.New(color.FgGreen)
	}
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if cfg.App.NatsURL == "" {
		return fmt.Errorf("NATS_URL is not set")
	}
	sub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		return err
	}
	defer sub.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := cmd.OutOrStdout()
	err = sub.Subscribe(ctx, events.SelectionLogged, "", func(_ context.Context, evt events.Event) error {
		printEvent(w, evt)
		return nil
	})
	if err != nil {
		return err
	}
	color.New(color.FgCyan).Fprintln(w, "Watching selections, Ctrl+C to stop")
	<-ctx.Done()
	return nil
}

func printEvent(w io.Writer, evt events.Event) {
	p := evt.Payload()
	color.New(color.FgGreen).Fprintf(w, "%s ", evt.Timestamp().Format(time.RFC3339))
	fmt.Fprintf(w, "%v in %v (%v, %v) picked %v\n", p["mood"], p["city"], p["today_status"], p["weather_desc"], p["movie"])
}
