package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/neilberkman/claudeboss/internal/core/active"
	"github.com/neilberkman/claudeboss/internal/core/models"
	"github.com/neilberkman/claudeboss/internal/core/summarize"
)

var (
	listLimit    int
	listCategory string
	listLive     bool
)

var (
	activeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	idStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	titleStyle   = lipgloss.NewStyle().Bold(true)
	pathStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
	workStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	previewStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List Claude Code sessions",
	Long: `List discovered Claude Code sessions in reverse chronological order.

Shows cached titles, project paths, context sizes, and which sessions are
open right now.

Examples:
  claudeboss list
  claudeboss list --limit 10
  claudeboss list --category professional
  claudeboss list --live`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().IntVar(&listLimit, "limit", 20, "Maximum number of sessions to display")
	listCmd.Flags().StringVar(&listCategory, "category", "", "Filter by category (personal or professional)")
	listCmd.Flags().BoolVar(&listLive, "live", false, "Check process and window state to mark open sessions")
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	sessions, err := loadSessions(cfg)
	if err != nil {
		return err
	}

	if listLive {
		corr := active.NewCorrelator(cfg.ClaudeDir, cfg.Program, cfg.WindowMarker,
			active.SystemProcessLister{}, active.WmctrlWindowLister{})
		activeIDs := corr.ActiveSessionIDs(cmd.Context())
		for _, s := range sessions {
			s.IsActive = activeIDs[s.ID]
		}
	}

	cache := summarize.OpenCache(cfg.SummaryCachePath())
	for _, s := range sessions {
		if entry, ok := cache.Get(s.ID); ok {
			s.LastSummary = entry.Summary
		}
	}

	if listCategory != "" {
		filtered := sessions[:0]
		for _, s := range sessions {
			if string(s.Category) == listCategory {
				filtered = append(filtered, s)
			}
		}
		sessions = filtered
	}

	if len(sessions) == 0 {
		fmt.Println("No sessions found.")
		return nil
	}
	if len(sessions) > listLimit {
		sessions = sessions[:listLimit]
	}

	for _, s := range sessions {
		fmt.Println(renderSession(s))
	}
	return nil
}

// renderSession formats one session as a two-line list row.
func renderSession(s *models.Session) string {
	var b strings.Builder

	marker := "  "
	if s.IsActive {
		marker = activeStyle.Render("● ")
	}
	b.WriteString(marker)

	title := s.LastSummary
	if title == "" {
		title = s.Summary
	}
	if title == "" {
		title = s.DirName()
	}
	b.WriteString(titleStyle.Render(title))
	if s.Category == models.CategoryProfessional {
		b.WriteString(" " + workStyle.Render("[work]"))
	}
	b.WriteString("\n  ")

	b.WriteString(pathStyle.Render(s.ShortPath()))
	b.WriteString(faintStyle.Render(fmt.Sprintf("  %s  %s  ", s.MtimeDisplay(), s.ContextDisplay())))
	b.WriteString(idStyle.Render(s.ID))

	if s.FirstMessage != "" {
		b.WriteString("\n  " + previewStyle.Render(s.FirstMessage))
	}
	b.WriteString("\n")
	return b.String()
}
