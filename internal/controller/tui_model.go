package controller

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "mutest.dev/pkg/mutest/internal/model"
)

// Message types.
type estimationMsg struct {
	files      []fileStat
	categories []categoryStat
	total      int
	err        error
}

type concurrencyMsg struct {
	threads    int
	shardIndex int
	shards     int
}

type upcomingMsg struct {
	count int
}

type startMutantMsg struct {
	worker  int
	id      string
	mutator string
	path    string
	line    int
}

type completedMutantMsg struct {
	result m.Result
}

type reportMsg struct {
	report m.Report
}

// List item types.
type fileItem struct {
	stat fileStat
}

func (f fileItem) FilterValue() string {
	return f.stat.path
}

type resultItem struct {
	result m.Result
}

func (r resultItem) FilterValue() string {
	return strings.Join([]string{r.result.SiteID, string(r.result.File), r.result.Mutator, r.result.Status.String()}, " ")
}

var (
	accentColor = lipgloss.Color("6")

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Padding(1, 0, 0, 2)

	summaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Padding(0, 0, 1, 2)

	accentStyle = lipgloss.NewStyle().Foreground(accentColor)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			Padding(1, 0, 0, 2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(accentColor).
			Bold(true)

	statusColors = map[m.Status]lipgloss.Color{
		m.Killed:     lipgloss.Color("2"),
		m.Escaped:    lipgloss.Color("1"),
		m.Timeout:    lipgloss.Color("3"),
		m.Error:      lipgloss.Color("1"),
		m.NotCovered: lipgloss.Color("8"),
		m.Ignored:    lipgloss.Color("8"),
	}
)

// itemDelegate renders both file and result rows on a single line.
type itemDelegate struct{}

func (d itemDelegate) Height() int  { return 1 }
func (d itemDelegate) Spacing() int { return 0 }
func (d itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d itemDelegate) Render(w io.Writer, model list.Model, index int, item list.Item) {
	var line string

	switch it := item.(type) {
	case fileItem:
		count := lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true).Width(6).Align(lipgloss.Right).
			Render(fmt.Sprintf("%d", it.stat.count))
		line = fmt.Sprintf("%s  %s", count, truncateToWidth(it.stat.path, model.Width()-8))
	case resultItem:
		status := lipgloss.NewStyle().Foreground(statusColors[it.result.Status]).Bold(true).Width(12).
			Render(it.result.Status.String())
		mutator := lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Width(22).Render(it.result.Mutator)
		location := fmt.Sprintf("%s:%d", it.result.File, it.result.Line)
		line = fmt.Sprintf("%s %s %s", status, mutator, truncateToWidth(location, model.Width()-36))
	default:
		return
	}

	if index == model.Index() {
		line = selectedStyle.Render(stripANSI(line))
	}

	_, _ = fmt.Fprint(w, line)
}

type workerState struct {
	id    string
	label string
}

// tuiModel drives every mode of the TUI.
type tuiModel struct {
	mode        StartMode
	width       int
	height      int
	progressBar progress.Model
	items       list.Model

	threads    int
	shardIndex int
	shards     int
	total      int
	completed  int
	counts     map[m.Status]int
	workers    map[int]workerState

	estimation *estimationMsg
	report     *m.Report
	showDiff   bool
}

func newTUIModel(mode StartMode) tuiModel {
	items := list.New([]list.Item{}, itemDelegate{}, 80, 20)
	items.SetShowPagination(false)
	items.SetShowFilter(true)
	items.SetShowHelp(false)
	items.SetShowTitle(false)
	items.SetShowStatusBar(false)
	items.FilterInput.Placeholder = "Filter…"

	return tuiModel{
		mode: mode,
		progressBar: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(40),
			progress.WithoutPercentage(),
		),
		items:   items,
		threads: 1,
		shards:  1,
		counts:  make(map[m.Status]int),
		workers: make(map[int]workerState),
	}
}

func (tm tuiModel) Init() tea.Cmd {
	return nil
}

func (tm tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return tm.handleWindowSize(msg), nil

	case tea.KeyMsg:
		return tm.handleKeyMsg(msg)

	case estimationMsg:
		tm.estimation = &msg

		items := make([]list.Item, 0, len(msg.files))
		for _, stat := range msg.files {
			items = append(items, fileItem{stat: stat})
		}

		return tm, tm.items.SetItems(items)

	case concurrencyMsg:
		tm.threads = max(msg.threads, 1)
		tm.shardIndex = msg.shardIndex
		tm.shards = max(msg.shards, 1)

	case upcomingMsg:
		tm.total = msg.count
		tm.completed = 0

	case startMutantMsg:
		tm.workers[msg.worker] = workerState{
			id:    msg.id,
			label: fmt.Sprintf("%s %s:%d", msg.mutator, msg.path, msg.line),
		}

	case completedMutantMsg:
		return tm.handleCompleted(msg), nil

	case reportMsg:
		return tm.handleReport(msg)
	}

	return tm, nil
}

func (tm tuiModel) handleWindowSize(msg tea.WindowSizeMsg) tuiModel {
	tm.width = msg.Width
	tm.height = msg.Height
	tm.progressBar.Width = max(min(msg.Width-4, 80), 10)
	tm.items.SetSize(max(msg.Width-4, 20), max(msg.Height-12, 5))

	return tm
}

func (tm tuiModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if tm.items.FilterState() == list.Filtering {
		var cmd tea.Cmd
		tm.items, cmd = tm.items.Update(msg)

		return tm, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return tm, tea.Quit
	case "enter", " ":
		tm.showDiff = !tm.showDiff
		return tm, nil
	}

	var cmd tea.Cmd
	tm.items, cmd = tm.items.Update(msg)

	return tm, cmd
}

func (tm tuiModel) handleCompleted(msg completedMutantMsg) tuiModel {
	tm.completed++
	tm.counts[msg.result.Status]++

	for worker, state := range tm.workers {
		if state.id == msg.result.SiteID {
			delete(tm.workers, worker)
		}
	}

	return tm
}

func (tm tuiModel) handleReport(msg reportMsg) (tea.Model, tea.Cmd) {
	report := msg.report
	tm.report = &report
	tm.workers = make(map[int]workerState)

	results := append([]m.Result(nil), report.Results...)
	sort.SliceStable(results, func(i, j int) bool {
		return statusOrder(results[i].Status) < statusOrder(results[j].Status)
	})

	items := make([]list.Item, 0, len(results))
	for _, result := range results {
		items = append(items, resultItem{result: result})
	}

	return tm, tm.items.SetItems(items)
}

// statusOrder sorts escaped mutants first, then timeouts and errors.
func statusOrder(status m.Status) int {
	switch status {
	case m.Escaped:
		return 0
	case m.Timeout, m.Error:
		return 1
	case m.NotCovered:
		return 2
	case m.Killed:
		return 3
	default:
		return 4
	}
}

// progressPercent returns the completed share of upcoming mutants.
func (tm tuiModel) progressPercent() float64 {
	if tm.total <= 0 {
		return 0
	}

	return min(float64(tm.completed)/float64(tm.total), 1)
}

func (tm tuiModel) View() string {
	switch {
	case tm.report != nil:
		return tm.viewResults()
	case tm.mode == ModeEstimate:
		return tm.viewEstimation()
	default:
		return tm.viewProgress()
	}
}

func (tm tuiModel) viewEstimation() string {
	if tm.estimation == nil {
		return "Estimating…\n"
	}

	if tm.estimation.err != nil {
		return fmt.Sprintf("estimation error: %v\n", tm.estimation.err)
	}

	categories := make([]string, 0, len(tm.estimation.categories))
	for _, stat := range tm.estimation.categories {
		categories = append(categories, fmt.Sprintf("%s %s", categoryLabel(stat.category), accentStyle.Render(fmt.Sprintf("%d", stat.count))))
	}

	summary := summaryStyle.Render(fmt.Sprintf("Sites: %s  •  Files: %s\n%s",
		accentStyle.Render(fmt.Sprintf("%d", tm.estimation.total)),
		accentStyle.Render(fmt.Sprintf("%d", len(tm.estimation.files))),
		strings.Join(categories, "  •  "),
	))

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Mutest Estimation"),
		summary,
		tm.items.View(),
		footerStyle.Render("↑/↓ move • / filter • q quit"),
	)
}

func (tm tuiModel) viewProgress() string {
	summary := summaryStyle.Render(fmt.Sprintf("Progress: %s / %s  •  Workers: %s  •  Shard: %s / %s\nKilled: %s  •  Escaped: %s  •  Timeout: %s  •  Errors: %s",
		accentStyle.Render(fmt.Sprintf("%d", tm.completed)),
		accentStyle.Render(fmt.Sprintf("%d", tm.total)),
		accentStyle.Render(fmt.Sprintf("%d", tm.threads)),
		accentStyle.Render(fmt.Sprintf("%d", tm.shardIndex)),
		accentStyle.Render(fmt.Sprintf("%d", tm.shards)),
		accentStyle.Render(fmt.Sprintf("%d", tm.counts[m.Killed])),
		accentStyle.Render(fmt.Sprintf("%d", tm.counts[m.Escaped])),
		accentStyle.Render(fmt.Sprintf("%d", tm.counts[m.Timeout])),
		accentStyle.Render(fmt.Sprintf("%d", tm.counts[m.Error])),
	))

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Mutest Mutation Testing"),
		summary,
		lipgloss.NewStyle().Padding(0, 2).Render(tm.progressBar.ViewAs(tm.progressPercent())),
		tm.renderWorkers(),
		footerStyle.Render("q quit"),
	)
}

func (tm tuiModel) renderWorkers() string {
	lines := make([]string, 0, tm.threads)

	for worker := range tm.threads {
		label := "idle"
		if state, ok := tm.workers[worker]; ok {
			label = fmt.Sprintf("%s %s", shortID(state.id), state.label)
		}

		lines = append(lines, fmt.Sprintf("Worker %d: %s", worker, truncateToWidth(label, max(tm.width-20, 20))))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accentColor).
		Padding(0, 1).
		Margin(1, 1, 0, 1).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (tm tuiModel) viewResults() string {
	score := tm.report.Score

	summary := summaryStyle.Render(fmt.Sprintf("Total: %s  •  Killed: %s  •  Escaped: %s  •  Timeout: %s  •  Errors: %s  •  Not covered: %s\n%s",
		accentStyle.Render(fmt.Sprintf("%d", score.Total)),
		accentStyle.Render(fmt.Sprintf("%d", score.Killed)),
		accentStyle.Render(fmt.Sprintf("%d", score.Escaped)),
		accentStyle.Render(fmt.Sprintf("%d", score.Timeout)),
		accentStyle.Render(fmt.Sprintf("%d", score.Errors)),
		accentStyle.Render(fmt.Sprintf("%d", score.NotCovered)),
		formatScore(score),
	))

	parts := []string{titleStyle.Render("Mutest Results"), summary, tm.items.View()}

	if tm.showDiff {
		if item, ok := tm.items.SelectedItem().(resultItem); ok && item.result.Diff != "" {
			parts = append(parts, lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(accentColor).
				Padding(0, 1).
				Render(item.result.Diff))
		}
	}

	parts = append(parts, footerStyle.Render("↑/↓ move • / filter • enter diff • q quit"))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func truncateToWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}

	if lipgloss.Width(text) <= width {
		return text
	}

	const ellipsis = "…"

	if width <= 1 {
		return ellipsis
	}

	maxWidth := width - lipgloss.Width(ellipsis)
	currentWidth := 0

	result := make([]rune, 0, len(text))
	for _, r := range text {
		rWidth := lipgloss.Width(string(r))
		if currentWidth+rWidth > maxWidth {
			break
		}

		result = append(result, r)
		currentWidth += rWidth
	}

	return string(result) + ellipsis
}

// stripANSI drops escape sequences so a row can be restyled as selected.
func stripANSI(text string) string {
	var b strings.Builder

	inEscape := false

	for _, r := range text {
		switch {
		case r == '\x1b':
			inEscape = true
		case inEscape:
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
		default:
			b.WriteRune(r)
		}
	}

	return b.String()
}
