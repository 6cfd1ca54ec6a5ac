package ui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/freqdeck/pkg/config"
	"github.com/vanderheijden86/freqdeck/pkg/debug"
	"github.com/vanderheijden86/freqdeck/pkg/deck"
	"github.com/vanderheijden86/freqdeck/pkg/lecture"
	"github.com/vanderheijden86/freqdeck/pkg/metrics"
	"github.com/vanderheijden86/freqdeck/pkg/watcher"
)

// Chrome rows around the slide body: header on top, indicators and footer
// at the bottom.
const (
	headerRows = 1
	footerRows = 2
)

// Indicator bar pieces. Mouse hit testing relies on their cell widths.
const (
	prevLabel = "‹ prev"
	nextLabel = "next ›"
	navGap    = "   "
	dotActive = "●"
	dotIdle   = "○"
)

// ConfigChangedMsg is sent when the config file changes on disk.
type ConfigChangedMsg struct{}

// WatchConfigCmd returns a command that waits for config changes and sends ConfigChangedMsg
func WatchConfigCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		<-w.Changed()
		return ConfigChangedMsg{}
	}
}

// Option configures a Model.
type Option func(*Model)

// WithRenderer sets the lipgloss renderer used for all styles.
func WithRenderer(r *lipgloss.Renderer) Option {
	return func(m *Model) { m.theme = DefaultTheme(r) }
}

// WithConfigWatch reloads the config through reload whenever w reports a
// change. Navigation policy and reveal timing are applied live.
func WithConfigWatch(w *watcher.Watcher, reload func() (config.Config, error)) Option {
	return func(m *Model) {
		m.watcher = w
		m.reload = reload
	}
}

// WithClipboard replaces the system clipboard writer.
func WithClipboard(write func(string) error) Option {
	return func(m *Model) { m.copy = write }
}

// Model is the Bubble Tea model of the presenter.
type Model struct {
	// Data
	title string
	deck  *deck.Controller
	cfg   config.Config

	// Live reveal machines of the active slide
	state *slideState
	epoch int

	// Config reload
	watcher *watcher.Watcher
	reload  func() (config.Config, error)
	copy    func(string) error

	// UI Components
	theme    Theme
	keys     keyMap
	help     help.Model
	viewport viewport.Model
	md       markdownCache

	// UI State
	width         int
	height        int
	showHelp      bool
	statusMsg     string
	statusIsError bool
}

// NewModel builds the presenter for d. The deck starts on the configured
// slide under the configured navigation policy.
func NewModel(d lecture.Deck, cfg config.Config, opts ...Option) (Model, error) {
	ctrl, err := deck.New(d.Slides,
		deck.WithWrapAround(cfg.Navigation.WrapAround),
		deck.WithStart(cfg.Navigation.StartSlide),
	)
	if err != nil {
		return Model{}, fmt.Errorf("create deck: %w", err)
	}

	m := Model{
		title:    d.Title,
		deck:     ctrl,
		cfg:      cfg,
		theme:    DefaultTheme(lipgloss.DefaultRenderer()),
		keys:     defaultKeyMap(),
		help:     help.New(),
		md:       markdownCache{},
		copy:     clipboard.WriteAll,
		width:    100,
		height:   32,
		viewport: viewport.New(100, 32-headerRows-footerRows),
	}
	for _, opt := range opts {
		opt(&m)
	}

	if err := m.enterSlide(); err != nil {
		return Model{}, err
	}
	m.refresh()
	return m, nil
}

func (m Model) Init() tea.Cmd {
	if m.watcher != nil {
		return WatchConfigCmd(m.watcher)
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = m.bodyHeight()

	case tea.KeyMsg:
		var cmd tea.Cmd
		m, cmd = m.handleKey(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}

	case tea.MouseMsg:
		cmds = append(cmds, m.handleMouse(msg))

	case RevealTickMsg:
		cmds = append(cmds, m.state.fire(msg.Timer))

	case transitionFrameMsg:
		cmds = append(cmds, m.state.advance(msg, m.cfg.Transition()))

	case ConfigChangedMsg:
		m.applyReload()
		if m.watcher != nil {
			cmds = append(cmds, WatchConfigCmd(m.watcher))
		}
	}

	m.refresh()
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	m.statusMsg = ""
	m.statusIsError = false

	if m.showHelp {
		switch {
		case key.Matches(msg, m.keys.Help), msg.String() == "esc":
			m.showHelp = false
			return m, nil
		case msg.String() == "q", msg.String() == "ctrl+c":
			m.Stop()
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Stop()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case key.Matches(msg, m.keys.Prev):
		if m.deck.Previous() {
			m.slideChanged()
		}
	case key.Matches(msg, m.keys.Next):
		if m.deck.Next() {
			m.slideChanged()
		}
	case key.Matches(msg, m.keys.First):
		m.jump(0)
	case key.Matches(msg, m.keys.Last):
		m.jump(m.deck.Len() - 1)
	case key.Matches(msg, m.keys.Jump):
		if i, ok := digitSlide(msg.String()); ok && i < m.deck.Len() {
			m.jump(i)
		}
	case key.Matches(msg, m.keys.Animate):
		if m.state.empty() {
			m.setStatus("nothing to animate on this slide", false)
			return m, nil
		}
		return m, tea.Batch(m.state.animate(m.cfg.Transition())...)
	case key.Matches(msg, m.keys.Reset):
		m.state.reset()
	case key.Matches(msg, m.keys.Cycle):
		return m, tea.Batch(m.state.cycle(m.cfg.Transition())...)
	case key.Matches(msg, m.keys.Copy):
		m.copySlide()
	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft || m.showHelp {
		return nil
	}
	if msg.Y != m.height-footerRows {
		return nil
	}
	switch hit := m.navHit(msg.X); {
	case hit == navHitPrev:
		if m.deck.Previous() {
			m.slideChanged()
		}
	case hit == navHitNext:
		if m.deck.Next() {
			m.slideChanged()
		}
	case hit >= 0:
		m.jump(hit)
	}
	return nil
}

// jump moves to slide i, which the caller has already range-checked.
func (m *Model) jump(i int) {
	prev := m.deck.Cursor()
	if err := m.deck.JumpTo(i); err != nil {
		debug.Log("ui: jump %d: %v", i, err)
		return
	}
	if m.deck.Cursor() != prev {
		m.slideChanged()
	}
}

// slideChanged tears down the old slide's reveals and builds fresh ones.
func (m *Model) slideChanged() {
	if err := m.enterSlide(); err != nil {
		m.setStatus(err.Error(), true)
	}
	m.viewport.GotoTop()
}

func (m *Model) enterSlide() error {
	if m.state != nil {
		m.state.teardown()
	}
	m.epoch++
	st, err := newSlideState(m.deck.ActiveSlide(), m.epoch, m.cfg.Interval(), m.cfg.PercentDelay())
	if err != nil {
		m.state = &slideState{epoch: m.epoch}
		return fmt.Errorf("slide %d: %w", m.deck.Cursor()+1, err)
	}
	m.state = st
	debug.Log("ui: entered slide %d (epoch %d)", m.deck.Cursor()+1, m.epoch)
	return nil
}

func (m *Model) applyReload() {
	if m.reload == nil {
		return
	}
	defer metrics.Timer(metrics.ConfigReload)()
	cfg, err := m.reload()
	if err != nil {
		m.setStatus(fmt.Sprintf("config: %v", err), true)
		return
	}
	m.cfg = cfg
	m.deck.SetWrapAround(cfg.Navigation.WrapAround)
	m.setStatus("config reloaded", false)
	debug.Log("ui: config reloaded, wrap=%v interval=%s", cfg.Navigation.WrapAround, cfg.Interval())
}

func (m *Model) copySlide() {
	if err := m.copy(SlideText(m.deck.ActiveSlide())); err != nil {
		m.setStatus(fmt.Sprintf("Clipboard error: %v", err), true)
		return
	}
	m.setStatus(fmt.Sprintf("Copied slide %d to clipboard", m.deck.Cursor()+1), false)
}

func (m *Model) setStatus(msg string, isError bool) {
	m.statusMsg = msg
	m.statusIsError = isError
}

func (m Model) bodyHeight() int {
	return max(1, m.height-headerRows-footerRows)
}

func (m Model) contentWidth() int {
	return max(20, min(m.width-4, MaxContentWidth))
}

// refresh re-renders the active slide into the viewport.
func (m *Model) refresh() {
	defer metrics.Timer(metrics.SlideRender)()
	m.viewport.SetContent(m.renderSlide())
}

func (m Model) renderSlide() string {
	t := m.theme
	w := m.contentWidth()
	s := m.deck.ActiveSlide()

	var sb strings.Builder
	sb.WriteString(t.Title.Render(truncate(s.Title, w)))
	if s.Subtitle != "" {
		sb.WriteString("\n" + t.Subtitle.Render(truncate(s.Subtitle, w)))
	}
	sb.WriteString("\n" + RenderDivider(t, w) + "\n\n")
	sb.WriteString(newContentRenderer(t, m.state, m.md).Blocks(s.Body, w))

	body := sb.String()
	lines := strings.Split(body, "\n")
	for i, l := range lines {
		lines[i] = lipgloss.PlaceHorizontal(m.width, lipgloss.Center, padRight(l, w))
	}
	return strings.Join(lines, "\n")
}

func (m Model) View() string {
	var body string
	if m.showHelp {
		body = m.renderHelp()
	} else {
		body = m.viewport.View()
	}
	return strings.Join([]string{
		m.renderHeader(),
		body,
		m.renderNav(),
		m.renderFooter(),
	}, "\n")
}

func (m Model) renderHeader() string {
	t := m.theme
	v := m.deck.View()
	title := t.Header.Render(truncate(m.title, max(1, m.width/2)))
	pos := t.MutedText.Render(v.Position())
	gap := max(1, m.width-lipgloss.Width(title)-lipgloss.Width(pos)-1)
	return title + strings.Repeat(" ", gap) + pos
}

// navLayout returns the left offset of the indicator bar.
func (m Model) navLayout() (start int, total int) {
	n := 0
	if m.cfg.UI.ShowIndicators {
		n = m.deck.Len()
	}
	dots := max(0, 2*n-1)
	total = len([]rune(prevLabel)) + len(navGap) + dots + len(navGap) + len([]rune(nextLabel))
	start = max(0, (m.width-total)/2)
	return start, total
}

const (
	navHitNone = -1
	navHitPrev = -2
	navHitNext = -3
)

// navHit maps a click column on the indicator row to a slide index or one
// of the navHit constants.
func (m Model) navHit(x int) int {
	start, total := m.navLayout()
	x -= start
	if x < 0 || x >= total {
		return navHitNone
	}
	prevW := len([]rune(prevLabel))
	if x < prevW {
		return navHitPrev
	}
	if x >= total-len([]rune(nextLabel)) {
		return navHitNext
	}
	if !m.cfg.UI.ShowIndicators {
		return navHitNone
	}
	d := x - prevW - len(navGap)
	if d < 0 || d%2 == 1 || d/2 >= m.deck.Len() {
		return navHitNone
	}
	return d / 2
}

func (m Model) renderNav() string {
	t := m.theme
	v := m.deck.View()

	prev := t.ControlOff.Render(prevLabel)
	if v.CanPrevious {
		prev = t.ControlOn.Render(prevLabel)
	}
	next := t.ControlOff.Render(nextLabel)
	if v.CanNext {
		next = t.ControlOn.Render(nextLabel)
	}

	var dots []string
	if m.cfg.UI.ShowIndicators {
		for i := 0; i < v.Count; i++ {
			if i == v.Cursor {
				dots = append(dots, t.DotActive.Render(dotActive))
			} else {
				dots = append(dots, t.DotInactive.Render(dotIdle))
			}
		}
	}

	start, _ := m.navLayout()
	return strings.Repeat(" ", start) + prev + navGap + strings.Join(dots, " ") + navGap + next
}

func (m Model) renderFooter() string {
	if m.statusMsg != "" {
		return RenderStatus(m.theme, m.statusMsg, m.statusIsError)
	}
	return " " + m.help.View(m.keys)
}

func (m Model) renderHelp() string {
	t := m.theme
	content := t.PrimaryBold.Render("Keyboard shortcuts") + "\n\n" +
		m.help.FullHelpView(m.keys.FullHelp()) + "\n\n" +
		t.MutedText.Render("click a dot to jump · ? or esc to close")
	box := t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(1, 2).
		Render(content)
	return lipgloss.Place(m.width, m.bodyHeight(), lipgloss.Center, lipgloss.Center, box)
}

// Cursor returns the active slide index.
func (m Model) Cursor() int { return m.deck.Cursor() }

// WrapAround reports the navigation policy in effect.
func (m Model) WrapAround() bool { return m.deck.WrapAround() }

// ShowingHelp reports whether the help overlay is open.
func (m Model) ShowingHelp() bool { return m.showHelp }

// Status returns the footer status message.
func (m Model) Status() (string, bool) { return m.statusMsg, m.statusIsError }

// Stop resets all reveals and stops the config watcher.
func (m *Model) Stop() {
	if m.state != nil {
		m.state.teardown()
	}
	if m.watcher != nil {
		m.watcher.Stop()
	}
}
