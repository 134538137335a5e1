package cli

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/doeshing/wxq/internal/application/query"
	"github.com/doeshing/wxq/internal/domain"
)

type tuiKeyMap struct {
	Submit key.Binding
	Quit   key.Binding
}

var defaultTUIKeyMap = tuiKeyMap{
	Submit: key.NewBinding(key.WithKeys("enter")),
	Quit:   key.NewBinding(key.WithKeys("ctrl+c", "esc")),
}

type tuiStyles struct {
	Title   lipgloss.Style
	Button  lipgloss.Style
	Loading lipgloss.Style
	Error   lipgloss.Style
	Weather lipgloss.Style
	Help    lipgloss.Style
}

func defaultTUIStyles() tuiStyles {
	return tuiStyles{
		Title:   lipgloss.NewStyle().Bold(true),
		Button:  lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.NormalBorder()),
		Loading: lipgloss.NewStyle().Faint(true),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#B00020", Dark: "#FF6B6B"}),
		Weather: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).
			BorderForeground(lipgloss.AdaptiveColor{Light: "#CCCCCC", Dark: "#444444"}),
		Help: lipgloss.NewStyle().Faint(true),
	}
}

// stateMsg carries a controller snapshot taken by the observer.
type stateMsg domain.QueryState

// lookupDoneMsg is returned by the submit command once Submit returns.
type lookupDoneMsg domain.QueryState

// TUIModel is the interactive lookup form.
type TUIModel struct {
	ctx        context.Context
	controller *query.Controller
	input      textinput.Model
	state      domain.QueryState
	keys       tuiKeyMap
	styles     tuiStyles
}

// NewTUIModel builds the form around controller.
func NewTUIModel(ctx context.Context, controller *query.Controller) TUIModel {
	input := textinput.New()
	input.Placeholder = "e.g., London"
	input.Prompt = "> "
	input.CharLimit = 120
	input.Focus()

	return TUIModel{
		ctx:        ctx,
		controller: controller,
		input:      input,
		state:      controller.State(),
		keys:       defaultTUIKeyMap,
		styles:     defaultTUIStyles(),
	}
}

func (m TUIModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m TUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Submit):
			if m.state.Pending {
				return m, nil
			}
			// Pending is set here so a second enter before the controller
			// reports back can not start another lookup.
			m.state.Pending = strings.TrimSpace(m.input.Value()) != ""
			return m, m.submit()
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.controller.SetInput(m.input.Value())
		m.state.InputText = m.input.Value()
		return m, cmd

	case stateMsg:
		m.state = domain.QueryState(msg)
		return m, nil

	case lookupDoneMsg:
		m.state = domain.QueryState(msg)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m TUIModel) submit() tea.Cmd {
	ctx := m.ctx
	controller := m.controller
	return func() tea.Msg {
		controller.SubmitInput(ctx)
		return lookupDoneMsg(controller.State())
	}
}

func (m TUIModel) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Weather App"))
	b.WriteString("\n\nEnter the city name:\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.state.Pending {
		b.WriteString(m.styles.Loading.Render(loadingText))
	} else {
		b.WriteString(m.styles.Button.Render("See weather"))
	}
	b.WriteString("\n")

	if m.state.HasError() {
		b.WriteString("\n")
		b.WriteString(m.styles.Error.Render(m.state.ErrorMessage))
		b.WriteString("\n")
	}
	if m.state.Result != nil {
		b.WriteString("\n")
		b.WriteString(m.styles.Weather.Render(strings.Join(WeatherLines(*m.state.Result), "\n")))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("enter: see weather • esc: quit"))
	b.WriteString("\n")
	return b.String()
}

// RunInteractive starts the form. The controller's observer pushes pending
// transitions into the running program.
func RunInteractive(ctx context.Context, newController func(...query.Option) *query.Controller) error {
	var program *tea.Program
	controller := newController(query.WithObserver(func(state domain.QueryState) {
		if program != nil {
			program.Send(stateMsg(state))
		}
	}))
	program = tea.NewProgram(NewTUIModel(ctx, controller), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}
