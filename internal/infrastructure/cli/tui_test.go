package cli

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/wxq/internal/application/query"
	"github.com/doeshing/wxq/internal/domain"
)

type fixedClient struct {
	result domain.WeatherResult
	err    error
	calls  int
}

func (f *fixedClient) Lookup(context.Context, string) (domain.WeatherResult, error) {
	f.calls++
	return f.result, f.err
}

func typeText(m tea.Model, text string) tea.Model {
	for _, r := range text {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func pressEnter(t *testing.T, m tea.Model) tea.Model {
	t.Helper()
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	m, _ = m.Update(cmd())
	return m
}

func TestTUISubmitRendersWeather(t *testing.T) {
	client := &fixedClient{result: domain.WeatherResult{City: "London", Temperature: 15, Condition: "Cloudy", Humidity: domain.Float(80)}}
	controller := query.New(client)

	var m tea.Model = NewTUIModel(context.Background(), controller)
	m = typeText(m, "London")
	assert.Equal(t, "London", controller.State().InputText)

	m = pressEnter(t, m)
	view := m.View()
	assert.Contains(t, view, "Weather in London")
	assert.Contains(t, view, "Humidity: 80%")
	assert.NotContains(t, view, "Wind:")
	assert.Equal(t, 1, client.calls)
}

func TestTUIBlankInputShowsValidation(t *testing.T) {
	client := &fixedClient{}
	var m tea.Model = NewTUIModel(context.Background(), query.New(client))

	m = typeText(m, "   ")
	m = pressEnter(t, m)

	assert.Contains(t, m.View(), domain.MsgEmptyCity)
	assert.Zero(t, client.calls)
}

func TestTUIIgnoresEnterWhilePending(t *testing.T) {
	var m tea.Model = NewTUIModel(context.Background(), query.New(&fixedClient{}))
	m, _ = m.Update(stateMsg(domain.QueryState{InputText: "Rome", Pending: true}))
	assert.Contains(t, m.View(), loadingText)
	assert.NotContains(t, m.View(), "See weather")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestTUIQuit(t *testing.T) {
	var m tea.Model = NewTUIModel(context.Background(), query.New(&fixedClient{}))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestTUIDoubleEnterStartsOneLookup(t *testing.T) {
	client := &fixedClient{result: domain.WeatherResult{City: "Oslo", Temperature: 2, Condition: "Snow"}}
	var m tea.Model = NewTUIModel(context.Background(), query.New(client))
	m = typeText(m, "Oslo")

	m, first := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, first)
	assert.Contains(t, m.View(), loadingText)

	m, second := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, second)

	m, _ = m.Update(first())
	assert.Equal(t, 1, client.calls)
	assert.Contains(t, m.View(), "Weather in Oslo")
	assert.NotContains(t, m.View(), loadingText)
}
