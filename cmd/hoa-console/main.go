package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170")).
			Bold(true).
			PaddingLeft(2)

	normalStyle = lipgloss.NewStyle().
			PaddingLeft(4)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	codeStyle = lipgloss.NewStyle().
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2)
)

type step int

const (
	stepEnteringEmail step = iota
	stepEnteringPassword
	stepLoggingIn
	stepLoadingProperties
	stepSelectingProperty
	stepGenerating
	stepShowingCode
)

type model struct {
	api          *apiClient
	step         step
	email        string
	password     string
	adminID      uint
	token        string
	properties   []property
	cursor       int
	code         *overwriteCode
	currentInput string
	message      string
	quitting     bool
}

func initialModel(api *apiClient) model {
	return model{api: api, step: stepEnteringEmail}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) inputStep() bool {
	return m.step == stepEnteringEmail || m.step == stepEnteringPassword
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "q":
			if !m.inputStep() {
				m.quitting = true
				return m, tea.Quit
			}
			m.currentInput += msg.String()

		case "up", "k":
			if m.step == stepSelectingProperty && m.cursor > 0 {
				m.cursor--
			} else if m.inputStep() && msg.String() == "k" {
				m.currentInput += "k"
			}

		case "down", "j":
			if m.step == stepSelectingProperty && m.cursor < len(m.properties)-1 {
				m.cursor++
			} else if m.inputStep() && msg.String() == "j" {
				m.currentInput += "j"
			}

		case "backspace":
			if len(m.currentInput) > 0 {
				m.currentInput = m.currentInput[:len(m.currentInput)-1]
			}

		case "enter":
			switch m.step {
			case stepEnteringEmail:
				if m.currentInput != "" {
					m.email = m.currentInput
					m.currentInput = ""
					m.step = stepEnteringPassword
				}

			case stepEnteringPassword:
				if m.currentInput != "" {
					m.password = m.currentInput
					m.currentInput = ""
					m.step = stepLoggingIn
					m.message = "Logging in..."
					return m, m.api.login(m.email, m.password)
				}

			case stepSelectingProperty:
				if len(m.properties) > 0 {
					p := m.properties[m.cursor]
					m.step = stepGenerating
					m.message = fmt.Sprintf("Generating code for %s...", p.Title)
					return m, m.api.generateCode(m.token, p.ID)
				}

			case stepShowingCode:
				m.code = nil
				m.message = ""
				m.step = stepSelectingProperty
			}

		default:
			if m.inputStep() && msg.Type == tea.KeyRunes {
				m.currentInput += msg.String()
			}
		}

	case loginSuccessMsg:
		m.adminID = msg.userID
		m.token = msg.token
		m.password = ""
		m.step = stepLoadingProperties
		m.message = successStyle.Render("✓ Logged in as " + m.email)
		return m, m.api.properties(m.token, m.adminID)

	case propertiesMsg:
		m.properties = []property(msg)
		m.cursor = 0
		m.step = stepSelectingProperty

	case codeMsg:
		code := overwriteCode(msg)
		m.code = &code
		m.step = stepShowingCode
		m.message = successStyle.Render("✓ Overwrite code issued")

	case errMsg:
		m.message = errorStyle.Render("✗ " + msg.err.Error())
		switch m.step {
		case stepLoggingIn, stepLoadingProperties:
			m.step = stepEnteringEmail
		case stepGenerating:
			m.step = stepSelectingProperty
		}
	}

	return m, nil
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("HOA Admin Console"))
	s.WriteString("\n")

	switch m.step {
	case stepEnteringEmail:
		if m.message != "" {
			s.WriteString(m.message + "\n\n")
		}
		s.WriteString(promptStyle.Render("Admin email:") + "\n")
		s.WriteString(inputStyle.Render("> " + m.currentInput))
		s.WriteString("\n\nPress Enter\n")

	case stepEnteringPassword:
		s.WriteString(promptStyle.Render("Password:") + "\n")
		s.WriteString(inputStyle.Render("> " + strings.Repeat("•", len(m.currentInput))))
		s.WriteString("\n\nPress Enter\n")

	case stepLoggingIn, stepLoadingProperties, stepGenerating:
		s.WriteString(m.message + "\n")

	case stepSelectingProperty:
		if m.message != "" {
			s.WriteString(m.message + "\n\n")
		}
		if len(m.properties) == 0 {
			s.WriteString("You do not manage any properties yet.\n\n(Press q to quit)\n")
			break
		}
		s.WriteString(promptStyle.Render("Issue an overwrite code for all units of:") + "\n\n")
		for i, p := range m.properties {
			cursor := " "
			style := normalStyle
			if m.cursor == i {
				cursor = ">"
				style = selectedStyle
			}
			s.WriteString(fmt.Sprintf("%s %s (%d units, %d occupied)\n", cursor, style.Render(p.Title), p.TotalUnits, p.OccupiedUnits))
		}
		s.WriteString("\nUse ↑/↓, Enter to generate, q to quit\n")

	case stepShowingCode:
		s.WriteString(m.message + "\n\n")
		s.WriteString(codeStyle.Render(m.code.Code) + "\n")
		s.WriteString(fmt.Sprintf("Expires %s\n", m.code.ExpiresAt.Local().Format("Jan 2, 2006 15:04")))
		s.WriteString("\nPress Enter to go back, q to quit\n")
	}

	return s.String()
}

func main() {
	defaultURL := os.Getenv("HOA_API_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:3000"
	}
	apiURL := flag.String("api", defaultURL, "base URL of the HOA API")
	flag.Parse()

	p := tea.NewProgram(initialModel(newAPIClient(strings.TrimRight(*apiURL, "/"))))
	if _, err := p.Run(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
