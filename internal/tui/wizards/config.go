package wizards

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"gopkg.in/yaml.v3"

	"github.com/pragermh/mol-mod-import/internal/config"
	"github.com/pragermh/mol-mod-import/pkg/asvdb"
)

// ConfigResult holds the result of the config wizard.
type ConfigResult struct {
	Cancelled bool
	Config    config.ProjectConfig
	SavePath  string
}

// ConfigWizard guides users through creating asvdb.yaml.
type ConfigWizard struct {
	step configStep

	// Connection info (from connection wizard or existing)
	connConfig asvdb.ConnectionConfig
	hasConn    bool

	// Import defaults
	encodings   []string
	encodingIdx int
	schemaInput textinput.Model
	annotations bool

	// Timeout
	timeout string

	// Result
	result ConfigResult

	// Dimensions
	width  int
	height int

	// Styles and keys
	styles wizardStyles
	keys   wizardKeys
}

type configStep int

const (
	configStepEncoding configStep = iota
	configStepSchema
	configStepAnnotations
	configStepTimeout
	configStepReview
	configStepDone
)

// NewConfigWizard creates a new config wizard.
func NewConfigWizard() ConfigWizard {
	schema := textinput.New()
	schema.SetValue(asvdb.DefaultSchema)
	schema.CharLimit = 64
	schema.Width = 40

	return ConfigWizard{
		step:        configStepEncoding,
		encodings:   []string{asvdb.EncodingUTF8, asvdb.EncodingLatin1, asvdb.EncodingMacRoman},
		schemaInput: schema,
		timeout:     "3m",
		width:       80,
		height:      24,
		styles:      defaultWizardStyles(),
		keys:        defaultWizardKeys(),
	}
}

// WithConnection sets the connection config (from connection wizard).
func (w ConfigWizard) WithConnection(cfg asvdb.ConnectionConfig) ConfigWizard {
	w.connConfig = cfg
	w.hasConn = true
	return w
}

// Init implements tea.Model.
func (w ConfigWizard) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (w ConfigWizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		w.height = msg.Height
		return w, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			w.result.Cancelled = true
			return w, tea.Quit
		}

		switch w.step {
		case configStepEncoding:
			return w.updateEncoding(msg)
		case configStepSchema:
			return w.updateSchema(msg)
		case configStepAnnotations:
			return w.updateAnnotations(msg)
		case configStepTimeout:
			return w.updateTimeout(msg)
		case configStepReview:
			return w.updateReview(msg)
		}
	}

	return w, nil
}

func (w ConfigWizard) updateEncoding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, w.keys.Up):
		if w.encodingIdx > 0 {
			w.encodingIdx--
		}
	case key.Matches(msg, w.keys.Down):
		if w.encodingIdx < len(w.encodings)-1 {
			w.encodingIdx++
		}
	case key.Matches(msg, w.keys.Select):
		w.step = configStepSchema
		return w, w.schemaInput.Focus()
	case key.Matches(msg, w.keys.Back):
		w.result.Cancelled = true
		return w, tea.Quit
	}
	return w, nil
}

func (w ConfigWizard) updateSchema(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, w.keys.Select):
		w.schemaInput.Blur()
		w.step = configStepAnnotations
	case key.Matches(msg, w.keys.Back):
		w.schemaInput.Blur()
		w.step = configStepEncoding
	default:
		var cmd tea.Cmd
		w.schemaInput, cmd = w.schemaInput.Update(msg)
		return w, cmd
	}
	return w, nil
}

func (w ConfigWizard) updateAnnotations(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, w.keys.Up), key.Matches(msg, w.keys.Down):
		w.annotations = !w.annotations
	case key.Matches(msg, w.keys.Select):
		w.step = configStepTimeout
	case key.Matches(msg, w.keys.Back):
		w.step = configStepSchema
		return w, w.schemaInput.Focus()
	}
	return w, nil
}

func (w ConfigWizard) updateTimeout(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "1":
		w.timeout = "1m"
	case "3":
		w.timeout = "3m"
	case "5":
		w.timeout = "5m"
	case "0":
		w.timeout = "10m"
	}

	switch {
	case key.Matches(msg, w.keys.Select), msg.String() == "n":
		w.step = configStepReview
	case key.Matches(msg, w.keys.Back):
		w.step = configStepAnnotations
	}
	return w, nil
}

func (w ConfigWizard) updateReview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, w.keys.Select):
		w.result.Config = w.buildConfig()
		w.result.SavePath = config.ConfigFileName
		w.step = configStepDone
		return w, tea.Quit
	case key.Matches(msg, w.keys.Back):
		w.step = configStepTimeout
	}
	return w, nil
}

func (w ConfigWizard) buildConfig() config.ProjectConfig {
	schema := w.schemaInput.Value()
	if schema == asvdb.DefaultSchema {
		schema = ""
	}
	encoding := w.encodings[w.encodingIdx]
	if encoding == asvdb.EncodingUTF8 {
		encoding = ""
	}

	var authMethod string
	switch w.connConfig.AuthMethod {
	case asvdb.AuthMethodAzureEntraID:
		authMethod = "azure"
	case asvdb.AuthMethodAWSIAM:
		authMethod = "aws"
	case asvdb.AuthMethodGoogleIAM:
		authMethod = "google"
	}

	return config.ProjectConfig{
		Connection: config.ConnectionConfig{
			Host:           w.connConfig.Host,
			Port:           w.connConfig.Port,
			Username:       w.connConfig.Username,
			Database:       w.connConfig.Database,
			SSLMode:        w.connConfig.SSLMode,
			AuthMethod:     authMethod,
			AzureTenantID:  w.connConfig.AzureTenantID,
			AzureClientID:  w.connConfig.AzureClientID,
			AWSRegion:      w.connConfig.AWSRegion,
			GoogleInstance: w.connConfig.GoogleInstance,
		},
		Import: config.ImportConfig{
			Encoding:    encoding,
			Schema:      schema,
			Annotations: w.annotations,
		},
		Timeout: w.timeout,
	}
}

// View implements tea.Model.
func (w ConfigWizard) View() string {
	var b strings.Builder

	b.WriteString(w.styles.Title.Render("asvdb - Configuration Builder"))
	b.WriteString("\n")

	if w.hasConn {
		b.WriteString(w.styles.Success.Render("✓ Connection: "))
		b.WriteString(fmt.Sprintf("%s:%d/%s", w.connConfig.Host, w.connConfig.Port, w.connConfig.Database))
		b.WriteString("\n\n")
	}

	switch w.step {
	case configStepEncoding:
		b.WriteString(w.viewEncoding())
	case configStepSchema:
		b.WriteString(w.viewSchema())
	case configStepAnnotations:
		b.WriteString(w.viewAnnotations())
	case configStepTimeout:
		b.WriteString(w.viewTimeout())
	case configStepReview:
		b.WriteString(w.viewReview())
	}

	return b.String()
}

func (w ConfigWizard) viewEncoding() string {
	var b strings.Builder

	b.WriteString(w.styles.Subtitle.Render("Default input encoding"))
	b.WriteString("\n")
	b.WriteString(w.styles.Description.Render("Encoding of the submission TSV files"))
	b.WriteString("\n\n")

	for i, enc := range w.encodings {
		style := w.styles.Unselected
		symbol := "○"
		if i == w.encodingIdx {
			style = w.styles.Selected
			symbol = "●"
		}
		b.WriteString("  ")
		b.WriteString(style.Render(symbol + " " + enc))
		b.WriteString("\n")
	}

	b.WriteString(w.styles.Help.Render("\n↑/↓ navigate • enter select • esc cancel"))

	return b.String()
}

func (w ConfigWizard) viewSchema() string {
	var b strings.Builder

	b.WriteString(w.styles.Subtitle.Render("Database schema"))
	b.WriteString("\n")
	b.WriteString(w.styles.Description.Render("Schema holding the ASV tables"))
	b.WriteString("\n\n")
	b.WriteString(w.styles.FocusedBox.Render(w.schemaInput.View()))
	b.WriteString("\n")
	b.WriteString(w.styles.Help.Render("\nenter continue • esc back"))

	return b.String()
}

func (w ConfigWizard) viewAnnotations() string {
	var b strings.Builder

	b.WriteString(w.styles.Subtitle.Render("Import taxon annotations by default?"))
	b.WriteString("\n\n")

	options := []struct {
		selected bool
		name     string
	}{
		{!w.annotations, "○ No"},
		{w.annotations, "○ Yes"},
	}
	for _, opt := range options {
		style := w.styles.Unselected
		name := opt.name
		if opt.selected {
			style = w.styles.Selected
			name = "●" + strings.TrimPrefix(name, "○")
		}
		b.WriteString("  ")
		b.WriteString(style.Render(name))
		b.WriteString("\n")
	}

	b.WriteString(w.styles.Help.Render("\n↑/↓ toggle • enter select • esc back"))

	return b.String()
}

func (w ConfigWizard) viewTimeout() string {
	var b strings.Builder

	b.WriteString(w.styles.Subtitle.Render("Timeout"))
	b.WriteString("\n")
	b.WriteString(w.styles.Description.Render("Maximum time for an import run (press 1, 3, 5, or 0 for 10m)"))
	b.WriteString("\n\n")

	timeouts := []string{"1m", "3m", "5m", "10m"}
	for _, t := range timeouts {
		style := w.styles.Unselected
		symbol := "○"
		if t == w.timeout {
			style = w.styles.Selected
			symbol = "●"
		}
		b.WriteString("  ")
		b.WriteString(style.Render(symbol + " " + t))
		b.WriteString("\n")
	}

	b.WriteString(w.styles.Help.Render("\n1/3/5/0 select • n next step • esc back"))

	return b.String()
}

func (w ConfigWizard) viewReview() string {
	var b strings.Builder

	b.WriteString(w.styles.Subtitle.Render("Review Configuration"))
	b.WriteString("\n\n")

	yamlBytes, _ := yaml.Marshal(w.buildConfig())
	for _, line := range strings.Split(string(yamlBytes), "\n") {
		b.WriteString(w.styles.Description.Render("  " + line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(w.styles.Help.Render("enter save to " + config.ConfigFileName + " • esc go back"))

	return b.String()
}

// Result returns the wizard result.
func (w ConfigWizard) Result() ConfigResult {
	return w.result
}

// SaveConfig saves the configuration to asvdb.yaml.
func (w ConfigWizard) SaveConfig(dir string) error {
	path := filepath.Join(dir, config.ConfigFileName)

	data, err := yaml.Marshal(w.result.Config)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// RunConfigWizard executes the config wizard with an existing connection.
func RunConfigWizard(connConfig asvdb.ConnectionConfig) (ConfigResult, error) {
	wizard := NewConfigWizard().WithConnection(connConfig)
	p := tea.NewProgram(wizard, tea.WithAltScreen())

	model, err := p.Run()
	if err != nil {
		return ConfigResult{Cancelled: true}, err
	}

	return model.(ConfigWizard).Result(), nil
}
