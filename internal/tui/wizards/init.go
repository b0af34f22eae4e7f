package wizards

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pragermh/mol-mod-import/internal/config"
)

// InitResult holds the result of the init wizard.
type InitResult struct {
	Cancelled   bool
	TargetDir   string
	SetupConfig bool
	ConnResult  ConnectionResult
}

// InitWizard guides users through project setup: it confirms the target
// directory, optionally runs the connection wizard inline, and leaves the
// caller with everything needed to write asvdb.yaml and .env.
type InitWizard struct {
	step initStep

	// Target directory
	targetDir string
	blocking  []string

	// Config setup choice
	setupConfig bool

	// Embedded connection wizard, active once the user opts in.
	connActive bool
	connWizard *ConnectionWizard

	// Result
	result InitResult

	// Dimensions
	width  int
	height int

	// Styles and keys
	styles wizardStyles
	keys   wizardKeys
}

type initStep int

const (
	initStepDirectory initStep = iota
	initStepSetupChoice
	initStepComplete
)

// NewInitWizard creates a new init wizard.
func NewInitWizard(targetDir string) InitWizard {
	if targetDir == "" {
		targetDir = "."
	}
	return InitWizard{
		step:      initStepDirectory,
		targetDir: targetDir,
		blocking:  checkDirBlocking(targetDir),
		width:     80,
		height:    24,
		styles:    defaultWizardStyles(),
		keys:      defaultWizardKeys(),
	}
}

// Init implements tea.Model.
func (w InitWizard) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (w InitWizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if sizeMsg, ok := msg.(tea.WindowSizeMsg); ok {
		w.width = sizeMsg.Width
		w.height = sizeMsg.Height
	}

	// Once the connection wizard is active, everything flows through it.
	if w.connActive {
		return w.updateConnection(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, w.keys.Quit) {
			w.result.Cancelled = true
			return w, tea.Quit
		}

		switch w.step {
		case initStepDirectory:
			return w.updateDirectory(msg)
		case initStepSetupChoice:
			return w.updateSetupChoice(msg)
		}
	}

	return w, nil
}

func (w InitWizard) updateDirectory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, w.keys.Select):
		if len(w.blocking) > 0 {
			return w, nil
		}
		w.step = initStepSetupChoice
	case key.Matches(msg, w.keys.Back):
		w.result.Cancelled = true
		return w, tea.Quit
	}
	return w, nil
}

func (w InitWizard) updateSetupChoice(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, w.keys.Up), key.Matches(msg, w.keys.Down):
		w.setupConfig = !w.setupConfig
	case key.Matches(msg, w.keys.Select):
		w.result.SetupConfig = w.setupConfig
		w.result.TargetDir = w.targetDir
		if !w.setupConfig {
			w.step = initStepComplete
			return w, tea.Quit
		}
		conn := NewConnectionWizard()
		w.connWizard = &conn
		w.connActive = true
		return w, w.connWizard.Init()
	case key.Matches(msg, w.keys.Back):
		w.step = initStepDirectory
	}
	return w, nil
}

func (w InitWizard) updateConnection(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.connWizard.Update(msg)
	updated, ok := model.(ConnectionWizard)
	if !ok {
		return w, cmd
	}
	*w.connWizard = updated

	// The connection wizard quits when confirmed or cancelled. Either way
	// the combined wizard is done.
	if updated.step == stepDone || updated.result.Cancelled {
		w.result.ConnResult = updated.Result()
		w.step = initStepComplete
		return w, tea.Quit
	}
	return w, cmd
}

// View implements tea.Model.
func (w InitWizard) View() string {
	if w.connActive {
		return w.connWizard.View()
	}

	var b strings.Builder

	b.WriteString(w.styles.Title.Render("asvdb init - Project Setup"))
	b.WriteString("\n")

	switch w.step {
	case initStepDirectory:
		b.WriteString(w.viewDirectory())
	case initStepSetupChoice:
		b.WriteString(w.viewSetupChoice())
	case initStepComplete:
		b.WriteString(w.viewComplete())
	}

	return b.String()
}

func (w InitWizard) viewDirectory() string {
	var b strings.Builder

	absPath, _ := filepath.Abs(w.targetDir)
	b.WriteString(w.styles.Subtitle.Render("Target directory"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Directory: %s\n", absPath))

	if len(w.blocking) > 0 {
		b.WriteString("\n")
		b.WriteString(w.styles.Error.Render("Directory is not empty:"))
		b.WriteString("\n")
		for _, f := range w.blocking {
			b.WriteString(w.styles.Description.Render("  " + f))
			b.WriteString("\n")
		}
		b.WriteString(w.styles.Help.Render("\nchoose an empty directory • esc cancel"))
		return b.String()
	}

	b.WriteString(w.styles.Help.Render("\nenter continue • esc cancel"))

	return b.String()
}

func (w InitWizard) viewSetupChoice() string {
	var b strings.Builder

	b.WriteString(w.styles.Subtitle.Render("Configure database connection now?"))
	b.WriteString("\n\n")

	options := []struct {
		selected bool
		name     string
		desc     string
	}{
		{!w.setupConfig, "No, I'll configure later", "Creates a placeholder " + config.ConfigFileName},
		{w.setupConfig, "Yes, set up connection (recommended)", "Configure " + config.ConfigFileName + " with your database settings"},
	}

	for _, opt := range options {
		cursor := "  "
		style := w.styles.Unselected
		symbol := "○"

		if opt.selected {
			cursor = ""
			style = w.styles.Selected
			symbol = "●"
		}

		b.WriteString(cursor)
		b.WriteString(style.Render(symbol + " " + opt.name))
		b.WriteString("\n")
		b.WriteString(w.styles.Description.Render(opt.desc))
		b.WriteString("\n")
	}

	b.WriteString(w.styles.Help.Render("\n↑/↓ toggle • enter select • esc back"))

	return b.String()
}

func (w InitWizard) viewComplete() string {
	var b strings.Builder

	b.WriteString(w.styles.Success.Render("✓ Ready to create project"))
	b.WriteString("\n\n")

	absPath, _ := filepath.Abs(w.targetDir)
	b.WriteString(fmt.Sprintf("Directory: %s\n", absPath))

	if w.result.SetupConfig {
		b.WriteString("\nAfter creation, you'll configure the database connection.\n")
	}

	b.WriteString(w.styles.Help.Render("\nenter create project • esc cancel"))

	return b.String()
}

// Result returns the wizard result.
func (w InitWizard) Result() InitResult {
	return w.result
}

// RunInitWizard executes the init wizard.
func RunInitWizard(targetDir string) (InitResult, error) {
	wizard := NewInitWizard(targetDir)
	p := tea.NewProgram(wizard, tea.WithAltScreen())

	model, err := p.Run()
	if err != nil {
		return InitResult{Cancelled: true}, err
	}

	return model.(InitWizard).Result(), nil
}

// ShowInitComplete displays the completion message after project creation.
func ShowInitComplete(targetDir string, files []string) {
	absPath, _ := filepath.Abs(targetDir)

	fmt.Println()
	fmt.Println("✓ Project created successfully!")
	fmt.Println()
	fmt.Printf("%s/\n", absPath)

	for _, f := range files {
		rel, _ := filepath.Rel(targetDir, f)
		fmt.Printf("├── %s\n", rel)
	}

	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Printf("  1. cd %s\n", targetDir)
	fmt.Println("  2. Review the connection settings in " + config.ConfigFileName)
	fmt.Println("  3. Run: asvdb import --input <submission dir> --dataset-id <id>")
	fmt.Println()
}

// checkDirBlocking returns the entries that prevent initializing into dir.
// Files this tool manages itself do not count as blocking.
func checkDirBlocking(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	managed := map[string]bool{
		config.ConfigFileName: true,
		".env":                true,
	}

	var blocking []string
	for _, e := range entries {
		if !managed[e.Name()] {
			blocking = append(blocking, e.Name())
		}
	}
	return blocking
}
