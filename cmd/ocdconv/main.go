package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/omaptools/ocdconv/internal/model"
	"github.com/omaptools/ocdconv/pkg/ocdconv"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ocdconv",
	Short: "Export map documents to OCD files",
	Long: `ocdconv is a tool for exporting vector map documents to OCD files.

It reads map documents in a JSON interchange format and writes OCD
files of versions 8 through 12, including symbol icons, the color
table and georeferencing.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug output")
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)
}

// settings are optional defaults loaded from a YAML file. Command line
// flags that were set explicitly take precedence.
type settings struct {
	Version  int    `yaml:"version"`
	Encoding string `yaml:"encoding"`
	Notes    string `yaml:"notes"`
}

func loadSettings(path string) (settings, error) {
	var s settings
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read settings file: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse settings file: %w", err)
	}
	return s, nil
}

// export command
var exportCmd = &cobra.Command{
	Use:   "export <input.json>",
	Short: "Export a map document to an OCD file",
	Long: `Export a map document to an OCD file.

Lossy conversions are reported as warnings on stderr. Use --quiet to
suppress them.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "Output file (required)")
	exportCmd.MarkFlagRequired("output")
	exportCmd.Flags().Int("format-version", 9, "OCD format version: 8, 9, 10, 11, 12")
	exportCmd.Flags().String("encoding", "", "8-bit string encoding for versions 8-10 (IANA name, default windows-1252)")
	exportCmd.Flags().String("settings", "", "YAML file with default export settings")
	exportCmd.Flags().BoolP("quiet", "q", false, "Suppress export warnings")
}

func runExport(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	outputPath, _ := cmd.Flags().GetString("output")
	formatVersion, _ := cmd.Flags().GetInt("format-version")
	encoding, _ := cmd.Flags().GetString("encoding")
	settingsPath, _ := cmd.Flags().GetString("settings")
	quiet, _ := cmd.Flags().GetBool("quiet")

	// Settings file fills in flags that were not set explicitly
	var notes string
	if settingsPath != "" {
		s, err := loadSettings(settingsPath)
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("format-version") && s.Version != 0 {
			formatVersion = s.Version
		}
		if !cmd.Flags().Changed("encoding") && s.Encoding != "" {
			encoding = s.Encoding
		}
		notes = s.Notes
	}

	m, view, err := loadMapFile(inputPath)
	if err != nil {
		return err
	}
	if notes != "" {
		m.Notes = notes
	}
	log.Debugf("loaded %s: %d colors, %d symbols, %d parts",
		inputPath, len(m.Colors), len(m.Symbols), len(m.Parts))

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer out.Close()

	warnings, err := ocdconv.ExportOCD(out, m, view, ocdconv.ExportOptions{
		Version:  formatVersion,
		Encoding: encoding,
	})
	if !quiet {
		for _, w := range warnings {
			log.Warn(w)
		}
	}
	if err != nil {
		var verr *ocdconv.VersionError
		if errors.As(err, &verr) {
			return fmt.Errorf("%w (supported: 8, 9, 10, 11, 12)", verr)
		}
		os.Remove(outputPath)
		return fmt.Errorf("export map: %w", err)
	}

	stat, err := out.Stat()
	if err != nil {
		return fmt.Errorf("stat output file: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Exported %s to %s (version %d, %d bytes)\n",
		inputPath, outputPath, formatVersion, stat.Size())

	return nil
}

func loadMapFile(path string) (*model.Map, *model.View, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open input file: %w", err)
	}
	defer f.Close()

	m, view, err := ocdconv.LoadMap(f)
	if err != nil {
		return nil, nil, fmt.Errorf("load map document: %w", err)
	}
	return m, view, nil
}

// info command
var infoCmd = &cobra.Command{
	Use:   "info <input.json>",
	Short: "Display map document information",
	Long: `Display metadata and statistics about a map document.

Shows scale, georeferencing, and counts of colors, symbols and
objects.`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	infoCmd.Flags().Bool("json", false, "Output as JSON")
	infoCmd.Flags().Bool("brief", false, "Show only summary")
}

func runInfo(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	jsonOutput, _ := cmd.Flags().GetBool("json")
	brief, _ := cmd.Flags().GetBool("brief")

	m, _, err := loadMapFile(inputPath)
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputInfoJSON(inputPath, m)
	}
	return outputInfoText(inputPath, m, brief)
}

// symbolCounts tallies symbols by kind.
type symbolCounts struct {
	point, line, area, text, combined int
}

func countSymbols(m *model.Map) symbolCounts {
	var c symbolCounts
	for _, s := range m.Symbols {
		switch s.(type) {
		case *model.PointSymbol:
			c.point++
		case *model.LineSymbol:
			c.line++
		case *model.AreaSymbol:
			c.area++
		case *model.TextSymbol:
			c.text++
		case *model.CombinedSymbol:
			c.combined++
		}
	}
	return c
}

func countObjects(m *model.Map) int {
	count := 0
	m.ApplyOnAllObjects(func(model.Object) { count++ })
	return count
}

func outputInfoText(path string, m *model.Map, brief bool) error {
	counts := countSymbols(m)
	objects := countObjects(m)

	if brief {
		fmt.Printf("%s: scale=1:%d colors=%d symbols=%d objects=%d parts=%d\n",
			path, m.Georef.ScaleDenominator, len(m.Colors), len(m.Symbols), objects, len(m.Parts))
		return nil
	}

	fmt.Printf("Map Document: %s\n", path)
	fmt.Println(strings.Repeat("=", 50))
	fmt.Println()

	fmt.Println("Georeferencing:")
	fmt.Printf("  Scale:            1:%d\n", m.Georef.ScaleDenominator)
	fmt.Printf("  Reference point:  %.1f, %.1f\n", m.Georef.RefPointX, m.Georef.RefPointY)
	fmt.Printf("  Grivation:        %.2f°\n", m.Georef.Grivation)
	fmt.Println()

	fmt.Println("Symbols:")
	fmt.Printf("  Point:            %d\n", counts.point)
	fmt.Printf("  Line:             %d\n", counts.line)
	fmt.Printf("  Area:             %d\n", counts.area)
	fmt.Printf("  Text:             %d\n", counts.text)
	fmt.Printf("  Combined:         %d\n", counts.combined)
	fmt.Printf("  Total:            %d\n", len(m.Symbols))
	fmt.Println()

	fmt.Printf("Colors:             %d", len(m.Colors))
	if m.UsesRegistrationColor() {
		fmt.Printf(" (+ registration black)")
	}
	fmt.Println()
	fmt.Printf("Objects:            %d in %d part(s)\n", objects, len(m.Parts))
	fmt.Println()

	if len(m.Symbols) > 0 && len(m.Symbols) <= 30 {
		fmt.Println("Symbol List:")
		for _, s := range m.Symbols {
			base := s.Base()
			fmt.Printf("  %d.%d %s (%s)\n", base.Number[0], base.Number[1], base.Name, symbolKind(s))
		}
		fmt.Println()
	}

	if m.Notes != "" {
		notes := m.Notes
		if len(notes) > 200 {
			notes = notes[:200] + "..."
		}
		fmt.Printf("Notes: %s\n", notes)
	}

	return nil
}

func symbolKind(s model.Symbol) string {
	switch s.(type) {
	case *model.PointSymbol:
		return "point"
	case *model.LineSymbol:
		return "line"
	case *model.AreaSymbol:
		return "area"
	case *model.TextSymbol:
		return "text"
	case *model.CombinedSymbol:
		return "combined"
	}
	return "unknown"
}

func outputInfoJSON(path string, m *model.Map) error {
	counts := countSymbols(m)

	symbols := make([]map[string]interface{}, len(m.Symbols))
	for i, s := range m.Symbols {
		base := s.Base()
		symbols[i] = map[string]interface{}{
			"number": fmt.Sprintf("%d.%d", base.Number[0], base.Number[1]),
			"name":   base.Name,
			"kind":   symbolKind(s),
		}
	}

	parts := make([]map[string]interface{}, len(m.Parts))
	for i, p := range m.Parts {
		parts[i] = map[string]interface{}{
			"name":    p.Name,
			"objects": len(p.Objects),
		}
	}

	info := map[string]interface{}{
		"file": path,
		"georeferencing": map[string]interface{}{
			"scale":     m.Georef.ScaleDenominator,
			"refX":      m.Georef.RefPointX,
			"refY":      m.Georef.RefPointY,
			"grivation": m.Georef.Grivation,
		},
		"counts": map[string]int{
			"colors":   len(m.Colors),
			"point":    counts.point,
			"line":     counts.line,
			"area":     counts.area,
			"text":     counts.text,
			"combined": counts.combined,
			"symbols":  len(m.Symbols),
			"objects":  countObjects(m),
			"parts":    len(m.Parts),
		},
		"symbols": symbols,
		"parts":   parts,
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(info)
}

// validate command
var validateCmd = &cobra.Command{
	Use:   "validate <input.json>",
	Short: "Validate a map document for OCD export",
	Long: `Validate a map document for OCD export.

Checks for structural issues and conditions that would be lossy or
fail during export.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().Bool("strict", false, "Fail on warnings")
	validateCmd.Flags().Int("format-version", 9, "Target OCD format version")
}

func runValidate(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	strict, _ := cmd.Flags().GetBool("strict")
	formatVersion, _ := cmd.Flags().GetInt("format-version")

	m, _, err := loadMapFile(inputPath)
	if err != nil {
		return err
	}

	v := newValidator(strict)
	v.validate(m, inputPath, formatVersion)
	v.printResults()

	if v.hasErrors() || (strict && v.hasWarnings()) {
		return fmt.Errorf("validation failed")
	}

	return nil
}

// validator holds validation state
type validator struct {
	strict   bool
	errors   []string
	warnings []string
	file     string
}

func newValidator(strict bool) *validator {
	return &validator{
		strict:   strict,
		errors:   make([]string, 0),
		warnings: make([]string, 0),
	}
}

func (v *validator) error(msg string, args ...interface{}) {
	v.errors = append(v.errors, fmt.Sprintf(msg, args...))
}

func (v *validator) warning(msg string, args ...interface{}) {
	v.warnings = append(v.warnings, fmt.Sprintf(msg, args...))
}

func (v *validator) hasErrors() bool {
	return len(v.errors) > 0
}

func (v *validator) hasWarnings() bool {
	return len(v.warnings) > 0
}

func (v *validator) validate(m *model.Map, file string, formatVersion int) {
	v.file = file

	switch formatVersion {
	case 8, 9, 10, 11, 12:
	default:
		v.error("Unsupported format version: %d (supported: 8-12)", formatVersion)
		return
	}

	v.validateColors(m, formatVersion)
	v.validateSymbols(m, formatVersion)
	v.validateObjects(m)
}

func (v *validator) validateColors(m *model.Map, formatVersion int) {
	if formatVersion == 8 {
		limit := 256
		if m.UsesRegistrationColor() {
			limit--
		}
		if len(m.Colors) > limit {
			v.error("Map has %d colors; version 8 supports at most %d", len(m.Colors), limit)
		}
	}
	if m.UsesRegistrationColor() {
		v.warning("Registration black will be exported as a regular color")
	}
	for i, c := range m.Colors {
		if c.Name == "" {
			v.warning("Color %d has no name", i)
		}
		if c.Opacity < 1 {
			v.warning("Color %d (%s): opacity is not supported and will be dropped", i, c.Name)
		}
	}
}

func (v *validator) validateSymbols(m *model.Map, formatVersion int) {
	if len(m.Symbols) == 0 {
		v.warning("No symbols defined")
		return
	}

	factor := 1000
	if formatVersion == 8 {
		factor = 100
	}
	seenNumbers := make(map[int]bool)
	for i, s := range m.Symbols {
		base := s.Base()
		key := base.Number[0]*factor + base.Number[1]%factor
		if seenNumbers[key] {
			v.warning("Symbol %d (%s): duplicate number %d.%d, a free number will be substituted",
				i, base.Name, base.Number[0], base.Number[1])
		}
		seenNumbers[key] = true
		if base.Number[1] >= factor {
			v.warning("Symbol %d (%s): minor number %d exceeds version %d range",
				i, base.Name, base.Number[1], formatVersion)
		}

		switch t := s.(type) {
		case *model.LineSymbol:
			if t.Color == nil && !t.HasBorder() {
				v.warning("Line symbol %s draws nothing", base.Name)
			}
		case *model.TextSymbol:
			if t.FontFamily == "" {
				v.warning("Text symbol %s has no font family", base.Name)
			}
			if t.InternalScaling == 0 {
				v.error("Text symbol %s has zero internal scaling", base.Name)
			}
		case *model.CombinedSymbol:
			if len(t.Parts) == 0 {
				v.warning("Combined symbol %s has no parts", base.Name)
			}
			if len(t.Parts) > 3 {
				v.warning("Combined symbol %s has %d parts and will not be fully exported",
					base.Name, len(t.Parts))
			}
			if formatVersion == 8 && len(t.Parts) == 2 {
				v.warning("Combined symbol %s: bordered areas are flattened in version 8", base.Name)
			}
		}
	}
}

func (v *validator) validateObjects(m *model.Map) {
	symbolSet := make(map[model.Symbol]bool)
	for _, s := range m.Symbols {
		symbolSet[s] = true
	}

	index := 0
	m.ApplyOnAllObjects(func(obj model.Object) {
		if obj.Symbol() == nil {
			v.error("Object %d has no symbol", index)
		} else if !symbolSet[obj.Symbol()] {
			v.error("Object %d references a symbol missing from the symbol list", index)
		}
		if text, ok := obj.(*model.TextObject); ok {
			if _, isText := text.Sym.(*model.TextSymbol); !isText {
				v.error("Object %d: text object with a non-text symbol", index)
			}
			if len(text.Lines) == 0 {
				v.warning("Object %d: text object without layout will be exported empty", index)
			}
		}
		index++
	})

	extent := m.CalculateExtent()
	if extent.IsValid() {
		bounds := model.RectFromPoints(model.PointF{X: -2000, Y: -2000}, model.PointF{X: 2000, Y: 2000})
		if !bounds.Contains(extent) {
			v.warning("Objects exceed the OCAD 8 drawing area (-2 m ... 2 m); coordinates will be adjusted")
		}
	}
}

func (v *validator) printResults() {
	fmt.Printf("Validating: %s\n", v.file)
	fmt.Println(strings.Repeat("=", 50))

	if len(v.errors) == 0 && len(v.warnings) == 0 {
		fmt.Println("✓ Valid map document - no issues found")
		return
	}

	if len(v.errors) > 0 {
		fmt.Printf("\nErrors (%d):\n", len(v.errors))
		for _, err := range v.errors {
			fmt.Printf("  ✗ %s\n", err)
		}
	}

	if len(v.warnings) > 0 {
		fmt.Printf("\nWarnings (%d):\n", len(v.warnings))
		for _, warn := range v.warnings {
			fmt.Printf("  ⚠ %s\n", warn)
		}
	}

	fmt.Println()
	if len(v.errors) > 0 {
		fmt.Printf("Validation failed: %d error(s)", len(v.errors))
		if len(v.warnings) > 0 {
			fmt.Printf(", %d warning(s)", len(v.warnings))
		}
		fmt.Println()
	} else if len(v.warnings) > 0 {
		fmt.Printf("Validation passed with %d warning(s)\n", len(v.warnings))
		if v.strict {
			fmt.Println("(use without --strict to ignore warnings)")
		}
	}
}

// version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ocdconv version %s\n", version)
		fmt.Printf("commit: %s\n", commit)
		fmt.Printf("built: %s\n", date)
	},
}
