package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Nda25/anees/internal/api"
	"github.com/Nda25/anees/internal/content"
	"github.com/Nda25/anees/internal/logging"
	"github.com/Nda25/anees/internal/render"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one piece of content and print it",
	Long: `Run a single generation through the full pipeline and print the result.

Actions: explain, example, example2, practice, solve. Solve takes the
question with --question, or reuses the last practice question of the
session when it is omitted.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringP("action", "a", "explain", "Action: explain, example, example2, practice or solve")
	generateCmd.Flags().StringP("concept", "c", "", "Physics concept, in Arabic")
	generateCmd.Flags().String("subject", "", "Subject (default الفيزياء)")
	generateCmd.Flags().StringP("question", "q", "", "Question to solve")
	generateCmd.Flags().StringP("formula", "f", "", "Preferred formula to show first")
	generateCmd.Flags().StringP("session", "s", "", "Session key for duplicate avoidance")
	generateCmd.Flags().Bool("json", false, "Print the API response envelope instead of formatted text")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// Keep the terminal for the content; only warnings reach stderr.
	log, err := logging.New("development", "warn")
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return fmt.Errorf("resolve database path: %w", err)
	}

	d, err := buildDeps(cmd.Context(), dbPath, cfg, log)
	if err != nil {
		return err
	}
	defer d.Close()

	action, _ := cmd.Flags().GetString("action")
	req := content.Request{Action: content.Kind(action)}
	req.Concept, _ = cmd.Flags().GetString("concept")
	req.Subject, _ = cmd.Flags().GetString("subject")
	req.Question, _ = cmd.Flags().GetString("question")
	req.PreferredFormula, _ = cmd.Flags().GetString("formula")
	req.Session, _ = cmd.Flags().GetString("session")

	res, err := d.tutor.Generate(cmd.Context(), req)
	if err != nil {
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			_, body := api.StatusFor(err)
			_ = writeJSON(cmd, body)
		}
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(cmd, api.NewSuccess(res))
	}

	theme := render.PlainTheme()
	if isTerminal(os.Stdout) {
		theme = render.ColorTheme()
	}
	st := render.Status{
		Accepted: res.Accepted,
		Attempts: res.Attempts,
		Stage:    string(res.Stage),
		Provider: res.Provider,
	}
	if res.Rejection != nil {
		st.Rejection = res.Rejection.Error()
	}
	fmt.Fprintln(cmd.OutOrStdout(), render.New(theme).Content(res.Content, st))
	return nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
