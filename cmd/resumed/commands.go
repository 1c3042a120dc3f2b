package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kalambet/resumed/internal/config"
	"github.com/kalambet/resumed/internal/profile"
)

// --- profile ---

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or replace the stored profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored profile as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		return showProfile(cmd.Context(), client, os.Stdout)
	},
}

var profileSaveCmd = &cobra.Command{
	Use:   "save <file.json>",
	Short: "Replace the stored profile with the contents of a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		if err := saveProfile(cmd.Context(), client, args[0]); err != nil {
			return err
		}
		printSuccess("Profile saved from %s", args[0])
		return nil
	},
}

func init() {
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileSaveCmd)
}

func showProfile(ctx context.Context, c *apiClient, w io.Writer) error {
	resp, err := c.get(ctx, "/api/profile")
	if err != nil {
		return err
	}

	var doc any
	if err := decodeJSON(resp, &doc); err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func saveProfile(ctx context.Context, c *apiClient, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("reading profile: %w", err)
	}
	defer f.Close()

	doc, err := profile.Decode(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	resp, err := c.post(ctx, "/api/profile", doc)
	if err != nil {
		return err
	}
	var result map[string]string
	return decodeJSON(resp, &result)
}

// --- suggest ---

var suggestCmd = &cobra.Command{
	Use:   "suggest <text...>",
	Short: "Suggest an improved version of a resume bullet point",
	Example: `  resumed suggest "Worked on the billing service"
  resumed suggest Led migration to Postgres`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		return suggest(cmd.Context(), client, strings.Join(args, " "), os.Stdout)
	},
}

func suggest(ctx context.Context, c *apiClient, text string, w io.Writer) error {
	resp, err := c.post(ctx, "/api/suggest", map[string]string{"text": text})
	if err != nil {
		return err
	}

	var result struct {
		Suggestion string `json:"suggestion"`
	}
	if err := decodeJSON(resp, &result); err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, result.Suggestion)
	return err
}

// --- tailor ---

var tailorCmd = &cobra.Command{
	Use:   "tailor",
	Short: "Tailor a resume to a job description",
	Long: `Tailor a resume to a job description.

The resume may be a PDF (its text layer is extracted) or a plain text file.

Examples:
  resumed tailor --job posting.txt --resume resume.pdf
  resumed tailor --job posting.txt --resume resume.md --out tailored.md`,
	RunE: func(cmd *cobra.Command, args []string) error {
		jobPath, _ := cmd.Flags().GetString("job")
		resumePath, _ := cmd.Flags().GetString("resume")
		outPath, _ := cmd.Flags().GetString("out")

		if jobPath == "" || resumePath == "" {
			return fmt.Errorf("--job and --resume are required")
		}

		job, err := os.ReadFile(jobPath)
		if err != nil {
			return fmt.Errorf("reading job description: %w", err)
		}
		resume, err := readResumeFile(resumePath)
		if err != nil {
			return err
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		printStep("Tailoring %s (this can take a while on a local model)...", resumePath)

		if outPath == "" {
			return tailor(cmd.Context(), client, string(job), resume, os.Stdout)
		}
		if err := tailorToFile(cmd.Context(), client, string(job), resume, outPath); err != nil {
			return err
		}
		printSuccess("Tailored resume written to %s", outPath)
		return nil
	},
}

func init() {
	tailorCmd.Flags().String("job", "", "file containing the job description")
	tailorCmd.Flags().String("resume", "", "resume file (.pdf or text)")
	tailorCmd.Flags().String("out", "", "output file path (default: stdout)")
}

func tailor(ctx context.Context, c *apiClient, job, resume string, w io.Writer) error {
	resp, err := c.post(ctx, "/api/generate-resume", map[string]string{
		"jobDescription": job,
		"baseResume":     resume,
	})
	if err != nil {
		return err
	}

	var result struct {
		GeneratedResume string `json:"generatedResume"`
	}
	if err := decodeJSON(resp, &result); err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, result.GeneratedResume)
	return err
}

// tailorToFile writes the tailored resume to path only once the server has
// answered, so a failed request leaves an existing file untouched.
func tailorToFile(ctx context.Context, c *apiClient, job, resume, path string) error {
	var buf bytes.Buffer
	if err := tailor(ctx, c, job, resume, &buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	return nil
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		printConfig(os.Stdout, config.ShowAll(cfg))
		return nil
	},
}

func printConfig(w io.Writer, keys []config.KeyInfo) {
	for _, k := range keys {
		if k.FromEnv {
			fmt.Fprintf(w, "  %s = %s  (from $%s)\n", colorize(colorBold, k.Key), k.Value, k.EnvVar)
		} else {
			fmt.Fprintf(w, "  %s = %s  [$%s]\n", colorize(colorBold, k.Key), k.Value, k.EnvVar)
		}
	}
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long:  "Set a configuration value.\n\nValid keys: " + strings.Join(config.ValidKeys(), ", "),
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
