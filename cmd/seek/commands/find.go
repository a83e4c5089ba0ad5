package commands

import (
	"encoding/json"
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/seek/internal/app"
	"go.trai.ch/seek/internal/core/domain"
	"go.trai.ch/zerr"
)

func (c *CLI) newFindCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find [root]",
		Short: "Find the source entity matching a signature",
		Long: `Find walks root (default ".") for source files, ranks them against the
signature and returns the best candidate whose exports pass structural
validation. Signature fields can be given as flags, as JSON with --signature,
or both; flags override JSON fields.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sig, err := signatureFromFlags(cmd)
			if err != nil {
				return err
			}

			configPath, _ := cmd.Flags().GetString("config")
			noCache, _ := cmd.Flags().GetBool("no-cache")
			loose, _ := cmd.Flags().GetBool("loose")
			asJSON, _ := cmd.Flags().GetBool("json")

			res, err := c.app.Find(cmd.Context(), rootArg(args), sig, app.FindOptions{
				ConfigPath: configPath,
				NoCache:    noCache,
				Loose:      loose,
			})
			if err != nil {
				var exh *domain.ExhaustionError
				if errors.As(err, &exh) {
					c.renderExhaustion(exh, asJSON)
				}
				return err
			}

			if asJSON {
				return writeJSON(c.stdout, res)
			}
			c.renderResolution(res)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.String("name", "", "Entity name, or /regex/flags")
	flags.String("type", "", "Entity kind: class, function, object or module")
	flags.String("exports", "", `Export name, or "default"`)
	flags.StringSlice("methods", nil, "Required method names")
	flags.StringSlice("properties", nil, "Required property names")
	flags.String("extends", "", "Required ancestor class")
	flags.String("instanceof", "", "Required ancestor class, including the class itself")
	flags.String("language", "", "Restrict candidates to one language")
	flags.String("signature", "", "Signature as JSON, or @file to read it from a file")
	flags.BoolP("no-cache", "n", false, "Bypass the resolution cache")
	flags.Bool("json", false, "Print results as JSON")
	flags.Bool("loose", false, "Allow files whose names do not match the signature")
	return cmd
}

// signatureFromFlags decodes --signature, then overlays every signature flag that was set.
func signatureFromFlags(cmd *cobra.Command) (domain.Signature, error) {
	flags := cmd.Flags()
	var sig domain.Signature

	if raw, _ := flags.GetString("signature"); raw != "" {
		data := []byte(raw)
		if file, ok := strings.CutPrefix(raw, "@"); ok {
			var err error
			data, err = os.ReadFile(file) //nolint:gosec // path is provided by user
			if err != nil {
				return sig, zerr.With(zerr.Wrap(err, "failed to read signature file"), "path", file)
			}
		}
		if err := json.Unmarshal(data, &sig); err != nil {
			return sig, zerr.Wrap(err, domain.ErrInvalidSignature.Error())
		}
	}

	if flags.Changed("name") {
		v, _ := flags.GetString("name")
		name, err := domain.ParseNamePattern(v)
		if err != nil {
			return sig, zerr.Wrap(err, domain.ErrInvalidSignature.Error())
		}
		sig.Name = name
	}
	if flags.Changed("type") {
		v, _ := flags.GetString("type")
		sig.Type = domain.Kind(v)
	}
	if flags.Changed("methods") {
		sig.Methods, _ = flags.GetStringSlice("methods")
	}
	if flags.Changed("properties") {
		sig.Properties, _ = flags.GetStringSlice("properties")
	}
	for flag, dst := range map[string]*string{
		"exports":    &sig.Exports,
		"extends":    &sig.Extends,
		"instanceof": &sig.InstanceOf,
		"language":   &sig.Language,
	} {
		if flags.Changed(flag) {
			*dst, _ = flags.GetString(flag)
		}
	}
	return sig, nil
}
