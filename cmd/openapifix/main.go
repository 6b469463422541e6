// Command openapifix drives the document correction pipeline: hydrate merges
// config fragments and translates placeholders, fix-names renames invalid
// schema identifiers and rewires their $refs, fix-paths and verify run the
// declarative rule battery. Every subcommand exits 0 when re-run against an
// already-corrected document, having made zero changes.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	openapifix "github.com/rafactx/openapi-fixer-v2"
	"github.com/rafactx/openapi-fixer-v2/codec"
	"github.com/rafactx/openapi-fixer-v2/hydrate"
	"github.com/rafactx/openapi-fixer-v2/rules"
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:           "openapifix",
		Short:         "Hydrate and fix OpenAPI documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.AddCommand(
		newHydrateCmd(&verbose),
		newFixNamesCmd(&verbose),
		newFixPathsCmd(&verbose),
		newVerifyCmd(&verbose),
	)
	return root
}

func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	lg, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return lg
}

func newHydrateCmd(verbose *bool) *cobra.Command {
	var configPath, dictPath, summariesPath string
	cmd := &cobra.Command{
		Use:   "hydrate <openapi.json>",
		Short: "Merge config fragments and translate placeholders",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			log := newLogger(*verbose)
			defer log.Sync()

			doc, err := codec.LoadDocument(args[0])
			if err != nil {
				return err
			}
			cfg, err := hydrate.LoadConfig(configPath)
			if err != nil {
				return err
			}
			var dict, summaries map[string]string
			if dictPath != "" {
				if dict, err = hydrate.LoadStringMap(dictPath); err != nil {
					return err
				}
			}
			if summariesPath != "" {
				if summaries, err = hydrate.LoadStringMap(summariesPath); err != nil {
					return err
				}
			}

			report, err := hydrate.New(cfg, nil, dict, summaries).Run(doc)
			if err != nil {
				return err
			}
			for _, iss := range report.Issues {
				log.Warn("hydration target skipped", zap.String("at", iss.Path), zap.String("reason", iss.Message))
			}
			log.Info("hydration complete",
				zap.Int("metadata", report.MetadataSet),
				zap.Int("securitySchemes", report.SchemesMerged),
				zap.Int("commonSchemas", report.SchemasMerged),
				zap.Bool("translated", report.Translated),
				zap.Int("summaries", report.SummariesSet),
				zap.Int("errorResponses", report.ErrorsAdded),
				zap.Int("parameterRefs", report.ParamRefsAdded),
				zap.Bool("tagsRebuilt", report.TagsRebuilt),
			)
			return saveIfChanged(log, args[0], doc, report.Changed())
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "hydration config YAML (required)")
	cmd.Flags().StringVar(&dictPath, "dict", "", "placeholder dictionary JSON")
	cmd.Flags().StringVar(&summariesPath, "summaries", "", "operationId summaries JSON")
	cmd.MarkFlagRequired("config")
	return cmd
}

func newFixNamesCmd(verbose *bool) *cobra.Command {
	var camelCase bool
	cmd := &cobra.Command{
		Use:   "fix-names <openapi.json>",
		Short: "Rename invalid schema identifiers and rewrite their $refs",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			log := newLogger(*verbose)
			defer log.Sync()

			doc, err := codec.LoadDocument(args[0])
			if err != nil {
				return err
			}
			opts := openapifix.NameFixOptions{}
			if camelCase {
				opts.Normalizer = openapifix.CamelCase
			}
			report, err := openapifix.FixNames(doc, opts)
			if err != nil {
				return err
			}
			for _, iss := range report.Skipped {
				log.Warn("rename target skipped", zap.String("at", iss.Path), zap.String("reason", iss.Message))
			}
			for from, to := range report.Renames {
				log.Debug("schema renamed", zap.String("from", from), zap.String("to", to))
			}
			log.Info("name fix complete",
				zap.Int("schemasRenamed", len(report.Renames)),
				zap.Int("refsRewritten", report.RefsRewrote),
			)
			return saveIfChanged(log, args[0], doc, report.Changed())
		},
	}
	cmd.Flags().BoolVar(&camelCase, "camel-case", false, "normalize names to CamelCase instead of stripping spaces")
	return cmd
}

func newFixPathsCmd(verbose *bool) *cobra.Command {
	var rulesPath string
	cmd := &cobra.Command{
		Use:   "fix-paths <openapi.json>",
		Short: "Apply semantic path corrections from a rule spec",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			log := newLogger(*verbose)
			defer log.Sync()
			return runRules(log, args[0], rulesPath, false)
		},
	}
	cmd.Flags().StringVar(&rulesPath, "rules", "", "rule spec YAML (required)")
	cmd.MarkFlagRequired("rules")
	return cmd
}

func newVerifyCmd(verbose *bool) *cobra.Command {
	var rulesPath string
	cmd := &cobra.Command{
		Use:   "verify <openapi.json>",
		Short: "Final correction pass plus convergence check and path-parameter audit",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			log := newLogger(*verbose)
			defer log.Sync()
			return runRules(log, args[0], rulesPath, true)
		},
	}
	cmd.Flags().StringVar(&rulesPath, "rules", "", "rule spec YAML (required)")
	cmd.MarkFlagRequired("rules")
	return cmd
}

// runRules applies the rule battery, re-verifies convergence, and saves the
// document only when something changed and verification passed.
func runRules(log *zap.Logger, docPath, rulesPath string, audit bool) error {
	doc, err := codec.LoadDocument(docPath)
	if err != nil {
		return err
	}
	engine, err := rules.LoadSpec(rulesPath)
	if err != nil {
		return err
	}

	report := engine.Apply(doc)
	for _, iss := range report.Issues {
		log.Warn("rule target skipped", zap.String("rule", iss.Rule), zap.String("target", iss.Path))
	}
	for _, rr := range report.Rules {
		log.Debug("rule applied",
			zap.String("rule", rr.ID),
			zap.Int("checked", rr.Checked),
			zap.Int("corrected", rr.Corrected),
			zap.Bool("skipped", rr.Skipped),
		)
	}
	if err := engine.Verify(doc); err != nil {
		return err
	}
	if audit {
		for _, iss := range rules.PathParamAudit(doc) {
			log.Warn("undeclared path parameter", zap.String("operation", iss.Path), zap.String("detail", iss.Message))
		}
	}
	log.Info("rule pass complete", zap.Int("corrections", report.TotalCorrected()))
	return saveIfChanged(log, docPath, doc, report.Changed())
}

func saveIfChanged(log *zap.Logger, path string, doc *openapifix.Node, changed bool) error {
	if !changed {
		log.Info("no changes, document left untouched", zap.String("path", path))
		return nil
	}
	if err := codec.SaveDocument(path, doc); err != nil {
		return err
	}
	log.Info("document saved", zap.String("path", path))
	return nil
}
